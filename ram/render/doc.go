// Package render turns a RAM tree into textual plan documents. One generic
// traversal owns the scoping discipline; a Notation supplies every token, so
// the two output dialects cannot drift structurally.
package render

import "strings"

const indentGroup = "   "

// Node is one rendered construct: its own line(s) plus indented children.
// Multiple lines on one node share its indentation; debug commentary and
// statement compaction use that.
type Node struct {
	Lines    []string
	Children []*Node
}

// Leaf reports whether the node is a single plain line with nothing nested,
// the shape eligible for guard compaction.
func (n *Node) Leaf() bool {
	return len(n.Lines) == 1 && len(n.Children) == 0
}

func (n *Node) write(sb *strings.Builder, prefix string) {
	for _, line := range n.Lines {
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, child := range n.Children {
		child.write(sb, prefix+indentGroup)
	}
}

// Document is an ordered rendered program, one top-level node per
// subroutine in render order.
type Document struct {
	Nodes []*Node
}

// String renders the document, subroutines separated by a blank line.
func (d *Document) String() string {
	var sb strings.Builder
	for i, node := range d.Nodes {
		if i > 0 {
			sb.WriteByte('\n')
		}
		node.write(&sb, "")
	}
	return sb.String()
}
