package souffle

import (
	"fmt"
	"strings"

	"github.com/ramlens/ramlens/ram"
)

// ParseDeclarations extracts the schema catalog from transformed Datalog
// text: every `.decl name(attr: type, ...)` line becomes a relation schema.
// Everything else in the source (rules, directives, comments) is skipped.
// Primitive attribute types are number, symbol, unsigned and float; any
// other type name is kept verbatim, covering record and ADT typed columns.
func ParseDeclarations(src string) (ram.Catalog, error) {
	catalog := make(ram.Catalog)

	for lineNo, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, ".decl ") {
			continue
		}

		rel, err := parseDecl(strings.TrimPrefix(line, ".decl "))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		catalog[rel.Name] = rel
	}
	return catalog, nil
}

func parseDecl(decl string) (ram.Relation, error) {
	open := strings.IndexByte(decl, '(')
	if open < 0 {
		return ram.Relation{}, fmt.Errorf("malformed declaration %q: missing '('", decl)
	}
	close := strings.IndexByte(decl, ')')
	if close < open {
		return ram.Relation{}, fmt.Errorf("malformed declaration %q: missing ')'", decl)
	}

	name := strings.TrimSpace(decl[:open])
	if name == "" {
		return ram.Relation{}, fmt.Errorf("malformed declaration %q: empty relation name", decl)
	}

	rel := ram.Relation{Name: name}
	attrList := strings.TrimSpace(decl[open+1 : close])
	if attrList == "" {
		return rel, nil
	}

	for _, attr := range strings.Split(attrList, ",") {
		parts := strings.SplitN(attr, ":", 2)
		if len(parts) != 2 {
			return ram.Relation{}, fmt.Errorf("malformed attribute %q in declaration of %s", strings.TrimSpace(attr), name)
		}
		rel.Attrs = append(rel.Attrs, ram.Attribute{
			Name: strings.TrimSpace(parts[0]),
			Type: strings.TrimSpace(parts[1]),
		})
	}
	return rel, nil
}
