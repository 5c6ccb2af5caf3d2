package ram

import "testing"

func TestStratumFromName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  int
		expectErr bool
	}{
		{name: "simple", input: "stratum_0", expected: 0},
		{name: "with suffix", input: "stratum_12_path", expected: 12},
		{name: "multi segment suffix", input: "stratum_3_a_b_c", expected: 3},
		{name: "no underscore", input: "main", expectErr: true},
		{name: "non numeric segment", input: "stratum_path_0", expectErr: true},
		{name: "empty segment", input: "stratum__0", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := StratumFromName(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %d", tt.input, n)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, n)
			}
		})
	}
}

func TestRenderOrder(t *testing.T) {
	prog := &Program{Subroutines: []Subroutine{
		{Name: "stratum_2_c", Stratum: 2},
		{Name: "stratum_0_a", Stratum: 0},
		{Name: "stratum_1_b", Stratum: 1},
		{Name: "stratum_1_a", Stratum: 1},
	}}

	ordered := prog.RenderOrder()
	expected := []string{"stratum_0_a", "stratum_1_b", "stratum_1_a", "stratum_2_c"}
	for i, name := range expected {
		if ordered[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, ordered[i].Name)
		}
	}

	// Declaration order is untouched.
	if prog.Subroutines[0].Name != "stratum_2_c" {
		t.Error("RenderOrder mutated the declaration order")
	}
}

func TestRelationString(t *testing.T) {
	r := Relation{Name: "graph.edge", Attrs: []Attribute{
		{Name: "x", Type: "number"},
		{Name: "label", Type: "symbol"},
	}}
	expected := "graph.edge(x:number, label:symbol)"
	if r.String() != expected {
		t.Errorf("expected %q, got %q", expected, r.String())
	}
}

func TestGenerationTagSpelling(t *testing.T) {
	if got := (RelationRef{Tag: TagCurrent, Name: "path"}).String(); got != "@delta_path" {
		t.Errorf("got %q", got)
	}
	if got := (RelationRef{Name: "path"}).String(); got != "path" {
		t.Errorf("got %q", got)
	}
}

func TestValueString(t *testing.T) {
	v := Value{Kind: ValueMap, Entries: []MapEntry{
		{Key: "operation", Val: StringVal("input")},
		{Key: "count", Val: IntVal(3)},
	}}
	expected := `{"operation": "input", "count": 3}`
	if v.String() != expected {
		t.Errorf("expected %s, got %s", expected, v.String())
	}

	if StringVal("a\tb").Text() != "a\tb" {
		t.Error("Text must return the bare string content")
	}
}
