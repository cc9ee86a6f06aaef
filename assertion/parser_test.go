package assertion

import "testing"

func findFact(goals []AstNode, pred func(*Fact) bool) (*Fact, bool) {
	for _, g := range goals {
		if f, ok := g.(*Fact); ok && pred(f) {
			return f, true
		}
	}
	return nil, false
}

func TestClassifyLine_MagicAndOrdinary(t *testing.T) {
	p := NewParser("//-")

	if magic, rest := p.classifyLine("//- foo bar"); !magic || rest != " foo bar" {
		t.Errorf("got (%v, %q), want (true, %q)", magic, rest, " foo bar")
	}
	if magic, _ := p.classifyLine("  //- indented"); !magic {
		t.Error("leading whitespace before the prefix should still classify as magic")
	}
	if magic, _ := p.classifyLine("int x = 1;"); magic {
		t.Error("ordinary source line misclassified as magic")
	}
	if magic, _ := p.classifyLine("//not quite"); magic {
		t.Error("partial prefix match should not classify as magic")
	}
}

func TestCreateAtom_CaseDeterminesEVarVsIdentifier(t *testing.T) {
	p := NewParser("//-")

	if _, ok := p.createAtom("Foo").(*EVar); !ok {
		t.Error("uppercase-leading atom should become an EVar")
	}
	if _, ok := p.createAtom("foo").(*Identifier); !ok {
		t.Error("lowercase-leading atom should become an Identifier")
	}
}

func TestCreateAtom_RepeatedSpellingsShareNode(t *testing.T) {
	p := NewParser("//-")

	a := p.createAtom("Foo")
	b := p.createAtom("Foo")
	if a != b {
		t.Error("repeated EVar spellings should intern to the same node")
	}

	x := p.createAtom("bar")
	y := p.createAtom("bar")
	if x != y {
		t.Error("repeated Identifier spellings should intern to the same node")
	}
}

func TestCreateDontCare_AlwaysFresh(t *testing.T) {
	p := NewParser("//-")

	a := p.createDontCare()
	b := p.createDontCare()
	if a == b {
		t.Error("each '_' occurrence must produce a distinct anonymous EVar")
	}
}

func TestParseString_SimpleEdgeFact(t *testing.T) {
	p := NewParser("//-")
	prog, ok := p.ParseString("//- Anchor defines/binding VarDecl\n", "test")
	if !ok {
		t.Fatalf("parse failed: %v", p.Errors())
	}

	f, found := findFact(prog.Groups[0].Goals, func(f *Fact) bool {
		id, ok := f.EdgeKind.(*Identifier)
		return ok && id.Text == "/xref/edge/defines/binding"
	})
	if !found {
		t.Fatalf("no defines/binding edge fact found among %d goals", len(prog.Groups[0].Goals))
	}
	if _, ok := f.Source.(*EVar); !ok {
		t.Error("lhs of an edge fact with an uppercase token should be an EVar")
	}
}

func TestParseString_EdgeFactWithOrdinal(t *testing.T) {
	p := NewParser("//-")
	prog, ok := p.ParseString("//- Func param.0 Arg\n", "test")
	if !ok {
		t.Fatalf("parse failed: %v", p.Errors())
	}

	f, found := findFact(prog.Groups[0].Goals, func(f *Fact) bool {
		key, ok := f.Key.(*Identifier)
		return ok && key.Text == "/xref/ordinal"
	})
	if !found {
		t.Fatal("no ordinal fact emitted for param.0")
	}
	val, ok := f.Value.(*Identifier)
	if !ok || val.Text != "0" {
		t.Errorf("ordinal value = %v, want Identifier(0)", f.Value)
	}
}

func TestParseString_NodeFact(t *testing.T) {
	p := NewParser("//-")
	prog, ok := p.ParseString("//- VarDecl.node/kind variable\n", "test")
	if !ok {
		t.Fatalf("parse failed: %v", p.Errors())
	}

	_, found := findFact(prog.Groups[0].Goals, func(f *Fact) bool {
		key, ok := f.Key.(*Identifier)
		val, ok2 := f.Value.(*Identifier)
		return ok && ok2 && key.Text == "/xref/node/kind" && val.Text == "variable"
	})
	if !found {
		t.Fatal("no node/kind fact emitted for VarDecl.node/kind variable")
	}
}

func TestParseString_GoalGroupNegation(t *testing.T) {
	p := NewParser("//-")
	prog, ok := p.ParseString("//- !{ A clashes/with B }\n", "test")
	if !ok {
		t.Fatalf("parse failed: %v", p.Errors())
	}
	if len(prog.Groups) != 2 {
		t.Fatalf("groups = %d, want 2 (implicit top-level + one explicit)", len(prog.Groups))
	}
	if prog.Groups[1].Accept != SomeMustFail {
		t.Error("negated group should carry the SomeMustFail policy")
	}
	if len(prog.Groups[1].Goals) != 1 {
		t.Errorf("goals in group = %d, want 1", len(prog.Groups[1].Goals))
	}
}

func TestParseString_NestedGoalGroupIsAnError(t *testing.T) {
	p := NewParser("//-")
	_, ok := p.ParseString("//- { A rel B, !{ C rel D } }\n", "test")
	if ok {
		t.Fatal("nested goal groups must fail parsing")
	}
}

func TestParseString_InspectionOfNonEVarIsAnError(t *testing.T) {
	p := NewParser("//-")
	_, ok := p.ParseString(`//- "x"? notAnEVar` + "\n", "test")
	if ok {
		t.Fatal("inspecting a non-EVar should record a parse error")
	}
}

func TestParseString_InspectionOfEVarIsRecorded(t *testing.T) {
	p := NewParser("//-")
	prog, ok := p.ParseString(`//- "x"? Foo` + "\n", "test")
	if !ok {
		t.Fatalf("parse failed: %v", p.Errors())
	}
	if len(prog.Inspections) != 1 || prog.Inspections[0].ID != "x" {
		t.Fatalf("inspections = %v, want one entry with id %q", prog.Inspections, "x")
	}
}

// Anchor resolution: @tok in a magic line binds to the file byte offset of
// "tok" in the following ordinary source line.
func TestParseString_AnchorResolvesAgainstFollowingLine(t *testing.T) {
	p := NewParser("//-")
	content := "//- @foo defines/binding V\nint foo = 1;\n"
	prog, ok := p.ParseString(content, "test")
	if !ok {
		t.Fatalf("parse failed: %v", p.Errors())
	}

	_, hasStart := findFact(prog.Groups[0].Goals, func(f *Fact) bool {
		key, ok := f.Key.(*Identifier)
		val, ok2 := f.Value.(*Identifier)
		return ok && ok2 && key.Text == "/xref/loc/start" && val.Text == "31"
	})
	if !hasStart {
		t.Fatal("expected a loc/start fact at offset 31 (27 bytes of magic line plus \"int \")")
	}
	_, hasEnd := findFact(prog.Groups[0].Goals, func(f *Fact) bool {
		key, ok := f.Key.(*Identifier)
		val, ok2 := f.Value.(*Identifier)
		return ok && ok2 && key.Text == "/xref/loc/end" && val.Text == "34"
	})
	if !hasEnd {
		t.Fatal("expected a loc/end fact at offset 34")
	}
}

func TestParseString_AnchorNotFoundIsAnError(t *testing.T) {
	p := NewParser("//-")
	_, ok := p.ParseString("//- @missing defines/binding V\nsomething else entirely\n", "test")
	if ok {
		t.Fatal("an anchor token absent from the following line must fail parsing")
	}
}

func TestParseString_AnchorAmbiguousIsAnError(t *testing.T) {
	p := NewParser("//-")
	_, ok := p.ParseString("//- @foo defines/binding V\nfoo foo\n", "test")
	if ok {
		t.Fatal("an anchor token appearing twice on the following line must fail parsing")
	}
}

func TestParseString_OffsetSpecsResolveDistinctly(t *testing.T) {
	p := NewParser("//-")
	content := "//- B = @^foo, E = @$foo\nabc foo def\n"
	prog, ok := p.ParseString(content, "test")
	if !ok {
		t.Fatalf("parse failed: %v", p.Errors())
	}
	var b, e *Equality
	for _, g := range prog.Groups[0].Goals {
		eq, ok := g.(*Equality)
		if !ok {
			continue
		}
		switch eq.LHS.(*EVar).Name {
		case "B":
			b = eq
		case "E":
			e = eq
		}
	}
	if b == nil || e == nil {
		t.Fatalf("expected two equality goals binding B and E, got %d goals", len(prog.Groups[0].Goals))
	}
	// The magic line is 24 bytes plus its newline, so "foo" starts at 25+4.
	if b.RHS.(*EVar).Current().(*Identifier).Text != "29" {
		t.Errorf("begin offset = %v, want 29", b.RHS.(*EVar).Current())
	}
	if e.RHS.(*EVar).Current().(*Identifier).Text != "32" {
		t.Errorf("end offset = %v, want 32", e.RHS.(*EVar).Current())
	}
}

func TestPathIdentifierFor(t *testing.T) {
	cases := []struct{ frag, root, want string }{
		{"", "/kythe/", "/"},
		{"node/kind", "/kythe/", "/kythe/node/kind"},
		{"/already/absolute", "/kythe/", "/already/absolute"},
	}
	for _, c := range cases {
		if got := pathIdentifierFor(c.frag, c.root); got != c.want {
			t.Errorf("pathIdentifierFor(%q, %q) = %q, want %q", c.frag, c.root, got, c.want)
		}
	}
}
