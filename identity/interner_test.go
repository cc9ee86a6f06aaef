package identity

import (
	"testing"

	"github.com/xrefgraph/xref/graph"
)

func TestRecordNominalType_DedupByIdentity(t *testing.T) {
	in := New()
	name := graph.NameId{Path: "c:@S@Widget", EqClass: graph.NameClassClass}

	id1, novel1 := in.RecordNominalType(name)
	id2, novel2 := in.RecordNominalType(name)

	if !novel1 {
		t.Error("first RecordNominalType should be novel")
	}
	if novel2 {
		t.Error("second RecordNominalType for same name should not be novel")
	}
	if id1 != id2 {
		t.Errorf("NodeId mismatch: %v != %v", id1, id2)
	}
	if id1.Identity != "c:@S@Widget#c#t" {
		t.Errorf("Identity = %q, want %q", id1.Identity, "c:@S@Widget#c#t")
	}
}

func TestRecordNominalType_DistinctNamesDistinctNodes(t *testing.T) {
	in := New()
	a := graph.NameId{Path: "c:@S@Widget", EqClass: graph.NameClassClass}
	b := graph.NameId{Path: "c:@S@Gadget", EqClass: graph.NameClassClass}

	idA, _ := in.RecordNominalType(a)
	idB, _ := in.RecordNominalType(b)

	if idA == idB {
		t.Errorf("expected distinct NodeIds, got %v for both", idA)
	}
}

func TestRecordTypeAlias(t *testing.T) {
	in := New()
	alias := graph.NameId{Path: "c:@T@MyInt", EqClass: graph.NameClassNone}
	aliased := graph.NewNodeId("int#builtin")

	id1, novel1 := in.RecordTypeAlias(alias, aliased)
	_, novel2 := in.RecordTypeAlias(alias, aliased)

	if !novel1 || novel2 {
		t.Errorf("novelty = (%v, %v), want (true, false)", novel1, novel2)
	}
	if id1.Identity != "talias(c:@T@MyInt#n,int#builtin)" {
		t.Errorf("Identity = %q", id1.Identity)
	}
}

func TestRecordTapp_OrderSensitive(t *testing.T) {
	in := New()
	tycon := graph.NewNodeId("vector#t")
	p1 := graph.NewNodeId("int#builtin")
	p2 := graph.NewNodeId("float#builtin")

	forward := in.RecordTapp(tycon, []graph.NodeId{p1, p2})

	in2 := New()
	reversed := in2.RecordTapp(tycon, []graph.NodeId{p2, p1})

	if forward.Id == reversed.Id {
		t.Error("tapp identity must be order-sensitive over params")
	}
	if !forward.Novel {
		t.Error("first recording of a tapp should be novel")
	}
}

func TestRecordTapp_DedupExactMatch(t *testing.T) {
	in := New()
	tycon := graph.NewNodeId("vector#t")
	params := []graph.NodeId{graph.NewNodeId("int#builtin")}

	r1 := in.RecordTapp(tycon, params)
	r2 := in.RecordTapp(tycon, params)

	if !r1.Novel {
		t.Error("first tapp recording should be novel")
	}
	if r2.Novel {
		t.Error("repeated tapp recording should not be novel")
	}
	if r1.Id != r2.Id {
		t.Errorf("NodeId mismatch across repeated recordings: %v != %v", r1.Id, r2.Id)
	}
}

func TestRecordTapp_NoParams(t *testing.T) {
	in := New()
	tycon := graph.NewNodeId("unit#t")

	r := in.RecordTapp(tycon, nil)

	if r.Id.Identity != "unit#t()" {
		t.Errorf("Identity = %q, want %q", r.Id.Identity, "unit#t()")
	}
}

func TestRecordName_AtMostOncePerRun(t *testing.T) {
	in := New()
	name := graph.NameId{Path: "c:@F@foo", EqClass: graph.NameClassNone}

	if !in.RecordName(name) {
		t.Error("first RecordName should report novel")
	}
	if in.RecordName(name) {
		t.Error("second RecordName for same name should report already-written")
	}
}
