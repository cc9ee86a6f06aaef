package claim

import (
	"testing"

	"github.com/xrefgraph/xref/graph"
)

func TestArbiter_DecideFileClaimCachesDecision(t *testing.T) {
	client := NewStaticClaimClient()
	claimant := graph.VName{Corpus: "acme", Path: "tu1.cc"}
	owner := graph.VName{Corpus: "acme", Path: "tu2.cc"}
	fileVName := graph.VName{Corpus: "acme", Path: "shared.h"}
	client.AssignClaim(fileVName, owner)

	a := NewArbiter(client, claimant)

	claimed := a.DecideFileClaim(graph.FileID(1), fileVName)
	if claimed {
		t.Error("claimant does not own shared.h, DecideFileClaim should return false")
	}

	// Subsequent ClaimLocation queries read the cache, not the client.
	if a.ClaimLocation(graph.FileID(1), true) {
		t.Error("ClaimLocation should reflect the cached false decision")
	}
}

func TestArbiter_ClaimLocation_InvalidAlwaysClaimed(t *testing.T) {
	a := NewArbiter(NewStaticClaimClient(), graph.VName{Path: "tu.cc"})
	if !a.ClaimLocation(graph.FileID(42), false) {
		t.Error("an invalid location must always be claimed")
	}
}

func TestArbiter_ClaimLocation_UnpushedFileDefaultsUnclaimed(t *testing.T) {
	a := NewArbiter(NewStaticClaimClient(), graph.VName{Path: "tu.cc"})
	if a.ClaimLocation(graph.FileID(7), true) {
		t.Error("a fileID with no recorded push decision must default to unclaimed")
	}
}

func TestArbiter_ClaimRange_PhysicalDelegatesToLocation(t *testing.T) {
	client := NewStaticClaimClient()
	claimant := graph.VName{Path: "tu.cc"}
	fileVName := graph.VName{Path: "p.cc"}
	a := NewArbiter(client, claimant)
	a.DecideFileClaim(graph.FileID(1), fileVName) // client has no assignment -> claimed by default

	r := graph.NewPhysicalRange(graph.FileID(1), 0, 1)
	if !a.ClaimRange(r) {
		t.Error("ClaimRange should delegate to ClaimLocation for a Physical range")
	}
}

func TestArbiter_ClaimRange_WraithClaimedViaContext(t *testing.T) {
	client := NewStaticClaimClient()
	claimant := graph.VName{Path: "tu.cc"}
	ctx := graph.NewNodeId("N#t")
	client.AssignClaim(graph.VNameFromNodeId(ctx), claimant)

	a := NewArbiter(client, claimant)
	// Deliberately do not push the file: the context claim alone should
	// make ClaimRange true even though the location is unclaimed.
	r := graph.NewWraithRange(graph.FileID(99), 0, 1, ctx)

	if !a.ClaimRange(r) {
		t.Error("ClaimRange should be satisfied by claiming the Wraith context node")
	}
}

func TestArbiter_ClaimNode_DelegatesToClient(t *testing.T) {
	client := NewStaticClaimClient()
	claimant := graph.VName{Path: "tu.cc"}
	other := graph.VName{Path: "tu2.cc"}
	node := graph.NewNodeId("X#t")
	client.AssignClaim(graph.VNameFromNodeId(node), other)

	a := NewArbiter(client, claimant)
	if a.ClaimNode(node) {
		t.Error("ClaimNode should report false when another claimant owns the node")
	}
}

func TestStaticClaimClient_UnknownVNameDefaultsToProcess(t *testing.T) {
	client := NewStaticClaimClient()
	claimant := graph.VName{Path: "tu.cc"}
	unassigned := graph.VName{Path: "whatever.h"}

	if !client.Claim(claimant, unassigned) {
		t.Error("an unassigned VName should default to processed by every claimant")
	}

	client.SetProcessUnknownStatus(false)
	if client.Claim(claimant, unassigned) {
		t.Error("after SetProcessUnknownStatus(false), unassigned VNames should be unclaimed")
	}
}

func TestStaticClaimClient_Status(t *testing.T) {
	client := NewStaticClaimClient()
	if _, ok := client.Status("missing.h"); ok {
		t.Error("Status for an unregistered path should report not-found")
	}
	client.AssignStatus("p.h", "uid-1")
	uid, ok := client.Status("p.h")
	if !ok || uid != "uid-1" {
		t.Errorf("Status(p.h) = (%q, %v), want (%q, true)", uid, ok, "uid-1")
	}
}
