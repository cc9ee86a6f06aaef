// Package claim decides, for one translation unit, which locations,
// ranges, and nodes it is responsible for emitting, so that many
// translation units can independently index a shared header without
// duplicating its facts.
//
// Grounded on original_source/cxx/indexer/cxx/KytheClaimClient.{h,cc} and
// the claimLocation/claimRange/claimNode methods of KytheGraphObserver.
package claim

import "github.com/xrefgraph/xref/graph"

// ClaimClient decides which translation unit is responsible for a given
// VName, and resolves filesystem identity for paths the file stack
// consults while pushing inclusions.
type ClaimClient interface {
	// Claim reports whether claimant is responsible for vname.
	Claim(claimant, vname graph.VName) bool
	// Status resolves path to a filesystem-unique id, or reports that no
	// such file is known.
	Status(path string) (uid string, exists bool)
}

// Arbiter decides, on behalf of one translation unit (claimant), which
// locations, ranges, and nodes this run must emit. File-claim decisions
// are made exactly once per push and cached by FileID; every other query
// is either a pure function over that cache or a direct delegation to the
// claim client.
type Arbiter struct {
	client    ClaimClient
	claimant  graph.VName
	fileClaim map[graph.FileID]bool
}

// NewArbiter builds an Arbiter that attributes claims to claimant and
// consults client for claim and status decisions.
func NewArbiter(client ClaimClient, claimant graph.VName) *Arbiter {
	return &Arbiter{
		client:    client,
		claimant:  claimant,
		fileClaim: make(map[graph.FileID]bool),
	}
}

// DecideFileClaim asks the claim client whether this run is responsible
// for vname (the context-amended VName of a just-pushed file), caches the
// answer under fileID, and returns it. The file stack calls this exactly
// once per push_file.
func (a *Arbiter) DecideFileClaim(fileID graph.FileID, vname graph.VName) bool {
	claimed := a.client.Claim(a.claimant, vname)
	a.fileClaim[fileID] = claimed
	return claimed
}

// ClaimLocation reports whether this run is responsible for the file
// identified by fileID. An invalid location is trivially claimed, since
// there is no file to gate on. A fileID with no recorded push decision is
// conservatively unclaimed.
func (a *Arbiter) ClaimLocation(fileID graph.FileID, valid bool) bool {
	if !valid {
		return true
	}
	claimed, ok := a.fileClaim[fileID]
	if !ok {
		return false
	}
	return claimed
}

// ClaimRange reports whether this run is responsible for r: true if r is
// a Wraith range whose context this run claims, or if this run claims
// r's underlying file location.
func (a *Arbiter) ClaimRange(r graph.Range) bool {
	if r.Kind == graph.RangeWraith && a.ClaimNode(r.Context) {
		return true
	}
	return a.ClaimLocation(r.FileID, true)
}

// ClaimNode reports whether this run is responsible for n, delegating to
// the claim client against n's VName.
func (a *Arbiter) ClaimNode(n graph.NodeId) bool {
	return a.client.Claim(a.claimant, graph.VNameFromNodeId(n))
}

// ClaimVName reports whether this run is responsible for v directly,
// bypassing NodeId construction — used for anchors whose primary target
// is already a plain VName (a file, or an interned name) rather than a
// NodeId.
func (a *Arbiter) ClaimVName(v graph.VName) bool {
	return a.client.Claim(a.claimant, v)
}
