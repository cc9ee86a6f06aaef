package claim

import (
	"sync"

	"github.com/xrefgraph/xref/graph"
)

// StaticClaimClient makes claim decisions from a precomputed table:
// AssignClaim records ahead of time which claimant owns a claimable
// VName; Claim then looks up that assignment, falling back to
// ProcessUnknownStatus for VNames no one was assigned.
//
// Grounded on KytheClaimClient.{h,cc}'s StaticClaimClient.
type StaticClaimClient struct {
	mu                   sync.Mutex
	table                map[string]graph.VName
	statuses             map[string]string
	processUnknownStatus bool
}

// NewStaticClaimClient builds a StaticClaimClient that, absent any
// AssignClaim call for a given VName, lets every claimant process it
// (ProcessUnknownStatus defaults to true, matching the original).
func NewStaticClaimClient() *StaticClaimClient {
	return &StaticClaimClient{
		table:                make(map[string]graph.VName),
		statuses:             make(map[string]string),
		processUnknownStatus: true,
	}
}

// Claim reports whether claimant matches the claimant assigned to vname
// via AssignClaim, or ProcessUnknownStatus if none was assigned.
func (c *StaticClaimClient) Claim(claimant, vname graph.VName) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	assigned, ok := c.table[vname.String()]
	if !ok {
		return c.processUnknownStatus
	}
	return assigned == claimant
}

// AssignClaim assigns responsibility for claimable to claimant.
func (c *StaticClaimClient) AssignClaim(claimable, claimant graph.VName) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table[claimable.String()] = claimant
}

// SetProcessUnknownStatus controls whether VNames with no assigned
// claimant are processed by every claimant (true, the default) or by
// none.
func (c *StaticClaimClient) SetProcessUnknownStatus(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processUnknownStatus = v
}

// AssignStatus registers the filesystem-unique id for path, consulted by
// Status. Drivers populate this before indexing begins.
func (c *StaticClaimClient) AssignStatus(path, uid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[path] = uid
}

// Status resolves path to its registered filesystem-unique id.
func (c *StaticClaimClient) Status(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	uid, ok := c.statuses[path]
	return uid, ok
}
