package graph

// Claimability determines whether an edge may be dropped by claim
// arbitration. An edge marked Unclaimable must always be emitted,
// regardless of which translation unit is responsible for the anchor it
// touches.
type Claimability int

const (
	Claimable Claimability = iota
	Unclaimable
)
