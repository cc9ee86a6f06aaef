package graph

// ClaimToken is a pointer-equal representative of a claim group, typically
// a file-context. The file/context stack (package filestack) mints these;
// the identity layer never constructs one itself, it only carries pointers
// around. Equality is by pointer identity, matching the C++ original's
// `GetClass()`-keyed comparison.
type ClaimToken struct {
	// Discriminator is a human-readable tag used by StampIdentity; it has
	// no bearing on equality, which is always by pointer identity.
	Discriminator string

	// Base carries the corpus/root/path/language of the file this token
	// was minted for. Decorate copies these fields into VNames built from
	// NodeIds that carry this token, the way KytheClaimToken::DecorateVName
	// copies a pushed file's addressing onto every node scoped to it.
	Base VName
}

// DefaultClaimToken is the token used for nodes with no file affiliation
// (builtins, names, and other claim-independent entities).
var DefaultClaimToken = &ClaimToken{Discriminator: ""}

// StampIdentity renders identity stamped with this token's discriminator,
// mirroring ClaimToken::StampIdentity in the original GraphObserver.
func (t *ClaimToken) StampIdentity(identity string) string {
	if t == nil || t.Discriminator == "" {
		return identity
	}
	return identity + "@" + t.Discriminator
}

// Decorate copies this token's corpus/root/path onto v, and its language
// when the token's base sets one, leaving v's signature untouched.
func (t *ClaimToken) Decorate(v VName) VName {
	if t == nil {
		return v
	}
	v.Corpus = t.Base.Corpus
	v.Root = t.Base.Root
	v.Path = t.Base.Path
	if t.Base.Language != "" {
		v.Language = t.Base.Language
	}
	return v
}

// NodeId is a local identity: a claim token plus an identity string.
// Two NodeIds are equal iff both the token pointer and the identity string
// are equal.
type NodeId struct {
	Token    *ClaimToken
	Identity string
}

// NewNodeId creates a NodeId under the default (file-independent) claim
// token.
func NewNodeId(identity string) NodeId {
	return NodeId{Token: DefaultClaimToken, Identity: identity}
}

// ToString returns the identity body alone, without the claim token.
func (n NodeId) ToString() string { return n.Identity }

// ToClaimedString returns a string representation that includes the claim
// token's discriminator.
func (n NodeId) ToClaimedString() string {
	return n.Token.StampIdentity(n.Identity)
}

// Equal reports whether n and other refer to the same node: same claim
// token pointer and same identity string.
func (n NodeId) Equal(other NodeId) bool {
	return n.Token == other.Token && n.Identity == other.Identity
}
