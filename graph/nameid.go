package graph

// NameEqClass distinguishes the equivalence classes of names that matter
// for cross-reference purposes.
type NameEqClass int

const (
	NameClassNone NameEqClass = iota
	NameClassUnion
	NameClassClass
	NameClassMacro
)

func (c NameEqClass) suffix() string {
	switch c {
	case NameClassUnion:
		return "u"
	case NameClassClass:
		return "c"
	case NameClassMacro:
		return "m"
	default:
		return "n"
	}
}

// NameId is a logical name independent of any file: no corpus, root, or
// path. It is converted into a VName whose signature is its canonical
// spelling and whose remaining fields are empty.
type NameId struct {
	Path    string
	EqClass NameEqClass
}

// String renders the NameId's canonical spelling, including its
// equivalence class suffix, so that two NameIds with the same Path but
// different EqClass remain distinguishable.
func (n NameId) String() string {
	return n.Path + "#" + n.EqClass.suffix()
}

// ToVName converts a NameId into the VName under which its `name` node is
// recorded: corpus, root, and path are empty; the signature is the
// canonical spelling. Language is still stamped "c++", matching
// KytheGraphObserver::RecordName — only corpus/root/path are
// name-independent.
func (n NameId) ToVName() VName {
	return VName{Signature: n.String(), Language: "c++"}
}
