package xref

// ExtendsEdgeKind projects an (access, virtual) pair onto one of the eight
// extends* edge kinds. AccessSpecifier values map onto the three qualified
// forms; any other value (e.g. default public inheritance with no explicit
// specifier) maps onto the unqualified extends[/virtual] forms, preserving
// the round trip required by spec.md S5/8.6.
func ExtendsEdgeKind(access AccessSpecifier, isVirtual bool, hasAccess bool) EdgeKind {
	if !hasAccess {
		if isVirtual {
			return EdgeExtendsVirtual
		}
		return EdgeExtends
	}
	switch access {
	case AccessPublic:
		if isVirtual {
			return EdgeExtendsPublicVirtual
		}
		return EdgeExtendsPublic
	case AccessProtected:
		if isVirtual {
			return EdgeExtendsProtectedVirtual
		}
		return EdgeExtendsProtected
	case AccessPrivate:
		if isVirtual {
			return EdgeExtendsPrivateVirtual
		}
		return EdgeExtendsPrivate
	default:
		if isVirtual {
			return EdgeExtendsVirtual
		}
		return EdgeExtends
	}
}
