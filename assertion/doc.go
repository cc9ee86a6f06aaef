// Package assertion parses logic programs embedded in magic-prefixed
// comment lines ("//-" by default) into goal groups the verifier package
// can solve against a fact database.
//
// Grounded on original_source/cxx/verifier/assertions.{h,cc}: the magic
// comment classifier (NextLexCheck), the ordinary-line buffering used to
// resolve forward anchor/offset references (AppendToLine, ResolveLocations),
// the uppercase-starts-an-EVar identifier rule (CreateAtom), and the
// GoalGroup acceptance policies (kNoneMayFail / kSomeMustFail) all carry
// over; the LALR grammar driven by flex/bison there is replaced here with
// a hand-written line-oriented lexer and recursive-descent parser, since Go
// has no bundled parser-generator toolchain in this pack.
package assertion
