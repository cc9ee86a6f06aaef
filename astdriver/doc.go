// Package astdriver is the concrete "external AST driver" that
// observer.GraphObserver treats as a collaborator: it walks a C/C++
// translation unit with a tree-sitter parse tree and turns declarations,
// definitions, and references into GraphObserver calls.
//
// Grounded on processor/ast/parser.go and processor/ast/ts/parser.go's
// split between a recursive-descent extractor (for Go's own ast package)
// and a tree-sitter-cursor walker (for TypeScript/JavaScript): this
// package follows the tree-sitter shape, pointed at the cpp grammar
// instead, since C/C++ has no standard-library AST like go/ast.
package astdriver
