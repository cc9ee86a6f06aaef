package astdriver

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/xrefgraph/xref/graph"
	"github.com/xrefgraph/xref/observer"
	"github.com/xrefgraph/xref/vocabulary/xref"
)

// walker carries the state one IndexFile call threads through the
// recursive descent: the observer being driven, the file's claim token
// and FileID, the source buffer ranges are measured against, and the
// running extraction counts reported back as an IndexResult.
type walker struct {
	obs    observer.GraphObserver
	tok    *graph.ClaimToken
	fileID graph.FileID
	source []byte
	result *IndexResult

	calleeR map[string]bool // scratch set reused per function body scan
}

func (w *walker) rangeOf(n *sitter.Node) graph.Range {
	return graph.NewPhysicalRange(w.fileID, graph.Offset(n.StartByte()), graph.Offset(n.EndByte()))
}

func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(source)
}

// walkTranslationUnit processes the root node's direct declarations,
// entering namespace scopes as it finds them.
func (w *walker) walkTranslationUnit(root *sitter.Node) {
	w.walkScopeBody(root, scope{})
}

// walkScopeBody processes every child of a translation_unit, namespace
// body, or class/struct/union body in order, dispatching each
// declaration-shaped child to its extractor. access tracks the
// currently-visible C++ access specifier for class/struct bodies; it is
// ignored (always public) outside of one.
func (w *walker) walkScopeBody(body *sitter.Node, sc scope) {
	access := xref.AccessPublic
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "access_specifier":
			access = parseAccessSpecifier(nodeText(child, w.source))
		case "namespace_definition":
			w.extractNamespace(child, sc)
		case "function_definition":
			w.extractFunction(child, sc)
		case "struct_specifier", "class_specifier", "union_specifier":
			w.extractRecord(child, sc, access)
		case "enum_specifier":
			w.extractEnum(child, sc)
		case "field_declaration":
			w.extractFieldOrGlobal(child, sc, access)
		case "declaration":
			w.extractFieldOrGlobal(child, sc, access)
		case "preproc_include":
			w.extractInclude(child)
		}
	}
}

func parseAccessSpecifier(text string) xref.AccessSpecifier {
	switch {
	case strings.HasPrefix(text, "private"):
		return xref.AccessPrivate
	case strings.HasPrefix(text, "protected"):
		return xref.AccessProtected
	default:
		return xref.AccessPublic
	}
}

func (w *walker) extractNamespace(n *sitter.Node, sc scope) {
	nameNode := n.ChildByFieldName("name")
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	inner := sc
	if nameNode != nil {
		inner = sc.child(nodeText(nameNode, w.source))
	}
	w.walkScopeBody(body, inner)
}

func (w *walker) extractInclude(n *sitter.Node) {
	pathNode := n.ChildByFieldName("path")
	if pathNode == nil {
		return
	}
	included := strings.Trim(nodeText(pathNode, w.source), `"<>`)
	target := graph.VName{Path: included, Language: "c++"}
	w.obs.RecordIncludesRange(w.rangeOf(n), target)
}

// declaratorIdentifier descends through pointer/reference/array/
// function/init declarator wrappers to the leaf identifier node that
// names the declared entity.
func declaratorIdentifier(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "identifier", "field_identifier", "type_identifier", "destructor_name", "operator_name", "qualified_identifier":
			return n
		case "pointer_declarator", "reference_declarator", "array_declarator", "init_declarator", "function_declarator", "parenthesized_declarator":
			next := n.ChildByFieldName("declarator")
			if next == nil {
				return nil
			}
			n = next
		default:
			return nil
		}
	}
	return nil
}

// functionDeclaratorOf finds the function_declarator node nested inside
// declarator, looking through pointer/reference wrappers for functions
// that return a pointer or reference.
func functionDeclaratorOf(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "function_declarator":
			return n
		case "pointer_declarator", "reference_declarator":
			n = n.ChildByFieldName("declarator")
		default:
			return nil
		}
	}
	return nil
}

func (w *walker) extractFunction(n *sitter.Node, sc scope) {
	declarator := n.ChildByFieldName("declarator")
	fnDeclarator := functionDeclaratorOf(declarator)
	if fnDeclarator == nil {
		return
	}
	nameNode := declaratorIdentifier(fnDeclarator.ChildByFieldName("declarator"))
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, w.source)
	qualified := sc.qualifiedName(name)

	node := entityID(w.tok, "func", qualified)
	w.obs.RecordFunctionNode(node, xref.CompleteDefinition)
	w.obs.RecordNamedEdge(node, nameIDFor(qualified, graph.NameClassNone))
	w.obs.RecordDefinitionRange(w.rangeOf(nameNode), node)
	w.result.Functions++

	w.extractParams(fnDeclarator, node, qualified)

	if body := n.ChildByFieldName("body"); body != nil {
		w.extractCalls(body, node)
	}
}

func (w *walker) extractParams(fnDeclarator *sitter.Node, fn graph.NodeId, qualifiedFunc string) {
	params := fnDeclarator.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	ordinal := 0
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		if child.Type() != "parameter_declaration" {
			continue
		}
		declarator := child.ChildByFieldName("declarator")
		nameNode := declaratorIdentifier(declarator)
		paramName := nodeText(nameNode, w.source)
		if paramName == "" {
			paramName = "_"
		}
		param := paramID(w.tok, qualifiedFunc, ordinal)
		w.obs.RecordVariableNode(nameIDFor(qualifiedFunc+"."+paramName, graph.NameClassNone), param, xref.CompleteComplete)
		w.obs.RecordParamEdge(fn, ordinal, param)
		w.obs.RecordChildOfEdge(param, fn)
		ordinal++
	}
}

// extractCalls scans a function body for call expressions and records a
// call edge from fn to each resolved callee; it does not attempt
// overload resolution or scope lookup, so a call resolves to the func
// entity named by the callee text exactly as spelled, without qualifying
// it by the caller's namespace or class scope.
func (w *walker) extractCalls(body *sitter.Node, fn graph.NodeId) {
	clear(w.calleeR)
	w.walkCalls(body, fn)
}

func (w *walker) walkCalls(n *sitter.Node, fn graph.NodeId) {
	if n.Type() == "call_expression" {
		if fnNode := n.ChildByFieldName("function"); fnNode != nil {
			callee := calleeName(fnNode, w.source)
			// a call edge is anchored at its call-site range, so repeated
			// calls to the same callee still each get their own edge; only
			// collapse the case of the exact same call-site being visited
			// twice (can't happen with this grammar, but keeps the walk
			// idempotent if it ever does).
			key := callee + "@" + strconv.FormatUint(uint64(fnNode.StartByte()), 10)
			if callee != "" && !w.calleeR[key] {
				w.calleeR[key] = true
				target := entityID(w.tok, "func", callee)
				w.obs.RecordCallEdge(w.rangeOf(fnNode), fn, target)
			}
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		w.walkCalls(n.Child(i), fn)
	}
}

func calleeName(n *sitter.Node, source []byte) string {
	switch n.Type() {
	case "identifier", "qualified_identifier":
		return nodeText(n, source)
	case "field_expression":
		if field := n.ChildByFieldName("field"); field != nil {
			return nodeText(field, source)
		}
	}
	return ""
}

func (w *walker) extractRecord(n *sitter.Node, sc scope, _ xref.AccessSpecifier) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return // anonymous struct/union with no name to key identity on
	}
	name := nodeText(nameNode, w.source)
	qualified := sc.qualifiedName(name)

	kind := xref.RecordStruct
	eqClass := graph.NameClassClass
	switch n.Type() {
	case "class_specifier":
		kind = xref.RecordClass
	case "union_specifier":
		kind = xref.RecordUnion
		eqClass = graph.NameClassUnion
	}

	node := entityID(w.tok, "record", qualified)
	w.obs.RecordRecordNode(node, kind, xref.CompleteDefinition)
	w.obs.RecordNamedEdge(node, nameIDFor(qualified, eqClass))
	w.obs.RecordDefinitionRange(w.rangeOf(nameNode), node)
	w.result.Records++

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "base_class_clause" {
			w.extractBaseClasses(child, node)
		}
	}

	inner := sc.child(name)
	if body := n.ChildByFieldName("body"); body != nil {
		w.walkScopeBodyAsMembers(body, inner, node)
	}
}

// walkScopeBodyAsMembers is walkScopeBody plus a childOf edge from every
// method definition and field declared directly in body back to owner,
// matching how field/method declarations are lexically scoped inside
// their enclosing record. Nested records and enums are walked but get no
// childOf edge to owner.
func (w *walker) walkScopeBodyAsMembers(body *sitter.Node, sc scope, owner graph.NodeId) {
	access := xref.AccessPublic
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "access_specifier":
			access = parseAccessSpecifier(nodeText(child, w.source))
		case "function_definition":
			before := w.result.Functions
			w.extractFunction(child, sc)
			if w.result.Functions != before {
				// the method just recorded is the last func identity minted;
				// recompute it to link the childOf edge.
				if declarator := functionDeclaratorOf(child.ChildByFieldName("declarator")); declarator != nil {
					if nameNode := declaratorIdentifier(declarator.ChildByFieldName("declarator")); nameNode != nil {
						method := entityID(w.tok, "func", sc.qualifiedName(nodeText(nameNode, w.source)))
						w.obs.RecordChildOfEdge(method, owner)
					}
				}
			}
		case "struct_specifier", "class_specifier", "union_specifier":
			w.extractRecord(child, sc, access)
		case "enum_specifier":
			w.extractEnum(child, sc)
		case "field_declaration":
			for _, field := range w.extractFieldOrGlobal(child, sc, access) {
				w.obs.RecordChildOfEdge(field, owner)
			}
		}
	}
}

func (w *walker) extractBaseClasses(clause *sitter.Node, derived graph.NodeId) {
	access := xref.AccessPrivate
	virtual := false
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		switch child.Type() {
		case "access_specifier":
			access = parseAccessSpecifier(nodeText(child, w.source))
		case "virtual":
			virtual = true
		case "type_identifier", "qualified_identifier":
			base := entityID(w.tok, "record", nodeText(child, w.source))
			w.obs.RecordExtendsEdge(derived, base, virtual, access)
			access = xref.AccessPrivate
			virtual = false
		}
	}
}

func (w *walker) extractEnum(n *sitter.Node, sc scope) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, w.source)
	qualified := sc.qualifiedName(name)

	kind := xref.EnumUnscoped
	for i := 0; i < int(n.ChildCount()); i++ {
		if t := n.Child(i).Type(); t == "class" || t == "struct" {
			kind = xref.EnumScoped
			break
		}
	}

	node := entityID(w.tok, "enum", qualified)
	w.obs.RecordEnumNode(node, xref.CompleteDefinition, kind)
	w.obs.RecordNamedEdge(node, nameIDFor(qualified, graph.NameClassNone))
	w.obs.RecordDefinitionRange(w.rangeOf(nameNode), node)
	w.result.Enums++

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		if child.Type() != "enumerator" {
			continue
		}
		memberNameNode := child.ChildByFieldName("name")
		if memberNameNode == nil {
			continue
		}
		memberName := nodeText(memberNameNode, w.source)
		member := enumeratorID(w.tok, qualified, memberName)
		value := memberName
		if valueNode := child.ChildByFieldName("value"); valueNode != nil {
			value = nodeText(valueNode, w.source)
		}
		w.obs.RecordIntegerConstantNode(member, value)
		w.obs.RecordChildOfEdge(member, node)
	}
}

// extractFieldOrGlobal handles both a class/struct field_declaration and
// a top-level/namespace-scope declaration: both shapes carry a type and
// one or more declarators. Returns the minted NodeIds so a class-body
// caller can link a childOf edge to the owning record.
func (w *walker) extractFieldOrGlobal(n *sitter.Node, sc scope, _ xref.AccessSpecifier) []graph.NodeId {
	typeNode := n.ChildByFieldName("type")
	var ids []graph.NodeId
	for i := 0; i < int(n.ChildCount()); i++ {
		declarator := n.Child(i)
		switch declarator.Type() {
		case "init_declarator", "pointer_declarator", "array_declarator", "identifier", "field_identifier":
		default:
			continue
		}
		if functionDeclaratorOf(declarator) != nil {
			continue // a bare prototype, not a variable/field
		}
		nameNode := declaratorIdentifier(declarator)
		if nameNode == nil {
			continue
		}
		name := nodeText(nameNode, w.source)
		qualified := sc.qualifiedName(name)
		varNode := entityID(w.tok, "var", qualified)
		w.obs.RecordVariableNode(nameIDFor(qualified, graph.NameClassNone), varNode, xref.CompleteDefinition)
		w.obs.RecordDefinitionRange(w.rangeOf(nameNode), varNode)
		w.result.Variables++

		if typeNode != nil {
			if typeName := typeIdentifierName(typeNode, w.source); typeName != "" && !isBuiltinTypeName(typeName) {
				typeTarget := entityID(w.tok, "record", sc.qualifiedName(typeName))
				w.obs.RecordTypeEdge(varNode, typeTarget)
			}
		}
		ids = append(ids, varNode)
	}
	return ids
}

func typeIdentifierName(n *sitter.Node, source []byte) string {
	switch n.Type() {
	case "type_identifier", "qualified_identifier":
		return nodeText(n, source)
	}
	return ""
}

func isBuiltinTypeName(name string) bool {
	switch name {
	case "void", "bool", "char", "short", "int", "long", "float", "double",
		"signed", "unsigned", "auto", "wchar_t", "char8_t", "char16_t", "char32_t":
		return true
	}
	return false
}
