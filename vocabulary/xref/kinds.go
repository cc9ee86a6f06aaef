// Package xref defines the closed vocabularies used by the cross-reference
// graph: node kinds, edge kinds, and property keys. These are the stable
// identifiers that make up the observer protocol's ABI (see package observer).
package xref

// NodeKind is one of the closed set of node kinds the observer may emit.
type NodeKind string

const (
	NodeAnchor    NodeKind = "anchor"
	NodeFile      NodeKind = "file"
	NodeName      NodeKind = "name"
	NodeMacro     NodeKind = "macro"
	NodeVariable  NodeKind = "variable"
	NodeFunction  NodeKind = "function"
	NodeCallable  NodeKind = "callable"
	NodeRecord    NodeKind = "record"
	NodeSum       NodeKind = "sum" // enum
	NodeConstant  NodeKind = "constant"
	NodeAbs       NodeKind = "abs"
	NodeAbsVar    NodeKind = "absvar"
	NodeLookup    NodeKind = "lookup"
	NodeTApp      NodeKind = "tapp"
	NodeTNominal  NodeKind = "tnominal"
	NodeTAlias    NodeKind = "talias"
)

// EdgeKind is one of the closed set of edge kinds the observer may emit.
type EdgeKind string

const (
	EdgeNamed                   EdgeKind = "named"
	EdgeChildOf                 EdgeKind = "childOf"
	EdgeRef                     EdgeKind = "ref"
	EdgeRefCall                 EdgeKind = "ref/call"
	EdgeRefExpands              EdgeKind = "ref/expands"
	EdgeRefExpandsTransitive    EdgeKind = "ref/expands/transitive"
	EdgeRefIncludes             EdgeKind = "ref/includes"
	EdgeRefQueries              EdgeKind = "ref/queries"
	EdgeUndefines               EdgeKind = "undefines"
	EdgeDefines                 EdgeKind = "defines"
	EdgeCompletes               EdgeKind = "completes"
	EdgeCompletesUniquely       EdgeKind = "completes/uniquely"
	EdgeParam                   EdgeKind = "param"
	EdgeExtends                 EdgeKind = "extends"
	EdgeExtendsPublic           EdgeKind = "extends/public"
	EdgeExtendsProtected        EdgeKind = "extends/protected"
	EdgeExtendsPrivate          EdgeKind = "extends/private"
	EdgeExtendsVirtual          EdgeKind = "extends/virtual"
	EdgeExtendsPublicVirtual    EdgeKind = "extends/public/virtual"
	EdgeExtendsProtectedVirtual EdgeKind = "extends/protected/virtual"
	EdgeExtendsPrivateVirtual   EdgeKind = "extends/private/virtual"
	EdgeAliases                 EdgeKind = "aliases"
	EdgeSpecializes             EdgeKind = "specializes"
	EdgeInstantiates            EdgeKind = "instantiates"
	EdgeCallableAs              EdgeKind = "callableAs"
	EdgeHasType                 EdgeKind = "has/type"
)

// PropertyKey is one of the closed set of node property keys.
type PropertyKey string

const (
	PropComplete PropertyKey = "complete"
	PropSubkind  PropertyKey = "subkind"
	PropText     PropertyKey = "text"
	PropLocStart PropertyKey = "loc/start"
	PropLocEnd   PropertyKey = "loc/end"
	PropNodeKind PropertyKey = "node/kind"
)

// Completeness describes how fully-formed a declaration is.
type Completeness string

const (
	CompleteDefinition Completeness = "definition"
	CompleteComplete   Completeness = "complete"
	CompleteIncomplete Completeness = "incomplete"
)

// Subkind classifies a record node.
type Subkind string

const (
	SubkindClass     Subkind = "class"
	SubkindStruct    Subkind = "struct"
	SubkindUnion     Subkind = "union"
	SubkindEnum      Subkind = "enum"
	SubkindEnumClass Subkind = "enumClass"
)

// RecordKind distinguishes struct/class/union at the call site of
// record-node recording, independent of the emitted Subkind string.
type RecordKind int

const (
	RecordStruct RecordKind = iota
	RecordClass
	RecordUnion
)

// EnumKind distinguishes a scoped (enum class) from an unscoped enum.
type EnumKind int

const (
	EnumUnscoped EnumKind = iota
	EnumScoped
)

// AccessSpecifier is a C++ access specifier, used to project extends edges.
type AccessSpecifier int

const (
	AccessPublic AccessSpecifier = iota
	AccessProtected
	AccessPrivate
)

// Specificity describes how unique a completion relationship is.
type Specificity int

const (
	Completes Specificity = iota
	UniquelyCompletes
)

// FactRoot is the slash-delimited namespace root under which property and
// edge fact names are written to the fact sink (see package factsink).
const FactRoot = "/xref/"
