package avro

import "fmt"

// Node is one vertex of a schema tree: a tagged variant whose payload depends
// on the type tag. Nodes are built by the compiler and immutable afterwards.
//
// The leaves carry the type-dependent children: record field types, the one
// array item type, the map key (always string) and value types, or union
// branches. leafNames holds record field names or enum symbols.
type Node struct {
	typ       Type
	name      Name
	hasName   bool
	doc       string
	leaves    []*Node
	leafNames []string
	nameIndex map[string]int
	defaults  []Datum
	size      int
	logical   LogicalType

	// resolved referent of a symbolic node
	target *Node
}

func newPrimitiveNode(t Type) *Node {
	return &Node{typ: t}
}

func newSymbolicNode(name Name, target *Node) *Node {
	return &Node{typ: TypeSymbolic, name: name, hasName: true, target: target}
}

func newArrayNode(items *Node) *Node {
	return &Node{typ: TypeArray, leaves: []*Node{items}}
}

func newMapNode(values *Node) *Node {
	// leaf 0 is the implicit string key type, leaf 1 the value type
	return &Node{typ: TypeMap, leaves: []*Node{newPrimitiveNode(TypeString), values}}
}

func newUnionNode(branches []*Node) *Node {
	return &Node{typ: TypeUnion, leaves: branches}
}

func newEnumNode(name Name, symbols []string) *Node {
	return &Node{typ: TypeEnum, name: name, hasName: true, leafNames: symbols, nameIndex: indexNames(symbols)}
}

func newFixedNode(name Name, size int) *Node {
	return &Node{typ: TypeFixed, name: name, hasName: true, size: size}
}

func newRecordNode(name Name, fields []*Node, fieldNames []string, defaults []Datum) *Node {
	return &Node{
		typ:       TypeRecord,
		name:      name,
		hasName:   true,
		leaves:    fields,
		leafNames: fieldNames,
		nameIndex: indexNames(fieldNames),
		defaults:  defaults,
	}
}

func indexNames(names []string) map[string]int {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	return idx
}

// Type returns the node's tag.
func (n *Node) Type() Type { return n.typ }

// HasName reports whether the node carries a name.
func (n *Node) HasName() bool { return n.hasName }

// Name returns the node's name. Only meaningful when HasName is true.
func (n *Node) Name() Name { return n.name }

// Doc returns the documentation attached to the node, if any.
func (n *Node) Doc() string { return n.doc }

func (n *Node) setDoc(doc string) { n.doc = doc }

// Leaves returns the number of child nodes.
func (n *Node) Leaves() int { return len(n.leaves) }

// LeafAt returns the i-th child node.
func (n *Node) LeafAt(i int) *Node { return n.leaves[i] }

// Names returns the number of leaf names: record fields or enum symbols.
func (n *Node) Names() int { return len(n.leafNames) }

// NameAt returns the i-th field name or enum symbol.
func (n *Node) NameAt(i int) string { return n.leafNames[i] }

// NameIndex returns the position of a field name or enum symbol.
func (n *Node) NameIndex(name string) (int, bool) {
	i, ok := n.nameIndex[name]
	return i, ok
}

// DefaultAt returns the default datum of the i-th record field. A null-typed
// datum means the field declared no default.
func (n *Node) DefaultAt(i int) Datum { return n.defaults[i] }

// Size returns the byte size of a fixed node.
func (n *Node) Size() int { return n.size }

// Logical returns the node's logical type annotation.
func (n *Node) Logical() LogicalType { return n.logical }

func (n *Node) setLogical(l LogicalType) { n.logical = l }

// IsSymbolic reports whether the node is a reference to a named type.
func (n *Node) IsSymbolic() bool { return n.typ == TypeSymbolic }

// Target returns the referent of a symbolic node.
func (n *Node) Target() *Node { return n.target }

// Resolve follows a symbolic reference to its named target; any other node
// resolves to itself.
func (n *Node) Resolve() *Node {
	if n.typ == TypeSymbolic {
		return n.target
	}
	return n
}

// swap exchanges the full contents of two nodes in place. The compiler uses
// it to finalize a record placeholder that symbolic references already point
// at: after the swap every holder of the placeholder observes the completed
// record.
func (n *Node) swap(o *Node) {
	*n, *o = *o, *n
}

// String renders the node's type, with the fullname for named types.
func (n *Node) String() string {
	if n.hasName {
		return fmt.Sprintf("%s %s", n.typ, n.name.Fullname())
	}
	return n.typ.String()
}
