package avro

import "fmt"

// ValidSchema is a schema tree that has passed structural validation: named
// types are unique per fullname, record fields and enum symbols are unique,
// union branches are distinguishable, and every symbolic reference has a
// target. Sharing a ValidSchema across goroutines is safe; the tree is
// immutable.
type ValidSchema struct {
	root *Node
}

// NewValidSchema validates root and wraps it.
func NewValidSchema(root *Node) (ValidSchema, error) {
	v := validator{names: make(map[string]*Node), seen: make(map[*Node]bool)}
	if err := v.walk(root); err != nil {
		return ValidSchema{}, err
	}
	return ValidSchema{root: root}, nil
}

// Root returns the root node of the schema tree.
func (s ValidSchema) Root() *Node { return s.root }

type validator struct {
	names map[string]*Node
	seen  map[*Node]bool
}

func (v *validator) walk(n *Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidSchema)
	}
	if v.seen[n] {
		return nil
	}
	v.seen[n] = true

	if n.Type().isNamed() {
		if !n.HasName() || n.Name().Simple() == "" {
			return fmt.Errorf("%w: %s node has no name", ErrInvalidSchema, n.Type())
		}
		full := n.Name().Fullname()
		if prev, ok := v.names[full]; ok && prev != n {
			return fmt.Errorf("%w: duplicate name %s", ErrInvalidSchema, full)
		}
		v.names[full] = n
	}

	switch n.Type() {
	case TypeRecord:
		if n.Leaves() != n.Names() || n.Leaves() != len(n.defaults) {
			return fmt.Errorf("%w: record %s has inconsistent field counts", ErrInvalidSchema, n.Name().Fullname())
		}
		if len(n.nameIndex) != n.Names() {
			return fmt.Errorf("%w: record %s has duplicate field names", ErrInvalidSchema, n.Name().Fullname())
		}
	case TypeEnum:
		if n.Names() == 0 {
			return fmt.Errorf("%w: enum %s has no symbols", ErrInvalidSchema, n.Name().Fullname())
		}
		if len(n.nameIndex) != n.Names() {
			return fmt.Errorf("%w: enum %s has duplicate symbols", ErrInvalidSchema, n.Name().Fullname())
		}
	case TypeFixed:
		if n.Size() < 1 {
			return fmt.Errorf("%w: fixed %s", ErrInvalidFixedSize, n.Name().Fullname())
		}
	case TypeUnion:
		if err := v.checkUnion(n); err != nil {
			return err
		}
	case TypeSymbolic:
		if n.Target() == nil {
			return fmt.Errorf("%w: unresolved reference to %s", ErrInvalidSchema, n.Name().Fullname())
		}
	}

	for i := 0; i < n.Leaves(); i++ {
		if err := v.walk(n.LeafAt(i)); err != nil {
			return err
		}
	}
	return nil
}

// checkUnion rejects empty unions, immediately nested unions, and branches a
// reader could not tell apart. Named branches are distinguished by fullname.
func (v *validator) checkUnion(n *Node) error {
	if n.Leaves() == 0 {
		return fmt.Errorf("%w: union has no branches", ErrInvalidSchema)
	}
	keys := make(map[string]bool, n.Leaves())
	for i := 0; i < n.Leaves(); i++ {
		b := n.LeafAt(i).Resolve()
		if b == nil {
			return fmt.Errorf("%w: unresolved union branch", ErrInvalidSchema)
		}
		if b.Type() == TypeUnion {
			return fmt.Errorf("%w: union may not immediately contain another union", ErrInvalidSchema)
		}
		key := b.Type().String()
		if b.Type().isNamed() {
			key = b.Name().Fullname()
		}
		if keys[key] {
			return fmt.Errorf("%w: union has duplicate branch %s", ErrInvalidSchema, key)
		}
		keys[key] = true
	}
	return nil
}
