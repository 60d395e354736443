package avro

import (
	"fmt"
	"strings"
)

// Name identifies a named schema type. Equality is by fullname: the dotted
// namespace plus the local name.
type Name struct {
	simple string
	space  string
}

// NewName builds a name from a local name and a namespace. A dotted name is
// accepted in place of a bare one and split, ignoring ns.
func NewName(name, ns string) (Name, error) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ns = name[:i]
		name = name[i+1:]
	}
	n := Name{simple: name, space: ns}
	if err := n.check(); err != nil {
		return Name{}, err
	}
	return n, nil
}

// Simple returns the local name.
func (n Name) Simple() string { return n.simple }

// Namespace returns the namespace, possibly empty.
func (n Name) Namespace() string { return n.space }

// Fullname returns namespace.localName, or just the local name when the
// namespace is empty.
func (n Name) Fullname() string {
	if n.space == "" {
		return n.simple
	}
	return n.space + "." + n.simple
}

func (n Name) check() error {
	if err := checkIdentifier(n.simple); err != nil {
		return fmt.Errorf("%w: invalid name %q: %v", ErrInvalidSchema, n.simple, err)
	}
	if n.space == "" {
		return nil
	}
	for _, part := range strings.Split(n.space, ".") {
		if err := checkIdentifier(part); err != nil {
			return fmt.Errorf("%w: invalid namespace %q: %v", ErrInvalidSchema, n.space, err)
		}
	}
	return nil
}

func checkIdentifier(s string) error {
	if s == "" {
		return fmt.Errorf("empty identifier")
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
			(i > 0 && c >= '0' && c <= '9')
		if !ok {
			return fmt.Errorf("character %q is not allowed", c)
		}
	}
	return nil
}
