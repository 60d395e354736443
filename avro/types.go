// Package avro implements the core of the Avro data format: a compiler from
// JSON schema text to an in-memory schema tree, and a streaming decoder for
// the Avro binary encoding.
package avro

import "fmt"

// Type tags a schema node or a generic datum.
type Type int

const (
	// TypeNull carries no value
	TypeNull Type = iota
	// TypeBool is a single byte on the wire
	TypeBool
	// TypeInt is a 32-bit signed integer
	TypeInt
	// TypeLong is a 64-bit signed integer
	TypeLong
	// TypeFloat is an IEEE-754 single
	TypeFloat
	// TypeDouble is an IEEE-754 double
	TypeDouble
	// TypeString is UTF-8 text
	TypeString
	// TypeBytes is an arbitrary byte sequence
	TypeBytes
	// TypeRecord is a named sequence of fields
	TypeRecord
	// TypeEnum is a named set of symbols
	TypeEnum
	// TypeArray is a sequence of items of one schema
	TypeArray
	// TypeMap maps string keys to values of one schema
	TypeMap
	// TypeUnion is one of several branch schemas
	TypeUnion
	// TypeFixed is a named byte sequence of fixed size
	TypeFixed
	// TypeSymbolic is a reference to a named type, resolved during compilation
	TypeSymbolic
)

var typeNames = [...]string{
	TypeNull:     "null",
	TypeBool:     "boolean",
	TypeInt:      "int",
	TypeLong:     "long",
	TypeFloat:    "float",
	TypeDouble:   "double",
	TypeString:   "string",
	TypeBytes:    "bytes",
	TypeRecord:   "record",
	TypeEnum:     "enum",
	TypeArray:    "array",
	TypeMap:      "map",
	TypeUnion:    "union",
	TypeFixed:    "fixed",
	TypeSymbolic: "symbolic",
}

// String returns the Avro name of the type.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return typeNames[t]
}

// isNamed reports whether the type requires a name.
func (t Type) isNamed() bool {
	return t == TypeRecord || t == TypeEnum || t == TypeFixed
}

// LogicalKind identifies a logical type annotation.
type LogicalKind int

const (
	// LogicalNone means no logical type is attached
	LogicalNone LogicalKind = iota
	// LogicalDecimal is an arbitrary-precision decimal with precision and scale
	LogicalDecimal
	// LogicalDate is days from the epoch
	LogicalDate
	// LogicalTimeMillis is milliseconds after midnight
	LogicalTimeMillis
	// LogicalTimeMicros is microseconds after midnight
	LogicalTimeMicros
	// LogicalTimestampMillis is milliseconds from the epoch
	LogicalTimestampMillis
	// LogicalTimestampMicros is microseconds from the epoch
	LogicalTimestampMicros
	// LogicalDuration is a months/days/millis triple
	LogicalDuration
	// LogicalUUID is an RFC-4122 string
	LogicalUUID
)

// LogicalType annotates a node with a logical type. The zero value means no
// annotation.
type LogicalType struct {
	kind      LogicalKind
	precision int
	scale     int
}

// NewLogicalType returns an annotation of the given kind with no parameters.
func NewLogicalType(kind LogicalKind) LogicalType {
	return LogicalType{kind: kind}
}

// Kind returns the annotation's kind.
func (l LogicalType) Kind() LogicalKind { return l.kind }

// Precision returns the decimal precision.
func (l LogicalType) Precision() int { return l.precision }

// Scale returns the decimal scale.
func (l LogicalType) Scale() int { return l.scale }

func (l *LogicalType) setPrecision(p int64) error {
	if l.kind != LogicalDecimal {
		return fmt.Errorf("%w: precision is only valid for decimal", ErrInvalidSchema)
	}
	if p < 1 {
		return fmt.Errorf("%w: decimal precision %d is not positive", ErrInvalidSchema, p)
	}
	l.precision = int(p)
	return nil
}

func (l *LogicalType) setScale(s int64) error {
	if l.kind != LogicalDecimal {
		return fmt.Errorf("%w: scale is only valid for decimal", ErrInvalidSchema)
	}
	if s < 0 || s > int64(l.precision) {
		return fmt.Errorf("%w: decimal scale %d is out of range [0, %d]", ErrInvalidSchema, s, l.precision)
	}
	l.scale = int(s)
	return nil
}
