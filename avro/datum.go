package avro

import "fmt"

// Datum is a schema-agnostic Avro value: a tagged variant whose runtime tag
// is consistent with the schema node it was built against. The zero value is
// the null datum.
type Datum struct {
	typ   Type
	value any
}

// NullDatum returns the null value.
func NullDatum() Datum { return Datum{} }

// BoolDatum wraps a boolean value.
func BoolDatum(v bool) Datum { return Datum{typ: TypeBool, value: v} }

// IntDatum wraps a 32-bit integer value.
func IntDatum(v int32) Datum { return Datum{typ: TypeInt, value: v} }

// LongDatum wraps a 64-bit integer value.
func LongDatum(v int64) Datum { return Datum{typ: TypeLong, value: v} }

// FloatDatum wraps a single-precision value.
func FloatDatum(v float32) Datum { return Datum{typ: TypeFloat, value: v} }

// DoubleDatum wraps a double-precision value.
func DoubleDatum(v float64) Datum { return Datum{typ: TypeDouble, value: v} }

// StringDatum wraps a text value.
func StringDatum(v string) Datum { return Datum{typ: TypeString, value: v} }

// BytesDatum wraps a raw byte sequence.
func BytesDatum(v []byte) Datum { return Datum{typ: TypeBytes, value: v} }

// RecordDatum wraps a record value.
func RecordDatum(r *Record) Datum { return Datum{typ: TypeRecord, value: r} }

// EnumDatum wraps an enum value.
func EnumDatum(e *Enum) Datum { return Datum{typ: TypeEnum, value: e} }

// ArrayDatum wraps an ordered sequence of values.
func ArrayDatum(items []Datum) Datum { return Datum{typ: TypeArray, value: items} }

// MapDatum wraps an ordered sequence of key/value pairs.
func MapDatum(entries []MapEntry) Datum { return Datum{typ: TypeMap, value: entries} }

// UnionDatum wraps a union value with its selected branch.
func UnionDatum(u *Union) Datum { return Datum{typ: TypeUnion, value: u} }

// FixedDatum wraps the bytes of a fixed value. The length is not checked
// against the schema's declared size.
func FixedDatum(v []byte) Datum { return Datum{typ: TypeFixed, value: v} }

// Type returns the datum's tag.
func (d Datum) Type() Type { return d.typ }

// IsNull reports whether the datum is the null value.
func (d Datum) IsNull() bool { return d.typ == TypeNull }

// BoolValue returns the payload of a boolean datum.
func (d Datum) BoolValue() bool { return d.value.(bool) }

// IntValue returns the payload of an int datum.
func (d Datum) IntValue() int32 { return d.value.(int32) }

// LongValue returns the payload of a long datum.
func (d Datum) LongValue() int64 { return d.value.(int64) }

// FloatValue returns the payload of a float datum.
func (d Datum) FloatValue() float32 { return d.value.(float32) }

// DoubleValue returns the payload of a double datum.
func (d Datum) DoubleValue() float64 { return d.value.(float64) }

// StringValue returns the payload of a string datum.
func (d Datum) StringValue() string { return d.value.(string) }

// BytesValue returns the payload of a bytes datum.
func (d Datum) BytesValue() []byte { return d.value.([]byte) }

// RecordValue returns the payload of a record datum.
func (d Datum) RecordValue() *Record { return d.value.(*Record) }

// EnumValue returns the payload of an enum datum.
func (d Datum) EnumValue() *Enum { return d.value.(*Enum) }

// ArrayValue returns the payload of an array datum.
func (d Datum) ArrayValue() []Datum { return d.value.([]Datum) }

// MapValue returns the payload of a map datum.
func (d Datum) MapValue() []MapEntry { return d.value.([]MapEntry) }

// UnionValue returns the payload of a union datum.
func (d Datum) UnionValue() *Union { return d.value.(*Union) }

// FixedValue returns the payload of a fixed datum.
func (d Datum) FixedValue() []byte { return d.value.([]byte) }

// Record is an ordered sequence of field values for a record node.
type Record struct {
	schema *Node
	fields []Datum
}

// NewRecord returns a record value for node with all fields null.
func NewRecord(node *Node) *Record {
	return &Record{schema: node, fields: make([]Datum, node.Leaves())}
}

// Schema returns the record's node.
func (r *Record) Schema() *Node { return r.schema }

// FieldCount returns the number of fields.
func (r *Record) FieldCount() int { return len(r.fields) }

// FieldAt returns the i-th field value.
func (r *Record) FieldAt(i int) Datum { return r.fields[i] }

// SetFieldAt replaces the i-th field value.
func (r *Record) SetFieldAt(i int, d Datum) { r.fields[i] = d }

// Field returns a field value by name.
func (r *Record) Field(name string) (Datum, bool) {
	i, ok := r.schema.NameIndex(name)
	if !ok {
		return Datum{}, false
	}
	return r.fields[i], true
}

// Enum is a symbol of an enum node, stored by index.
type Enum struct {
	schema *Node
	index  int
}

// NewEnum returns the enum value naming symbol, which must be one of the
// node's declared symbols.
func NewEnum(node *Node, symbol string) (*Enum, error) {
	i, ok := node.NameIndex(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a symbol of %s", ErrInvalidEnumSymbol, symbol, node.Name().Fullname())
	}
	return &Enum{schema: node, index: i}, nil
}

// NewEnumIndex returns the enum value for a symbol index.
func NewEnumIndex(node *Node, index int) *Enum {
	return &Enum{schema: node, index: index}
}

// Index returns the symbol's position.
func (e *Enum) Index() int { return e.index }

// Symbol returns the symbol's name.
func (e *Enum) Symbol() string { return e.schema.NameAt(e.index) }

// MapEntry is one key/value pair of a map datum. Entries keep the order they
// were produced in.
type MapEntry struct {
	Key   string
	Value Datum
}

// Union is a value of one branch of a union node.
type Union struct {
	Branch int
	Value  Datum
}
