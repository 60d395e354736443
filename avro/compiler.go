package avro

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"avrocore/avro/jsondom"
)

// symbolTable tracks named types during one compilation, keyed by fullname.
// Record placeholders are registered before their fields compile so that
// self- and mutually-recursive references resolve. The table dies with the
// compilation; afterwards the nodes carry the tree themselves.
type symbolTable map[string]*Node

// CompileJSONSchemaFromReader compiles an Avro schema read as JSON from r.
func CompileJSONSchemaFromReader(r io.Reader) (ValidSchema, error) {
	e, err := jsondom.Load(r)
	if err != nil {
		return ValidSchema{}, fmt.Errorf("load schema json: %w", err)
	}
	st := make(symbolTable)
	n, err := makeNode(e, st, "")
	if err != nil {
		return ValidSchema{}, err
	}
	return NewValidSchema(n)
}

// CompileJSONSchemaFromFile compiles the schema stored in the named file.
func CompileJSONSchemaFromFile(path string) (ValidSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return ValidSchema{}, fmt.Errorf("open schema file: %w", err)
	}
	defer f.Close()
	return CompileJSONSchemaFromReader(f)
}

// CompileJSONSchemaFromMemory compiles a schema held in a byte buffer.
func CompileJSONSchemaFromMemory(input []byte) (ValidSchema, error) {
	return CompileJSONSchemaFromReader(bytes.NewReader(input))
}

// CompileJSONSchemaFromString compiles a schema held in a string.
func CompileJSONSchemaFromString(input string) (ValidSchema, error) {
	return CompileJSONSchemaFromReader(strings.NewReader(input))
}

// CompileJSONSchema is the non-failing wrapper: on success it fills schema
// and returns true; on failure it fills errStr with the message and returns
// false.
func CompileJSONSchema(r io.Reader, schema *ValidSchema, errStr *string) bool {
	s, err := CompileJSONSchemaFromReader(r)
	if err != nil {
		if errStr != nil {
			*errStr = err.Error()
		}
		return false
	}
	*schema = s
	return true
}

var primitiveTypes = map[string]Type{
	"null":    TypeNull,
	"boolean": TypeBool,
	"int":     TypeInt,
	"long":    TypeLong,
	"float":   TypeFloat,
	"double":  TypeDouble,
	"string":  TypeString,
	"bytes":   TypeBytes,
}

func makePrimitive(t string) *Node {
	if typ, ok := primitiveTypes[t]; ok {
		return newPrimitiveNode(typ)
	}
	return nil
}

// makeNode dispatches on the entity's tag: a string is a type name or
// reference, an object a complex type, an array a union.
func makeNode(e jsondom.Entity, st symbolTable, ns string) (*Node, error) {
	switch e.Kind() {
	case jsondom.KindString:
		return makeNodeFromName(e.StringValue(), st, ns)
	case jsondom.KindObject:
		return makeNodeFromObject(e, e.ObjectValue(), st, ns)
	case jsondom.KindArray:
		return makeNodeFromArray(e, st, ns)
	}
	return nil, fmt.Errorf("%w: invalid avro type: %s", ErrUnknownType, e)
}

func makeNodeFromName(t string, st symbolTable, ns string) (*Node, error) {
	if p := makePrimitive(t); p != nil {
		return p, nil
	}
	n, err := NewName(t, ns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownType, err)
	}
	if target, ok := st[n.Fullname()]; ok {
		return newSymbolicNode(n, target), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, n.Fullname())
}

func makeNodeFromObject(e jsondom.Entity, m *jsondom.Object, st symbolTable, ns string) (*Node, error) {
	typ, err := getStringField(e, m, "type")
	if err != nil {
		return nil, err
	}

	var result *Node
	switch typ {
	case "record", "error":
		nm, err := getNameField(e, m, ns)
		if err != nil {
			return nil, err
		}
		// Register an empty placeholder before compiling fields so the
		// record can refer to itself; the finished record is swapped into
		// the placeholder the symbolic references captured.
		placeholder := &Node{typ: TypeRecord, name: nm, hasName: true}
		st[nm.Fullname()] = placeholder
		var doc *string
		if m.Has("doc") {
			d, err := getDocField(e, m)
			if err != nil {
				return nil, err
			}
			doc = &d
		}
		r, err := makeRecordNode(e, nm, doc, m, st, nm.Namespace())
		if err != nil {
			return nil, err
		}
		r.swap(placeholder)
		result = placeholder
	case "enum":
		nm, err := getNameField(e, m, ns)
		if err != nil {
			return nil, err
		}
		result, err = makeEnumNode(e, nm, m)
		if err != nil {
			return nil, err
		}
		st[nm.Fullname()] = result
	case "fixed":
		nm, err := getNameField(e, m, ns)
		if err != nil {
			return nil, err
		}
		result, err = makeFixedNode(e, nm, m)
		if err != nil {
			return nil, err
		}
		st[nm.Fullname()] = result
	case "array":
		result, err = makeArrayNode(e, m, st, ns)
		if err != nil {
			return nil, err
		}
	case "map":
		result, err = makeMapNode(e, m, st, ns)
		if err != nil {
			return nil, err
		}
	default:
		result = makePrimitive(typ)
	}

	if result == nil {
		return nil, fmt.Errorf("%w: unknown type definition: %s", ErrUnknownType, e)
	}
	// A malformed logical type never fails the schema; it degrades to none.
	result.setLogical(makeLogicalType(e, m))
	return result, nil
}

func makeNodeFromArray(e jsondom.Entity, st symbolTable, ns string) (*Node, error) {
	elems := e.ArrayValue()
	branches := make([]*Node, 0, len(elems))
	for _, el := range elems {
		b, err := makeNode(el, st, ns)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return newUnionNode(branches), nil
}

// field is one compiled record field; a null default datum means the field
// declared none.
type field struct {
	name   string
	schema *Node
	def    Datum
}

func makeField(e jsondom.Entity, st symbolTable, ns string) (field, error) {
	if e.Kind() != jsondom.KindObject {
		return field{}, fmt.Errorf("%w: record field is not an object: %s", ErrTypeMismatch, e)
	}
	m := e.ObjectValue()
	name, err := getStringField(e, m, "name")
	if err != nil {
		return field{}, err
	}
	typeEnt, err := findField(e, m, "type")
	if err != nil {
		return field{}, err
	}
	node, err := makeNode(typeEnt, st, ns)
	if err != nil {
		return field{}, err
	}
	if m.Has("doc") {
		doc, err := getDocField(e, m)
		if err != nil {
			return field{}, err
		}
		node.setDoc(doc)
	}
	def := NullDatum()
	if dv, ok := m.Get("default"); ok {
		def, err = makeGenericDatum(node, dv, st)
		if err != nil {
			return field{}, fmt.Errorf("default for field %q: %w", name, err)
		}
	}
	return field{name: name, schema: node, def: def}, nil
}

func makeRecordNode(e jsondom.Entity, name Name, doc *string, m *jsondom.Object, st symbolTable, ns string) (*Node, error) {
	fieldsEnt, err := getArrayField(e, m, "fields")
	if err != nil {
		return nil, err
	}
	var (
		fieldNames  []string
		fieldValues []*Node
		defaults    []Datum
	)
	for _, fe := range fieldsEnt {
		f, err := makeField(fe, st, ns)
		if err != nil {
			return nil, err
		}
		fieldNames = append(fieldNames, f.name)
		fieldValues = append(fieldValues, f.schema)
		defaults = append(defaults, f.def)
	}
	node := newRecordNode(name, fieldValues, fieldNames, defaults)
	if doc != nil {
		node.setDoc(*doc)
	}
	return node, nil
}

func makeEnumNode(e jsondom.Entity, name Name, m *jsondom.Object) (*Node, error) {
	symbolsEnt, err := getArrayField(e, m, "symbols")
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(symbolsEnt))
	for _, s := range symbolsEnt {
		if s.Kind() != jsondom.KindString {
			return nil, fmt.Errorf("%w: enum symbol not a string: %s", ErrInvalidEnumSymbol, s)
		}
		symbols = append(symbols, s.StringValue())
	}
	node := newEnumNode(name, symbols)
	if m.Has("doc") {
		doc, err := getDocField(e, m)
		if err != nil {
			return nil, err
		}
		node.setDoc(doc)
	}
	return node, nil
}

func makeFixedNode(e jsondom.Entity, name Name, m *jsondom.Object) (*Node, error) {
	size, err := getLongField(e, m, "size")
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d in %s", ErrInvalidFixedSize, size, e)
	}
	node := newFixedNode(name, int(size))
	if m.Has("doc") {
		doc, err := getDocField(e, m)
		if err != nil {
			return nil, err
		}
		node.setDoc(doc)
	}
	return node, nil
}

func makeArrayNode(e jsondom.Entity, m *jsondom.Object, st symbolTable, ns string) (*Node, error) {
	items, err := findField(e, m, "items")
	if err != nil {
		return nil, err
	}
	itemNode, err := makeNode(items, st, ns)
	if err != nil {
		return nil, err
	}
	node := newArrayNode(itemNode)
	if m.Has("doc") {
		doc, err := getDocField(e, m)
		if err != nil {
			return nil, err
		}
		node.setDoc(doc)
	}
	return node, nil
}

func makeMapNode(e jsondom.Entity, m *jsondom.Object, st symbolTable, ns string) (*Node, error) {
	values, err := findField(e, m, "values")
	if err != nil {
		return nil, err
	}
	valueNode, err := makeNode(values, st, ns)
	if err != nil {
		return nil, err
	}
	node := newMapNode(valueNode)
	if m.Has("doc") {
		doc, err := getDocField(e, m)
		if err != nil {
			return nil, err
		}
		node.setDoc(doc)
	}
	return node, nil
}

// makeLogicalType reads the logicalType annotation. Anything malformed, from
// a non-string tag to a decimal without a valid precision, degrades to the
// none annotation rather than failing the schema.
func makeLogicalType(e jsondom.Entity, m *jsondom.Object) LogicalType {
	if !m.Has("logicalType") {
		return LogicalType{}
	}
	typeField, err := getStringField(e, m, "logicalType")
	if err != nil {
		return LogicalType{}
	}

	if typeField == "decimal" {
		decimal := NewLogicalType(LogicalDecimal)
		precision, err := getLongField(e, m, "precision")
		if err != nil {
			return LogicalType{}
		}
		if err := decimal.setPrecision(precision); err != nil {
			return LogicalType{}
		}
		if m.Has("scale") {
			scale, err := getLongField(e, m, "scale")
			if err != nil {
				return LogicalType{}
			}
			if err := decimal.setScale(scale); err != nil {
				return LogicalType{}
			}
		}
		return decimal
	}

	switch typeField {
	case "date":
		return NewLogicalType(LogicalDate)
	case "time-millis":
		return NewLogicalType(LogicalTimeMillis)
	case "time-micros":
		return NewLogicalType(LogicalTimeMicros)
	case "timestamp-millis":
		return NewLogicalType(LogicalTimestampMillis)
	case "timestamp-micros":
		return NewLogicalType(LogicalTimestampMicros)
	case "duration":
		return NewLogicalType(LogicalDuration)
	case "uuid":
		return NewLogicalType(LogicalUUID)
	}
	return LogicalType{}
}

// makeGenericDatum coerces a JSON default value into the generic datum for
// node n. Symbolic nodes are dereferenced through the symbol table before
// dispatch. Union defaults are, per the Avro rule, values of the first
// branch written inline.
func makeGenericDatum(n *Node, e jsondom.Entity, st symbolTable) (Datum, error) {
	t := n.Type()
	if t == TypeSymbolic {
		target, ok := st[n.Name().Fullname()]
		if !ok {
			return Datum{}, fmt.Errorf("%w: %s", ErrUnknownType, n.Name().Fullname())
		}
		n = target
		t = n.Type()
	}

	switch t {
	case TypeNull:
		if err := assertKind(e, jsondom.KindNull); err != nil {
			return Datum{}, err
		}
		return NullDatum(), nil
	case TypeBool:
		if err := assertKind(e, jsondom.KindBool); err != nil {
			return Datum{}, err
		}
		return BoolDatum(e.BoolValue()), nil
	case TypeInt:
		if err := assertKind(e, jsondom.KindLong); err != nil {
			return Datum{}, err
		}
		return IntDatum(int32(e.LongValue())), nil
	case TypeLong:
		if err := assertKind(e, jsondom.KindLong); err != nil {
			return Datum{}, err
		}
		return LongDatum(e.LongValue()), nil
	case TypeFloat:
		if e.Kind() == jsondom.KindLong {
			return FloatDatum(float32(e.LongValue())), nil
		}
		if err := assertKind(e, jsondom.KindDouble); err != nil {
			return Datum{}, err
		}
		return FloatDatum(float32(e.DoubleValue())), nil
	case TypeDouble:
		if e.Kind() == jsondom.KindLong {
			return DoubleDatum(float64(e.LongValue())), nil
		}
		if err := assertKind(e, jsondom.KindDouble); err != nil {
			return Datum{}, err
		}
		return DoubleDatum(e.DoubleValue()), nil
	case TypeString:
		if err := assertKind(e, jsondom.KindString); err != nil {
			return Datum{}, err
		}
		return StringDatum(e.StringValue()), nil
	case TypeBytes:
		if err := assertKind(e, jsondom.KindString); err != nil {
			return Datum{}, err
		}
		b, err := e.BytesValue()
		if err != nil {
			return Datum{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		return BytesDatum(b), nil
	case TypeFixed:
		if err := assertKind(e, jsondom.KindString); err != nil {
			return Datum{}, err
		}
		b, err := e.BytesValue()
		if err != nil {
			return Datum{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		return FixedDatum(b), nil
	case TypeEnum:
		if err := assertKind(e, jsondom.KindString); err != nil {
			return Datum{}, err
		}
		en, err := NewEnum(n, e.StringValue())
		if err != nil {
			return Datum{}, err
		}
		return EnumDatum(en), nil
	case TypeRecord:
		if err := assertKind(e, jsondom.KindObject); err != nil {
			return Datum{}, err
		}
		m := e.ObjectValue()
		rec := NewRecord(n)
		for i := 0; i < n.Leaves(); i++ {
			fe, ok := m.Get(n.NameAt(i))
			if !ok {
				return Datum{}, fmt.Errorf("%w: no value found in default for %s", ErrMissingField, n.NameAt(i))
			}
			fd, err := makeGenericDatum(n.LeafAt(i), fe, st)
			if err != nil {
				return Datum{}, err
			}
			rec.SetFieldAt(i, fd)
		}
		return RecordDatum(rec), nil
	case TypeArray:
		if err := assertKind(e, jsondom.KindArray); err != nil {
			return Datum{}, err
		}
		elems := e.ArrayValue()
		items := make([]Datum, 0, len(elems))
		for _, el := range elems {
			d, err := makeGenericDatum(n.LeafAt(0), el, st)
			if err != nil {
				return Datum{}, err
			}
			items = append(items, d)
		}
		return ArrayDatum(items), nil
	case TypeMap:
		if err := assertKind(e, jsondom.KindObject); err != nil {
			return Datum{}, err
		}
		m := e.ObjectValue()
		entries := make([]MapEntry, 0, m.Len())
		for _, key := range m.Keys() {
			ve, _ := m.Get(key)
			d, err := makeGenericDatum(n.LeafAt(1), ve, st)
			if err != nil {
				return Datum{}, err
			}
			entries = append(entries, MapEntry{Key: key, Value: d})
		}
		return MapDatum(entries), nil
	case TypeUnion:
		d, err := makeGenericDatum(n.LeafAt(0), e, st)
		if err != nil {
			return Datum{}, err
		}
		return UnionDatum(&Union{Branch: 0, Value: d}), nil
	}
	return Datum{}, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

func assertKind(e jsondom.Entity, want jsondom.Kind) error {
	if e.Kind() != want {
		return fmt.Errorf("%w: unexpected type for default value: expected %s, but found %s in line %d",
			ErrTypeMismatch, want, e.Kind(), e.Line())
	}
	return nil
}

// JSON field access helpers over the DOM.

func findField(e jsondom.Entity, m *jsondom.Object, name string) (jsondom.Entity, error) {
	f, ok := m.Get(name)
	if !ok {
		return jsondom.Entity{}, fmt.Errorf("%w: missing json field %q: %s", ErrMissingField, name, e)
	}
	return f, nil
}

func getStringField(e jsondom.Entity, m *jsondom.Object, name string) (string, error) {
	f, err := findField(e, m, name)
	if err != nil {
		return "", err
	}
	if f.Kind() != jsondom.KindString {
		return "", fmt.Errorf("%w: json field %q is not a string: %s", ErrTypeMismatch, name, f)
	}
	return f.StringValue(), nil
}

func getLongField(e jsondom.Entity, m *jsondom.Object, name string) (int64, error) {
	f, err := findField(e, m, name)
	if err != nil {
		return 0, err
	}
	if f.Kind() != jsondom.KindLong {
		return 0, fmt.Errorf("%w: json field %q is not a long: %s", ErrTypeMismatch, name, f)
	}
	return f.LongValue(), nil
}

func getArrayField(e jsondom.Entity, m *jsondom.Object, name string) ([]jsondom.Entity, error) {
	f, err := findField(e, m, name)
	if err != nil {
		return nil, err
	}
	if f.Kind() != jsondom.KindArray {
		return nil, fmt.Errorf("%w: json field %q is not an array: %s", ErrTypeMismatch, name, f)
	}
	return f.ArrayValue(), nil
}

// getDocField reads doc and undoes the escaping applied when docs are
// serialized back out.
func getDocField(e jsondom.Entity, m *jsondom.Object) (string, error) {
	doc, err := getStringField(e, m, "doc")
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(doc, `\"`, `"`), nil
}

// getNameField resolves name and namespace for a named type declaration. A
// dotted name wins over a namespace attribute; an unqualified one takes the
// declared namespace, falling back to the enclosing one.
func getNameField(e jsondom.Entity, m *jsondom.Object, ns string) (Name, error) {
	name, err := getStringField(e, m, "name")
	if err != nil {
		return Name{}, err
	}
	if strings.Contains(name, ".") {
		return NewName(name, "")
	}
	if nsEnt, ok := m.Get("namespace"); ok {
		if nsEnt.Kind() != jsondom.KindString {
			return Name{}, fmt.Errorf("%w: json field %q is not a string: %s", ErrTypeMismatch, "namespace", nsEnt)
		}
		return NewName(name, nsEnt.StringValue())
	}
	return NewName(name, ns)
}
