package avro

import "fmt"

// ReadGeneric decodes one value of schema s from d into a generic datum. The
// schema drives the decoder in declaration order; symbolic nodes are resolved
// as they are reached.
func ReadGeneric(d *Decoder, s ValidSchema) (Datum, error) {
	return readDatum(d, s.Root())
}

func readDatum(d *Decoder, n *Node) (Datum, error) {
	n = n.Resolve()
	switch n.Type() {
	case TypeNull:
		return NullDatum(), d.DecodeNull()
	case TypeBool:
		v, err := d.DecodeBool()
		if err != nil {
			return Datum{}, err
		}
		return BoolDatum(v), nil
	case TypeInt:
		v, err := d.DecodeInt()
		if err != nil {
			return Datum{}, err
		}
		return IntDatum(v), nil
	case TypeLong:
		v, err := d.DecodeLong()
		if err != nil {
			return Datum{}, err
		}
		return LongDatum(v), nil
	case TypeFloat:
		v, err := d.DecodeFloat()
		if err != nil {
			return Datum{}, err
		}
		return FloatDatum(v), nil
	case TypeDouble:
		v, err := d.DecodeDouble()
		if err != nil {
			return Datum{}, err
		}
		return DoubleDatum(v), nil
	case TypeString:
		v, err := d.DecodeString()
		if err != nil {
			return Datum{}, err
		}
		return StringDatum(v), nil
	case TypeBytes:
		v, err := d.DecodeBytes()
		if err != nil {
			return Datum{}, err
		}
		return BytesDatum(v), nil
	case TypeFixed:
		v, err := d.DecodeFixed(n.Size())
		if err != nil {
			return Datum{}, err
		}
		return FixedDatum(v), nil
	case TypeEnum:
		idx, err := d.DecodeEnum()
		if err != nil {
			return Datum{}, err
		}
		if idx < 0 || idx >= int64(n.Names()) {
			return Datum{}, fmt.Errorf("%w: index %d out of range for %s", ErrInvalidEnumSymbol, idx, n.Name().Fullname())
		}
		return EnumDatum(NewEnumIndex(n, int(idx))), nil
	case TypeRecord:
		rec := NewRecord(n)
		for i := 0; i < n.Leaves(); i++ {
			fd, err := readDatum(d, n.LeafAt(i))
			if err != nil {
				return Datum{}, fmt.Errorf("field %q: %w", n.NameAt(i), err)
			}
			rec.SetFieldAt(i, fd)
		}
		return RecordDatum(rec), nil
	case TypeArray:
		var items []Datum
		count, err := d.ArrayStart()
		if err != nil {
			return Datum{}, err
		}
		for count != 0 {
			for i := int64(0); i < count; i++ {
				item, err := readDatum(d, n.LeafAt(0))
				if err != nil {
					return Datum{}, err
				}
				items = append(items, item)
			}
			if count, err = d.doDecodeItemCount(); err != nil {
				return Datum{}, err
			}
		}
		if items == nil {
			items = []Datum{}
		}
		return ArrayDatum(items), nil
	case TypeMap:
		var entries []MapEntry
		count, err := d.MapStart()
		if err != nil {
			return Datum{}, err
		}
		for count != 0 {
			for i := int64(0); i < count; i++ {
				key, err := d.DecodeString()
				if err != nil {
					return Datum{}, err
				}
				value, err := readDatum(d, n.LeafAt(1))
				if err != nil {
					return Datum{}, err
				}
				entries = append(entries, MapEntry{Key: key, Value: value})
			}
			if count, err = d.MapNext(); err != nil {
				return Datum{}, err
			}
		}
		if entries == nil {
			entries = []MapEntry{}
		}
		return MapDatum(entries), nil
	case TypeUnion:
		idx, err := d.DecodeUnionIndex()
		if err != nil {
			return Datum{}, err
		}
		if idx < 0 || idx >= int64(n.Leaves()) {
			return Datum{}, fmt.Errorf("%w: union index %d out of range", ErrInvalidSchema, idx)
		}
		v, err := readDatum(d, n.LeafAt(int(idx)))
		if err != nil {
			return Datum{}, err
		}
		return UnionDatum(&Union{Branch: int(idx), Value: v}), nil
	}
	return Datum{}, fmt.Errorf("%w: cannot read %s", ErrUnknownType, n.Type())
}
