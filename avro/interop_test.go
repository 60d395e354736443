package avro

import (
	"bytes"
	"testing"

	hamba "github.com/hamba/avro/v2"
	goavro "github.com/linkedin/goavro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interop tests decode binary produced by independent Avro implementations,
// pinning wire-level compatibility rather than self-consistency.

func TestInterop_GoavroRecord(t *testing.T) {
	const schema = `{"type":"record","name":"person","fields":[
	  {"name":"name","type":"string"},
	  {"name":"age","type":"long"},
	  {"name":"tags","type":{"type":"array","items":"string"}}
	]}`

	codec, err := goavro.NewCodec(schema)
	require.NoError(t, err)
	bin, err := codec.BinaryFromNative(nil, map[string]interface{}{
		"name": "Ann",
		"age":  int64(30),
		"tags": []interface{}{"x", "y"},
	})
	require.NoError(t, err)

	s := mustCompile(t, schema)
	d := newDecoder(bin)
	datum, err := ReadGeneric(d, s)
	require.NoError(t, err)

	rec := datum.RecordValue()
	assert.Equal(t, "Ann", rec.FieldAt(0).StringValue())
	assert.Equal(t, int64(30), rec.FieldAt(1).LongValue())
	tags := rec.FieldAt(2).ArrayValue()
	require.Len(t, tags, 2)
	assert.Equal(t, "x", tags[0].StringValue())
	assert.Equal(t, "y", tags[1].StringValue())
}

func TestInterop_GoavroMap(t *testing.T) {
	const schema = `{"type":"map","values":"long"}`

	codec, err := goavro.NewCodec(schema)
	require.NoError(t, err)
	bin, err := codec.BinaryFromNative(nil, map[string]interface{}{
		"a": int64(1),
		"b": int64(2),
	})
	require.NoError(t, err)

	s := mustCompile(t, schema)
	datum, err := ReadGeneric(newDecoder(bin), s)
	require.NoError(t, err)

	// goavro iterates its map in unspecified order; compare as a set
	got := map[string]int64{}
	for _, e := range datum.MapValue() {
		got[e.Key] = e.Value.LongValue()
	}
	assert.Equal(t, map[string]int64{"a": 1, "b": 2}, got)
}

func TestInterop_GoavroUnion(t *testing.T) {
	const schema = `["null","string"]`

	codec, err := goavro.NewCodec(schema)
	require.NoError(t, err)
	bin, err := codec.BinaryFromNative(nil, goavro.Union("string", "hello"))
	require.NoError(t, err)

	s := mustCompile(t, schema)
	datum, err := ReadGeneric(newDecoder(bin), s)
	require.NoError(t, err)

	u := datum.UnionValue()
	assert.Equal(t, 1, u.Branch)
	assert.Equal(t, "hello", u.Value.StringValue())
}

func TestInterop_GoavroEnumAndFixed(t *testing.T) {
	const schema = `{"type":"record","name":"R","fields":[
	  {"name":"suit","type":{"type":"enum","name":"Suit","symbols":["SPADES","HEARTS"]}},
	  {"name":"sync","type":{"type":"fixed","name":"Sync","size":4}}
	]}`

	codec, err := goavro.NewCodec(schema)
	require.NoError(t, err)
	bin, err := codec.BinaryFromNative(nil, map[string]interface{}{
		"suit": "HEARTS",
		"sync": []byte{1, 2, 3, 4},
	})
	require.NoError(t, err)

	s := mustCompile(t, schema)
	datum, err := ReadGeneric(newDecoder(bin), s)
	require.NoError(t, err)

	rec := datum.RecordValue()
	assert.Equal(t, "HEARTS", rec.FieldAt(0).EnumValue().Symbol())
	assert.Equal(t, []byte{1, 2, 3, 4}, rec.FieldAt(1).FixedValue())
}

func TestInterop_HambaRecord(t *testing.T) {
	const schema = `{"type":"record","name":"person","fields":[
	  {"name":"name","type":"string"},
	  {"name":"age","type":"long"}
	]}`

	type person struct {
		Name string `avro:"name"`
		Age  int64  `avro:"age"`
	}

	hs, err := hamba.Parse(schema)
	require.NoError(t, err)
	bin, err := hamba.Marshal(hs, person{Name: "Bea", Age: 44})
	require.NoError(t, err)

	s := mustCompile(t, schema)
	datum, err := ReadGeneric(newDecoder(bin), s)
	require.NoError(t, err)

	rec := datum.RecordValue()
	assert.Equal(t, "Bea", rec.FieldAt(0).StringValue())
	assert.Equal(t, int64(44), rec.FieldAt(1).LongValue())
}

func TestInterop_HambaPrimitives(t *testing.T) {
	t.Run("Long", func(t *testing.T) {
		hs, err := hamba.Parse(`"long"`)
		require.NoError(t, err)
		bin, err := hamba.Marshal(hs, int64(-987654321))
		require.NoError(t, err)

		v, err := newDecoder(bin).DecodeLong()
		require.NoError(t, err)
		assert.Equal(t, int64(-987654321), v)
	})

	t.Run("String", func(t *testing.T) {
		hs, err := hamba.Parse(`"string"`)
		require.NoError(t, err)
		bin, err := hamba.Marshal(hs, "wire")
		require.NoError(t, err)

		v, err := newDecoder(bin).DecodeString()
		require.NoError(t, err)
		assert.Equal(t, "wire", v)
	})

	t.Run("Double", func(t *testing.T) {
		hs, err := hamba.Parse(`"double"`)
		require.NoError(t, err)
		bin, err := hamba.Marshal(hs, 2.75)
		require.NoError(t, err)

		v, err := newDecoder(bin).DecodeDouble()
		require.NoError(t, err)
		assert.Equal(t, 2.75, v)
	})
}

func TestInterop_HambaArrayViaStream(t *testing.T) {
	hs, err := hamba.Parse(`{"type":"array","items":"long"}`)
	require.NoError(t, err)
	bin, err := hamba.Marshal(hs, []int64{10, 20, 30})
	require.NoError(t, err)

	s := mustCompile(t, `{"type":"array","items":"long"}`)
	d := NewBinaryDecoder()
	d.Init(bytes.NewReader(bin))
	datum, err := ReadGeneric(d, s)
	require.NoError(t, err)

	items := datum.ArrayValue()
	require.Len(t, items, 3)
	assert.Equal(t, int64(20), items[1].LongValue())
}

func TestInterop_SchemaAcceptanceAgreesWithHamba(t *testing.T) {
	schemas := []string{
		`"int"`,
		`{"type":"array","items":"string"}`,
		`{"type":"map","values":"bytes"}`,
		`{"type":"record","name":"N","fields":[{"name":"x","type":"int","default":0}]}`,
		`{"type":"record","name":"List","fields":[{"name":"next","type":["null","List"]}]}`,
		`{"type":"enum","name":"E","symbols":["A","B"]}`,
		`{"type":"fixed","name":"F","size":8}`,
	}
	for _, schema := range schemas {
		_, hambaErr := hamba.Parse(schema)
		_, err := CompileJSONSchemaFromString(schema)
		assert.NoError(t, hambaErr, schema)
		assert.NoError(t, err, schema)
	}

	// both reject an unresolvable type name
	_, hambaErr := hamba.Parse(`"wtf"`)
	assert.Error(t, hambaErr)
	_, err := CompileJSONSchemaFromString(`"wtf"`)
	assert.Error(t, err)
}
