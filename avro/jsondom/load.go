package jsondom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Load parses a single JSON document from r into an entity tree.
//
// Numbers are split into longs and doubles by lexical form: a number with no
// fraction and no exponent that fits in int64 is a long, anything else is a
// double. Trailing
// input after the document is an error.
func Load(r io.Reader) (Entity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Entity{}, fmt.Errorf("read input: %w", err)
	}
	p := &parser{
		data: data,
		dec:  json.NewDecoder(bytes.NewReader(data)),
		line: 1,
	}
	p.dec.UseNumber()

	tok, err := p.dec.Token()
	if err != nil {
		return Entity{}, fmt.Errorf("parse json: %w", err)
	}
	e, err := p.value(tok)
	if err != nil {
		return Entity{}, err
	}
	if p.dec.More() {
		return Entity{}, fmt.Errorf("trailing data after json document at line %d", p.lineAt(p.dec.InputOffset()))
	}
	return e, nil
}

// LoadString parses a single JSON document held in s.
func LoadString(s string) (Entity, error) {
	return Load(strings.NewReader(s))
}

type parser struct {
	data []byte
	dec  *json.Decoder

	// newline cursor so repeated line lookups stay linear
	off  int64
	line int
}

func (p *parser) lineAt(off int64) int {
	if off > int64(len(p.data)) {
		off = int64(len(p.data))
	}
	if off < p.off {
		p.off, p.line = 0, 1
	}
	p.line += bytes.Count(p.data[p.off:off], []byte{'\n'})
	p.off = off
	return p.line
}

func (p *parser) value(tok json.Token) (Entity, error) {
	line := p.lineAt(p.dec.InputOffset())
	switch t := tok.(type) {
	case nil:
		return Entity{kind: KindNull, line: line}, nil
	case bool:
		return Entity{kind: KindBool, line: line, value: t}, nil
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			n, err := t.Int64()
			if err == nil {
				return Entity{kind: KindLong, line: line, value: n}, nil
			}
			// out of int64 range, keep it as a double
		}
		f, err := t.Float64()
		if err != nil {
			return Entity{}, fmt.Errorf("invalid number %q at line %d", s, line)
		}
		return Entity{kind: KindDouble, line: line, value: f}, nil
	case string:
		return Entity{kind: KindString, line: line, value: t}, nil
	case json.Delim:
		switch t {
		case '[':
			return p.array(line)
		case '{':
			return p.object(line)
		}
	}
	return Entity{}, fmt.Errorf("unexpected token %v at line %d", tok, line)
}

func (p *parser) array(line int) (Entity, error) {
	elems := []Entity{}
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return Entity{}, fmt.Errorf("parse json array: %w", err)
		}
		e, err := p.value(tok)
		if err != nil {
			return Entity{}, err
		}
		elems = append(elems, e)
	}
	if _, err := p.dec.Token(); err != nil {
		return Entity{}, fmt.Errorf("parse json array: %w", err)
	}
	return Entity{kind: KindArray, line: line, value: elems}, nil
}

func (p *parser) object(line int) (Entity, error) {
	obj := newObject()
	for p.dec.More() {
		keyTok, err := p.dec.Token()
		if err != nil {
			return Entity{}, fmt.Errorf("parse json object: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Entity{}, fmt.Errorf("object key is not a string at line %d", p.lineAt(p.dec.InputOffset()))
		}
		valTok, err := p.dec.Token()
		if err != nil {
			return Entity{}, fmt.Errorf("parse json object: %w", err)
		}
		val, err := p.value(valTok)
		if err != nil {
			return Entity{}, err
		}
		obj.set(key, val)
	}
	if _, err := p.dec.Token(); err != nil {
		return Entity{}, fmt.Errorf("parse json object: %w", err)
	}
	return Entity{kind: KindObject, line: line, value: obj}, nil
}
