package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/itchyny/go-yaml"

	"github.com/speakeasy-api/modeladaptor"
)

// record is one resolved expression, or one loop element when index >= 0.
type record struct {
	expr    string
	iterVar string
	index   int
	value   any
}

type writer struct {
	format string
	out    io.Writer
	docs   int
}

func newWriter(format string, out io.Writer) (*writer, error) {
	switch format {
	case "text", "yaml", "json":
		return &writer{format: format, out: out}, nil
	}
	return nil, fmt.Errorf("invalid output format %q", format)
}

func (w *writer) write(r record) error {
	switch w.format {
	case "yaml":
		b, err := yaml.Marshal(r.document())
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", r.expr, err)
		}
		if w.docs > 0 {
			if _, err := io.WriteString(w.out, "---\n"); err != nil {
				return err
			}
		}
		w.docs++
		_, err = w.out.Write(b)
		return err

	case "json":
		b, err := json.Marshal(r.document())
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", r.expr, err)
		}
		_, err = fmt.Fprintf(w.out, "%s\n", b)
		return err
	}

	s, err := formatText(r.value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.expr, err)
	}
	if r.index >= 0 {
		_, err = fmt.Fprintf(w.out, "%s[%s=%d] = %s\n", r.expr, r.iterVar, r.index, s)
		return err
	}
	_, err = fmt.Fprintf(w.out, "%s = %s\n", r.expr, s)
	return err
}

func (r record) document() object {
	doc := object{{Key: "expression", Value: r.expr}}
	if r.index >= 0 {
		doc = append(doc, member{Key: r.iterVar, Value: r.index})
	}
	return append(doc, member{Key: "value", Value: plain(r.value)})
}

func formatText(v any) (string, error) {
	switch t := plain(v).(type) {
	case nil:
		return "null", nil
	case string:
		return t, nil
	case object, []any:
		b, err := json.Marshal(t)
		return string(b), err
	default:
		return fmt.Sprint(t), nil
	}
}

// object is an ordered mapping that encodes to YAML and JSON in entry order.
type object []member

type member struct {
	Key   any
	Value any
}

// MarshalYAML implements yaml.Marshaler, emitting a mapping node in entry order.
func (o object) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Content: make([]*yaml.Node, 0, 2*len(o))}
	for _, m := range o {
		var k, v yaml.Node
		if err := k.Encode(m.Key); err != nil {
			return nil, err
		}
		if err := v.Encode(m.Value); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &k, &v)
	}
	return n, nil
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key := fmt.Sprint(m.Key)
		if s, ok := m.Key.(string); ok {
			key = s
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// plain converts resolved values into encodable ones: mappings and entries
// become objects, sequences []any, and ErrorValue the empty string.
func plain(v any) any {
	if modeladaptor.IsErrorValue(v) {
		return ""
	}
	switch t := v.(type) {
	case nil, string, bool, int, int64, uint64, float64:
		return v
	case modeladaptor.Entry:
		return object{{Key: "key", Value: plain(t.Key)}, {Key: "value", Value: plain(t.Value)}}
	}
	if m, ok := modeladaptor.AsMapping(v); ok {
		obj := make(object, 0, m.Len())
		for k, val := range m.Entries() {
			obj = append(obj, member{Key: k, Value: plain(val)})
		}
		return obj
	}
	if s, ok := modeladaptor.AsSequence(v); ok {
		list := make([]any, s.Len())
		for i := range list {
			list[i] = plain(s.At(i))
		}
		return list
	}
	return v
}
