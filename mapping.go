package modeladaptor

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Mapping is a keyed container. Built-in Go maps and sequencedmap.Map values
// are adapted automatically; other container types can implement it directly.
type Mapping interface {
	Len() int
	// Lookup returns the value stored under the exact key.
	Lookup(key string) (any, bool)
	// Entries yields all keys and values in iteration order.
	Entries() iter.Seq2[any, any]
}

// Entry is a key/value pair. Iterating a mapping and the "_entries" pseudo-key
// produce entries; their "key" and "value" properties resolve directly.
type Entry struct {
	Key   any
	Value any
}

func (e Entry) String() string {
	return fmt.Sprintf("%v=%v", e.Key, e.Value)
}

// exactKeyMapping marks mappings that never take the string-equality key scan.
type exactKeyMapping interface {
	exactKeysOnly()
}

// AsMapping returns the Mapping view the adaptor uses for v, if v is a
// mapping. Built-in Go maps other than map[string]any iterate in sorted key order.
func AsMapping(v any) (Mapping, bool) {
	return asMapping(v)
}

// asMapping returns a Mapping view of v.
func asMapping(v any) (Mapping, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case Mapping:
		return t, true
	case map[string]any:
		return stringMap(t), true
	case *sequencedmap.Map[string, any]:
		if t == nil {
			return nil, false
		}
		return orderedMap[string]{m: t}, true
	case *sequencedmap.Map[any, any]:
		if t == nil {
			return nil, false
		}
		return orderedMap[any]{m: t}, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map {
		return reflectMap{v: rv}, true
	}
	return nil, false
}

// stringMap iterates in sorted key order.
type stringMap map[string]any

func (m stringMap) Len() int { return len(m) }

func (m stringMap) Lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m stringMap) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}

// orderedMap iterates in insertion order.
type orderedMap[K comparable] struct {
	m *sequencedmap.Map[K, any]
}

func (o orderedMap[K]) Len() int { return o.m.Len() }

func (o orderedMap[K]) Lookup(key string) (any, bool) {
	k, ok := any(key).(K)
	if !ok {
		return nil, false
	}
	return o.m.Get(k)
}

func (o orderedMap[K]) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for k, v := range o.m.All() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// reflectMap adapts any other Go map. Keys iterate in sorted order.
type reflectMap struct {
	v reflect.Value
}

func (m reflectMap) Len() int { return m.v.Len() }

func (m reflectMap) Lookup(key string) (any, bool) {
	kt := m.v.Type().Key()
	var k reflect.Value
	switch {
	case kt.Kind() == reflect.String:
		k = reflect.ValueOf(key).Convert(kt)
	case kt.Kind() == reflect.Interface && reflect.TypeOf(key).AssignableTo(kt):
		k = reflect.ValueOf(key)
	default:
		return nil, false
	}
	v := m.v.MapIndex(k)
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

func (m reflectMap) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		// MapRange rather than MapIndex: keys such as NaN never compare equal to themselves.
		type pair struct{ k, v reflect.Value }
		pairs := make([]pair, 0, m.v.Len())
		for it := m.v.MapRange(); it.Next(); {
			pairs = append(pairs, pair{it.Key(), it.Value()})
		}
		slices.SortFunc(pairs, func(a, b pair) int { return compareKeys(a.k, b.k) })
		for _, p := range pairs {
			if !yield(p.k.Interface(), p.v.Interface()) {
				return
			}
		}
	}
}

// compareKeys orders map keys numerically or lexically, falling back to their
// printed form for mixed or composite keys.
func compareKeys(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface {
		b = b.Elem()
	}
	if a.IsValid() && b.IsValid() && a.Kind() == b.Kind() {
		switch a.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return cmp.Compare(a.Int(), b.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return cmp.Compare(a.Uint(), b.Uint())
		case reflect.Float32, reflect.Float64:
			return cmp.Compare(a.Float(), b.Float())
		case reflect.String:
			return cmp.Compare(a.String(), b.String())
		}
	}
	return cmp.Compare(printKey(a), printKey(b))
}

func printKey(v reflect.Value) string {
	if !v.IsValid() {
		return fmt.Sprint(nil)
	}
	return fmt.Sprint(v.Interface())
}

// accessMap looks a key up in m. The pseudo-keys "_entries", "_keys" and
// "_values" select the entry, key and value sequences. When the direct lookup
// yields nil and slow access is enabled, entries are scanned for a key whose
// printed form equals key; the first match in iteration order wins.
func accessMap(m Mapping, key string, slow bool) any {
	var result any
	switch key {
	case "_entries":
		result = entriesOf(m)
	case "_keys":
		result = keysOf(m)
	case "_values":
		result = valuesOf(m)
	default:
		result, _ = m.Lookup(key)
	}
	if result != nil || !slow {
		return result
	}
	if _, ok := m.(exactKeyMapping); ok {
		return nil
	}
	for k, v := range m.Entries() {
		if fmt.Sprint(k) == key {
			return v
		}
	}
	return nil
}

func entriesOf(m Mapping) []Entry {
	out := make([]Entry, 0, m.Len())
	for k, v := range m.Entries() {
		out = append(out, Entry{Key: k, Value: v})
	}
	return out
}

func keysOf(m Mapping) []any {
	out := make([]any, 0, m.Len())
	for k := range m.Entries() {
		out = append(out, k)
	}
	return out
}

func valuesOf(m Mapping) []any {
	out := make([]any, 0, m.Len())
	for _, v := range m.Entries() {
		out = append(out, v)
	}
	return out
}
