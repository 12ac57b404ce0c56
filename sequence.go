package modeladaptor

import "reflect"

// Sequence is implemented by custom list types that want index access,
// "length" and iteration without reflection.
type Sequence interface {
	Len() int
	At(i int) any
}

type anySlice []any

func (s anySlice) Len() int     { return len(s) }
func (s anySlice) At(i int) any { return s[i] }

// reflectSequence views any Go slice or array.
type reflectSequence struct {
	v reflect.Value
}

func (s reflectSequence) Len() int     { return s.v.Len() }
func (s reflectSequence) At(i int) any { return s.v.Index(i).Interface() }

// AsSequence returns the Sequence view the adaptor uses for v.
func AsSequence(v any) (Sequence, bool) {
	return asSequence(v)
}

// asSequence returns a Sequence view of v when v is a slice, an array, a
// pointer to an array or a Sequence. Strings are not sequences.
func asSequence(v any) (Sequence, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case Sequence:
		return t, true
	case []any:
		return anySlice(t), true
	case string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Array {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return reflectSequence{v: rv}, true
	}
	return nil, false
}

// isNil reports whether v is nil or a nil pointer or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
