package modeladaptor

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unicode"
	"unicode/utf8"
)

// ErrMemberNotFound is wrapped by property lookups that find neither a getter nor a field.
var ErrMemberNotFound = errors.New("member not found")

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type accessorKind uint8

const (
	memberNone accessorKind = iota
	memberMethod
	memberField
)

// accessor is the cached result of introspecting one (type, property) pair.
type accessor struct {
	kind      accessorKind
	member    string // Go name of the method or field
	index     []int  // method index, or field index path through embedded structs
	errResult bool   // method returns (value, error)
}

// findMember searches t for a getter named Get<Name>, Is<Name> or <Name>
// taking no arguments, then for an exported field named name or <Name>.
func findMember(t reflect.Type, name string) accessor {
	suffix := upperFirst(name)
	if suffix == "" {
		return accessor{}
	}
	for _, candidate := range [...]string{"Get" + suffix, "Is" + suffix, suffix} {
		m, ok := t.MethodByName(candidate)
		if !ok || !isGetter(m.Type) {
			continue
		}
		return accessor{
			kind:      memberMethod,
			member:    m.Name,
			index:     []int{m.Index},
			errResult: m.Type.NumOut() == 2,
		}
	}
	st := t
	for st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return accessor{}
	}
	for _, candidate := range [...]string{name, suffix} {
		f, ok := st.FieldByName(candidate)
		if ok && f.IsExported() {
			return accessor{kind: memberField, member: f.Name, index: f.Index}
		}
	}
	return accessor{}
}

// isGetter accepts methods (receiver included) with no arguments returning
// either one value or a value and an error.
func isGetter(mt reflect.Type) bool {
	if mt.NumIn() != 1 || mt.IsVariadic() {
		return false
	}
	switch mt.NumOut() {
	case 1:
		return true
	case 2:
		return mt.Out(1) == errorType
	}
	return false
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// get reads the member from v. Panics raised by getters are returned as errors.
func (a accessor) get(v reflect.Value) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", a.member, r)
		}
	}()

	switch a.kind {
	case memberMethod:
		out := v.Method(a.index[0]).Call(nil)
		if a.errResult && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil

	case memberField:
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil, fmt.Errorf("%s: nil pointer dereference", a.member)
			}
			v = v.Elem()
		}
		f, err := v.FieldByIndexErr(a.index)
		if err != nil {
			return nil, err
		}
		return f.Interface(), nil
	}
	return nil, ErrMemberNotFound
}

// memberCache maps runtime types to their resolved property accessors. It
// grows monotonically and is safe for concurrent use. Introspection runs
// outside any lock; concurrent misses may both introspect and store the same
// accessor.
type memberCache struct {
	types sync.Map // map[reflect.Type]*typeMembers

	hits   atomic.Uint64
	misses atomic.Uint64
}

type typeMembers struct {
	mu     sync.RWMutex
	byName map[string]accessor
}

func (c *memberCache) lookup(t reflect.Type, name string) (accessor, bool) {
	tm, ok := c.types.Load(t)
	if !ok {
		c.misses.Add(1)
		return accessor{}, false
	}
	members := tm.(*typeMembers)
	members.mu.RLock()
	acc, ok := members.byName[name]
	members.mu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return accessor{}, false
	}
	c.hits.Add(1)
	return acc, true
}

func (c *memberCache) store(t reflect.Type, name string, acc accessor) {
	tm, _ := c.types.LoadOrStore(t, &typeMembers{byName: make(map[string]accessor)})
	members := tm.(*typeMembers)
	members.mu.Lock()
	members.byName[name] = acc
	members.mu.Unlock()
}

// CacheStats holds member lookup cache statistics.
type CacheStats struct {
	Types   int    // Distinct runtime types introspected
	Entries int    // Cached (type, property) pairs, including misses
	Hits    uint64 // Lookups answered from the cache
	Misses  uint64 // Lookups that required introspection
}

func (c *memberCache) stats() CacheStats {
	s := CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
	c.types.Range(func(_, tm any) bool {
		members := tm.(*typeMembers)
		members.mu.RLock()
		s.Types++
		s.Entries += len(members.byName)
		members.mu.RUnlock()
		return true
	})
	return s
}
