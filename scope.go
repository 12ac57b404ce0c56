package modeladaptor

import (
	"iter"
	"maps"
	"slices"
)

// ScopedMap layers local scopes (loop variables, macro parameters) over a
// model. Lookups search from the innermost scope outwards. Keys are matched
// exactly: the slow string-equality scan never applies to a ScopedMap.
//
// A ScopedMap belongs to a single render and is not safe for concurrent use.
type ScopedMap struct {
	frames []map[string]any
}

// NewScopedMap returns a ScopedMap whose outermost scope is model.
// The model is never written to.
func NewScopedMap(model map[string]any) *ScopedMap {
	if model == nil {
		model = map[string]any{}
	}
	return &ScopedMap{frames: []map[string]any{model, {}}}
}

// Push opens a new innermost scope.
func (s *ScopedMap) Push() {
	s.frames = append(s.frames, map[string]any{})
}

// Pop discards the innermost scope. The model and the first local scope are never popped.
func (s *ScopedMap) Pop() {
	if len(s.frames) > 2 {
		s.frames[len(s.frames)-1] = nil
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth returns the number of local scopes above the model.
func (s *ScopedMap) Depth() int {
	return len(s.frames) - 1
}

// Set binds key in the innermost scope.
func (s *ScopedMap) Set(key string, value any) {
	s.frames[len(s.frames)-1][key] = value
}

// Lookup returns the innermost binding of key.
func (s *ScopedMap) Lookup(key string) (any, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Len returns the number of visible keys.
func (s *ScopedMap) Len() int {
	return len(s.visible())
}

// Entries yields the visible bindings in sorted key order.
func (s *ScopedMap) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		visible := s.visible()
		for _, k := range slices.Sorted(maps.Keys(visible)) {
			if !yield(k, visible[k]) {
				return
			}
		}
	}
}

func (s *ScopedMap) visible() map[string]any {
	out := make(map[string]any)
	for _, frame := range s.frames {
		maps.Copy(out, frame)
	}
	return out
}

func (s *ScopedMap) exactKeysOnly() {}

var _ Mapping = (*ScopedMap)(nil)
