package modeladaptor

import "iter"

// Collection is implemented by container types that already know how to
// iterate themselves. Iterable returns their sequence unchanged.
type Collection interface {
	All() iter.Seq[any]
}

// Iterable converts value into the sequence a for-each construct loops over.
// It never fails:
//   - nil yields nothing
//   - a mapping yields its entries as Entry values, or the mapping itself in LoopModeList
//   - an iter.Seq[any] or Collection is returned as is
//   - slices, arrays and Sequence values yield their elements
//   - anything else yields itself once
func (a *Adaptor) Iterable(value any) iter.Seq[any] {
	if isNil(value) {
		return func(func(any) bool) {}
	}
	if m, ok := asMapping(value); ok {
		if a.opts.LoopMode == LoopModeList {
			return single(value)
		}
		return func(yield func(any) bool) {
			for k, v := range m.Entries() {
				if !yield(Entry{Key: k, Value: v}) {
					return
				}
			}
		}
	}
	switch t := value.(type) {
	case iter.Seq[any]:
		return t
	case Collection:
		return t.All()
	}
	if seq, ok := asSequence(value); ok {
		return func(yield func(any) bool) {
			for i := 0; i < seq.Len(); i++ {
				if !yield(seq.At(i)) {
					return
				}
			}
		}
	}
	return single(value)
}

func single(v any) iter.Seq[any] {
	return func(yield func(any) bool) {
		yield(v)
	}
}

// SpecialIteratorVariable returns the name under which a rendering engine
// exposes the current loop index.
func (a *Adaptor) SpecialIteratorVariable() string {
	return a.opts.SpecialIteratorVariable
}
