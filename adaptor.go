// Package modeladaptor resolves template expressions such as "order.items[last].price"
// against an arbitrary model: nested maps, ordered maps, slices and plain Go values.
//
// Resolution never fails with a Go error. Problems are reported to an
// ErrorHandler with an ErrorKind, the template Token and key/value context, and
// the failed step evaluates to ErrorValue so rendering can continue:
//
//	a := modeladaptor.New()
//	var errs modeladaptor.Collector
//	v := a.Resolve(model, modeladaptor.ParsePath("user.address.city"), &errs, tok)
//
// Navigating through nil is not an error; the expression simply evaluates to nil.
//
// Properties of Go values resolve through getters named Get<Name>, Is<Name> or
// <Name>, then through exported fields. Lookups are cached per type, and an
// Adaptor is safe for concurrent use.
package modeladaptor

import (
	"fmt"
	"reflect"
	"strings"
)

// Adaptor resolves paths against models. Create one with New and share it.
type Adaptor struct {
	opts  Options
	log   Logger
	cache memberCache
}

// New creates an Adaptor. The first Options value is used when given,
// DefaultOptions otherwise. A given value replaces the defaults as a whole, so
// start from DefaultOptions and change the fields you need:
//
//	opts := modeladaptor.DefaultOptions()
//	opts.LoopMode = modeladaptor.LoopModeList
//	a := modeladaptor.New(opts)
func New(opts ...Options) *Adaptor {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.SpecialIteratorVariable == "" {
		opt.SpecialIteratorVariable = DefaultSpecialIteratorVariable
	}
	return &Adaptor{
		opts: opt,
		log:  opt.logger(),
	}
}

// Options returns the configuration the adaptor was created with.
func (a *Adaptor) Options() Options {
	return a.opts
}

// Logger returns the adaptor's logger.
func (a *Adaptor) Logger() Logger {
	return a.log
}

// CacheStats returns statistics of the member lookup cache.
func (a *Adaptor) CacheStats() CacheStats {
	return a.cache.stats()
}

// Resolve walks segments from root, left to right. It returns root when there
// are no segments and nil as soon as an intermediate value is nil. Failures are
// reported to h and replaced by ErrorValue; later segments see ErrorValue as
// their receiver and stay silent.
func (a *Adaptor) Resolve(root any, segments []string, h ErrorHandler, token Token) any {
	if h == nil {
		h = NoLogErrorHandler{}
	}
	current := root
	for _, s := range segments {
		if isNil(current) {
			return nil
		}
		// Strings have no properties and every further step would return the
		// same receiver, so report once and stop.
		if str, ok := current.(string); ok || IsErrorValue(current) {
			if !IsErrorValue(current) {
				h.Error(ErrNoCallOnString, token, Ctx("receiver", str))
			}
			return current
		}
		current = a.nextStep(current, s, h, token)
	}
	return current
}

// GetValue resolves a dotted expression against model without error reporting.
func (a *Adaptor) GetValue(model map[string]any, expression string) any {
	return a.Resolve(model, ParsePath(expression), NoLogErrorHandler{}, InvalidToken)
}

// nextStep resolves one segment against receiver o. Strings and ErrorValue are handled by Resolve.
func (a *Adaptor) nextStep(o any, attr string, h ErrorHandler, token Token) any {
	seg := parseSegment(attr)

	var result any
	if m, ok := asMapping(o); ok {
		result = accessMap(m, seg.name, a.opts.EnableSlowMapAccess)
	} else {
		if seq, ok := asSequence(o); ok && !seg.indexed && strings.EqualFold(seg.name, "length") {
			return seq.Len()
		}
		v, err := a.propertyValue(o, seg.name)
		if err != nil {
			h.Error(ErrPropertyAccess, token, Ctx("property", seg.name, "object", o, "exception", err))
			return ErrorValue
		}
		result = v
	}

	if seg.indexed {
		result = indexFromSequence(result, seg.index, h, token)
	}
	return result
}

// propertyValue resolves name on o. Entry values answer "key" and "value"
// directly; everything else goes through the member cache.
func (a *Adaptor) propertyValue(o any, name string) (any, error) {
	switch e := o.(type) {
	case Entry:
		if v, ok := entryField(e, name); ok {
			return v, nil
		}
	case *Entry:
		if v, ok := entryField(*e, name); ok {
			return v, nil
		}
	}

	t := reflect.TypeOf(o)
	acc, ok := a.cache.lookup(t, name)
	if !ok {
		acc = findMember(t, name)
		a.cache.store(t, name, acc)
		if logEnabled(a.log, LevelDebug) {
			a.log.With(map[string]any{"type": t.String(), "property": name, "member": acc.member}).
				Debugf("introspected member")
		}
	}
	if acc.kind == memberNone {
		return nil, fmt.Errorf("%w: %q on %s", ErrMemberNotFound, name, t)
	}
	return acc.get(reflect.ValueOf(o))
}

func entryField(e Entry, name string) (any, bool) {
	switch name {
	case "key":
		return e.Key, true
	case "value":
		return e.Value, true
	}
	return nil, false
}
