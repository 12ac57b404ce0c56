package modeladaptor

import (
	"fmt"
	"strings"
)

// ErrorKind identifies the kind of a resolution failure.
type ErrorKind string

const (
	// ErrNoCallOnString is reported when a path navigates through a plain string.
	ErrNoCallOnString ErrorKind = "no-call-on-string"
	// ErrPropertyAccess is reported when a getter or field read fails or no such member exists.
	ErrPropertyAccess ErrorKind = "property-access-error"
	// ErrNotArray is reported when an index is applied to nil or a non-sequence.
	ErrNotArray ErrorKind = "not-array-error"
	// ErrInvalidIndex is reported when an index is neither an integer nor "last".
	ErrInvalidIndex ErrorKind = "invalid-index-error"
	// ErrIndexOutOfBounds is reported when an index falls outside the sequence.
	ErrIndexOutOfBounds ErrorKind = "index-out-of-bounds-error"
)

// Token identifies where in a template an expression came from. The adaptor never
// inspects it; it is handed to the ErrorHandler unchanged.
type Token any

type invalidToken struct{}

func (invalidToken) String() string { return "<invalid>" }

// InvalidToken is used when no source location is available.
var InvalidToken Token = invalidToken{}

// KeyValue is a single context entry of an error report.
type KeyValue struct {
	Key   string
	Value any
}

// Context holds the ordered key/value details of an error report.
type Context []KeyValue

// Ctx builds a Context from alternating keys and values.
// A trailing key without a value is paired with nil.
func Ctx(kv ...any) Context {
	ctx := make(Context, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		var v any
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		ctx = append(ctx, KeyValue{Key: fmt.Sprint(kv[i]), Value: v})
	}
	return ctx
}

// Get returns the first value stored under key.
func (c Context) Get(key string) (any, bool) {
	for _, kv := range c {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// Fields converts the context into a map suitable for Logger.With.
func (c Context) Fields() map[string]any {
	fields := make(map[string]any, len(c))
	for _, kv := range c {
		fields[kv.Key] = kv.Value
	}
	return fields
}

func (c Context) String() string {
	var b strings.Builder
	for i, kv := range c {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(kv.Key)
		b.WriteByte('=')
		b.WriteString(safeSprint(kv.Value))
	}
	return b.String()
}

// ErrorReport is a single structured resolution failure.
type ErrorReport struct {
	Kind    ErrorKind
	Token   Token
	Context Context
}

func (r ErrorReport) String() string {
	var b strings.Builder
	b.WriteString(string(r.Kind))
	if r.Token != nil {
		b.WriteString(" at ")
		b.WriteString(safeSprint(r.Token))
	}
	if len(r.Context) > 0 {
		b.WriteString(": ")
		b.WriteString(r.Context.String())
	}
	return b.String()
}

// Error implements the error interface so reports can be joined and returned.
func (r ErrorReport) Error() string {
	return r.String()
}

// ErrorHandler receives error reports. Implementations decide whether to log,
// collect or escalate them; the adaptor always continues after reporting.
type ErrorHandler interface {
	Error(kind ErrorKind, token Token, ctx Context)
}

// ErrorHandlerFunc adapts a function to the ErrorHandler interface.
type ErrorHandlerFunc func(kind ErrorKind, token Token, ctx Context)

// Error calls f(kind, token, ctx).
func (f ErrorHandlerFunc) Error(kind ErrorKind, token Token, ctx Context) {
	f(kind, token, ctx)
}

// NoLogErrorHandler discards all reports.
type NoLogErrorHandler struct{}

// Error does nothing.
func (NoLogErrorHandler) Error(ErrorKind, Token, Context) {}

// errorString is the type of the ErrorValue sentinel.
type errorString struct{ s string }

func (e *errorString) String() string { return e.s }

var errorValue = &errorString{}

// ErrorValue stands in for a value that failed to resolve. It renders as the
// empty string. Compare with IsErrorValue, never by string content.
var ErrorValue any = errorValue

// IsErrorValue reports whether v is the ErrorValue sentinel.
func IsErrorValue(v any) bool {
	e, ok := v.(*errorString)
	return ok && e == errorValue
}
