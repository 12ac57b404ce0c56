package modeladaptor

import (
	"strconv"
	"strings"
)

// indexFromSequence applies an index suffix to value. "last" selects the final
// element. Indexing nil yields ErrorValue; indexing any other non-sequence
// reports not-array-error but passes the value through unchanged.
func indexFromSequence(value any, index string, h ErrorHandler, token Token) any {
	if isNil(value) {
		h.Error(ErrNotArray, token, Ctx("array", "[null]"))
		return ErrorValue
	}
	report := func(kind ErrorKind, ctx Context) {
		if !IsErrorValue(value) {
			h.Error(kind, token, ctx)
		}
	}

	seq, ok := asSequence(value)
	if !ok {
		report(ErrNotArray, Ctx("array", value))
		return value
	}

	n := seq.Len()
	if strings.EqualFold(index, "last") {
		if n == 0 {
			report(ErrIndexOutOfBounds, Ctx("arrayIndex", index, "array", value))
			return ErrorValue
		}
		return seq.At(n - 1)
	}

	i, err := strconv.Atoi(index)
	if err != nil {
		report(ErrInvalidIndex, Ctx("arrayIndex", index, "array", value))
		return ErrorValue
	}
	if i < 0 || i >= n {
		report(ErrIndexOutOfBounds, Ctx("arrayIndex", index, "array", value))
		return ErrorValue
	}
	return seq.At(i)
}
