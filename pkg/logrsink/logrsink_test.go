package logrsink

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speakeasy-api/modeladaptor"
)

func capture() (logr.Logger, *[]string) {
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{})
	return logger, &lines
}

func TestHandlerInfo(t *testing.T) {
	logger, lines := capture()
	h := New(logger)

	a := modeladaptor.New()
	v := a.Resolve(map[string]any{"items": nil}, []string{"items[0]"}, h, "line 3")
	assert.True(t, modeladaptor.IsErrorValue(v))

	require.Len(t, *lines, 1)
	line := (*lines)[0]
	assert.Contains(t, line, `"msg"="model resolution error"`)
	assert.Contains(t, line, `"kind"="not-array-error"`)
	assert.Contains(t, line, `"token"="line 3"`)
	assert.Contains(t, line, `"array"="[null]"`)
	assert.NotContains(t, line, `"error"=`)
}

func TestHandlerErrorKinds(t *testing.T) {
	logger, lines := capture()
	h := New(logger, modeladaptor.ErrIndexOutOfBounds)

	a := modeladaptor.New()
	model := map[string]any{"items": []any{"a"}}
	a.Resolve(model, []string{"items[5]"}, h, nil)
	a.Resolve(model, []string{"items[x]"}, h, nil)

	require.Len(t, *lines, 2)
	assert.Contains(t, (*lines)[0], `"error"=`)
	assert.Contains(t, (*lines)[0], `"kind"="index-out-of-bounds-error"`)
	assert.NotContains(t, (*lines)[0], `"token"=`)
	assert.NotContains(t, (*lines)[1], `"error"=`)
	assert.Contains(t, (*lines)[1], `"kind"="invalid-index-error"`)
}

func TestHandlerDiscard(t *testing.T) {
	h := New(logr.Discard(), modeladaptor.ErrNotArray)
	assert.NotPanics(t, func() {
		h.Error(modeladaptor.ErrNotArray, modeladaptor.InvalidToken, modeladaptor.Ctx("array", "[null]"))
	})
}
