package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speakeasy-api/modeladaptor"
)

type item struct {
	Name string
}

func TestHandlerCountsByKind(t *testing.T) {
	registry := prometheus.NewRegistry()
	a := modeladaptor.New()
	m, err := New(registry, a)
	require.NoError(t, err)

	var collected modeladaptor.Collector
	h := m.Handler(&collected)

	model := map[string]any{
		"name":  "ada",
		"items": []any{1, 2},
	}
	a.Resolve(model, []string{"name", "length"}, h, nil)
	a.Resolve(model, []string{"items[9]"}, h, nil)
	a.Resolve(model, []string{"items[x]"}, h, nil)
	a.Resolve(model, []string{"items[last]"}, h, nil)

	assert.Equal(t, 3, collected.Len(), "reports are forwarded")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(string(modeladaptor.ErrNoCallOnString))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(string(modeladaptor.ErrIndexOutOfBounds))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(string(modeladaptor.ErrInvalidIndex))))
	assert.Equal(t, 3, testutil.CollectAndCount(m.errors))
}

func TestHandlerWithoutNext(t *testing.T) {
	m := newMetrics(modeladaptor.New())
	require.NotPanics(t, func() {
		m.Handler(nil).Error(modeladaptor.ErrNotArray, nil, nil)
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(string(modeladaptor.ErrNotArray))))
}

func TestCacheCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	a := modeladaptor.New()
	m, err := New(registry, a)
	require.NoError(t, err)

	v := item{Name: "widget"}
	for range 3 {
		assert.Equal(t, "widget", m.Resolve(v, []string{"Name"}, nil, nil))
	}

	expected := `
# HELP modeladaptor_member_cache_hits_total Property lookups answered from the member cache.
# TYPE modeladaptor_member_cache_hits_total counter
modeladaptor_member_cache_hits_total 2
# HELP modeladaptor_member_cache_misses_total Property lookups that required introspection.
# TYPE modeladaptor_member_cache_misses_total counter
modeladaptor_member_cache_misses_total 1
# HELP modeladaptor_member_cache_types Distinct runtime types held in the member cache.
# TYPE modeladaptor_member_cache_types gauge
modeladaptor_member_cache_types 1
`
	err = testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"modeladaptor_member_cache_hits_total",
		"modeladaptor_member_cache_misses_total",
		"modeladaptor_member_cache_types",
	)
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(m.resolveDuration))
}

func TestRegisterTwice(t *testing.T) {
	registry := prometheus.NewRegistry()
	a := modeladaptor.New()

	_, err := New(registry, a)
	require.NoError(t, err)

	_, err = New(registry, a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to register metrics")
}
