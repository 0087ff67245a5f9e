package route

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/vyrodovalexey/routekit/internal/observability"
	"github.com/vyrodovalexey/routekit/pkg/qs"
)

func testBuildTable() *Table {
	return MustTable(
		Entry{Name: "home", Template: "/"},
		Entry{Name: "profile", Template: "/user/:id"},
		Entry{Name: "post", Template: "/blog/:year/:slug"},
		Entry{Name: "legacy", Template: "/more/:slug/:secondSlug?"},
		Entry{Name: "files", Template: "/files/*"},
		Entry{Name: "docs", Template: "/docs/:lang/*"},
	)
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		route    string
		opts     []PrepareOption
		expected string
	}{
		{
			name:     "root",
			route:    "home",
			expected: "/",
		},
		{
			name:     "root with query keeps the slash",
			route:    "home",
			opts:     []PrepareOption{WithQuery(qs.Values{"a": "1"})},
			expected: "/?a=1",
		},
		{
			name:     "number parameter",
			route:    "profile",
			opts:     []PrepareOption{WithParams(ValuesOf("id", 42))},
			expected: "/user/42",
		},
		{
			name:     "string parameters",
			route:    "post",
			opts:     []PrepareOption{WithParams(ValuesOf("year", "2024", "slug", "hello"))},
			expected: "/blog/2024/hello",
		},
		{
			name:     "missing parameter leaves no empty segment",
			route:    "post",
			opts:     []PrepareOption{WithParams(ValuesOf("slug", "hello"))},
			expected: "/blog/hello",
		},
		{
			name:     "optional parameter given",
			route:    "legacy",
			opts:     []PrepareOption{WithParams(ValuesOf("slug", "a", "secondSlug", "b"))},
			expected: "/more/a/b",
		},
		{
			name:     "optional parameter absent",
			route:    "legacy",
			opts:     []PrepareOption{WithParams(ValuesOf("slug", "a"))},
			expected: "/more/a",
		},
		{
			name:     "optional parameter nil",
			route:    "legacy",
			opts:     []PrepareOption{WithParams(ValuesOf("slug", "a", "secondSlug", nil))},
			expected: "/more/a",
		},
		{
			name:     "optional parameter empty",
			route:    "legacy",
			opts:     []PrepareOption{WithParams(ValuesOf("slug", "a", "secondSlug", ""))},
			expected: "/more/a",
		},
		{
			name:     "splat values in insertion order",
			route:    "files",
			opts:     []PrepareOption{WithParams(ValuesOf("a", "x", "b", "y"))},
			expected: "/files/x/y",
		},
		{
			name:     "splat values not sorted",
			route:    "files",
			opts:     []PrepareOption{WithParams(ValuesOf("z", "1", "a", "2", "m", "3"))},
			expected: "/files/1/2/3",
		},
		{
			name:     "splat drops empty values",
			route:    "files",
			opts:     []PrepareOption{WithParams(ValuesOf("a", "", "b", nil, "c", "z"))},
			expected: "/files/z",
		},
		{
			name:     "splat without values",
			route:    "files",
			expected: "/files",
		},
		{
			name:     "named parameters are not repeated in the splat",
			route:    "docs",
			opts:     []PrepareOption{WithParams(ValuesOf("lang", "en", "p1", "guide", "p2", "intro"))},
			expected: "/docs/en/guide/intro",
		},
		{
			name:     "query appended",
			route:    "profile",
			opts:     []PrepareOption{WithParams(ValuesOf("id", 7)), WithQuery(qs.Values{"tab": "posts", "page": 2})},
			expected: "/user/7?page=2&tab=posts",
		},
		{
			name:     "empty query ignored",
			route:    "profile",
			opts:     []PrepareOption{WithParams(ValuesOf("id", 7)), WithQuery(qs.Values{})},
			expected: "/user/7",
		},
		{
			name:     "zero is a value",
			route:    "profile",
			opts:     []PrepareOption{WithParams(ValuesOf("id", 0))},
			expected: "/user/0",
		},
		{
			name:     "float parameter",
			route:    "profile",
			opts:     []PrepareOption{WithParams(ValuesOf("id", 1.5))},
			expected: "/user/1.5",
		},
		{
			name:     "coerced parameter",
			route:    "profile",
			opts:     []PrepareOption{WithParams(ValuesOf("id", NumberParam(9)))},
			expected: "/user/9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := NewBuilder(testBuildTable(), observability.NopLogger(), nil)
			got, err := b.Build(tt.route, tt.opts...)
			require.NoError(t, err)
			assert.False(t, got.Fallback)
			assert.NoError(t, got.Cause)
			assert.Equal(t, tt.expected, got.Path)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestBuilder_UnknownRoute(t *testing.T) {
	t.Parallel()

	metrics := observability.NewMetrics("")
	b := NewBuilder(testBuildTable(), observability.NopLogger(), metrics)

	_, err := b.Build("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownRoute))

	var unknown *UnknownRouteError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Name)

	assert.Equal(t, 1.0, metricValue(t, metrics.Registry(), "routekit_prepare_total", "outcome", "unknown_route"))
}

func TestBuilder_FallbackOnUnsupportedValue(t *testing.T) {
	t.Parallel()

	logger, logs := newObservedLogger(zapcore.ErrorLevel)
	metrics := observability.NewMetrics("")
	b := NewBuilder(testBuildTable(), logger, metrics)

	got, err := b.Build("profile", WithParams(ValuesOf("id", []int{1, 2})))
	require.NoError(t, err)
	assert.True(t, got.Fallback)
	assert.Equal(t, "/user/:id", got.Path)

	var valueErr *ValueError
	require.True(t, errors.As(got.Cause, &valueErr))
	assert.Equal(t, "id", valueErr.Param)
	assert.True(t, errors.Is(got.Cause, ErrInvalidValue))

	entries := logs.FilterMessage("route build failed, using raw template").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "profile", entries[0].ContextMap()["route"])

	assert.Equal(t, 1.0, metricValue(t, metrics.Registry(), "routekit_prepare_total", "outcome", "fallback"))
}

func TestBuilder_FallbackOnUnsupportedSplatValue(t *testing.T) {
	t.Parallel()

	b := NewBuilder(testBuildTable(), observability.NopLogger(), nil)

	got, err := b.Build("files", WithParams(ValuesOf("a", struct{}{})))
	require.NoError(t, err)
	assert.True(t, got.Fallback)
	assert.Equal(t, "/files/*", got.Path)
}

func TestBuilder_FallbackOnUnsupportedQuery(t *testing.T) {
	t.Parallel()

	b := NewBuilder(testBuildTable(), observability.NopLogger(), nil)

	got, err := b.Build("home", WithQuery(qs.Values{"ch": make(chan int)}))
	require.NoError(t, err)
	assert.True(t, got.Fallback)
	assert.Equal(t, "/", got.Path)
	assert.Error(t, got.Cause)
}

func TestBuilder_StringerValue(t *testing.T) {
	t.Parallel()

	b := NewBuilder(testBuildTable(), observability.NopLogger(), nil)

	got, err := b.Build("profile", WithParams(ValuesOf("id", 90*time.Second)))
	require.NoError(t, err)
	assert.Equal(t, "/user/1m30s", got.Path)
}

func TestNormalizeSlashes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"/a/b", "/a/b"},
		{"/a//b", "/a/b"},
		{"//a///b//", "/a/b"},
		{"/a/b/", "/a/b"},
		{"/a/?", "/a"},
		{"/", "/"},
		{"", "/"},
		{"//", "/"},
		{"//??", "/"},
	}

	for _, tt := range tests {
		once := NormalizeSlashes(tt.input)
		assert.Equal(t, tt.expected, once, "input %q", tt.input)
		assert.Equal(t, once, NormalizeSlashes(once), "idempotence for %q", tt.input)
	}
}
