package route

import (
	"github.com/vyrodovalexey/routekit/internal/observability"
	"github.com/vyrodovalexey/routekit/pkg/pattern"
)

// Routes bundles the builder, resolver and matcher over one table.
// It is safe for concurrent use.
type Routes struct {
	table    *Table
	source   MatcherSource
	builder  *Builder
	resolver *Resolver
	logger   observability.Logger
}

// Option configures Init.
type Option func(*options)

type options struct {
	logger      observability.Logger
	metrics     *observability.Metrics
	cacheSize   int
	splatKey    string
	patternOpts []pattern.Option
}

// WithLogger sets the logger. The default is the global logger.
func WithLogger(logger observability.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// WithCache memoizes compiled templates in an LRU of the given size.
func WithCache(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// WithSplatKey sets the capture name for translated legacy splats.
func WithSplatKey(key string) Option {
	return func(o *options) {
		o.splatKey = key
	}
}

// WithPatternOptions passes options to the pattern engine.
func WithPatternOptions(opts ...pattern.Option) Option {
	return func(o *options) {
		o.patternOpts = append(o.patternOpts, opts...)
	}
}

// Init binds the route operations to table.
func Init(table *Table, opts ...Option) *Routes {
	o := options{splatKey: DefaultSplatKey}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = observability.GetGlobalLogger()
	}

	compiler := NewCompiler(
		WithCompilerLogger(o.logger),
		WithCompilerMetrics(o.metrics),
		WithCompilerSplatKey(o.splatKey),
		WithCompilerPatternOptions(o.patternOpts...),
	)

	r := &Routes{
		table:  table,
		source: compiler,
		logger: o.logger,
	}

	if o.cacheSize > 0 {
		cache, err := NewCachedCompiler(compiler, o.cacheSize, o.metrics)
		if err != nil {
			o.logger.Warn("matcher cache disabled", observability.Error(err))
		} else {
			r.source = cache
		}
	}

	r.builder = NewBuilder(table, o.logger, o.metrics)
	r.resolver = NewResolver(table, r.source, o.logger, o.metrics)
	o.metrics.SetTableRoutes(table.Len())

	return r
}

// Table returns the bound table.
func (r *Routes) Table() *Table {
	return r.table
}

// Prepare builds the named route and reports whether the fallback was used.
func (r *Routes) Prepare(name string, opts ...PrepareOption) (Prepared, error) {
	return r.builder.Build(name, opts...)
}

// PrepareRoute builds the named route into a path. On a build failure the
// raw template is returned; the only error is an unknown route.
func (r *Routes) PrepareRoute(name string, opts ...PrepareOption) (string, error) {
	p, err := r.builder.Build(name, opts...)
	if err != nil {
		return "", err
	}
	return p.Path, nil
}

// ParseHref resolves href to a route, its parameters and query.
func (r *Routes) ParseHref(href string) (*ParseResult, bool) {
	return r.resolver.Parse(href)
}

// IsAppPath reports whether href points at any route.
func (r *Routes) IsAppPath(href string) bool {
	return r.resolver.IsAppPath(href)
}

// Matches reports whether path matches template.
func (r *Routes) Matches(template, path string) bool {
	return r.source.Compile(template).Test(path)
}

// Check compiles every template in table order.
func (r *Routes) Check() []CheckResult {
	results := make([]CheckResult, 0, r.table.Len())
	for name, template := range r.table.All() {
		results = append(results, CheckResult{Name: name, CompileResult: r.source.Compile(template)})
	}
	return results
}

// CheckResult is the compile outcome of one named route.
type CheckResult struct {
	Name string
	CompileResult
}

// PrepareRoute builds the named route of table with a fresh Routes.
func PrepareRoute(table *Table, name string, opts ...PrepareOption) (string, error) {
	return Init(table).PrepareRoute(name, opts...)
}

// ParseHref resolves href against table with a fresh Routes.
func ParseHref(table *Table, href string) (*ParseResult, bool) {
	return Init(table).ParseHref(href)
}

// IsAppPath reports whether href matches a route of table.
func IsAppPath(table *Table, href string) bool {
	return Init(table).IsAppPath(href)
}
