package route

import (
	"github.com/vyrodovalexey/routekit/internal/observability"
	"github.com/vyrodovalexey/routekit/pkg/qs"
)

// ParseResult is a resolved href. Params and Query are nil when empty.
type ParseResult struct {
	Route  string    `yaml:"route" json:"route"`
	Params Params    `yaml:"params,omitempty" json:"params,omitempty"`
	Query  qs.Values `yaml:"query,omitempty" json:"query,omitempty"`
}

// Resolver maps hrefs back to routes.
type Resolver struct {
	table   *Table
	source  MatcherSource
	logger  observability.Logger
	metrics *observability.Metrics
}

// NewResolver creates a resolver over table. A nil source means a default
// Compiler.
func NewResolver(table *Table, source MatcherSource, logger observability.Logger, metrics *observability.Metrics) *Resolver {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if source == nil {
		source = NewCompiler(WithCompilerLogger(logger), WithCompilerMetrics(metrics))
	}
	return &Resolver{
		table:   table,
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// Parse resolves href to the first route in table order whose template
// matches its path. Captures are coerced and the query is decoded.
func (r *Resolver) Parse(href string) (*ParseResult, bool) {
	path, rawQuery := splitHref(href)

	for name, template := range r.table.All() {
		m, ok := r.source.Compile(template).Match(path)
		if !ok {
			continue
		}

		result := &ParseResult{Route: name}
		if params := Coerce(m.Params); len(params) > 0 {
			result.Params = params
		}
		if query := qs.Decode(rawQuery); len(query) > 0 {
			result.Query = query
		}

		r.metrics.RecordParse(observability.OutcomeMatched)
		r.logger.Debug("href resolved",
			observability.String("href", href),
			observability.String("route", name),
		)
		return result, true
	}

	r.metrics.RecordParse(observability.OutcomeUnmatched)
	return nil, false
}

// IsAppPath reports whether the path of href matches any route. A path
// whose captures fail to percent-decode matches nothing, as in Parse.
func (r *Resolver) IsAppPath(href string) bool {
	path := appPath(href)
	for _, template := range r.table.All() {
		if r.source.Compile(template).Test(path) {
			return true
		}
	}
	return false
}
