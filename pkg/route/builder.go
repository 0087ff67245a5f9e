package route

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vyrodovalexey/routekit/internal/observability"
	"github.com/vyrodovalexey/routekit/pkg/qs"
)

const splatSuffix = "/*"

var (
	// paramToken matches ":name" with an optional "?".
	paramToken = regexp.MustCompile(`:([A-Za-z0-9_]+)\??`)

	repeatedSlashes = regexp.MustCompile(`/{2,}`)
)

// Prepared is the outcome of Build. When Fallback is set, Path is the raw
// template and Cause tells why.
type Prepared struct {
	Path     string
	Fallback bool
	Cause    error
}

// String returns Path.
func (p Prepared) String() string {
	return p.Path
}

// PrepareOption configures one Build call.
type PrepareOption func(*prepareOptions)

type prepareOptions struct {
	params *Values
	query  qs.Values
}

// WithParams sets the parameter values. Values not used by a named token
// fill the splat in insertion order.
func WithParams(params *Values) PrepareOption {
	return func(o *prepareOptions) {
		o.params = params
	}
}

// WithQuery sets the query object appended to the path.
func WithQuery(query qs.Values) PrepareOption {
	return func(o *prepareOptions) {
		o.query = query
	}
}

// Builder materializes routes into paths.
type Builder struct {
	table   *Table
	logger  observability.Logger
	metrics *observability.Metrics
}

// NewBuilder creates a builder over table.
func NewBuilder(table *Table, logger observability.Logger, metrics *observability.Metrics) *Builder {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Builder{
		table:   table,
		logger:  logger,
		metrics: metrics,
	}
}

// Build substitutes parameters into the named template, appends splat
// values and the query string. The only error is an unknown route; any
// other failure yields the raw template with Fallback set.
func (b *Builder) Build(name string, opts ...PrepareOption) (Prepared, error) {
	template, ok := b.table.Template(name)
	if !ok {
		b.metrics.RecordPrepare(observability.OutcomeUnknownRoute)
		return Prepared{}, &UnknownRouteError{Name: name}
	}

	var o prepareOptions
	for _, opt := range opts {
		opt(&o)
	}

	path, err := build(template, o)
	if err != nil {
		b.metrics.RecordPrepare(observability.OutcomeFallback)
		b.logger.Error("route build failed, using raw template",
			observability.String("route", name),
			observability.String("template", template),
			observability.Error(err),
		)
		return Prepared{Path: template, Fallback: true, Cause: err}, nil
	}

	b.metrics.RecordPrepare(observability.OutcomeOK)
	return Prepared{Path: path}, nil
}

func build(template string, o prepareOptions) (string, error) {
	used := make(map[string]struct{})
	for _, m := range paramToken.FindAllStringSubmatch(template, -1) {
		used[m[1]] = struct{}{}
	}

	var substErr error
	path := paramToken.ReplaceAllStringFunc(template, func(token string) string {
		name := strings.TrimSuffix(token[1:], "?")
		value, ok := o.params.Get(name)
		if !ok {
			return ""
		}
		s, err := stringifyParam(name, value)
		if err != nil && substErr == nil {
			substErr = err
		}
		return s
	})
	if substErr != nil {
		return "", substErr
	}

	if strings.HasSuffix(template, splatSuffix) {
		var segments []string
		for name, value := range o.params.All() {
			if _, consumed := used[name]; consumed {
				continue
			}
			s, err := stringifyParam(name, value)
			if err != nil {
				return "", err
			}
			if s != "" {
				segments = append(segments, s)
			}
		}

		path = strings.TrimSuffix(path, splatSuffix)
		if len(segments) > 0 {
			path += "/" + strings.Join(segments, "/")
		}
	}

	path = NormalizeSlashes(path)

	if len(o.query) > 0 {
		query, err := qs.Encode(o.query, qs.EncodeOptions{AddQueryPrefix: true})
		if err != nil {
			return "", fmt.Errorf("encoding query: %w", err)
		}
		path += query
	}

	return path, nil
}

func stringifyParam(name string, value any) (string, error) {
	s, err := qs.Stringify(value)
	if err != nil {
		return "", &ValueError{Param: name, Value: value, Cause: err}
	}
	return s, nil
}

// NormalizeSlashes drops "/?" remnants, collapses repeated slashes and
// strips one trailing slash. A path left empty becomes "/" rather than "",
// so the root route builds "/" and "/?a=1" with a query where a bare
// trailing-slash strip would give "" and "?a=1". It is idempotent.
func NormalizeSlashes(path string) string {
	for strings.Contains(path, "/?") {
		path = strings.ReplaceAll(path, "/?", "")
	}
	path = repeatedSlashes.ReplaceAllString(path, "/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return "/"
	}
	return path
}
