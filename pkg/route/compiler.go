package route

import (
	"github.com/vyrodovalexey/routekit/internal/observability"
	"github.com/vyrodovalexey/routekit/pkg/pattern"
)

// Stage tells how a template was compiled.
type Stage int

const (
	// StageFailed means neither the template nor its translation compiled.
	StageFailed Stage = iota
	// StageDirect means the template compiled as written.
	StageDirect
	// StageTranslated means the template compiled after legacy translation.
	StageTranslated
)

// String returns the stage name used in logs and metrics.
func (s Stage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageTranslated:
		return "translated"
	default:
		return "failed"
	}
}

// CompileResult is the outcome of compiling one template. A failed result
// has a nil Matcher and never matches.
type CompileResult struct {
	Template   string
	Translated string
	Stage      Stage
	Matcher    *pattern.Matcher
	Err        error
}

// OK reports whether a matcher was produced.
func (r CompileResult) OK() bool {
	return r.Stage != StageFailed && r.Matcher != nil
}

// Match runs the capture matcher; failed results never match.
func (r CompileResult) Match(path string) (*pattern.Match, bool) {
	if !r.OK() {
		return nil, false
	}
	return r.Matcher.Match(path)
}

// Test runs the boolean matcher; failed results never match.
func (r CompileResult) Test(path string) bool {
	if !r.OK() {
		return false
	}
	return r.Matcher.Test(path)
}

// MatcherSource compiles templates. Compiler and CachedCompiler implement it.
type MatcherSource interface {
	Compile(template string) CompileResult
}

// Compiler compiles templates with the two-stage strategy: as written,
// then translated. It keeps no state between calls.
type Compiler struct {
	logger      observability.Logger
	metrics     *observability.Metrics
	splatKey    string
	patternOpts []pattern.Option
}

// CompilerOption is a functional option for NewCompiler.
type CompilerOption func(*Compiler)

// WithCompilerLogger sets the logger for compile failures.
func WithCompilerLogger(logger observability.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithCompilerMetrics sets the metrics sink.
func WithCompilerMetrics(metrics *observability.Metrics) CompilerOption {
	return func(c *Compiler) {
		c.metrics = metrics
	}
}

// WithCompilerSplatKey sets the capture name used for translated splats.
func WithCompilerSplatKey(key string) CompilerOption {
	return func(c *Compiler) {
		c.splatKey = key
	}
}

// WithCompilerPatternOptions passes options through to pattern.Compile.
func WithCompilerPatternOptions(opts ...pattern.Option) CompilerOption {
	return func(c *Compiler) {
		c.patternOpts = append(c.patternOpts, opts...)
	}
}

// NewCompiler creates a compiler. Without options it logs to the global
// logger and records no metrics.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		logger:   observability.GetGlobalLogger(),
		splatKey: DefaultSplatKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles template, falling back to its legacy translation.
func (c *Compiler) Compile(template string) CompileResult {
	m, err := pattern.Compile(template, c.patternOpts...)
	if err == nil {
		c.metrics.RecordCompile(StageDirect.String())
		return CompileResult{Template: template, Stage: StageDirect, Matcher: m}
	}

	translated := TranslateLegacy(template, c.splatKey)
	m, err = pattern.Compile(translated, c.patternOpts...)
	if err == nil {
		c.metrics.RecordCompile(StageTranslated.String())
		return CompileResult{
			Template:   template,
			Translated: translated,
			Stage:      StageTranslated,
			Matcher:    m,
		}
	}

	compileErr := &CompileError{Template: template, Translated: translated, Cause: err}
	c.metrics.RecordCompile(StageFailed.String())
	c.logger.Error("template compilation failed",
		observability.String("template", template),
		observability.String("translated", translated),
		observability.Error(err),
	)

	return CompileResult{
		Template:   template,
		Translated: translated,
		Stage:      StageFailed,
		Err:        compileErr,
	}
}

// Matches reports whether path matches template, using the same two-stage
// compilation and a capture-free test.
func (c *Compiler) Matches(template, path string) bool {
	return c.Compile(template).Test(path)
}
