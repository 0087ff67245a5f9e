package config

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/routekit/internal/util"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Is checks if the error matches the target.
func (e ValidationErrors) Is(target error) bool {
	return target == util.ErrConfigInvalid
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates route table configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// ValidateConfig validates a route table configuration.
func ValidateConfig(config *Config) error {
	v := NewValidator()
	return v.Validate(config)
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *Config) error {
	v.errors = make(ValidationErrors, 0)

	if config == nil {
		v.addError("", "configuration is nil")
		return v.errors
	}

	v.validateRoot(config)
	v.validateLog(config.Log)
	v.validateRoutes(config.Routes)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

// validateRoot validates root-level fields.
func (v *Validator) validateRoot(config *Config) {
	if config.SplatKey != "" {
		if err := util.ValidateIdentifier(config.SplatKey); err != nil {
			v.addError("splatKey", err.Error())
		}
	}

	if err := util.ValidateNonNegative("cacheSize", config.CacheSize); err != nil {
		v.addError("cacheSize", err.Error())
	}
}

// validateLog validates logging settings.
func (v *Validator) validateLog(log *LogConfig) {
	if log == nil {
		return
	}

	switch strings.ToLower(log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		v.addError("log.level", fmt.Sprintf("unknown log level %q", log.Level))
	}

	switch log.Format {
	case "", "json", "console":
	default:
		v.addError("log.format", fmt.Sprintf("log format must be json or console, got %q", log.Format))
	}
}

// validateRoutes validates route names and templates.
func (v *Validator) validateRoutes(routes Routes) {
	if len(routes) == 0 {
		v.addError("routes", "at least one route is required")
		return
	}

	seen := make(map[string]int, len(routes))
	for _, rt := range routes {
		path := fmt.Sprintf("routes.%s", rt.Name)

		if err := util.ValidateRouteName(rt.Name); err != nil {
			v.addError(path, err.Error())
		}

		if line, dup := seen[rt.Name]; dup {
			v.addError(path, fmt.Sprintf("duplicate route name (first defined on line %d)", line))
		} else {
			seen[rt.Name] = rt.Line
		}

		if rt.Template == "" {
			v.addError(path, "template is required")
		} else if !strings.HasPrefix(rt.Template, "/") && !strings.HasPrefix(rt.Template, "{") {
			v.addError(path, "template must start with '/' or '{'")
		}
	}
}

// addError adds a validation error.
func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{
		Path:    path,
		Message: message,
	})
}
