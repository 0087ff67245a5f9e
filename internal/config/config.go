package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/routekit/internal/util"
	"github.com/vyrodovalexey/routekit/pkg/pattern"
	"github.com/vyrodovalexey/routekit/pkg/route"
)

// Default values.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Config is a route table file.
type Config struct {
	// Name identifies the table in logs.
	Name string `yaml:"name,omitempty"`

	// SplatKey names the capture produced for legacy "/*" splats.
	SplatKey string `yaml:"splatKey,omitempty"`

	// Sensitive makes template literals match case-sensitively.
	Sensitive bool `yaml:"sensitive,omitempty"`

	// CacheSize bounds the compiled matcher cache. Zero disables it.
	CacheSize int `yaml:"cacheSize,omitempty"`

	Log *LogConfig `yaml:"log,omitempty"`

	// Routes keeps the order of the YAML mapping.
	Routes Routes `yaml:"routes"`

	// Revision is assigned on every load.
	Revision string `yaml:"-"`

	// Path is the file the config was loaded from, if any.
	Path string `yaml:"-"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Route is one named template.
type Route struct {
	Name     string
	Template string
	Line     int
}

// Routes is an ordered list of routes decoded from a YAML mapping.
type Routes []Route

// UnmarshalYAML decodes a mapping of name to template, keeping order and
// duplicates so the validator can report them.
func (r *Routes) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: routes must be a mapping of name to template", node.Line)
	}

	routes := make(Routes, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: route name must be a scalar", key.Line)
		}
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: template of route %q must be a string", value.Line, key.Value)
		}
		routes = append(routes, Route{Name: key.Value, Template: value.Value, Line: key.Line})
	}

	*r = routes
	return nil
}

// MarshalYAML encodes the routes as an ordered mapping.
func (r Routes) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, rt := range r {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rt.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rt.Template},
		)
	}
	return node, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		SplatKey: route.DefaultSplatKey,
		Log: &LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// applyDefaults fills unset fields.
func (c *Config) applyDefaults() {
	if c.SplatKey == "" {
		c.SplatKey = route.DefaultSplatKey
	}
	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Table builds the route table.
func (c *Config) Table() (*route.Table, error) {
	entries := make([]route.Entry, len(c.Routes))
	for i, rt := range c.Routes {
		entries[i] = route.Entry{Name: rt.Name, Template: rt.Template}
	}
	table, err := route.NewTable(entries...)
	if err != nil {
		return nil, util.NewConfigErrorWithCause("routes", "cannot build route table", err)
	}
	return table, nil
}

// RouteOptions returns the route options the file asks for.
func (c *Config) RouteOptions() []route.Option {
	opts := []route.Option{
		route.WithSplatKey(c.SplatKey),
		route.WithPatternOptions(pattern.WithSensitive(c.Sensitive)),
	}
	if c.CacheSize > 0 {
		opts = append(opts, route.WithCache(c.CacheSize))
	}
	return opts
}
