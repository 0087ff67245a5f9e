package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

// errNoRoute is returned when no route matches an href.
var errNoRoute = errors.New("no route matches")

func parseCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse HREF",
		Short: "Resolve an href to a route, its parameters and query",
		Long: `Resolve an href to the first route in table order that matches its path.

Captured parameters are coerced to booleans and numbers where they
parse as such. The result is printed as YAML.`,
		Example: `  routekit parse '/user/42?tab=posts'
  routekit parse 'https://example.com/files/a/b.txt'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication(opts)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			_, span := a.tracer.StartSpan(a.withRevision(cmd.Context()), "routekit.parse",
				attribute.String("href", args[0]),
			)
			defer span.End()

			result, ok := a.routes.ParseHref(args[0])
			if !ok {
				return fmt.Errorf("%w %q", errNoRoute, args[0])
			}
			span.SetAttributes(attribute.String("route", result.Route))

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			return enc.Close()
		},
	}

	return cmd
}
