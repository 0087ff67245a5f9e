package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
)

func matchCmd(opts *rootOptions) *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "match HREF",
		Short: "Report whether an href points at a route",
		Long: `Print true when the path of HREF matches any route in the table, false otherwise.

With --template the path is tested against that template alone.`,
		Example: `  routekit match /user/42
  routekit match --template '/files/*' /files/a/b`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication(opts)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			_, span := a.tracer.StartSpan(a.withRevision(cmd.Context()), "routekit.match",
				attribute.String("href", args[0]),
			)
			defer span.End()

			var matched bool
			if template != "" {
				matched = a.routes.Matches(template, args[0])
			} else {
				matched = a.routes.IsAppPath(args[0])
			}
			span.SetAttributes(attribute.Bool("matched", matched))

			_, err = fmt.Fprintln(cmd.OutOrStdout(), matched)
			return err
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Test against this template instead of the table")

	return cmd
}
