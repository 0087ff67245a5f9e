package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vyrodovalexey/routekit/internal/observability"
	"github.com/vyrodovalexey/routekit/internal/util"
	"github.com/vyrodovalexey/routekit/pkg/qs"
	"github.com/vyrodovalexey/routekit/pkg/route"
)

func prepareCmd(opts *rootOptions) *cobra.Command {
	var (
		query  []string
		tags   campaign
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "prepare NAME [KEY=VALUE...]",
		Short: "Build a URL from a named route",
		Long: `Build a URL from a named route and its parameters.

Parameters that the template does not name fill a trailing splat.
When the template cannot be built the raw template is printed,
unless --strict is set.`,
		Example: `  routekit prepare profile id=42
  routekit prepare search --query q=shoes --query page=2
  routekit prepare home --utm-source newsletter --utm-campaign spring`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseAssignments("parameter", args[1:])
			if err != nil {
				return err
			}
			queryValues, err := parseQuery(query)
			if err != nil {
				return err
			}
			queryValues, err = withCampaign(queryValues, tags)
			if err != nil {
				return err
			}

			a, err := loadApplication(opts)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			ctx, span := a.tracer.StartSpan(a.withRevision(cmd.Context()), "routekit.prepare",
				attribute.String("route", args[0]),
			)
			defer span.End()

			prepared, err := a.routes.Prepare(args[0], route.WithParams(params), route.WithQuery(queryValues))
			if err != nil {
				span.RecordError(err)
				return err
			}
			if prepared.Fallback {
				a.logger.WithContext(ctx).Debug("prepared raw template",
					observability.String("route", args[0]),
					observability.Error(prepared.Cause),
				)
				if strict {
					return fmt.Errorf("route %q: %w", args[0], prepared.Cause)
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), prepared.Path)
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "Query parameter KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of printing the raw template")
	cmd.Flags().StringVar(&tags.Source, "utm-source", "", "utm_source query parameter")
	cmd.Flags().StringVar(&tags.Medium, "utm-medium", "", "utm_medium query parameter")
	cmd.Flags().StringVar(&tags.Campaign, "utm-campaign", "", "utm_campaign query parameter")

	return cmd
}

// parseAssignments reads KEY=VALUE arguments into ordered values.
func parseAssignments(kind string, args []string) (*route.Values, error) {
	values := route.NewValues()
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, util.NewArgumentError(kind, fmt.Sprintf("expected KEY=VALUE, got %q", arg))
		}
		values.Set(key, value)
	}
	return values, nil
}

// parseQuery reads --query flags. A repeated key becomes a list.
func parseQuery(args []string) (qs.Values, error) {
	if len(args) == 0 {
		return nil, nil
	}

	query := make(qs.Values, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, util.NewArgumentError("query", fmt.Sprintf("expected KEY=VALUE, got %q", arg))
		}
		switch existing := query[key].(type) {
		case nil:
			query[key] = value
		case string:
			query[key] = []any{existing, value}
		case []any:
			query[key] = append(existing, value)
		}
	}
	return query, nil
}

// campaign holds the UTM tags prepare can append to the query.
type campaign struct {
	Source   string `url:"utm_source,omitempty"`
	Medium   string `url:"utm_medium,omitempty"`
	Campaign string `url:"utm_campaign,omitempty"`
}

// withCampaign adds the set tags of c to query. Keys already given with
// --query are kept.
func withCampaign(query qs.Values, c campaign) (qs.Values, error) {
	tags, err := qs.FromStruct(c)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return query, nil
	}

	if query == nil {
		query = make(qs.Values, len(tags))
	}
	for key, value := range tags {
		if _, set := query[key]; !set {
			query[key] = value
		}
	}
	return query, nil
}
