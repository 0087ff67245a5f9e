package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/routekit/internal/observability"
	"github.com/vyrodovalexey/routekit/pkg/route"
)

func checkCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile every route and report how it compiled",
		Long: `Compile every template in the table and print its stage:

  direct      the template compiled as written
  translated  the template compiled after legacy translation
  failed      neither form compiled; the route never matches

Exits non-zero when any route failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApplication(opts)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			_, span := a.tracer.StartSpan(a.withRevision(cmd.Context()), "routekit.check")
			defer span.End()

			results := a.routes.Check()
			if err := writeCheckResults(cmd, results); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if !r.OK() {
					failed++
				}
			}
			if failed > 0 {
				a.logger.Warn("route table has failing templates",
					observability.Int("failed", failed),
					observability.Int("routes", len(results)),
				)
				return fmt.Errorf("%d of %d routes failed to compile", failed, len(results))
			}
			return nil
		},
	}

	return cmd
}

// writeCheckResults prints one aligned row per route.
func writeCheckResults(cmd *cobra.Command, results []route.CheckResult) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTAGE\tTEMPLATE\tDETAIL")
	for _, r := range results {
		detail := ""
		switch r.Stage {
		case route.StageTranslated:
			detail = r.Translated
		case route.StageFailed:
			detail = r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Stage, r.Template, detail)
	}
	return w.Flush()
}
