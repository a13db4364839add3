package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/property-api/internal/model"
)

func newPlansCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List subscription plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plans := model.Plans()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(plans)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMONTHLY\tYEARLY\tPROPERTIES\tUNITS\tMEMBERS\tFEATURES")
			for _, p := range plans {
				features := make([]string, len(p.Features))
				for i, f := range p.Features {
					features[i] = string(f)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.Name, money(p.MonthlyPrice), money(p.YearlyPrice),
					limit(p.Limits.Properties), limit(p.Limits.Units), limit(p.Limits.Members),
					strings.Join(features, ","))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func money(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func limit(n int) string {
	if n == model.Unlimited {
		return "unlimited"
	}
	return fmt.Sprint(n)
}
