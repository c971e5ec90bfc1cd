package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/fetch"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/league"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/render"
)

func newRankCmd(a *app) *cobra.Command {
	var (
		year      int
		details   bool
		breakdown bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print the five-year ranking ending at a season",
		Example: `  fuenfjahr rank --year 2023
  fuenfjahr rank --year 2023 --details --breakdown
  fuenfjahr rank --year 2015 --source simulated`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = defaultYear(time.Now())
			}
			rt, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			rep, err := rt.Service.Ranking(cmd.Context(), year, league.Options{Details: details})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}

			first := rep.Window[len(rep.Window)-1].Season
			fmt.Fprintf(out, "Fünfjahreswertung %s bis %s (Quelle: %s)\n\n",
				fetch.SeasonLabel(first), fetch.SeasonLabel(year), rep.Source)
			if err := render.Ranking(out, rep.Rows, breakdown); err != nil {
				return err
			}
			if details {
				fmt.Fprintln(out)
				if err := render.Season(out, rep.Records); err != nil {
					return err
				}
			}
			if len(rep.Warnings) > 0 {
				fmt.Fprintln(out)
			}
			return render.Warnings(out, rep.Warnings)
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "most recent season of the window (default: last completed season)")
	cmd.Flags().BoolVarP(&details, "details", "d", false, "also print the per-season records")
	cmd.Flags().BoolVarP(&breakdown, "breakdown", "b", false, "show each team's weighted contributions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

// defaultYear is the start year of the last season that has finished by now.
// A season ends in late May, so until June the previous one is still running.
func defaultYear(now time.Time) int {
	if now.Month() >= time.June {
		return now.Year() - 1
	}
	return now.Year() - 2
}
