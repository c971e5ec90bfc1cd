package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/fetch"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/render"
)

func newSeasonCmd(a *app) *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:     "season",
		Short:   "Print one season's table",
		Example: "  fuenfjahr season --season 2023",
		RunE: func(cmd *cobra.Command, args []string) error {
			if season == 0 {
				return fmt.Errorf("--season is required")
			}
			rt, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := rt.Service.Season(cmd.Context(), season, "")
			if err != nil {
				return err
			}
			if !res.OK() {
				return fmt.Errorf("season %s: %w", fetch.SeasonLabel(season), res.Failure)
			}
			out := cmd.OutOrStdout()
			if len(res.Records) == 0 {
				fmt.Fprintln(out, "Keine Vereine in der Tabelle.")
			} else if err := render.Season(out, res.Records); err != nil {
				return err
			}
			return render.Warnings(out, res.Warnings)
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "season start year, e.g. 2023 for 2023/24")
	return cmd
}
