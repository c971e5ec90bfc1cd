package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/ranking"
)

func newDemoCmd() *cobra.Command {
	var e ranking.DemoEntry
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Compute points for a hand-entered season (nothing is stored)",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ranking.DemoPoints(e)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&e.Team, "team", "", "team name")
	cmd.Flags().IntVar(&e.Season, "season", 0, "season start year")
	cmd.Flags().IntVar(&e.Wins, "wins", 0, "number of wins (0-34)")
	cmd.Flags().IntVar(&e.Draws, "draws", 0, "number of draws (0-34)")
	return cmd
}
