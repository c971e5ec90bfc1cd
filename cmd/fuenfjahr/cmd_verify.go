package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/extract"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/fetch"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/reconcile"
)

func newVerifyCmd(a *app) *cobra.Command {
	var (
		season  int
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare a stored season table with a fresh extraction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if season == 0 {
				return fmt.Errorf("--season is required")
			}
			rt, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()
			if rt.SQL == nil {
				return fmt.Errorf("no season store configured (store.driver)")
			}

			stored, ok, err := rt.SQL.LoadSeason(cmd.Context(), season)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("season %s is not stored", fetch.SeasonLabel(season))
			}
			fresh := rt.Extractor.Season(cmd.Context(), season)
			if !fresh.OK() {
				return fmt.Errorf("season %s: %w", fetch.SeasonLabel(season), fresh.Failure)
			}

			rep := reconcile.BuildReport(season, stored.Records, fresh.Records)
			if outPath != "" {
				if err := reconcile.WriteReport(outPath, rep); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if rep.Clean() {
				fmt.Fprintf(out, "Saison %s: %d Vereine, keine Abweichungen\n", fetch.SeasonLabel(season), rep.StoredTeams)
				return nil
			}
			fmt.Fprintf(out, "Saison %s: %d Abweichungen\n", fetch.SeasonLabel(season), len(rep.Mismatches))
			for _, m := range rep.Mismatches {
				fmt.Fprintf(out, "  %s: gespeichert %s, neu %s\n", m.Team, line(m.Stored), line(m.Fresh))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "season start year")
	cmd.Flags().StringVar(&outPath, "out", "", "also write the JSON report here")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the tables of a season's documents and how their headers resolve",
		RunE: func(cmd *cobra.Command, args []string) error {
			if season == 0 {
				return fmt.Errorf("--season is required")
			}
			rt, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			locs, err := fetch.SeasonLocators(a.cfg.Source.Templates, a.cfg.Source.Title, season)
			if err != nil {
				return err
			}
			type document struct {
				URL    string                   `json:"url"`
				Error  string                   `json:"error,omitempty"`
				Tables []extract.TableInventory `json:"tables,omitempty"`
			}
			docs := make([]document, 0, len(locs))
			for _, loc := range locs {
				d := document{URL: loc.URL}
				body, err := rt.Client.FetchRaw(cmd.Context(), loc.URL, loc.CachePath(), false)
				if err != nil {
					d.Error = err.Error()
				} else if d.Tables, err = extract.Inventory(body, rt.Extractor.Schema); err != nil {
					d.Error = err.Error()
				}
				docs = append(docs, d)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(docs)
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "season start year")
	return cmd
}

func line(r *model.SeasonRecord) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%d S / %d U / %d P", r.Wins, r.Draws, r.Points)
}
