package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached season documents and tables",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete raw documents and stored season tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.Raw != nil {
				if err := rt.Raw.Clear(); err != nil {
					return err
				}
			}
			if err := rt.Service.Invalidate(cmd.Context(), 0); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	})
	return cmd
}

func newFetchCmd(a *app) *cobra.Command {
	var (
		from, to int
		force    bool
		sleep    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download season documents into the raw cache",
		Example: `  fuenfjahr fetch --from 2019 --to 2023
  fuenfjahr fetch --from 2023 --to 2023 --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == 0 || to == 0 || from > to {
				return fmt.Errorf("--from and --to must name a season range, got %d..%d", from, to)
			}
			rt, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()
			if rt.Raw == nil {
				return fmt.Errorf("raw cache is disabled (cache.raw_enabled)")
			}
			rt.Client.Sleep = sleep

			seasons := make([]int, 0, to-from+1)
			for s := from; s <= to; s++ {
				seasons = append(seasons, s)
			}
			rep, err := rt.Client.Prefetch(cmd.Context(), a.cfg.Source.Templates, a.cfg.Source.Title, seasons, force)
			if err != nil {
				return err
			}
			for _, f := range rep.Failures {
				a.logger.Warn("not fetched", zap.Int("season", f.Locator.Season), zap.String("url", f.Locator.URL), zap.Error(f.Err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d documents fetched, %d failed\n", rep.Fetched, len(rep.Failures))
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 0, "first season")
	cmd.Flags().IntVar(&to, "to", 0, "last season")
	cmd.Flags().BoolVar(&force, "force", false, "refetch documents already cached")
	cmd.Flags().DurationVar(&sleep, "sleep", 250*time.Millisecond, "pause between requests")
	return cmd
}
