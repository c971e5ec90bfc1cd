package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/config"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/league"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/logging"
)

// app holds state shared by every subcommand.
type app struct {
	configPath string
	source     string
	verbose    bool
	noStore    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "fuenfjahr",
		Short: "Bundesliga five-year weighted ranking",
		Long: `fuenfjahr ranks Bundesliga clubs by their points over the last five
seasons, weighting the most recent season 1.0 and each earlier one 0.2 less.

Season tables are read from Wikipedia (source "web") or generated from a
fixed seed (source "simulated").`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (default ./fuenfjahr.yaml if present)")
	pf.StringVarP(&a.source, "source", "s", "", "season source: web|simulated (overrides source.mode)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&a.noStore, "no-store", false, "do not use the SQL season store")

	root.AddCommand(
		newRankCmd(a),
		newSeasonCmd(a),
		newDemoCmd(),
		newFetchCmd(a),
		newCacheCmd(a),
		newVerifyCmd(a),
		newInspectCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.source != "" {
		cfg.Source.Mode = a.source
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if a.noStore {
		cfg.Store.Driver = ""
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) open(ctx context.Context) (*league.Runtime, error) {
	return league.Open(ctx, a.cfg, a.logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
