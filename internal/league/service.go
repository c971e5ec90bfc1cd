// Package league computes five-year rankings from cached season sources.
package league

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/cache"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/extract"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/ranking"
)

const (
	SourceWeb       = "web"
	SourceSimulated = "simulated"
)

// DefaultWorkers bounds concurrent season loads when Service.Workers is unset.
const DefaultWorkers = 5

// Options selects what a ranking request returns.
type Options struct {
	Details bool   // include the per-season record table
	Source  string // "" selects Service.Default
}

// SeasonStatus reports how one window season was resolved.
type SeasonStatus struct {
	Season  int              `json:"season"`
	Weight  float64          `json:"weight"`
	OK      bool             `json:"ok"`
	Teams   int              `json:"teams"`
	Source  string           `json:"source,omitempty"`
	Failure *extract.Failure `json:"failure,omitempty"`
}

// Report is the full answer to a ranking request.
type Report struct {
	Year     int                  `json:"year"`
	Source   string               `json:"source"`
	Window   model.Window         `json:"window"`
	Rows     []model.RankingRow   `json:"rows"`
	Seasons  []SeasonStatus       `json:"seasons"`
	Records  []model.SeasonRecord `json:"records,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
}

// Service resolves window seasons through one Loader per source name.
type Service struct {
	Loaders map[string]*cache.Loader
	Default string
	MinYear int
	MaxYear int // 0: no upper bound
	Workers int
	Logger  *zap.Logger
}

func New(defaultSource string, loaders map[string]*cache.Loader) *Service {
	return &Service{
		Loaders: loaders,
		Default: defaultSource,
		Workers: DefaultWorkers,
		Logger:  zap.NewNop(),
	}
}

// Sources lists the configured source names in sorted order.
func (s *Service) Sources() []string {
	names := make([]string, 0, len(s.Loaders))
	for name := range s.Loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) loader(name string) (*cache.Loader, string, error) {
	if name == "" {
		name = s.Default
	}
	l, ok := s.Loaders[name]
	if !ok {
		return nil, "", fmt.Errorf("unknown source %q (have %v)", name, s.Sources())
	}
	return l, name, nil
}

func (s *Service) checkYear(year int) error {
	if year < s.MinYear {
		return fmt.Errorf("year %d is before the first eligible season %d", year, s.MinYear)
	}
	if s.MaxYear > 0 && year > s.MaxYear {
		return fmt.Errorf("year %d is after the last supported season %d", year, s.MaxYear)
	}
	return nil
}

// Ranking builds the five-year ranking ending at year. The only errors are
// invalid input and a canceled ctx; seasons that cannot be loaded are left
// out of the ranking and reported in Warnings.
func (s *Service) Ranking(ctx context.Context, year int, opts Options) (*Report, error) {
	if err := s.checkYear(year); err != nil {
		return nil, err
	}
	window, err := ranking.BuildWindow(year, s.MinYear)
	if err != nil {
		return nil, err
	}
	l, name, err := s.loader(opts.Source)
	if err != nil {
		return nil, err
	}

	results := make([]extract.Result, len(window))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, e := range window {
		g.Go(func() error {
			results[i] = l.Load(gctx, e.Season)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := &Report{Year: year, Source: name, Window: window}
	var records []model.SeasonRecord
	for i, res := range results {
		st := SeasonStatus{Season: res.Season, Weight: window[i].Weight, Source: res.Source}
		for _, w := range res.Warnings {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("Saison %d: %s", res.Season, w))
		}
		if !res.OK() {
			st.Failure = res.Failure
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("Saison %d: %v", res.Season, res.Failure))
			s.logger().Warn("season unavailable",
				zap.Int("season", res.Season),
				zap.String("kind", string(res.Failure.Kind)),
				zap.Error(res.Failure))
			rep.Seasons = append(rep.Seasons, st)
			continue
		}
		st.OK = true
		st.Teams = len(res.Records)
		records = append(records, res.Records...)
		rep.Seasons = append(rep.Seasons, st)
	}

	rep.Rows = ranking.Aggregate(records, window)
	if opts.Details {
		ranking.SortRecords(records)
		rep.Records = records
	}
	s.logger().Info("ranking computed",
		zap.Int("year", year),
		zap.String("source", name),
		zap.Int("teams", len(rep.Rows)),
		zap.Int("warnings", len(rep.Warnings)))
	return rep, nil
}

// Season returns one season's table from the named source.
func (s *Service) Season(ctx context.Context, season int, source string) (extract.Result, error) {
	if err := s.checkYear(season); err != nil {
		return extract.Result{}, err
	}
	l, _, err := s.loader(source)
	if err != nil {
		return extract.Result{}, err
	}
	res := l.Load(ctx, season)
	if res.OK() {
		records := append([]model.SeasonRecord(nil), res.Records...)
		ranking.SortRecords(records)
		res.Records = records
	}
	return res, nil
}

// Invalidate drops season from every source's cache. Season 0 clears all.
func (s *Service) Invalidate(ctx context.Context, season int) error {
	for _, name := range s.Sources() {
		l := s.Loaders[name]
		var err error
		if season == 0 {
			err = l.Clear(ctx)
		} else {
			err = l.Invalidate(ctx, season)
		}
		if err != nil {
			return fmt.Errorf("source %s: %w", name, err)
		}
	}
	s.logger().Info("cache invalidated", zap.Int("season", season))
	return nil
}

func (s *Service) workers() int {
	if s.Workers <= 0 {
		return DefaultWorkers
	}
	return s.Workers
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
