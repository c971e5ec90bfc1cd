package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/extract"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/store"
)

// Backing is a persistent second tier, e.g. store.SQLStore.
type Backing interface {
	LoadSeason(ctx context.Context, season int) (store.StoredSeason, bool, error)
	SaveSeason(ctx context.Context, season int, source string, records []model.SeasonRecord) error
	DeleteSeason(ctx context.Context, season int) error
	DeleteAll(ctx context.Context) error
}

// Loader resolves seasons through Cache, then Backing, then Source.
// Concurrent loads of one season share a single Source call.
type Loader struct {
	Cache   Cache
	Backing Backing // optional
	// MaxAge ignores stored seasons fetched longer ago; zero keeps them forever.
	MaxAge time.Duration
	Source extract.Source
	Logger *zap.Logger

	group singleflight.Group
	now   func() time.Time
}

func NewLoader(c Cache, src extract.Source) *Loader {
	return &Loader{Cache: c, Source: src, Logger: zap.NewNop(), now: time.Now}
}

// Load returns the season's Result. It never fails; a Source failure comes
// back as a failed Result. The shared load is detached from ctx, so a
// caller that gives up gets a failed Result of its own while the load
// completes for everyone else.
func (l *Loader) Load(ctx context.Context, season int) extract.Result {
	if res, ok := l.Cache.Get(season); ok {
		return res
	}
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(strconv.Itoa(season), func() (any, error) {
		// another caller may have filled the cache while we waited
		if res, ok := l.Cache.Get(season); ok {
			return res, nil
		}
		if res, ok := l.loadBacking(shared, season); ok {
			l.Cache.Put(res)
			return res, nil
		}

		res := l.Source.Season(shared, season)
		if res.OK() && l.Backing != nil {
			if err := l.Backing.SaveSeason(shared, season, res.Source, res.Records); err != nil {
				l.logger().Warn("persisting season failed", zap.Int("season", season), zap.Error(err))
			}
		}
		l.Cache.Put(res)
		return res, nil
	})

	select {
	case r := <-ch:
		return r.Val.(extract.Result)
	case <-ctx.Done():
		err := ctx.Err()
		return extract.Failed(season, &extract.Failure{Kind: extract.FetchFailure, Message: err.Error(), Err: err})
	}
}

func (l *Loader) loadBacking(ctx context.Context, season int) (extract.Result, bool) {
	if l.Backing == nil {
		return extract.Result{}, false
	}
	st, ok, err := l.Backing.LoadSeason(ctx, season)
	if err != nil {
		l.logger().Warn("loading stored season failed", zap.Int("season", season), zap.Error(err))
		return extract.Result{}, false
	}
	if !ok {
		return extract.Result{}, false
	}
	if l.MaxAge > 0 && l.age(st.FetchedAt) >= l.MaxAge {
		l.logger().Debug("stored season is stale",
			zap.Int("season", season), zap.Time("fetched_at", st.FetchedAt))
		return extract.Result{}, false
	}
	return extract.Result{Season: season, Records: st.Records, Source: st.Source}, true
}

func (l *Loader) age(t time.Time) time.Duration {
	now := l.now
	if now == nil {
		now = time.Now
	}
	return now().Sub(t)
}

// Invalidate drops season from both tiers so the next Load refetches it.
func (l *Loader) Invalidate(ctx context.Context, season int) error {
	l.Cache.Invalidate(season)
	if l.Backing == nil {
		return nil
	}
	if err := l.Backing.DeleteSeason(ctx, season); err != nil {
		return fmt.Errorf("invalidating season %d: %w", season, err)
	}
	return nil
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// Clear empties both tiers.
func (l *Loader) Clear(ctx context.Context) error {
	l.Cache.Clear()
	if l.Backing == nil {
		return nil
	}
	if err := l.Backing.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clearing stored seasons: %w", err)
	}
	return nil
}
