package fetch

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PrefetchFailure is one locator that could not be downloaded.
type PrefetchFailure struct {
	Locator Locator
	Err     error
}

// PrefetchReport summarizes a Prefetch run.
type PrefetchReport struct {
	Fetched  int
	Failures []PrefetchFailure
}

// Prefetch downloads every candidate document of each season into the raw
// store so later extractions can run offline. Per-locator errors are
// collected, not returned; the error is only for bad templates or a
// canceled ctx.
func (c *Client) Prefetch(ctx context.Context, templates []string, title string, seasons []int, force bool) (PrefetchReport, error) {
	var rep PrefetchReport
	first := true
	for _, season := range seasons {
		locs, err := SeasonLocators(templates, title, season)
		if err != nil {
			return rep, err
		}
		for _, loc := range locs {
			if !first && c.Sleep > 0 {
				select {
				case <-ctx.Done():
					return rep, ctx.Err()
				case <-time.After(c.Sleep):
				}
			}
			first = false
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			if _, err := c.FetchRaw(ctx, loc.URL, loc.CachePath(), force); err != nil {
				c.logger().Warn("prefetch failed", zap.String("url", loc.URL), zap.Error(err))
				rep.Failures = append(rep.Failures, PrefetchFailure{Locator: loc, Err: err})
				continue
			}
			rep.Fetched++
		}
	}
	return rep, nil
}
