package extract

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/fetch"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
)

// Fetcher retrieves a document, optionally backed by a raw cache at relPath.
type Fetcher interface {
	FetchRaw(ctx context.Context, url, relPath string, force bool) ([]byte, error)
}

// Extractor turns season web pages into SeasonRecords.
type Extractor struct {
	Fetcher   Fetcher
	Templates []string
	Title     string
	Schema    Schema
	Logger    *zap.Logger
}

// New returns an Extractor using the default Wikipedia templates and schema.
func New(f Fetcher) *Extractor {
	return &Extractor{
		Fetcher:   f,
		Templates: fetch.DefaultTemplates,
		Title:     fetch.DefaultTitle,
		Schema:    DefaultSchema(),
		Logger:    zap.NewNop(),
	}
}

// Season tries each candidate locator in order and returns the first
// structurally matching table. It never returns an error: failures are
// reported in the Result, the most specific one winning (ambiguous columns
// over no table over fetch errors).
func (e *Extractor) Season(ctx context.Context, season int) Result {
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.Int("season", season))

	locs, err := fetch.SeasonLocators(e.Templates, e.Title, season)
	if err != nil {
		return Failed(season, &Failure{Kind: FetchFailure, Message: err.Error(), Err: err})
	}
	if len(locs) == 0 {
		return Failed(season, &Failure{Kind: FetchFailure, Message: "no source templates configured"})
	}

	var (
		worst    *Failure
		warnings []string
	)
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			worst = pickFailure(worst, &Failure{Kind: FetchFailure, Locator: loc.URL, Message: err.Error(), Err: err})
			break
		}
		body, err := e.Fetcher.FetchRaw(ctx, loc.URL, loc.CachePath(), false)
		if err != nil {
			log.Warn("season fetch failed", zap.String("url", loc.URL), zap.Error(err))
			worst = pickFailure(worst, &Failure{Kind: FetchFailure, Locator: loc.URL, Message: err.Error(), Err: err})
			continue
		}

		records, warns, fail := ParseSeason(season, body, e.Schema)
		warnings = append(warnings, warns...)
		if fail != nil {
			fail.Locator = loc.URL
			log.Warn("no standings table", zap.String("url", loc.URL), zap.String("kind", string(fail.Kind)), zap.String("reason", fail.Message))
			worst = pickFailure(worst, fail)
			continue
		}

		log.Debug("season extracted", zap.String("url", loc.URL), zap.Int("records", len(records)))
		return Result{Season: season, Records: records, Source: loc.URL, Warnings: warnings}
	}

	res := Failed(season, worst)
	res.Warnings = warnings
	return res
}

func pickFailure(cur, next *Failure) *Failure {
	if cur == nil || next.priority() > cur.priority() {
		return next
	}
	return cur
}

// ParseSeason extracts season records from one HTML document. Among the
// tables whose headers resolve against schema, one captioned or headed as a
// standings table is preferred, otherwise the first in document order.
// Rows whose wins or draws are not non-negative integers are dropped.
func ParseSeason(season int, body []byte, schema Schema) ([]model.SeasonRecord, []string, *Failure) {
	tables, err := ParseTables(body)
	if err != nil {
		return nil, nil, &Failure{Kind: ParseFailure, Message: fmt.Sprintf("parsing html: %v", err), Err: err}
	}

	type candidate struct {
		table   Table
		mapping Mapping
	}
	var (
		matched   []candidate
		warnings  []string
		ambiguous *AmbiguousError
	)
	for _, t := range tables {
		if len(t.Headers) == 0 {
			continue
		}
		m, err := schema.Resolve(t.Headers)
		if err != nil {
			var amb *AmbiguousError
			if errors.As(err, &amb) {
				warnings = append(warnings, fmt.Sprintf("table %d skipped: %v", t.Index, amb))
				if ambiguous == nil {
					ambiguous = amb
				}
			}
			continue
		}
		matched = append(matched, candidate{table: t, mapping: m})
	}

	if len(matched) == 0 {
		if ambiguous != nil {
			return nil, warnings, &Failure{Kind: AmbiguousColumns, Message: ambiguous.Error(), Err: ambiguous}
		}
		return nil, warnings, &Failure{Kind: ParseFailure, Message: fmt.Sprintf("no standings table among %d tables", len(tables))}
	}

	pick := matched[0]
	for _, c := range matched {
		if schema.isStandings(c.table.Caption, c.table.Heading) {
			pick = c
			break
		}
	}

	records, dropped := normalizeRows(season, pick.table, pick.mapping)
	if dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("dropped %d of %d rows with non-numeric wins or draws",
			dropped, len(pick.table.Rows)))
	}
	return records, warnings, nil
}

func normalizeRows(season int, t Table, m Mapping) ([]model.SeasonRecord, int) {
	teamCol, winsCol, drawsCol := m[FieldTeam], m[FieldWins], m[FieldDraws]
	records := make([]model.SeasonRecord, 0, len(t.Rows))
	dropped := 0
	for _, row := range t.Rows {
		if teamCol >= len(row) || winsCol >= len(row) || drawsCol >= len(row) {
			dropped++
			continue
		}
		team := row[teamCol]
		wins, okW := parseCount(row[winsCol])
		draws, okD := parseCount(row[drawsCol])
		if team == "" || !okW || !okD {
			dropped++
			continue
		}
		records = append(records, model.NewSeasonRecord(team, season, wins, draws))
	}
	return records, dropped
}

func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(footnotePattern.ReplaceAllString(s, ""))
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
