package ranking

import (
	"sort"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
)

type teamAccum struct {
	team     string
	total    int
	weighted float64
	seasons  map[int]model.SeasonContribution
}

// Aggregate computes the five-year ranking. Records whose season is not in
// the window are ignored. Teams are sorted by weighted score descending;
// ties keep the order in which teams first appear in records.
func Aggregate(records []model.SeasonRecord, window model.Window) []model.RankingRow {
	var (
		order  []*teamAccum
		byTeam = make(map[string]*teamAccum)
	)
	for _, r := range records {
		weight, ok := window.WeightOf(r.Season)
		if !ok {
			continue
		}
		a := byTeam[r.Team]
		if a == nil {
			a = &teamAccum{team: r.Team, seasons: make(map[int]model.SeasonContribution)}
			byTeam[r.Team] = a
			order = append(order, a)
		}
		weighted := float64(r.Points) * weight
		a.total += r.Points
		a.weighted += weighted

		c := a.seasons[r.Season]
		c.Season = r.Season
		c.Weight = weight
		c.Points += r.Points
		c.Weighted += weighted
		a.seasons[r.Season] = c
	}

	rows := make([]model.RankingRow, 0, len(order))
	for _, a := range order {
		row := model.RankingRow{
			Team:          a.team,
			TotalPoints:   a.total,
			WeightedScore: a.weighted,
		}
		for _, e := range window {
			if c, ok := a.seasons[e.Season]; ok {
				row.Breakdown = append(row.Breakdown, c)
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].WeightedScore > rows[j].WeightedScore
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// SortRecords orders records by season, then team, for the per-season view.
func SortRecords(records []model.SeasonRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Season != records[j].Season {
			return records[i].Season < records[j].Season
		}
		return records[i].Team < records[j].Team
	})
}
