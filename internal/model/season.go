package model

// SeasonRecord is one team's result line for one season.
type SeasonRecord struct {
	Team   string `json:"team"`
	Season int    `json:"season"`
	Wins   int    `json:"wins"`
	Draws  int    `json:"draws"`
	Points int    `json:"points"`
}

// NewSeasonRecord builds a record with Points derived from wins and draws.
func NewSeasonRecord(team string, season, wins, draws int) SeasonRecord {
	return SeasonRecord{
		Team:   team,
		Season: season,
		Wins:   wins,
		Draws:  draws,
		Points: SeasonPoints(wins, draws),
	}
}

// SeasonPoints is the three-point rule: 3 per win, 1 per draw.
func SeasonPoints(wins, draws int) int {
	return wins*3 + draws
}

// WindowSize is the number of seasons in a ranking window.
const WindowSize = 5

// DefaultWeights maps window offset (0 = most recent season) to its weight.
var DefaultWeights = [WindowSize]float64{1.0, 0.8, 0.6, 0.4, 0.2}

// WindowEntry pairs a season with its weight.
type WindowEntry struct {
	Season int     `json:"season"`
	Weight float64 `json:"weight"`
}

// Window is ordered most recent season first.
type Window []WindowEntry

// Seasons returns the window's seasons in order.
func (w Window) Seasons() []int {
	out := make([]int, 0, len(w))
	for _, e := range w {
		out = append(out, e.Season)
	}
	return out
}

// WeightOf returns the weight for season and whether it is in the window.
func (w Window) WeightOf(season int) (float64, bool) {
	for _, e := range w {
		if e.Season == season {
			return e.Weight, true
		}
	}
	return 0, false
}

// SeasonContribution is one season's share of a team's weighted score.
type SeasonContribution struct {
	Season   int     `json:"season"`
	Points   int     `json:"points"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

// RankingRow is one team's line in the five-year ranking.
type RankingRow struct {
	Rank          int                  `json:"rank"`
	Team          string               `json:"team"`
	TotalPoints   int                  `json:"total_points"`
	WeightedScore float64              `json:"weighted_score"`
	Breakdown     []SeasonContribution `json:"breakdown,omitempty"`
}
