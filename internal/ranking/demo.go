package ranking

import (
	"fmt"
	"strings"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
)

// MatchesPerSeason bounds wins and draws in the demo form.
const MatchesPerSeason = 34

// DemoEntry is a hand-entered season line. It is never stored.
type DemoEntry struct {
	Team   string `json:"team"`
	Season int    `json:"season"`
	Wins   int    `json:"wins"`
	Draws  int    `json:"draws"`
}

// DemoResult echoes the computed points for a DemoEntry.
type DemoResult struct {
	Record  model.SeasonRecord `json:"record"`
	Message string             `json:"message"`
}

// DemoPoints validates e and computes its points without persisting anything.
func DemoPoints(e DemoEntry) (DemoResult, error) {
	team := strings.TrimSpace(e.Team)
	if team == "" {
		return DemoResult{}, fmt.Errorf("team is required")
	}
	if e.Season <= 0 {
		return DemoResult{}, fmt.Errorf("season is required")
	}
	if e.Wins < 0 || e.Wins > MatchesPerSeason {
		return DemoResult{}, fmt.Errorf("wins must be between 0 and %d, got %d", MatchesPerSeason, e.Wins)
	}
	if e.Draws < 0 || e.Draws > MatchesPerSeason {
		return DemoResult{}, fmt.Errorf("draws must be between 0 and %d, got %d", MatchesPerSeason, e.Draws)
	}
	if e.Wins+e.Draws > MatchesPerSeason {
		return DemoResult{}, fmt.Errorf("wins and draws exceed %d matches", MatchesPerSeason)
	}
	rec := model.NewSeasonRecord(team, e.Season, e.Wins, e.Draws)
	return DemoResult{
		Record:  rec,
		Message: fmt.Sprintf("%s - Saison %d mit %d Punkten hinzugefügt (nicht persistent)", rec.Team, rec.Season, rec.Points),
	}, nil
}
