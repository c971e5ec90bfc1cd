// Package reconcile compares a stored season table with a fresh extraction.
package reconcile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
)

// TeamMismatch is a team whose line differs between the two tables, or
// that appears in only one of them.
type TeamMismatch struct {
	Team   string              `json:"team"`
	Stored *model.SeasonRecord `json:"stored,omitempty"`
	Fresh  *model.SeasonRecord `json:"fresh,omitempty"`
}

type Report struct {
	Season         int            `json:"season"`
	GeneratedAtUTC string         `json:"generated_at_utc"`
	StoredTeams    int            `json:"stored_teams"`
	FreshTeams     int            `json:"fresh_teams"`
	Mismatches     []TeamMismatch `json:"mismatches"`
}

// Clean reports whether both tables agree.
func (r *Report) Clean() bool { return len(r.Mismatches) == 0 }

func indexByTeam(records []model.SeasonRecord) map[string]model.SeasonRecord {
	out := make(map[string]model.SeasonRecord, len(records))
	for _, r := range records {
		if _, ok := out[r.Team]; !ok {
			out[r.Team] = r
		}
	}
	return out
}

func BuildReport(season int, stored, fresh []model.SeasonRecord) *Report {
	s := indexByTeam(stored)
	f := indexByTeam(fresh)

	teams := make([]string, 0, len(s)+len(f))
	for team := range s {
		teams = append(teams, team)
	}
	for team := range f {
		if _, ok := s[team]; !ok {
			teams = append(teams, team)
		}
	}
	sort.Strings(teams)

	mismatches := make([]TeamMismatch, 0)
	for _, team := range teams {
		sr, inStored := s[team]
		fr, inFresh := f[team]
		if inStored && inFresh && sr.Wins == fr.Wins && sr.Draws == fr.Draws {
			continue
		}
		m := TeamMismatch{Team: team}
		if inStored {
			m.Stored = &sr
		}
		if inFresh {
			m.Fresh = &fr
		}
		mismatches = append(mismatches, m)
	}

	return &Report{
		Season:         season,
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		StoredTeams:    len(s),
		FreshTeams:     len(f),
		Mismatches:     mismatches,
	}
}

func WriteReport(path string, report *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}
