package ranking

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func rec(team string, season, wins, draws int) model.SeasonRecord {
	return model.NewSeasonRecord(team, season, wins, draws)
}

func window2023(t *testing.T) model.Window {
	t.Helper()
	w, err := BuildWindow(2023, 1963)
	require.NoError(t, err)
	return w
}

func TestAggregate_PartialSeasons(t *testing.T) {
	// X: 30 points in 2023 and 28 in 2022, absent 2019-2021
	records := []model.SeasonRecord{
		rec("X", 2023, 10, 0),
		rec("X", 2022, 9, 1),
	}
	rows := Aggregate(records, window2023(t))

	want := []model.RankingRow{{
		Rank:          1,
		Team:          "X",
		TotalPoints:   58,
		WeightedScore: 52.4,
		Breakdown: []model.SeasonContribution{
			{Season: 2023, Points: 30, Weight: 1.0, Weighted: 30},
			{Season: 2022, Points: 28, Weight: 0.8, Weighted: 22.4},
		},
	}}
	if diff := cmp.Diff(want, rows, approx); diff != "" {
		t.Errorf("Aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_SortedAndRanked(t *testing.T) {
	records := []model.SeasonRecord{
		rec("Bremen", 2023, 11, 9),     // 42
		rec("Leverkusen", 2023, 28, 6), // 90
		rec("Bremen", 2019, 20, 5),     // 65 * 0.2
		rec("Leverkusen", 2022, 14, 8), // 50 * 0.8
		rec("Bochum", 2021, 12, 6),     // 42 * 0.6
	}
	rows := Aggregate(records, window2023(t))
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Leverkusen", "Bremen", "Bochum"}, teams(rows))
	for i, r := range rows {
		assert.Equal(t, i+1, r.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, rows[i-1].WeightedScore, r.WeightedScore)
		}
	}
	assert.Equal(t, 107, rows[1].TotalPoints)
	assert.InDelta(t, 42+65*0.2, rows[1].WeightedScore, 1e-9)
}

func TestAggregate_TiesKeepFirstSeenOrder(t *testing.T) {
	records := []model.SeasonRecord{
		rec("Zwickau", 2023, 10, 0),
		rec("Aachen", 2023, 10, 0),
		rec("Mitte", 2023, 5, 0),
		rec("Bielefeld", 2023, 10, 0),
	}
	rows := Aggregate(records, window2023(t))
	assert.Equal(t, []string{"Zwickau", "Aachen", "Bielefeld", "Mitte"}, teams(rows))
	assert.Equal(t, []int{1, 2, 3, 4}, ranks(rows))
}

func TestAggregate_SeasonsOutsideWindowIgnored(t *testing.T) {
	records := []model.SeasonRecord{
		rec("A", 2023, 1, 0),
		rec("A", 2018, 30, 0),
		rec("B", 2030, 30, 0),
	}
	rows := Aggregate(records, window2023(t))
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Team)
	assert.Equal(t, 3, rows[0].TotalPoints)
	assert.Len(t, rows[0].Breakdown, 1)
}

func TestAggregate_MissingSeasonStillRanksEveryTeam(t *testing.T) {
	// 2020 contributed nothing: every team from the other seasons is present
	var records []model.SeasonRecord
	for _, season := range []int{2023, 2022, 2021, 2019} {
		records = append(records, rec("A", season, 10, 2), rec("B", season, 8, 8))
	}
	records = append(records, rec("C", 2019, 25, 0))
	rows := Aggregate(records, window2023(t))

	require.Len(t, rows, 3)
	for _, r := range rows {
		for _, c := range r.Breakdown {
			assert.NotEqual(t, 2020, c.Season, "no 2020 contribution for %s", r.Team)
		}
	}
}

func TestAggregate_SumProperty(t *testing.T) {
	w := window2023(t)
	var records []model.SeasonRecord
	for i, season := range w.Seasons() {
		records = append(records, rec("A", season, 10+i, i), rec("B", season, 20-i, 2*i))
	}
	rows := Aggregate(records, w)

	for _, row := range rows {
		total, weighted := 0, 0.0
		for _, r := range records {
			if r.Team != row.Team {
				continue
			}
			weight, _ := w.WeightOf(r.Season)
			total += r.Points
			weighted += float64(r.Points) * weight
		}
		assert.Equal(t, total, row.TotalPoints, row.Team)
		assert.InDelta(t, weighted, row.WeightedScore, 1e-9, row.Team)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	records := []model.SeasonRecord{
		rec("A", 2023, 3, 3), rec("B", 2022, 9, 0), rec("C", 2021, 2, 2), rec("A", 2020, 7, 1),
	}
	first := Aggregate(records, window2023(t))
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Aggregate(records, window2023(t))); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	rows := Aggregate(nil, window2023(t))
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSortRecords(t *testing.T) {
	records := []model.SeasonRecord{
		rec("Mainz 05", 2022, 1, 1),
		rec("FC Augsburg", 2023, 1, 1),
		rec("Hertha BSC", 2022, 1, 1),
	}
	SortRecords(records)
	assert.Equal(t, []string{"Hertha BSC", "Mainz 05", "FC Augsburg"},
		[]string{records[0].Team, records[1].Team, records[2].Team})
}

func teams(rows []model.RankingRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Team
	}
	return out
}

func ranks(rows []model.RankingRow) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Rank
	}
	return out
}
