package render

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
)

func TestDecimal(t *testing.T) {
	assert.Equal(t, "52,4", Decimal(52.4))
	assert.Equal(t, "0,8", Decimal(0.8))
}

func TestRanking_AlignsUmlauts(t *testing.T) {
	rows := []model.RankingRow{
		{Rank: 1, Team: "Bayern München", TotalPoints: 58, WeightedScore: 52.4},
		{Rank: 2, Team: "1. FC Köln", TotalPoints: 9, WeightedScore: 7.2},
	}
	var b strings.Builder
	require.NoError(t, Ranking(&b, rows, false))

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Platz  Verein"))
	assert.Contains(t, lines[2], "Bayern München")
	assert.Contains(t, lines[2], "52,4")
	// right-aligned numeric columns end on the same display column
	assert.Equal(t, runewidth.StringWidth(lines[2]), runewidth.StringWidth(lines[3]))
}

func TestRanking_Breakdown(t *testing.T) {
	rows := []model.RankingRow{{
		Rank: 1, Team: "X", TotalPoints: 58, WeightedScore: 52.4,
		Breakdown: []model.SeasonContribution{
			{Season: 2023, Points: 30, Weight: 1.0, Weighted: 30},
			{Season: 2022, Points: 28, Weight: 0.8, Weighted: 22.4},
		},
	}}
	var b strings.Builder
	require.NoError(t, Ranking(&b, rows, true))
	assert.Contains(t, b.String(), "Aufschlüsselung")
	assert.Contains(t, b.String(), "2023/24: 30 × 1,0 = 30,0; 2022/23: 28 × 0,8 = 22,4")
}

func TestSeason(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Season(&b, []model.SeasonRecord{model.NewSeasonRecord("Bayer Leverkusen", 2023, 28, 6)}))
	assert.Contains(t, b.String(), "2023/24  Bayer Leverkusen  28  6      90")
}

func TestWarnings(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Warnings(&b, []string{"Saison 2020: fetch failure: down"}))
	assert.Equal(t, "Hinweis: Saison 2020: fetch failure: down\n", b.String())
}
