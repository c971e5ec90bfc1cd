package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenSQLStore(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLStore_RoundTripKeepsSourceOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := []model.SeasonRecord{
		model.NewSeasonRecord("Bayer 04 Leverkusen", 2023, 28, 6),
		model.NewSeasonRecord("VfB Stuttgart", 2023, 23, 4),
		model.NewSeasonRecord("FC Bayern München", 2023, 23, 3),
	}
	require.NoError(t, s.SaveSeason(ctx, 2023, "https://example.test/2023", in))

	got, ok, err := s.LoadSeason(ctx, 2023)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://example.test/2023", got.Source)
	assert.Equal(t, in, got.Records)
}

func TestSQLStore_MissingSeason(t *testing.T) {
	s := openTestStore(t)

	got, ok, err := s.LoadSeason(context.Background(), 1999)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got.Records)
}

func TestSQLStore_SaveReplacesAndEmptySeasonIsStored(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSeason(ctx, 2022, "a", []model.SeasonRecord{
		model.NewSeasonRecord("Team A", 2022, 10, 5),
		model.NewSeasonRecord("Team B", 2022, 9, 5),
	}))
	require.NoError(t, s.SaveSeason(ctx, 2022, "b", nil))

	got, ok, err := s.LoadSeason(ctx, 2022)
	require.NoError(t, err)
	assert.True(t, ok, "a saved season with no rows is still a hit")
	assert.Equal(t, "b", got.Source)
	assert.Empty(t, got.Records)
}

func TestSQLStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, season := range []int{2020, 2021} {
		require.NoError(t, s.SaveSeason(ctx, season, "src", []model.SeasonRecord{
			model.NewSeasonRecord("Team A", season, 1, 1),
		}))
	}

	require.NoError(t, s.DeleteSeason(ctx, 2020))
	_, ok, err := s.LoadSeason(ctx, 2020)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.DeleteAll(ctx))
	_, ok, err = s.LoadSeason(ctx, 2021)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLStore_KeepsFetchTime(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 18, 17, 30, 0, 123456789, time.UTC)
	s.now = func() time.Time { return at }

	require.NoError(t, s.SaveSeason(ctx, 2023, "src", nil))
	got, ok, err := s.LoadSeason(ctx, 2023)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, at.Equal(got.FetchedAt), "fetched at %v, want %v", got.FetchedAt, at)
}

func TestOpenSQLStore_UnsupportedDriver(t *testing.T) {
	_, err := OpenSQLStore(context.Background(), "mysql", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}
