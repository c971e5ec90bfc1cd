package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/store"
)

func TestFetchRaw_CachesToStore(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "bundesliga-fuenfjahr/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := NewClient(store.NewRawStore(t.TempDir()))
	for i := 0; i < 3; i++ {
		b, err := c.FetchRaw(context.Background(), srv.URL, "seasons/2023/0.html", false)
		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", string(b))
	}
	assert.Equal(t, int32(1), hits.Load(), "cached document should be served from disk")

	_, err := c.FetchRaw(context.Background(), srv.URL, "seasons/2023/0.html", true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "force bypasses the cache")
}

func TestFetchRaw_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(nil)
	_, err := c.FetchRaw(context.Background(), srv.URL, "", false)
	var se *StatusError
	require.True(t, errors.As(err, &se), "want *StatusError, got %v", err)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestFetchRaw_OversizedDocumentIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 101))
	}))
	defer srv.Close()

	st := store.NewRawStore(t.TempDir())
	c := NewClient(st)
	c.MaxBody = 100
	_, err := c.FetchRaw(context.Background(), srv.URL, "big.html", false)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.False(t, st.Exists("big.html"), "a truncated document must not be cached")

	c.MaxBody = 101
	b, err := c.FetchRaw(context.Background(), srv.URL, "big.html", false)
	require.NoError(t, err)
	assert.Len(t, b, 101)
}

func TestFetchRaw_TimeoutIsError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(nil)
	c.Timeout = 50 * time.Millisecond
	_, err := c.FetchRaw(context.Background(), srv.URL, "", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "want deadline exceeded, got %v", err)
}

func TestSeasonLocators_DefaultTemplates(t *testing.T) {
	locs, err := SeasonLocators(DefaultTemplates, "", 2023)
	require.NoError(t, err)
	require.Len(t, locs, 2)

	assert.Equal(t, "https://de.wikipedia.org/wiki/Fu%C3%9Fball-Bundesliga_2023/24", locs[0].URL)
	assert.Equal(t, "https://de.wikipedia.org/wiki/Fu%C3%9Fball-Bundesliga_2023%2F24", locs[1].URL)
	assert.Equal(t, 0, locs[0].Index)
	assert.Equal(t, 1, locs[1].Index)
	assert.Equal(t, "seasons/2023/1.html", locs[1].CachePath())
}

func TestSeasonLocators_EncodesTitleAsUTF8(t *testing.T) {
	locs, err := SeasonLocators([]string{"http://x/{+title}", "http://x/q?t={title}"}, "Österreich 100%", 2000)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "http://x/%C3%96sterreich%20100%25", locs[0].URL)
	assert.Equal(t, "http://x/q?t=%C3%96sterreich%20100%25", locs[1].URL)

	u, err := url.Parse(locs[0].URL)
	require.NoError(t, err)
	assert.Equal(t, "/Österreich 100%", u.Path)
}

func TestSeasonLocators_DuplicatesCollapsed(t *testing.T) {
	locs, err := SeasonLocators([]string{"http://x/{season}", "http://x/{season}", "http://x/{next}"}, "", 1999)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "http://x/1999", locs[0].URL)
	assert.Equal(t, "http://x/00", locs[1].URL)
}

func TestSeasonLocators_BadTemplate(t *testing.T) {
	_, err := SeasonLocators([]string{"http://x/{season"}, "", 2000)
	require.Error(t, err)
}

func TestSeasonLabel(t *testing.T) {
	assert.Equal(t, "1963/64", SeasonLabel(1963))
	assert.Equal(t, "1999/00", SeasonLabel(1999))
	assert.Equal(t, "2024/25", SeasonLabel(2024))
}
