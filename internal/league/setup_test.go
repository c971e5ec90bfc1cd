package league

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/config"
)

const seasonPage = `<html><body>
<h2>Abschlusstabelle</h2>
<table>
<tr><th>Pl.</th><th>Verein</th><th>Sp.</th><th>S</th><th>U</th><th>N</th></tr>
<tr><td>1</td><td>Bayer 04 Leverkusen</td><td>34</td><td>28</td><td>6</td><td>0</td></tr>
<tr><td>2</td><td>VfB Stuttgart</td><td>34</td><td>23</td><td>4</td><td>7</td></tr>
</table>
</body></html>`

func testConfig(t *testing.T, srvURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.New()
	cfg.Source.Templates = []string{srvURL + "/wiki/{season}"}
	cfg.Cache.RawDir = filepath.Join(dir, "raw")
	cfg.Store.DSN = filepath.Join(dir, "db", "bl5.db")
	return cfg
}

func TestOpen_WebSourceEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wiki/2020" {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, seasonPage)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	rt, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer rt.Close()
	defer rt.Client.HTTP.CloseIdleConnections()
	require.NotNil(t, rt.SQL)
	require.NotNil(t, rt.Raw)

	rep, err := rt.Service.Ranking(context.Background(), 2023, Options{Details: true})
	require.NoError(t, err)
	assert.Equal(t, SourceWeb, rep.Source)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "Bayer 04 Leverkusen", rep.Rows[0].Team)
	// four seasons of 90 points each
	assert.Equal(t, 360, rep.Rows[0].TotalPoints)
	assert.NotEmpty(t, rep.Warnings)
	assert.Len(t, rep.Records, 8)

	_, ok, err := rt.SQL.LoadSeason(context.Background(), 2023)
	require.NoError(t, err)
	assert.True(t, ok, "extracted seasons are persisted")
	_, ok, err = rt.SQL.LoadSeason(context.Background(), 2020)
	require.NoError(t, err)
	assert.False(t, ok, "failed seasons are not persisted")
}

func TestOpen_Simulated(t *testing.T) {
	cfg := config.New()
	cfg.Source.Mode = SourceSimulated
	cfg.Store.Driver = ""
	cfg.Cache.RawEnabled = false

	rt, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer rt.Close()
	assert.Nil(t, rt.SQL)
	assert.Nil(t, rt.Raw)
	assert.Equal(t, []string{SourceSimulated, SourceWeb}, rt.Service.Sources())

	rep, err := rt.Service.Ranking(context.Background(), 2010, Options{})
	require.NoError(t, err)
	assert.Equal(t, SourceSimulated, rep.Source)
	assert.NotEmpty(t, rep.Rows)
}

func TestOpen_StoreHonorsCacheTTL(t *testing.T) {
	cfg := testConfig(t, "http://unused.test")
	cfg.Cache.TTL = 6 * time.Hour

	rt, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer rt.Close()
	assert.Equal(t, 6*time.Hour, rt.Service.Loaders[SourceWeb].MaxAge)
	assert.Zero(t, rt.Service.Loaders[SourceSimulated].MaxAge)
}

func TestOpen_CanceledRequestDoesNotPoisonSeason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, seasonPage)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.Cache.FailureTTL = 5 * time.Minute
	rt, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer rt.Close()
	defer rt.Client.HTTP.CloseIdleConnections()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := rt.Service.Season(ctx, 2023, SourceWeb)
	require.NoError(t, err)
	if !res.OK() {
		assert.ErrorIs(t, res.Failure, context.Canceled)
	}

	res, err = rt.Service.Season(context.Background(), 2023, SourceWeb)
	require.NoError(t, err)
	require.True(t, res.OK(), "failure: %v", res.Failure)
	assert.Len(t, res.Records, 2)
}
