package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/fetch"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, fetch.DefaultTitle, cfg.Source.Title)
	assert.Equal(t, fetch.DefaultTemplates, cfg.Source.Templates)
	assert.Equal(t, 1963, cfg.Source.MinYear)
	assert.Equal(t, "web", cfg.Source.Mode)
	assert.Equal(t, int64(42), cfg.Source.Seed)
	assert.Equal(t, 15*time.Second, cfg.Source.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.FailureTTL)
	assert.True(t, cfg.Cache.RawEnabled)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "/mcp", cfg.Server.MCPPath)
	assert.Equal(t, 5, cfg.Workers)
	require.NoError(t, cfg.Validate())
}

func TestNew_TemplatesAreCopied(t *testing.T) {
	cfg := New()
	cfg.Source.Templates[0] = "changed"
	assert.NotEqual(t, "changed", fetch.DefaultTemplates[0])
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	p := writeFile(t, t.TempDir(), "fuenfjahr.yaml", `
source:
  mode: simulated
  seed: 7
  timeout: 30s
  max_year: 2030
cache:
  ttl: 1h
  failure_ttl: 0s
store:
  driver: postgres
  dsn: postgres://localhost/bl5
workers: 2
log:
  level: debug
  json: true
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "simulated", cfg.Source.Mode)
	assert.Equal(t, int64(7), cfg.Source.Seed)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 2030, cfg.Source.MaxYear)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, time.Duration(0), cfg.Cache.FailureTTL)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.Log.JSON)

	// untouched sections keep their defaults
	assert.Equal(t, fetch.DefaultTitle, cfg.Source.Title)
	assert.Equal(t, 1963, cfg.Source.MinYear)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	pol := cfg.Cache.Policy()
	assert.Equal(t, time.Hour, pol.TTL)
}

func TestLoad_MissingFiles(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "explicit path must exist")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"mode":     "source:\n  mode: live\n",
		"driver":   "store:\n  driver: mysql\n",
		"workers":  "workers: 0\n",
		"years":    "source:\n  min_year: 2000\n  max_year: 1990\n",
		"yaml":     "source: [\n",
		"duration": "cache:\n  ttl: soon\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), "c.yaml", body)
			_, err := Load(p)
			assert.Error(t, err)
		})
	}
}
