package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Scraper.Workers)
	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, 50000, cfg.Scraper.MaxContentChars)
	assert.Equal(t, 10*time.Second, cfg.AI.EnhanceTimeout)
	assert.Equal(t, 8000, cfg.AI.Embedding.MaxChars)
	assert.InDelta(t, 0.5, cfg.Analysis.WeakRatio, 1e-9)
	assert.InDelta(t, 0.4, cfg.Analysis.DepthWeights.Words, 1e-9)
	assert.Equal(t, 5, cfg.Recommend.GroupSize)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_DURATION", "2h")
	t.Setenv("SCRAPER_API_KEY", "scrape-key")
	t.Setenv("EMBEDDING_API_KEY", "embed-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTDuration)
	assert.Equal(t, "scrape-key", cfg.Scraper.APIKey)
	assert.Equal(t, "embed-key", cfg.AI.EmbeddingClient().APIKey)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geospy.yaml")
	content := `
server:
  port: "7070"
scraper:
  provider: direct
  workers: 5
  timeout: 10s
analysis:
  weak_ratio: 0.7
  depth_weights:
    words: 0.5
recommend:
  group_size: 2
scheduler:
  spec: "0 3 * * *"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, ScraperProviderDirect, cfg.Scraper.Provider)
	assert.Equal(t, 5, cfg.Scraper.Workers)
	assert.Equal(t, 10*time.Second, cfg.Scraper.Timeout)
	assert.InDelta(t, 0.7, cfg.Analysis.WeakRatio, 1e-9)
	assert.InDelta(t, 0.5, cfg.Analysis.DepthWeights.Words, 1e-9)
	assert.InDelta(t, 0.3, cfg.Analysis.DepthWeights.Headings, 1e-9)
	assert.Equal(t, 2, cfg.Recommend.GroupSize)
	assert.Equal(t, "0 3 * * *", cfg.Scheduler.Spec)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.Scraper.Provider = "browser"
	cfg.Analysis.WeakRatio = 0

	errs := cfg.Validate()

	var messages []string
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	assert.Len(t, errs, 3)
	assert.Contains(t, messages[0], "jwt_secret")
	assert.Contains(t, messages[1], "scraper.provider")
	assert.Contains(t, messages[2], "weak_ratio")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := NewDefaultDatabaseConfig()
	d.Password = "pw"
	assert.Equal(t, "root:pw@tcp(localhost:3306)/geospy?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci", d.DSN())
}
