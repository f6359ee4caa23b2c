package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fundwatch", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, []string{"http://127.0.0.1:9200"}, cfg.Elasticsearch.Addresses)
	assert.Equal(t, "funding-records", cfg.Elasticsearch.Index)

	assert.Equal(t, "https://www.returnonsecurity.com/posts", cfg.Source.ListingURL)
	assert.Equal(t, "https://www.returnonsecurity.com/p/", cfg.Source.ArticleBaseURL)
	assert.Equal(t, "security-funded-", cfg.Source.ArticleMarker)
	assert.Equal(t, time.Second, cfg.Source.PolitenessDelay)

	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "@every 4h", cfg.Scheduler.Schedule)

	// Run history defaults off until a host is configured.
	assert.False(t, cfg.Database.Enabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ELASTICSEARCH_INDEX", "funding-test")
	t.Setenv("SCHEDULER_SCHEDULE", "@every 1h")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("LOGGER_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "funding-test", cfg.Elasticsearch.Index)
	assert.Equal(t, "@every 1h", cfg.Scheduler.Schedule)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "db.internal", cfg.Database.Host)
}
