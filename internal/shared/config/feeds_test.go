package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharederrors "github.com/herald-rss/herald/internal/shared/errors"
)

func writeFeedsFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFeedsMissingFile(t *testing.T) {
	_, err := LoadFeeds(filepath.Join(t.TempDir(), "feeds.json"), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sharederrors.ErrMissingFeedsFile))
}

func TestLoadFeedsJSON(t *testing.T) {
	path := writeFeedsFile(t, "feeds.json", `{
  "feeds": [
    {
      "name": "tf2",
      "feed_url": "https://example.com/tf2.rss",
      "webhook_secret": "DISCORD_WEBHOOK_TF2",
      "color": 16729156,
      "title_filter": "patch|update",
      "max_new_per_run": 5
    },
    {
      "name": "cs2",
      "feed_url": "https://example.com/cs2.rss",
      "webhook_secret": "DISCORD_WEBHOOK_CS2"
    }
  ]
}`)

	feeds, err := LoadFeeds(path, 10)
	require.NoError(t, err)
	require.Len(t, feeds, 2)

	assert.Equal(t, "tf2", feeds[0].Name)
	assert.Equal(t, 16729156, feeds[0].Color)
	assert.Equal(t, "patch|update", feeds[0].TitleFilter)
	assert.Equal(t, 5, feeds[0].MaxNewPerRun)

	// Defaults applied to the second feed.
	assert.Equal(t, DefaultColor, feeds[1].Color)
	assert.Equal(t, 10, feeds[1].MaxNewPerRun)
	assert.Empty(t, feeds[1].TitleFilter)
}

func TestLoadFeedsYAML(t *testing.T) {
	path := writeFeedsFile(t, "feeds.yaml", `feeds:
  - name: dota
    feed_url: https://example.com/dota.rss
    webhook_secret: DISCORD_WEBHOOK_DOTA
    username: Dota Herald
`)

	feeds, err := LoadFeeds(path, 10)
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, "Dota Herald", feeds[0].Username)
}

func TestLoadFeedsValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "empty feeds list",
			content: `{"feeds": []}`,
		},
		{
			name:    "missing name",
			content: `{"feeds": [{"feed_url": "https://e.com/f.rss", "webhook_secret": "W"}]}`,
		},
		{
			name:    "missing feed_url",
			content: `{"feeds": [{"name": "x", "webhook_secret": "W"}]}`,
		},
		{
			name:    "missing webhook_secret",
			content: `{"feeds": [{"name": "x", "feed_url": "https://e.com/f.rss"}]}`,
		},
		{
			name:    "color out of range",
			content: `{"feeds": [{"name": "x", "feed_url": "https://e.com/f.rss", "webhook_secret": "W", "color": 16777216}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFeedsFile(t, "feeds.json", tt.content)
			_, err := LoadFeeds(path, 10)
			assert.Error(t, err)
		})
	}
}
