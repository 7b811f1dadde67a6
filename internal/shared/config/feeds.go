package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"

	sharederrors "github.com/herald-rss/herald/internal/shared/errors"
)

// DefaultColor is the embed color used when a feed defines none.
const DefaultColor = 0x5865F2

const maxColor = 0xFFFFFF

// FeedConfig describes one monitored feed. Immutable per run.
type FeedConfig struct {
	// Name is the unique key into the state file and the display label.
	Name string `koanf:"name"`
	// FeedURL is the RSS/Atom endpoint to poll.
	FeedURL string `koanf:"feed_url"`
	// WebhookSecret names the environment variable holding the actual
	// webhook URL; the URL itself never appears in config.
	WebhookSecret string `koanf:"webhook_secret"`
	// Color is the embed accent color (0-0xFFFFFF).
	Color int `koanf:"color"`
	// TitleFilter, when set, is a case-insensitive regex an entry title
	// must match to be announced.
	TitleFilter string `koanf:"title_filter"`
	// MaxNewPerRun caps how many new entries are announced per run.
	MaxNewPerRun int `koanf:"max_new_per_run"`
	// Username and AvatarURL optionally override the sink's sender identity.
	Username  string `koanf:"username"`
	AvatarURL string `koanf:"avatar_url"`
	// ThumbnailURL optionally decorates each embed.
	ThumbnailURL string `koanf:"thumbnail_url"`
}

// LoadFeeds reads the feeds configuration file, a json/yaml/toml
// document with a top-level "feeds" list. A missing file is a fatal
// startup condition surfaced as ErrMissingFeedsFile.
func LoadFeeds(path string, defaultMaxPerRun int) ([]FeedConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, oops.With("feeds_path", path).Wrap(sharederrors.ErrMissingFeedsFile)
		}
		return nil, oops.With("feeds_path", path).Wrap(err)
	}

	parser, err := parserForExt(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, oops.With("feeds_path", path, "context", "failed to parse feeds file").Wrap(err)
	}

	var feeds []FeedConfig
	if err := k.Unmarshal("feeds", &feeds); err != nil {
		return nil, oops.With("feeds_path", path, "context", "unmarshaling feeds").Wrap(err)
	}
	if len(feeds) == 0 {
		return nil, oops.With("feeds_path", path).Wrap(sharederrors.ErrNoFeedsDefined)
	}

	for i := range feeds {
		f := &feeds[i]
		if f.Name == "" {
			return nil, oops.With("feeds_path", path, "index", i).Errorf("feed entry has no name")
		}
		if f.FeedURL == "" {
			return nil, oops.With("feeds_path", path, "feed", f.Name).Errorf("feed has no feed_url")
		}
		if f.WebhookSecret == "" {
			return nil, oops.With("feeds_path", path, "feed", f.Name).Errorf("feed has no webhook_secret")
		}
		if f.Color == 0 {
			f.Color = DefaultColor
		}
		if f.Color < 0 || f.Color > maxColor {
			return nil, oops.With("feeds_path", path, "feed", f.Name).Errorf("color %#x out of range", f.Color)
		}
		if f.MaxNewPerRun <= 0 {
			f.MaxNewPerRun = defaultMaxPerRun
		}
	}

	return feeds, nil
}
