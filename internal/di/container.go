package di

import (
	"github.com/samber/do/v2"
	"github.com/samber/oops"

	announceservice "github.com/herald-rss/herald/internal/modules/announce/service"
	feedservice "github.com/herald-rss/herald/internal/modules/feed/service"
	staterepo "github.com/herald-rss/herald/internal/modules/state/repository"
	"github.com/herald-rss/herald/internal/shared/config"
	"github.com/herald-rss/herald/internal/transport/webhook"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Feed Configurations
	do.Provide(injector, func(i do.Injector) ([]config.FeedConfig, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feeds, err := config.LoadFeeds(cfg.FeedsPath, cfg.DefaultMaxPerRun)
		if err != nil {
			return nil, oops.With("feeds_path", cfg.FeedsPath, "context", "failed to load feeds").Wrap(err)
		}
		return feeds, nil
	})

	// Register State Repository
	do.Provide(injector, func(i do.Injector) (staterepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return staterepo.NewFileStorage(cfg.StatePath), nil
	})

	// Register Feed Fetcher
	do.Provide(injector, func(i do.Injector) (feedservice.Fetcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return feedservice.New(cfg.FetchTimeout(), cfg.UserAgent), nil
	})

	// Register Webhook Sink
	do.Provide(injector, func(i do.Injector) (webhook.Sink, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return webhook.NewClient(cfg.SinkTimeout()), nil
	})

	// Register Selector
	do.Provide(injector, func(i do.Injector) (*announceservice.Selector, error) {
		return announceservice.NewSelector(), nil
	})

	// Register Formatter
	do.Provide(injector, func(i do.Injector) (*announceservice.Formatter, error) {
		return announceservice.NewFormatter(), nil
	})

	// Register Runner
	do.Provide(injector, func(i do.Injector) (*announceservice.Runner, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feeds := do.MustInvoke[[]config.FeedConfig](i)
		fetcher := do.MustInvoke[feedservice.Fetcher](i)
		stateRepo := do.MustInvoke[staterepo.Repository](i)
		sink := do.MustInvoke[webhook.Sink](i)
		selector := do.MustInvoke[*announceservice.Selector](i)
		formatter := do.MustInvoke[*announceservice.Formatter](i)
		return announceservice.NewRunner(cfg, feeds, fetcher, stateRepo, sink, selector, formatter), nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	// No component holds long-lived resources; nothing to stop explicitly.
	return nil
}
