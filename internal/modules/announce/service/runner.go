package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/samber/oops"

	"github.com/herald-rss/herald/internal/modules/announce/domain"
	feedservice "github.com/herald-rss/herald/internal/modules/feed/service"
	statedomain "github.com/herald-rss/herald/internal/modules/state/domain"
	staterepo "github.com/herald-rss/herald/internal/modules/state/repository"
	"github.com/herald-rss/herald/internal/shared/config"
	"github.com/herald-rss/herald/internal/transport/webhook"
)

// Runner drives one announce pass over all configured feeds: fetch,
// dedupe, order, deliver, commit. Feeds and entries are processed
// sequentially; the fixed inter-post delay is deliberate backpressure
// for rate-limited sinks.
type Runner struct {
	cfg       *config.Config
	feeds     []config.FeedConfig
	fetcher   feedservice.Fetcher
	stateRepo staterepo.Repository
	sink      webhook.Sink
	selector  *Selector
	formatter *Formatter

	// Injection points for tests; default to the real thing.
	resolveSecret func(string) string
	sleep         func(time.Duration)
	now           func() time.Time
}

// NewRunner creates a new run orchestrator
func NewRunner(cfg *config.Config, feeds []config.FeedConfig, fetcher feedservice.Fetcher,
	stateRepo staterepo.Repository, sink webhook.Sink, selector *Selector, formatter *Formatter) *Runner {
	return &Runner{
		cfg:           cfg,
		feeds:         feeds,
		fetcher:       fetcher,
		stateRepo:     stateRepo,
		sink:          sink,
		selector:      selector,
		formatter:     formatter,
		resolveSecret: os.Getenv,
		sleep:         time.Sleep,
		now:           time.Now,
	}
}

// Run processes every configured feed once and persists the seen state.
// Per-feed problems are warnings; a state-save failure is the only error
// returned, since silently losing dedup state would re-announce
// everything on every following run.
func (r *Runner) Run(ctx context.Context) error {
	state := r.stateRepo.Load()

	for _, feed := range r.feeds {
		if ctx.Err() != nil {
			slog.Warn("Run canceled, persisting progress", "error", ctx.Err())
			break
		}
		r.processFeed(ctx, feed, state)
	}

	if err := r.stateRepo.Save(state); err != nil {
		return oops.With("state_path", r.cfg.StatePath, "context", "failed to persist seen state").Wrap(err)
	}
	return nil
}

func (r *Runner) processFeed(ctx context.Context, feed config.FeedConfig, state statedomain.State) {
	webhookURL := r.resolveSecret(feed.WebhookSecret)
	if webhookURL == "" {
		slog.Warn("Webhook secret not set, skipping feed", "feed", feed.Name, "secret", feed.WebhookSecret)
		return
	}

	slog.Info("Fetching feed", "feed", feed.Name, "url", feed.FeedURL)
	entries, err := r.fetcher.Fetch(ctx, feed.FeedURL)
	if err != nil {
		slog.Warn("Failed to fetch feed, skipping", "feed", feed.Name, "error", err)
		return
	}

	filter := r.selector.CompileFilter(feed.Name, feed.TitleFilter)
	candidates := r.selector.SelectCandidates(entries, state.Seen(feed.Name), filter, r.now())
	candidates = r.selector.SortAndCap(candidates, feed.MaxNewPerRun)
	candidates = r.selector.GroupByUTCDay(candidates)

	if len(candidates) == 0 {
		slog.Info("No new entries", "feed", feed.Name)
		return
	}
	slog.Info("Announcing new entries", "feed", feed.Name, "count", len(candidates))

	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return
		}
		r.deliver(ctx, feed, webhookURL, candidate, state)
	}
}

// deliver posts one entry (with its day header when due) and commits the
// id into the seen state immediately on success, so a crash mid-run
// keeps the progress already made.
func (r *Runner) deliver(ctx context.Context, feed config.FeedConfig, webhookURL string, candidate domain.Candidate, state statedomain.State) {
	if candidate.FirstOfDay {
		header := r.formatter.FormatDayHeader(candidate.Timestamp, feed.Name)
		if err := r.sink.SendContent(ctx, webhookURL, header); err != nil {
			// Headers are cosmetic; a failed one never blocks entries.
			slog.Warn("Failed to post day header", "feed", feed.Name, "header", header, "error", err)
		}
	}

	notification := r.formatter.Format(candidate.Entry, feed, candidate.Timestamp)
	embed := webhook.Embed{
		Title:       notification.Title,
		URL:         notification.URL,
		Description: notification.Description,
		Color:       notification.Color,
		Timestamp:   notification.Timestamp.Format(time.RFC3339),
		Footer:      &webhook.Footer{Text: notification.FooterText},
	}
	if feed.ThumbnailURL != "" {
		embed.Thumbnail = &webhook.Thumbnail{URL: feed.ThumbnailURL}
	}
	sender := webhook.Sender{Username: feed.Username, AvatarURL: feed.AvatarURL}

	if err := r.sink.SendEmbed(ctx, webhookURL, embed, sender); err != nil {
		// The id stays out of the seen set so the entry is retried next run.
		slog.Error("Failed to deliver entry", "feed", feed.Name, "entry_id", candidate.ID, "title", notification.Title, "error", err)
		return
	}

	slog.Info("Posted entry", "feed", feed.Name, "title", notification.Title)
	state.MarkSeen(feed.Name, candidate.ID)
	r.sleep(r.cfg.PostDelay())
}
