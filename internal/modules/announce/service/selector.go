package service

import (
	"log/slog"
	"regexp"
	"sort"
	"time"

	"github.com/herald-rss/herald/internal/modules/announce/domain"
	feeddomain "github.com/herald-rss/herald/internal/modules/feed/domain"
	statedomain "github.com/herald-rss/herald/internal/modules/state/domain"
)

// Selector decides which entries get announced and in what order
type Selector struct{}

// NewSelector creates a new selector
func NewSelector() *Selector {
	return &Selector{}
}

// CompileFilter compiles a case-insensitive title filter. An empty
// pattern means no filtering. An invalid pattern disables the filter
// with a warning instead of failing the feed.
func (s *Selector) CompileFilter(feed, pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		slog.Warn("Invalid title filter, announcing all entries", "feed", feed, "pattern", pattern, "error", err)
		return nil
	}
	return re
}

// MatchesFilter reports whether title passes filter; a nil filter
// passes everything.
func (s *Selector) MatchesFilter(title string, filter *regexp.Regexp) bool {
	return filter == nil || filter.MatchString(title)
}

// IsNew reports whether id identifies an entry not yet announced.
func (s *Selector) IsNew(id string, seen statedomain.SeenSet) bool {
	return id != "" && !seen.Contains(id)
}

// SelectCandidates keeps entries that pass the title filter and are new
// with respect to the seen set, attaching each one's resolved timestamp.
// Feed-source order is preserved.
func (s *Selector) SelectCandidates(entries []*feeddomain.Entry, seen statedomain.SeenSet, filter *regexp.Regexp, now time.Time) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(entries))
	for _, entry := range entries {
		if !s.MatchesFilter(entry.Title, filter) {
			continue
		}
		id := entry.ID()
		if !s.IsNew(id, seen) {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Entry:     entry,
			ID:        id,
			Timestamp: entry.ResolvedTime(now),
		})
	}
	return candidates
}

// SortAndCap sorts candidates ascending by timestamp (stable, ties keep
// feed-source order). When the count exceeds maxNew only the maxNew most
// recent are kept: after a long outage freshness beats completeness.
// Dropped candidates are never marked seen, so they stay eligible.
func (s *Selector) SortAndCap(candidates []domain.Candidate, maxNew int) []domain.Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Timestamp.Before(candidates[j].Timestamp)
	})
	if maxNew > 0 && len(candidates) > maxNew {
		dropped := len(candidates) - maxNew
		slog.Warn("Capping new entries for this run", "dropped_oldest", dropped, "kept", maxNew)
		candidates = candidates[dropped:]
	}
	return candidates
}

// GroupByUTCDay marks the first candidate of each UTC calendar day seen
// within this run, so a day header can precede it.
func (s *Selector) GroupByUTCDay(candidates []domain.Candidate) []domain.Candidate {
	seenDays := make(map[string]bool)
	for i := range candidates {
		day := candidates[i].Timestamp.UTC().Format("2006-01-02")
		if !seenDays[day] {
			seenDays[day] = true
			candidates[i].FirstOfDay = true
		}
	}
	return candidates
}
