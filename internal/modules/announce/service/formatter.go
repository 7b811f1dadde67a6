package service

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/herald-rss/herald/internal/modules/announce/domain"
	feeddomain "github.com/herald-rss/herald/internal/modules/feed/domain"
	"github.com/herald-rss/herald/internal/shared/config"
)

const (
	// TitleLimit is the sink-side maximum embed title length.
	TitleLimit = 256
	// DescriptionLimit keeps embed bodies readable; longer summaries
	// are cut and marked with an ellipsis.
	DescriptionLimit = 900

	fallbackTitle = "Update"
	ellipsis      = "…"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Formatter turns raw entries into sink-ready notifications
type Formatter struct {
	titleCaser cases.Caser
}

// NewFormatter creates a new notification formatter
func NewFormatter() *Formatter {
	return &Formatter{
		titleCaser: cases.Title(language.English),
	}
}

// Format builds a notification from an entry and its feed's settings.
func (f *Formatter) Format(entry *feeddomain.Entry, feed config.FeedConfig, timestamp time.Time) domain.Notification {
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		title = fallbackTitle
	}
	if runes := []rune(title); len(runes) > TitleLimit {
		title = string(runes[:TitleLimit])
	}

	return domain.Notification{
		Title:       title,
		URL:         entry.Link,
		Description: f.SanitizeDescription(entry.Summary),
		Color:       feed.Color,
		Timestamp:   timestamp.UTC(),
		FooterText:  feed.Name,
	}
}

// SanitizeDescription strips HTML tags with a regex (best effort, not a
// parser: malformed markup may leak fragments), decodes entities,
// collapses whitespace runs, trims, and truncates with an ellipsis.
func (f *Formatter) SanitizeDescription(raw string) string {
	text := htmlTagPattern.ReplaceAllString(raw, "")
	text = html.UnescapeString(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if runes := []rune(text); len(runes) > DescriptionLimit {
		text = string(runes[:DescriptionLimit-1]) + ellipsis
	}
	return text
}

// FormatDayHeader renders the bolded section break posted before the
// first entry of each UTC calendar day.
func (f *Formatter) FormatDayHeader(date time.Time, feedName string) string {
	return fmt.Sprintf("**%s | %s**", date.UTC().Format("2006-01-02"), f.titleCaser.String(feedName))
}
