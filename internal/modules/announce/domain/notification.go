package domain

import (
	"time"

	feeddomain "github.com/herald-rss/herald/internal/modules/feed/domain"
)

// Notification is a fully formatted announcement ready for delivery.
// Derived from an entry each run, never persisted.
type Notification struct {
	Title       string
	URL         string
	Description string
	Color       int
	Timestamp   time.Time // always UTC
	FooterText  string
}

// Candidate is an entry that passed the title filter and dedup check,
// carrying its resolved timestamp and run-local day-header flag.
type Candidate struct {
	Entry      *feeddomain.Entry
	ID         string
	Timestamp  time.Time
	FirstOfDay bool
}
