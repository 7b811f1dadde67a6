package domain

import "time"

// Entry represents a single item fetched from an RSS/Atom feed.
// Timestamp fields are optional because feeds populate them
// inconsistently; use ResolvedTime for a usable value.
type Entry struct {
	GUID      string     `json:"guid"`
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Summary   string     `json:"summary"`
	Published *time.Time `json:"published,omitempty"`
	Updated   *time.Time `json:"updated,omitempty"`
	Created   *time.Time `json:"created,omitempty"`
}

// ID returns a stable identifier for the entry: the native GUID when
// present, otherwise a link+title composite. Identical entries yield
// identical ids across runs. Two distinct entries with empty
// guid/link/title collide; that edge case is accepted.
func (e *Entry) ID() string {
	if e.GUID != "" {
		return e.GUID
	}
	return e.Link + "::" + e.Title
}

// ResolvedTime returns the entry's best-effort timestamp in UTC,
// preferring published over updated over created, falling back to now.
func (e *Entry) ResolvedTime(now time.Time) time.Time {
	for _, t := range []*time.Time{e.Published, e.Updated, e.Created} {
		if t != nil {
			return t.UTC()
		}
	}
	return now.UTC()
}
