package domain

// MaxSeenPerFeed bounds how many announced entry ids are remembered
// per feed. Oldest ids are evicted first.
const MaxSeenPerFeed = 100

// SeenSet is an ordered list of recently announced entry ids for one
// feed. Order is append order, not sorted.
type SeenSet []string

// Contains reports whether id has already been announced.
func (s SeenSet) Contains(id string) bool {
	for _, seen := range s {
		if seen == id {
			return true
		}
	}
	return false
}

// Append adds id and trims the set to the last MaxSeenPerFeed entries.
func (s SeenSet) Append(id string) SeenSet {
	s = append(s, id)
	if len(s) > MaxSeenPerFeed {
		s = s[len(s)-MaxSeenPerFeed:]
	}
	return s
}

// State maps feed name to the feed's seen set. It is loaded once at
// run start, mutated in memory as entries are delivered, and persisted
// once at run end.
type State map[string]SeenSet

// Seen returns the seen set for a feed; missing feeds yield an empty set.
func (st State) Seen(feed string) SeenSet {
	return st[feed]
}

// MarkSeen records id as announced for feed, trimming the set.
func (st State) MarkSeen(feed, id string) {
	st[feed] = st[feed].Append(id)
}
