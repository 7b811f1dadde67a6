package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeenSetContains(t *testing.T) {
	s := SeenSet{"a", "b"}
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))
	assert.False(t, SeenSet(nil).Contains("a"))
}

func TestSeenSetAppendTrimsOldestFirst(t *testing.T) {
	var s SeenSet
	for i := 0; i < MaxSeenPerFeed+20; i++ {
		s = s.Append(fmt.Sprintf("id-%d", i))
	}

	assert.Len(t, s, MaxSeenPerFeed)
	// The 20 oldest ids were evicted.
	assert.Equal(t, "id-20", s[0])
	assert.Equal(t, fmt.Sprintf("id-%d", MaxSeenPerFeed+19), s[len(s)-1])
	assert.False(t, s.Contains("id-0"))
}

func TestStateMarkSeen(t *testing.T) {
	st := State{}
	st.MarkSeen("tf2", "id-1")
	st.MarkSeen("tf2", "id-2")
	st.MarkSeen("cs2", "id-1")

	assert.Equal(t, SeenSet{"id-1", "id-2"}, st.Seen("tf2"))
	assert.Equal(t, SeenSet{"id-1"}, st.Seen("cs2"))
	assert.Empty(t, st.Seen("unknown"))
}
