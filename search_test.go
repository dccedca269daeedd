package linedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchHistory(t *testing.T, entries ...string) *History {
	t.Helper()
	h := NewHistory(&HistoryConfig{Enabled: true, MaxEntries: 100})
	for _, e := range entries {
		h.Add(e)
	}
	return h
}

func TestSearchEnter(t *testing.T) {
	t.Parallel()

	t.Run("draft heads the corpus", func(t *testing.T) {
		t.Parallel()

		h := searchHistory(t, "older", "newer")

		var s searchState
		s.enter("draft", h)
		assert.True(t, s.active)
		assert.Equal(t, []string{"draft", "newer", "older"}, s.corpus)
	})

	t.Run("empty pattern matches the draft itself", func(t *testing.T) {
		t.Parallel()

		h := searchHistory(t, "entry")

		var s searchState
		s.enter("", h)
		require.NotNil(t, s.match)
		assert.Equal(t, "", s.match.entry)
	})

	t.Run("browsing point folds back on entry", func(t *testing.T) {
		t.Parallel()

		h := searchHistory(t, "a", "b")
		_, ok := h.Prev("draft")
		require.True(t, ok)

		var s searchState
		s.enter("", h)
		assert.Equal(t, []string{"", "draft", "a"}, s.corpus,
			"the full chronological history is searchable again")
	})
}

func TestSearchProgression(t *testing.T) {
	t.Parallel()

	h := searchHistory(t, "goodbye", "help me", "hello world")

	var s searchState
	s.enter("", h)

	// Typing "hel" character by character restarts the scan each time.
	s.restart("h")
	require.NotNil(t, s.match)
	assert.Equal(t, "hello world", s.match.entry)

	s.restart("hel")
	require.NotNil(t, s.match)
	assert.Equal(t, "hello world", s.match.entry)
	assert.Equal(t, 0, s.match.offset)

	// Repeating the search advances to the next older match.
	s.pass("hel")
	require.NotNil(t, s.match)
	assert.Equal(t, "help me", s.match.entry)

	// No older entry contains the pattern.
	s.pass("hel")
	assert.Nil(t, s.match)

	// Editing the pattern recovers from the exhausted state.
	s.restart("good")
	require.NotNil(t, s.match)
	assert.Equal(t, "goodbye", s.match.entry)
	assert.Equal(t, 0, s.match.offset)
}

func TestSearchSkipsIdenticalEntries(t *testing.T) {
	t.Parallel()

	h := searchHistory(t, "make test", "make build", "make test")

	var s searchState
	s.enter("", h)
	s.restart("make test")
	require.NotNil(t, s.match)

	// The older identical entry is skipped; advancing lands past it.
	s.pass("make test")
	assert.Nil(t, s.match, "textually identical entries do not stall the scan")
}

func TestSearchAcceptAndCancel(t *testing.T) {
	t.Parallel()

	t.Run("accept returns the match and deactivates", func(t *testing.T) {
		t.Parallel()

		h := searchHistory(t, "target")

		var s searchState
		s.enter("", h)
		s.restart("tar")

		entry, ok := s.accept()
		require.True(t, ok)
		assert.Equal(t, "target", entry)
		assert.False(t, s.active)
		assert.Nil(t, s.corpus)
	})

	t.Run("accept without a match", func(t *testing.T) {
		t.Parallel()

		h := searchHistory(t, "entry")

		var s searchState
		s.enter("", h)
		s.restart("no such thing")

		_, ok := s.accept()
		assert.False(t, ok)
		assert.False(t, s.active)
	})

	t.Run("cancel discards everything", func(t *testing.T) {
		t.Parallel()

		h := searchHistory(t, "entry")

		var s searchState
		s.enter("ent", h)
		s.cancel()
		assert.False(t, s.active)
		assert.Nil(t, s.match)
	})
}

func TestSearchMessage(t *testing.T) {
	t.Parallel()

	t.Run("matched span underlined", func(t *testing.T) {
		t.Parallel()

		h := searchHistory(t, "git commit -m")

		var s searchState
		s.enter("", h)
		s.restart("commit")

		msg := s.message("commit")
		require.Len(t, msg, 3)
		assert.Equal(t, "git ", msg[0].Text)
		assert.False(t, msg[0].Underline)
		assert.Equal(t, "commit", msg[1].Text)
		assert.True(t, msg[1].Underline)
		assert.Equal(t, " -m", msg[2].Text)
	})

	t.Run("match at the start", func(t *testing.T) {
		t.Parallel()

		h := searchHistory(t, "hello")

		var s searchState
		s.enter("", h)
		s.restart("hello")

		msg := s.message("hello")
		require.Len(t, msg, 1)
		assert.True(t, msg[0].Underline)
	})

	t.Run("no match notice", func(t *testing.T) {
		t.Parallel()

		var s searchState
		s.active = true

		msg := s.message("absent")
		assert.Equal(t, `reverse search: no match for "absent"`, msg.String())
	})
}
