package linedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineBufferInsert(t *testing.T) {
	t.Parallel()

	b := NewLineBuffer()
	b.Insert("hello")
	assert.Equal(t, "hello", b.Text())
	assert.Equal(t, 5, b.Cursor())

	b.MoveTo(0)
	b.Insert("say ")
	assert.Equal(t, "say hello", b.Text())
	assert.Equal(t, 4, b.Cursor())
}

func TestLineBufferMultiByte(t *testing.T) {
	t.Parallel()

	b := NewLineBuffer()
	b.Insert("日本語")
	assert.Equal(t, 3, b.Cursor(), "cursor counts code points, not bytes")

	b.MoveTo(1)
	b.Insert("x")
	assert.Equal(t, "日x本語", b.Text())

	require.True(t, b.DeleteBackward())
	assert.Equal(t, "日本語", b.Text())
	assert.Equal(t, 1, b.Cursor())
}

func TestLineBufferDelete(t *testing.T) {
	t.Parallel()

	t.Run("forward", func(t *testing.T) {
		t.Parallel()

		b := NewLineBuffer()
		b.SetText("abc")
		b.MoveTo(1)
		require.True(t, b.DeleteForward())
		assert.Equal(t, "ac", b.Text())
		assert.Equal(t, 1, b.Cursor())

		b.MoveTo(2)
		assert.False(t, b.DeleteForward(), "nothing after the cursor")
	})

	t.Run("backward", func(t *testing.T) {
		t.Parallel()

		b := NewLineBuffer()
		b.SetText("abc")
		require.True(t, b.DeleteBackward())
		assert.Equal(t, "ab", b.Text())

		b.MoveTo(0)
		assert.False(t, b.DeleteBackward(), "nothing before the cursor")
	})
}

func TestLineBufferRemoveRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		cursor     int
		start, end int
		wantText   string
		wantCursor int
	}{
		{name: "cursor after range", text: "abcdef", cursor: 6, start: 1, end: 3, wantText: "adef", wantCursor: 4},
		{name: "cursor inside range", text: "abcdef", cursor: 2, start: 1, end: 4, wantText: "aef", wantCursor: 1},
		{name: "cursor before range", text: "abcdef", cursor: 0, start: 2, end: 4, wantText: "abef", wantCursor: 0},
		{name: "out of bounds clamped", text: "abc", cursor: 3, start: -5, end: 99, wantText: "", wantCursor: 0},
		{name: "empty range", text: "abc", cursor: 1, start: 2, end: 2, wantText: "abc", wantCursor: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := NewLineBuffer()
			b.SetText(tt.text)
			b.MoveTo(tt.cursor)
			b.RemoveRange(tt.start, tt.end)
			assert.Equal(t, tt.wantText, b.Text())
			assert.Equal(t, tt.wantCursor, b.Cursor())
		})
	}
}

func TestLineBufferSelection(t *testing.T) {
	t.Parallel()

	b := NewLineBuffer()
	b.SetText("hello world")

	_, _, ok := b.Selection()
	assert.False(t, ok, "no selection without an anchor")

	b.MoveTo(6)
	b.SetAnchor()
	b.MoveTo(11)
	start, end, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, 6, start)
	assert.Equal(t, 11, end)

	// Anchor after cursor still yields a normalized range.
	b.MoveTo(0)
	start, end, ok = b.Selection()
	require.True(t, ok)
	assert.Equal(t, 0, start)
	assert.Equal(t, 6, end)

	b.Insert("x")
	_, _, ok = b.Selection()
	assert.False(t, ok, "editing drops the selection")
}

func TestWordBoundary(t *testing.T) {
	t.Parallel()

	runes := []rune("foo bar_baz  qux")

	tests := []struct {
		name      string
		cursor    int
		direction int
		want      int
	}{
		{name: "forward from start", cursor: 0, direction: 1, want: 3},
		{name: "forward over separator", cursor: 3, direction: 1, want: 11},
		{name: "forward underscore is word char", cursor: 4, direction: 1, want: 11},
		{name: "forward from end", cursor: 16, direction: 1, want: 16},
		{name: "backward from end", cursor: 16, direction: -1, want: 13},
		{name: "backward over separator", cursor: 13, direction: -1, want: 4},
		{name: "backward from start", cursor: 0, direction: -1, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, wordBoundary(runes, tt.cursor, tt.direction))
		})
	}
}

func TestLineStartEnd(t *testing.T) {
	t.Parallel()

	runes := []rune("first\nsecond\nthird")

	assert.Equal(t, 0, lineStart(runes, 3))
	assert.Equal(t, 5, lineEnd(runes, 3))
	assert.Equal(t, 6, lineStart(runes, 9))
	assert.Equal(t, 12, lineEnd(runes, 9))
	assert.Equal(t, 13, lineStart(runes, 18))
	assert.Equal(t, 18, lineEnd(runes, 18))
}

func TestDefaultEditBindings(t *testing.T) {
	t.Parallel()

	bindings := DefaultEditBindings()

	apply := func(t *testing.T, chord KeyChord, text string, cursor int) *LineBuffer {
		t.Helper()
		edit, ok := bindings[chord]
		require.True(t, ok, "chord should be bound")
		b := NewLineBuffer()
		b.SetText(text)
		b.MoveTo(cursor)
		edit(b)
		return b
	}

	t.Run("kill to end of line", func(t *testing.T) {
		t.Parallel()

		b := apply(t, KeyChord{Key: KeyRune, Rune: 'k', Ctrl: true}, "hello world", 5)
		assert.Equal(t, "hello", b.Text())
	})

	t.Run("kill to end stops at newline", func(t *testing.T) {
		t.Parallel()

		b := apply(t, KeyChord{Key: KeyRune, Rune: 'k', Ctrl: true}, "one\ntwo", 1)
		assert.Equal(t, "o\ntwo", b.Text())
	})

	t.Run("kill whole line", func(t *testing.T) {
		t.Parallel()

		b := apply(t, KeyChord{Key: KeyRune, Rune: 'u', Ctrl: true}, "hello", 3)
		assert.Empty(t, b.Text())
		assert.Equal(t, 0, b.Cursor())
	})

	t.Run("delete word backwards", func(t *testing.T) {
		t.Parallel()

		b := apply(t, KeyChord{Key: KeyRune, Rune: 'w', Ctrl: true}, "git commit", 10)
		assert.Equal(t, "git ", b.Text())
		assert.Equal(t, 4, b.Cursor())
	})

	t.Run("home and end use line boundaries", func(t *testing.T) {
		t.Parallel()

		b := apply(t, KeyChord{Key: KeyHome}, "one\ntwo", 6)
		assert.Equal(t, 4, b.Cursor())

		b = apply(t, KeyChord{Key: KeyEnd}, "one\ntwo", 1)
		assert.Equal(t, 3, b.Cursor())
	})

	t.Run("word movement", func(t *testing.T) {
		t.Parallel()

		b := apply(t, KeyChord{Key: KeyRight, Ctrl: true}, "foo bar", 0)
		assert.Equal(t, 3, b.Cursor())

		b = apply(t, KeyChord{Key: KeyLeft, Ctrl: true}, "foo bar", 7)
		assert.Equal(t, 4, b.Cursor())
	})
}
