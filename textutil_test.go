package linedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommonPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want string
	}{
		{name: "identical", a: "hello", b: "hello", want: "hello"},
		{name: "partial overlap", a: "catalog", b: "category", want: "cat"},
		{name: "no overlap", a: "foo", b: "bar", want: ""},
		{name: "one empty", a: "", b: "anything", want: ""},
		{name: "prefix relation", a: "git", b: "github", want: "git"},
		{name: "multi-byte characters", a: "日本語入力", b: "日本酒", want: "日本"},
		{name: "shared bytes not shared runes", a: "é", b: "è", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, CommonPrefix(tt.a, tt.b))
			assert.Equal(t, tt.want, CommonPrefix(tt.b, tt.a), "CommonPrefix should be symmetric")
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		{Word: "cat"},
		{Word: "car"},
		{Word: "cab"},
		{Word: "dog"},
	}

	t.Run("shared prefix across matches", func(t *testing.T) {
		t.Parallel()

		prefix, matches := Lookup("c", candidates)
		assert.Equal(t, "ca", prefix)
		require.Len(t, matches, 3)
		assert.Equal(t, "cat", matches[0].Word)
	})

	t.Run("single match", func(t *testing.T) {
		t.Parallel()

		prefix, matches := Lookup("d", candidates)
		assert.Equal(t, "dog", prefix)
		require.Len(t, matches, 1)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		prefix, matches := Lookup("x", candidates)
		assert.Empty(t, prefix)
		assert.Nil(t, matches)
	})

	t.Run("empty word matches everything", func(t *testing.T) {
		t.Parallel()

		prefix, matches := Lookup("", candidates)
		assert.Empty(t, prefix, "cat/car/cab/dog share no prefix")
		assert.Len(t, matches, 4)
	})
}

func TestIndex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 6, Index("hello world", "world"))
	assert.Equal(t, 0, Index("hello", ""))
	assert.Equal(t, -1, Index("hello", "xyz"))
	assert.Equal(t, 3, Index("日本語", "語"))
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry string
	}{
		{name: "plain", entry: "ls -la"},
		{name: "embedded newline", entry: "for i in 1 2 3\ndo echo $i\ndone"},
		{name: "backslashes", entry: `grep '\\n' file`},
		{name: "backslash before newline", entry: "a\\\nb"},
		{name: "trailing newline", entry: "echo hi\n"},
		{name: "empty", entry: ""},
		{name: "multi-byte", entry: "echo 日本語\nexit"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			escaped := Escape(tt.entry)
			assert.Equal(t, tt.entry, Unescape(escaped))
		})
	}
}

func TestUnescapeTolerance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "legacy backslash-n form", in: `a\nb`, want: "a\nb"},
		{name: "doubled backslash", in: `a\\b`, want: `a\b`},
		{name: "trailing lone backslash", in: `abc\`, want: `abc\`},
		{name: "unknown escape preserved", in: `a\tb`, want: `a\tb`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Unescape(tt.in))
		})
	}
}

func TestSplitRecords(t *testing.T) {
	t.Parallel()

	t.Run("simple lines", func(t *testing.T) {
		t.Parallel()

		records := splitRecords("one\ntwo\nthree\n")
		assert.Equal(t, []string{"one", "two", "three"}, records)
	})

	t.Run("escaped newline stays in record", func(t *testing.T) {
		t.Parallel()

		records := splitRecords("first\\\nsecond\nlast\n")
		require.Len(t, records, 2)
		assert.Equal(t, "first\\\nsecond", records[0])
		assert.Equal(t, "last", records[1])
	})

	t.Run("missing final newline", func(t *testing.T) {
		t.Parallel()

		records := splitRecords("partial")
		assert.Equal(t, []string{"partial"}, records)
	})

	t.Run("doubled backslash does not escape the newline", func(t *testing.T) {
		t.Parallel()

		records := splitRecords("a\\\\\nb\n")
		assert.Equal(t, []string{"a\\\\", "b"}, records)
	})
}
