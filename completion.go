package linedit

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Candidate is one completion candidate: Word is the full completable
// token and Suffix is text appended after acceptance, typically a
// trailing separator.
type Candidate struct {
	Word   string
	Suffix string
}

// Document represents the current input state passed to completers.
type Document struct {
	Text           string // The entire input text
	CursorPosition int    // Cursor offset in code points
}

// TextBeforeCursor returns the text before the cursor.
func (d *Document) TextBeforeCursor() string {
	runes := []rune(d.Text)
	if d.CursorPosition < 0 || d.CursorPosition > len(runes) {
		return d.Text
	}
	return string(runes[:d.CursorPosition])
}

// TextAfterCursor returns the text after the cursor.
func (d *Document) TextAfterCursor() string {
	runes := []rune(d.Text)
	if d.CursorPosition < 0 || d.CursorPosition >= len(runes) {
		return ""
	}
	return string(runes[d.CursorPosition:])
}

// WordBeforeCursor returns the word immediately before the cursor, or ""
// when the cursor follows whitespace.
func (d *Document) WordBeforeCursor() string {
	text := []rune(d.TextBeforeCursor())
	if len(text) == 0 {
		return ""
	}
	last := text[len(text)-1]
	if last == ' ' || last == '\t' || last == '\n' {
		return ""
	}
	start := len(text)
	for start > 0 && text[start-1] != ' ' && text[start-1] != '\t' && text[start-1] != '\n' {
		start--
	}
	return string(text[start:])
}

// Completer asynchronously produces completion candidates for the given
// input state. It returns the code-point offset where the word being
// completed starts, together with the candidates. The context is
// cancelled when a newer computation supersedes this one; implementations
// doing slow lookups should honor it.
type Completer func(ctx context.Context, doc Document) (int, []Candidate, error)

// completionState holds the candidate list, selection and word-start
// offset. It is recomputed wholesale on every qualifying change.
type completionState struct {
	start      int
	candidates []Candidate
	selected   int
}

func (c *completionState) set(start int, candidates []Candidate) {
	c.start = start
	c.candidates = candidates
	c.selected = 0
}

func (c *completionState) clear() {
	c.start = 0
	c.candidates = nil
	c.selected = 0
}

// moveSelection shifts the selected index by delta, clamped to the
// candidate range. No-op when there are no candidates.
func (c *completionState) moveSelection(delta int) {
	if len(c.candidates) == 0 {
		return
	}
	c.selected += delta
	if c.selected < 0 {
		c.selected = 0
	}
	if c.selected > len(c.candidates)-1 {
		c.selected = len(c.candidates) - 1
	}
}

func (c *completionState) selectFirst() {
	c.selected = 0
}

func (c *completionState) selectLast() {
	if len(c.candidates) > 0 {
		c.selected = len(c.candidates) - 1
	}
}

// insertion computes the text the complete action inserts at the cursor.
//
// With a single candidate the already-typed part of the word is dropped
// and the suffix appended. With several candidates only the longest
// common prefix past the typed part is inserted; the completion stays
// ambiguous so no suffix is added. Returns false when nothing should be
// inserted.
func (c *completionState) insertion(cursor int) (string, bool) {
	if len(c.candidates) == 0 {
		return "", false
	}
	prefixLen := cursor - c.start
	if prefixLen < 0 {
		prefixLen = 0
	}
	if len(c.candidates) == 1 {
		return trimPrefix(c.candidates[0].Word, prefixLen) + c.candidates[0].Suffix, true
	}
	common := trimPrefix(commonPrefixAll(c.candidates), prefixLen)
	if common == "" {
		return "", false
	}
	return common, true
}

// selectedInsertion computes the text inserted when the currently
// selected bar entry is accepted, which behaves like the
// single-candidate case of insertion.
func (c *completionState) selectedInsertion(cursor int) (string, bool) {
	if len(c.candidates) == 0 {
		return "", false
	}
	prefixLen := cursor - c.start
	if prefixLen < 0 {
		prefixLen = 0
	}
	chosen := c.candidates[c.selected]
	return trimPrefix(chosen.Word, prefixLen) + chosen.Suffix, true
}

// trimPrefix drops the first n code points of s.
func trimPrefix(s string, n int) string {
	runes := []rune(s)
	if n >= len(runes) {
		return ""
	}
	return string(runes[n:])
}

// NewWordCompleter builds a Completer over a fixed candidate list using
// code-point prefix matching on the word before the cursor.
func NewWordCompleter(candidates []Candidate) Completer {
	return func(_ context.Context, doc Document) (int, []Candidate, error) {
		word := doc.WordBeforeCursor()
		start := doc.CursorPosition - len([]rune(word))
		_, matches := Lookup(word, candidates)
		return start, matches, nil
	}
}

// NewFuzzyCompleter builds a Completer that fuzzy-matches the word before
// the cursor against the given words, best matches first. With no typed
// word all words are offered.
func NewFuzzyCompleter(words []string) Completer {
	return func(_ context.Context, doc Document) (int, []Candidate, error) {
		word := doc.WordBeforeCursor()
		start := doc.CursorPosition - len([]rune(word))
		if word == "" {
			candidates := make([]Candidate, len(words))
			for i, w := range words {
				candidates[i] = Candidate{Word: w}
			}
			return start, candidates, nil
		}
		matches := fuzzy.Find(word, words)
		candidates := make([]Candidate, len(matches))
		for i, m := range matches {
			candidates[i] = Candidate{Word: m.Str}
		}
		return start, candidates, nil
	}
}

// NewFileCompleter builds a Completer offering file and directory names
// for the path before the cursor. Directory candidates carry a trailing
// separator as their suffix.
func NewFileCompleter() Completer {
	return func(_ context.Context, doc Document) (int, []Candidate, error) {
		path := doc.WordBeforeCursor()
		start := doc.CursorPosition - len([]rune(path))
		return start, completeFilePath(path), nil
	}
}

func completeFilePath(path string) []Candidate {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if path == "" {
		dir, base = ".", ""
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		dir, base = path, ""
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		// Hidden files only when explicitly asked for.
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		if base != "" && !strings.HasPrefix(name, base) {
			continue
		}
		full := filepath.Join(dir, name)
		if dir == "." && !strings.HasPrefix(path, "./") {
			full = name
		}
		suffix := ""
		if entry.IsDir() {
			suffix = string(filepath.Separator)
		}
		candidates = append(candidates, Candidate{Word: full, Suffix: suffix})
	}
	return candidates
}
