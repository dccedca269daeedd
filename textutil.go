package linedit

import (
	"strings"
	"unicode/utf8"
)

// CommonPrefix returns the longest prefix shared by a and b, measured in
// whole code points. It never splits a multi-byte character.
func CommonPrefix(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) {
		ra, sa := utf8.DecodeRuneInString(a[i:])
		rb, _ := utf8.DecodeRuneInString(b[i:])
		if ra != rb {
			break
		}
		i += sa
	}
	return a[:i]
}

// commonPrefixAll folds CommonPrefix over the words of all candidates.
func commonPrefixAll(candidates []Candidate) string {
	if len(candidates) == 0 {
		return ""
	}
	prefix := candidates[0].Word
	for _, c := range candidates[1:] {
		prefix = CommonPrefix(prefix, c.Word)
		if prefix == "" {
			break
		}
	}
	return prefix
}

// Lookup filters candidates whose word starts with the typed word.
// It returns the longest common prefix of all matches together with the
// matches themselves, or ("", nil) when nothing matches.
func Lookup(word string, candidates []Candidate) (string, []Candidate) {
	var matches []Candidate
	for _, c := range candidates {
		if strings.HasPrefix(c.Word, word) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return "", nil
	}
	return commonPrefixAll(matches), matches
}

// Index reports the byte offset of the first occurrence of pattern in s,
// or -1 when absent. For valid UTF-8 the offset is always aligned to a
// code-point boundary, so a plain byte scan is sufficient.
func Index(s, pattern string) int {
	return strings.Index(s, pattern)
}

// Escape encodes a history entry for file persistence. Each literal
// newline becomes backslash+newline and each backslash is doubled, so an
// entry spanning several physical lines can be read back as one record.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString("\\\n")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape decodes one logical history record produced by Escape.
//
// Backslash+'n' is also accepted as an escaped newline. Escape never emits
// that form; it is kept for compatibility with history files written by
// older tools. A trailing lone backslash is preserved literally.
func Unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != '\\' {
			b.WriteRune(r)
			i += size
			continue
		}
		i += size
		if i >= len(s) {
			b.WriteByte('\\')
			break
		}
		next, nsize := utf8.DecodeRuneInString(s[i:])
		switch next {
		case '\\':
			b.WriteByte('\\')
		case '\n', 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte('\\')
			b.WriteRune(next)
		}
		i += nsize
	}
	return b.String()
}

// splitRecords splits raw history-file content into logical records.
// A newline preceded by a backslash belongs to the current record; an
// unescaped newline terminates it. The returned records are still in
// escaped form.
func splitRecords(content string) []string {
	var records []string
	var b strings.Builder
	escaped := false
	for _, r := range content {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			b.WriteRune(r)
			escaped = true
		case '\n':
			records = append(records, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		records = append(records, b.String())
	}
	return records
}
