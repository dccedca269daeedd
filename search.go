package linedit

import "strings"

// searchMatch records a successful reverse-search hit: the matched entry,
// the byte offset of the matched span and the corpus remaining after the
// entry, so a repeated search can advance to older matches.
type searchMatch struct {
	entry  string
	offset int
	rest   []string
}

// searchState is the incremental reverse-search state machine. Inactive,
// active-without-match and active-with-match are the only states; the
// corpus is snapshotted on entry and never rebuilt while active.
type searchState struct {
	active bool
	corpus []string
	match  *searchMatch
}

// enter activates search mode. The corpus is the current buffer text
// followed by the full chronological history, snapshotted before the
// browsing point resets so a stashed draft stays searchable even though
// it never becomes a permanent entry.
func (s *searchState) enter(draft string, history *History) {
	s.corpus = append([]string{draft}, history.Entries()...)
	history.ResetBrowsing()
	s.match = nil
	s.active = true
	s.pass(draft)
}

// pass scans for the next entry containing pattern.
//
// With no current match the scan starts at the top of the corpus; with
// one it continues from the stored remainder, skipping entries textually
// identical to the current match so duplicates do not stall advancing.
// Exhausting the corpus leaves the state matchless.
func (s *searchState) pass(pattern string) {
	rest := s.corpus
	skip := ""
	hasSkip := false
	if s.match != nil {
		rest = s.match.rest
		skip = s.match.entry
		hasSkip = true
	}
	for i, entry := range rest {
		offset := strings.Index(entry, pattern)
		if offset < 0 {
			continue
		}
		if hasSkip && entry == skip {
			continue
		}
		s.match = &searchMatch{entry: entry, offset: offset, rest: rest[i+1:]}
		return
	}
	s.match = nil
}

// restart clears the current match and scans from the top of the corpus.
// Called when the pattern is edited while active.
func (s *searchState) restart(pattern string) {
	s.match = nil
	s.pass(pattern)
}

// accept deactivates search mode and returns the matched entry, if any,
// to be loaded into the buffer.
func (s *searchState) accept() (string, bool) {
	matched := s.match
	s.active = false
	s.corpus = nil
	s.match = nil
	if matched == nil {
		return "", false
	}
	return matched.entry, true
}

// cancel deactivates search mode without touching the buffer.
func (s *searchState) cancel() {
	s.active = false
	s.corpus = nil
	s.match = nil
}

// message builds the search status text: the matched entry with the
// matched span underlined, or a not-found notice after exhaustion.
func (s *searchState) message(pattern string) Text {
	if s.match == nil {
		return Text{{Text: "reverse search: no match for \"" + pattern + "\""}}
	}
	entry, offset := s.match.entry, s.match.offset
	var msg Text
	if offset > 0 {
		msg = append(msg, Span{Text: entry[:offset]})
	}
	msg = append(msg, Span{Text: entry[offset : offset+len(pattern)], Underline: true})
	if offset+len(pattern) < len(entry) {
		msg = append(msg, Span{Text: entry[offset+len(pattern):]})
	}
	return msg
}
