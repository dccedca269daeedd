package linedit

// TextBuffer is the editable-text collaborator consumed by the editor.
//
// The engine itself never interprets buffer content beyond reading it;
// all editing goes through this interface so callers can substitute a
// richer buffer (kill ring, undo, selections) without touching the
// session loop. Offsets are counted in code points.
type TextBuffer interface {
	Text() string
	Cursor() int
	MoveTo(offset int)
	Insert(text string)
	DeleteForward() bool
	DeleteBackward() bool
	RemoveRange(start, end int)
	SetText(text string)
	Selection() (start, end int, ok bool)
}

// EditFunc is a generic editing action supplied by the text-buffer
// collaborator through an edit-binding table. The engine dispatches to it
// without knowing what it does.
type EditFunc func(TextBuffer)

// LineBuffer is the default TextBuffer implementation: a rune slice with
// a cursor and an optional selection anchor.
type LineBuffer struct {
	runes  []rune
	cursor int
	anchor int // selection anchor, -1 when no selection
}

// NewLineBuffer creates an empty line buffer.
func NewLineBuffer() *LineBuffer {
	return &LineBuffer{anchor: -1}
}

// Text returns the buffer content.
func (b *LineBuffer) Text() string {
	return string(b.runes)
}

// Cursor returns the cursor offset in code points.
func (b *LineBuffer) Cursor() int {
	return b.cursor
}

// MoveTo places the cursor at offset, clamped to the buffer bounds.
func (b *LineBuffer) MoveTo(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.runes) {
		offset = len(b.runes)
	}
	b.cursor = offset
}

// Insert inserts text at the cursor and moves the cursor past it.
func (b *LineBuffer) Insert(text string) {
	runes := []rune(text)
	b.runes = append(b.runes[:b.cursor], append(runes, b.runes[b.cursor:]...)...)
	b.cursor += len(runes)
	b.anchor = -1
}

// DeleteForward removes the character after the cursor.
func (b *LineBuffer) DeleteForward() bool {
	if b.cursor >= len(b.runes) {
		return false
	}
	b.runes = append(b.runes[:b.cursor], b.runes[b.cursor+1:]...)
	b.anchor = -1
	return true
}

// DeleteBackward removes the character before the cursor.
func (b *LineBuffer) DeleteBackward() bool {
	if b.cursor == 0 {
		return false
	}
	b.runes = append(b.runes[:b.cursor-1], b.runes[b.cursor:]...)
	b.cursor--
	b.anchor = -1
	return true
}

// RemoveRange deletes the half-open range [start, end), clamped to the
// buffer bounds.
func (b *LineBuffer) RemoveRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(b.runes) {
		end = len(b.runes)
	}
	if start >= end {
		return
	}
	b.runes = append(b.runes[:start], b.runes[end:]...)
	if b.cursor > end {
		b.cursor -= end - start
	} else if b.cursor > start {
		b.cursor = start
	}
	b.anchor = -1
}

// SetText replaces the buffer content and places the cursor at the end.
func (b *LineBuffer) SetText(text string) {
	b.runes = []rune(text)
	b.cursor = len(b.runes)
	b.anchor = -1
}

// Selection reports the selected range, when a selection anchor is set.
func (b *LineBuffer) Selection() (int, int, bool) {
	if b.anchor < 0 || b.anchor == b.cursor {
		return 0, 0, false
	}
	if b.anchor < b.cursor {
		return b.anchor, b.cursor, true
	}
	return b.cursor, b.anchor, true
}

// SetAnchor sets the selection anchor at the current cursor position.
func (b *LineBuffer) SetAnchor() {
	b.anchor = b.cursor
}

// ClearAnchor drops the selection.
func (b *LineBuffer) ClearAnchor() {
	b.anchor = -1
}

// isWordChar determines if a character is part of a word for navigation
// and editing operations. Letters, digits and underscore count as word
// characters, everything else is a separator.
func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

// wordBoundary finds the next word boundary in the given direction.
//
//	direction > 0: position at the end of the next word
//	direction < 0: position at the start of the previous word
func wordBoundary(runes []rune, cursor, direction int) int {
	if direction > 0 {
		pos := cursor
		for pos < len(runes) && !isWordChar(runes[pos]) {
			pos++
		}
		for pos < len(runes) && isWordChar(runes[pos]) {
			pos++
		}
		return pos
	}
	pos := cursor
	if pos > 0 {
		pos--
	}
	for pos > 0 && !isWordChar(runes[pos]) {
		pos--
	}
	for pos > 0 && isWordChar(runes[pos-1]) {
		pos--
	}
	return pos
}

// lineStart finds the start of the line containing cursor.
func lineStart(runes []rune, cursor int) int {
	pos := cursor
	for pos > 0 && runes[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd finds the end of the line containing cursor.
func lineEnd(runes []rune, cursor int) int {
	pos := cursor
	for pos < len(runes) && runes[pos] != '\n' {
		pos++
	}
	return pos
}

// DefaultEditBindings returns the generic edit-binding table supplied to
// the editor as the fallback behind its own action table. The bindings
// cover the usual emacs-flavored line editing set.
//
//   - Left/Right, Ctrl+B/Ctrl+F: move by character
//   - Ctrl+Left/Ctrl+Right: move by word
//   - Home/End, Ctrl+A/Ctrl+E: move to line start/end
//   - Backspace: delete character backwards
//   - Delete: delete character forwards
//   - Ctrl+K: delete to end of line
//   - Ctrl+U: delete entire line
//   - Ctrl+W: delete word backwards
func DefaultEditBindings() map[KeyChord]EditFunc {
	moveLeft := func(b TextBuffer) { b.MoveTo(b.Cursor() - 1) }
	moveRight := func(b TextBuffer) { b.MoveTo(b.Cursor() + 1) }
	moveHome := func(b TextBuffer) { b.MoveTo(lineStart([]rune(b.Text()), b.Cursor())) }
	moveEnd := func(b TextBuffer) { b.MoveTo(lineEnd([]rune(b.Text()), b.Cursor())) }
	wordLeft := func(b TextBuffer) { b.MoveTo(wordBoundary([]rune(b.Text()), b.Cursor(), -1)) }
	wordRight := func(b TextBuffer) { b.MoveTo(wordBoundary([]rune(b.Text()), b.Cursor(), 1)) }
	backspace := func(b TextBuffer) { b.DeleteBackward() }
	deleteChar := func(b TextBuffer) { b.DeleteForward() }
	killToEnd := func(b TextBuffer) {
		b.RemoveRange(b.Cursor(), lineEnd([]rune(b.Text()), b.Cursor()))
	}
	killLine := func(b TextBuffer) {
		b.RemoveRange(0, len([]rune(b.Text())))
	}
	deleteWordBack := func(b TextBuffer) {
		cursor := b.Cursor()
		b.RemoveRange(wordBoundary([]rune(b.Text()), cursor, -1), cursor)
	}

	return map[KeyChord]EditFunc{
		{Key: KeyLeft}:             moveLeft,
		{Key: KeyRight}:            moveRight,
		{Key: KeyRune, Rune: 'b', Ctrl: true}: moveLeft,
		{Key: KeyRune, Rune: 'f', Ctrl: true}: moveRight,
		{Key: KeyLeft, Ctrl: true}:  wordLeft,
		{Key: KeyRight, Ctrl: true}: wordRight,
		{Key: KeyHome}:              moveHome,
		{Key: KeyEnd}:               moveEnd,
		{Key: KeyRune, Rune: 'a', Ctrl: true}: moveHome,
		{Key: KeyRune, Rune: 'e', Ctrl: true}: moveEnd,
		{Key: KeyBackspace}: backspace,
		{Key: KeyDelete}:    deleteChar,
		{Key: KeyRune, Rune: 'k', Ctrl: true}: killToEnd,
		{Key: KeyRune, Rune: 'u', Ctrl: true}: killLine,
		{Key: KeyRune, Rune: 'w', Ctrl: true}: deleteWordBack,
	}
}
