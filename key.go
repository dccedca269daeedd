package linedit

import (
	"strconv"
	"strings"
)

// Key identifies a named key. Printable characters use KeyRune with the
// character stored in KeyChord.Rune.
type Key int

// Named keys recognized by the decoder.
const (
	KeyRune Key = iota
	KeyEnter
	KeyTab
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyUnknown // unrecognized escape sequence
)

// KeyChord is a keypress combined with modifier flags. It is comparable
// and used as a map key in binding tables.
type KeyChord struct {
	Key   Key
	Rune  rune // set when Key == KeyRune
	Ctrl  bool
	Meta  bool
	Shift bool
}

// ActionKind enumerates the semantic actions the editor dispatches on.
type ActionKind int

// Editor actions.
const (
	ActionNone ActionKind = iota
	ActionEdit              // generic edit operation from the fallback table
	ActionInsert            // literal character insertion
	ActionInterruptOrDelete // interrupt on empty buffer, else delete next char
	ActionCancel            // unconditional interrupt
	ActionComplete
	ActionBarNext
	ActionBarPrev
	ActionBarFirst
	ActionBarLast
	ActionBarSelect
	ActionHistoryPrev
	ActionHistoryNext
	ActionAccept
	ActionClearScreen
	ActionSearchPrev
	ActionSearchCancel
)

// Action is the dispatch value produced by key lookup. Edit carries the
// generic operation for ActionEdit; Rune carries the character for
// ActionInsert.
type Action struct {
	Kind ActionKind
	Edit EditFunc
	Rune rune
}

// KeyMap resolves key chords to actions. Resolution order: the editor's
// own binding table, then the externally supplied generic edit-binding
// table, then literal insertion for unmodified printable characters.
type KeyMap struct {
	bindings map[KeyChord]Action
	edits    map[KeyChord]EditFunc
}

// NewDefaultKeyMap creates the default key bindings for the editor.
//
// Default key bindings:
//   - Enter / Ctrl+M: Accept input
//   - Tab: Complete
//   - Up / Down: History navigation
//   - Ctrl+R: Incremental reverse search
//   - Escape: Cancel search
//   - Ctrl+D: Interrupt on empty buffer, delete next character otherwise
//   - Ctrl+C: Interrupt
//   - Ctrl+L: Clear screen
//   - Meta+Left/Right/Home/End: Completion-bar navigation
//   - Meta+Tab: Insert the selected completion-bar entry
//   - Meta+Enter: Insert a literal newline
//
// Everything not bound here falls through to the edit-binding table (see
// DefaultEditBindings) and finally to literal insertion.
func NewDefaultKeyMap() *KeyMap {
	km := &KeyMap{
		bindings: make(map[KeyChord]Action),
		edits:    DefaultEditBindings(),
	}

	km.Bind(KeyChord{Key: KeyEnter}, Action{Kind: ActionAccept})
	km.Bind(KeyChord{Key: KeyRune, Rune: 'm', Ctrl: true}, Action{Kind: ActionAccept})
	km.Bind(KeyChord{Key: KeyTab}, Action{Kind: ActionComplete})
	km.Bind(KeyChord{Key: KeyUp}, Action{Kind: ActionHistoryPrev})
	km.Bind(KeyChord{Key: KeyDown}, Action{Kind: ActionHistoryNext})
	km.Bind(KeyChord{Key: KeyRune, Rune: 'r', Ctrl: true}, Action{Kind: ActionSearchPrev})
	km.Bind(KeyChord{Key: KeyEscape}, Action{Kind: ActionSearchCancel})
	km.Bind(KeyChord{Key: KeyRune, Rune: 'd', Ctrl: true}, Action{Kind: ActionInterruptOrDelete})
	km.Bind(KeyChord{Key: KeyRune, Rune: 'c', Ctrl: true}, Action{Kind: ActionCancel})
	km.Bind(KeyChord{Key: KeyRune, Rune: 'l', Ctrl: true}, Action{Kind: ActionClearScreen})
	km.Bind(KeyChord{Key: KeyLeft, Meta: true}, Action{Kind: ActionBarPrev})
	km.Bind(KeyChord{Key: KeyRight, Meta: true}, Action{Kind: ActionBarNext})
	km.Bind(KeyChord{Key: KeyHome, Meta: true}, Action{Kind: ActionBarFirst})
	km.Bind(KeyChord{Key: KeyEnd, Meta: true}, Action{Kind: ActionBarLast})
	km.Bind(KeyChord{Key: KeyTab, Meta: true}, Action{Kind: ActionBarSelect})
	km.Bind(KeyChord{Key: KeyEnter, Meta: true}, Action{
		Kind: ActionEdit,
		Edit: func(b TextBuffer) { b.Insert("\n") },
	})

	return km
}

// Bind adds or updates a binding in the editor's own table.
func (km *KeyMap) Bind(chord KeyChord, action Action) {
	km.bindings[chord] = action
}

// BindEdit adds or updates an entry in the fallback edit-binding table.
func (km *KeyMap) BindEdit(chord KeyChord, edit EditFunc) {
	km.edits[chord] = edit
}

// SetEditBindings replaces the fallback edit-binding table, normally with
// the table supplied by the text-buffer collaborator.
func (km *KeyMap) SetEditBindings(edits map[KeyChord]EditFunc) {
	km.edits = edits
}

// Resolve maps a chord to an action following the resolution order.
// Unresolvable chords yield ActionNone.
func (km *KeyMap) Resolve(chord KeyChord) Action {
	if km == nil {
		return Action{Kind: ActionNone}
	}
	if action, ok := km.bindings[chord]; ok {
		return action
	}
	if edit, ok := km.edits[chord]; ok {
		return Action{Kind: ActionEdit, Edit: edit}
	}
	if chord.Key == KeyRune && !chord.Ctrl && !chord.Meta && chord.Rune >= ' ' {
		return Action{Kind: ActionInsert, Rune: chord.Rune}
	}
	return Action{Kind: ActionNone}
}

// runeReader supplies raw input runes to the key decoder. The second
// return value reports whether more input is already buffered, which
// disambiguates a bare Escape press from an escape sequence.
type runeReader interface {
	ReadRune() (rune, int, error)
	Buffered() bool
}

// readChord decodes the next key chord from raw terminal input.
//
// Control characters map to Ctrl-modified letters, an ESC prefix maps to
// Meta, and CSI sequences are parsed for arrows, Home/End, Delete and the
// xterm ;N modifier encoding.
func readChord(r runeReader) (KeyChord, error) {
	c, _, err := r.ReadRune()
	if err != nil {
		return KeyChord{}, err
	}
	return decodeRune(r, c, false)
}

func decodeRune(r runeReader, c rune, meta bool) (KeyChord, error) {
	switch c {
	case '\r', '\n':
		return KeyChord{Key: KeyEnter, Meta: meta}, nil
	case '\t':
		return KeyChord{Key: KeyTab, Meta: meta}, nil
	case 0x7f, '\b':
		return KeyChord{Key: KeyBackspace, Meta: meta}, nil
	case 0x1b:
		if meta || !r.Buffered() {
			return KeyChord{Key: KeyEscape}, nil
		}
		next, _, err := r.ReadRune()
		if err != nil {
			return KeyChord{}, err
		}
		if next == '[' || next == 'O' {
			return readSequence(r)
		}
		// ESC-prefixed character: Meta modifier.
		return decodeRune(r, next, true)
	}
	if c < ' ' {
		return KeyChord{Key: KeyRune, Rune: 'a' + c - 1, Ctrl: true, Meta: meta}, nil
	}
	return KeyChord{Key: KeyRune, Rune: c, Meta: meta}, nil
}

// readSequence parses the remainder of a CSI or SS3 sequence after the
// leading "\x1b[" or "\x1bO".
func readSequence(r runeReader) (KeyChord, error) {
	var params []rune
	for {
		c, _, err := r.ReadRune()
		if err != nil {
			return KeyChord{}, err
		}
		if (c >= '0' && c <= '9') || c == ';' {
			params = append(params, c)
			continue
		}
		return sequenceChord(string(params), c), nil
	}
}

// sequenceChord maps a CSI parameter string and final byte to a chord.
// Unknown sequences decode to KeyUnknown, which resolves to no action,
// rather than to KeyEscape, which would cancel an active search.
func sequenceChord(params string, final rune) KeyChord {
	chord := KeyChord{}
	numbers := strings.Split(params, ";")
	if len(numbers) > 1 {
		// xterm modifier encoding: value-1 is a bitmask of
		// shift(1), meta(2), ctrl(4).
		if mod, err := strconv.Atoi(numbers[len(numbers)-1]); err == nil && mod > 0 {
			mod--
			chord.Shift = mod&1 != 0
			chord.Meta = mod&2 != 0
			chord.Ctrl = mod&4 != 0
		}
	}

	switch final {
	case 'A':
		chord.Key = KeyUp
	case 'B':
		chord.Key = KeyDown
	case 'C':
		chord.Key = KeyRight
	case 'D':
		chord.Key = KeyLeft
	case 'H':
		chord.Key = KeyHome
	case 'F':
		chord.Key = KeyEnd
	case 'Z':
		chord.Key = KeyTab
		chord.Shift = true
	case '~':
		switch numbers[0] {
		case "1", "7":
			chord.Key = KeyHome
		case "3":
			chord.Key = KeyDelete
		case "4", "8":
			chord.Key = KeyEnd
		default:
			chord.Key = KeyUnknown
		}
	default:
		chord.Key = KeyUnknown
	}
	return chord
}
