package linedit

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAllChords(t *testing.T, input string) []KeyChord {
	t.Helper()

	r := newMockTerminal(input, io.Discard)
	var chords []KeyChord
	for {
		chord, err := readChord(r)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			return chords
		}
		chords = append(chords, chord)
	}
}

func TestReadChord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []KeyChord
	}{
		{
			name:  "printable characters",
			input: "ab語",
			want: []KeyChord{
				{Key: KeyRune, Rune: 'a'},
				{Key: KeyRune, Rune: 'b'},
				{Key: KeyRune, Rune: '語'},
			},
		},
		{
			name:  "enter and tab",
			input: "\r\t\n",
			want: []KeyChord{
				{Key: KeyEnter},
				{Key: KeyTab},
				{Key: KeyEnter},
			},
		},
		{
			name:  "control characters become ctrl chords",
			input: "\x03\x04\x12\x0c",
			want: []KeyChord{
				{Key: KeyRune, Rune: 'c', Ctrl: true},
				{Key: KeyRune, Rune: 'd', Ctrl: true},
				{Key: KeyRune, Rune: 'r', Ctrl: true},
				{Key: KeyRune, Rune: 'l', Ctrl: true},
			},
		},
		{
			name:  "backspace variants",
			input: "\x7f\b",
			want: []KeyChord{
				{Key: KeyBackspace},
				{Key: KeyBackspace},
			},
		},
		{
			name:  "arrow keys",
			input: "\x1b[A\x1b[B\x1b[C\x1b[D",
			want: []KeyChord{
				{Key: KeyUp},
				{Key: KeyDown},
				{Key: KeyRight},
				{Key: KeyLeft},
			},
		},
		{
			name:  "home end delete",
			input: "\x1b[H\x1b[F\x1b[3~\x1b[1~\x1b[4~",
			want: []KeyChord{
				{Key: KeyHome},
				{Key: KeyEnd},
				{Key: KeyDelete},
				{Key: KeyHome},
				{Key: KeyEnd},
			},
		},
		{
			name:  "xterm modifiers",
			input: "\x1b[1;5C\x1b[1;3D\x1b[1;2A\x1b[1;7C",
			want: []KeyChord{
				{Key: KeyRight, Ctrl: true},
				{Key: KeyLeft, Meta: true},
				{Key: KeyUp, Shift: true},
				{Key: KeyRight, Ctrl: true, Meta: true},
			},
		},
		{
			name:  "shift tab",
			input: "\x1b[Z",
			want: []KeyChord{
				{Key: KeyTab, Shift: true},
			},
		},
		{
			name:  "meta letter",
			input: "\x1bf",
			want: []KeyChord{
				{Key: KeyRune, Rune: 'f', Meta: true},
			},
		},
		{
			name:  "meta enter",
			input: "\x1b\r",
			want: []KeyChord{
				{Key: KeyEnter, Meta: true},
			},
		},
		{
			name:  "bare escape with nothing buffered",
			input: "\x1b",
			want: []KeyChord{
				{Key: KeyEscape},
			},
		},
		{
			name:  "unknown csi sequences are distinct from escape",
			input: "\x1b[99~\x1b[5~x",
			want: []KeyChord{
				{Key: KeyUnknown},
				{Key: KeyUnknown},
				{Key: KeyRune, Rune: 'x'},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, readAllChords(t, tt.input))
		})
	}
}

func TestKeyMapResolve(t *testing.T) {
	t.Parallel()

	km := NewDefaultKeyMap()

	t.Run("editor bindings win", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, ActionAccept, km.Resolve(KeyChord{Key: KeyEnter}).Kind)
		assert.Equal(t, ActionComplete, km.Resolve(KeyChord{Key: KeyTab}).Kind)
		assert.Equal(t, ActionHistoryPrev, km.Resolve(KeyChord{Key: KeyUp}).Kind)
		assert.Equal(t, ActionSearchPrev, km.Resolve(KeyChord{Key: KeyRune, Rune: 'r', Ctrl: true}).Kind)
		assert.Equal(t, ActionCancel, km.Resolve(KeyChord{Key: KeyRune, Rune: 'c', Ctrl: true}).Kind)
		assert.Equal(t, ActionBarSelect, km.Resolve(KeyChord{Key: KeyTab, Meta: true}).Kind)
	})

	t.Run("edit bindings as fallback", func(t *testing.T) {
		t.Parallel()

		action := km.Resolve(KeyChord{Key: KeyRune, Rune: 'k', Ctrl: true})
		assert.Equal(t, ActionEdit, action.Kind)
		require.NotNil(t, action.Edit)

		b := NewLineBuffer()
		b.SetText("hello")
		b.MoveTo(2)
		action.Edit(b)
		assert.Equal(t, "he", b.Text())
	})

	t.Run("printable falls through to insert", func(t *testing.T) {
		t.Parallel()

		action := km.Resolve(KeyChord{Key: KeyRune, Rune: 'x'})
		assert.Equal(t, ActionInsert, action.Kind)
		assert.Equal(t, 'x', action.Rune)
	})

	t.Run("modified printable is not inserted", func(t *testing.T) {
		t.Parallel()

		action := km.Resolve(KeyChord{Key: KeyRune, Rune: 'x', Meta: true})
		assert.Equal(t, ActionNone, action.Kind)
	})

	t.Run("unknown key resolves to no action", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, ActionNone, km.Resolve(KeyChord{Key: KeyUnknown}).Kind)
	})

	t.Run("custom binding overrides default", func(t *testing.T) {
		t.Parallel()

		custom := NewDefaultKeyMap()
		custom.Bind(KeyChord{Key: KeyTab}, Action{Kind: ActionNone})
		assert.Equal(t, ActionNone, custom.Resolve(KeyChord{Key: KeyTab}).Kind)
	})

	t.Run("nil keymap resolves to none", func(t *testing.T) {
		t.Parallel()

		var nilMap *KeyMap
		assert.Equal(t, ActionNone, nilMap.Resolve(KeyChord{Key: KeyEnter}).Kind)
	})
}
