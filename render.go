package linedit

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rivo/uniseg"
)

// Position is a cursor or output position in the rendered region,
// 0-indexed from the first line of the prompt.
type Position struct {
	Line int
	Col  int
}

// WrapKind selects the wrap arithmetic for the target terminal.
//
// Unix-like terminals defer auto-wrap: after the last cell of a full line
// the cursor rests at Col == width and the next character forces the
// wrap. Windows-like terminals wrap eagerly, so the cursor never reaches
// Col == width.
type WrapKind int

// Wrap policies.
const (
	WrapUnix WrapKind = iota
	WrapWindows
)

// advanceString walks pos across s under the given wrap policy. Column
// width is measured in display cells, so East Asian wide characters
// advance by two.
func advanceString(pos Position, width int, kind WrapKind, s string) Position {
	for _, r := range s {
		if r == '\n' {
			pos.Line++
			pos.Col = 0
			continue
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		switch kind {
		case WrapUnix:
			if pos.Col+w > width {
				pos.Line++
				pos.Col = 0
			}
			pos.Col += w
		case WrapWindows:
			pos.Col += w
			if pos.Col >= width {
				pos.Line++
				pos.Col = 0
			}
		}
	}
	return pos
}

// advanceText walks pos across styled text.
func advanceText(pos Position, width int, kind WrapKind, t Text) Position {
	for _, span := range t {
		pos = advanceString(pos, width, kind, span.Text)
	}
	return pos
}

// TextHeight returns the number of rows a styled text block occupies at
// the given width, counting from 1.
func TextHeight(width int, kind WrapKind, t Text) int {
	return advanceText(Position{}, width, kind, t).Line + 1
}

// frame is one immutable snapshot of everything the renderer draws: the
// prompt, the styled buffer split at the cursor, the completion
// candidates and the optional status message.
type frame struct {
	prompt     Text
	before     Text
	after      Text
	candidates []Candidate
	selected   int
	message    Text
}

// renderer owns all terminal output for a session. Its state is mutated
// only while holding mu, which serializes the erase/redraw transaction
// against concurrent hide/show/final-draw calls.
type renderer struct {
	mu     sync.Mutex
	out    io.Writer
	scheme *ColorScheme
	kind   WrapKind

	showBox bool
	width   int
	height  int

	visible   bool
	displayed bool
	queued    bool
	cursor    Position
	end       Position
	barStart  int
}

func newRenderer(out io.Writer, scheme *ColorScheme, kind WrapKind, showBox bool) *renderer {
	return &renderer{
		out:     out,
		scheme:  scheme,
		kind:    kind,
		showBox: showBox,
		width:   80,
		height:  24,
		visible: true,
	}
}

// setSize records the current terminal dimensions.
func (r *renderer) setSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width > 0 {
		r.width = width
	}
	if height > 0 {
		r.height = height
	}
}

// queue marks a redraw as pending. Multiple calls before the next
// takeQueued coalesce into a single redraw.
func (r *renderer) queue() {
	r.mu.Lock()
	r.queued = true
	r.mu.Unlock()
}

// takeQueued consumes the pending-redraw flag.
func (r *renderer) takeQueued() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	queued := r.queued
	r.queued = false
	return queued
}

// drawUpdate runs one erase/redraw transaction: erase the previously
// drawn region, lay out the new content and trailing UI block, emit
// everything in a single write and move the physical cursor back to the
// input position.
func (r *renderer) drawUpdate(f frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.visible {
		return nil
	}

	var b strings.Builder
	r.eraseInto(&b)

	promptEnd := advanceText(Position{}, r.width, r.kind, f.prompt)
	cursor := advanceText(promptEnd, r.width, r.kind, f.before)
	end := advanceText(cursor, r.width, r.kind, f.after)

	var blockRows []string
	switch {
	case len(f.message) > 0 && r.showBox:
		blockRows = r.boxRows(f.message)
	case r.showBox && r.width > 2:
		blockRows = r.barRows(f)
	}

	r.writeText(&b, f.prompt, r.scheme.Prefix)
	r.writeText(&b, f.before, r.scheme.Input)
	r.writeText(&b, f.after, r.scheme.Input)

	if r.kind == WrapUnix && cursor.Col == r.width {
		if len(blockRows) == 0 && len(f.after) == 0 {
			// Deferred auto-wrap would leave the cursor in an ambiguous
			// state; force the wrap ourselves.
			b.WriteString("\r\n")
			cursor = Position{Line: cursor.Line + 1, Col: 0}
			end = cursor
		} else {
			// Content follows, so the wrap has already happened on
			// screen; a column equal to the width cannot be reached
			// with a cursor-forward sequence. The reachable cell is
			// the head of the next line.
			cursor = Position{Line: cursor.Line + 1, Col: 0}
		}
	}

	for _, row := range blockRows {
		b.WriteString("\r\n")
		b.WriteString(row)
	}
	if len(blockRows) > 0 {
		end = Position{
			Line: end.Line + len(blockRows),
			Col:  ansi.PrintableRuneWidth(blockRows[len(blockRows)-1]),
		}
	}
	if end.Col >= r.width {
		end.Col = r.width - 1
	}

	moveTo(&b, end, cursor)

	r.cursor = cursor
	r.end = end
	r.displayed = true
	_, err := fmt.Fprint(r.out, b.String())
	return err
}

// drawFinal erases the interactive UI and prints the finished line
// followed by a newline. Used once at session end, identically on normal
// completion and failure.
func (r *renderer) drawFinal(f frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	r.eraseInto(&b)
	r.writeText(&b, f.prompt, r.scheme.Prefix)
	r.writeText(&b, f.before, r.scheme.Input)
	r.writeText(&b, f.after, r.scheme.Input)
	b.WriteString("\r\n")

	r.displayed = false
	_, err := fmt.Fprint(r.out, b.String())
	return err
}

// hide erases the UI and stops further drawing without discarding state.
func (r *renderer) hide() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	r.eraseInto(&b)
	r.visible = false
	if b.Len() == 0 {
		return nil
	}
	_, err := fmt.Fprint(r.out, b.String())
	return err
}

// show re-enables drawing. The next redraw repaints from scratch.
func (r *renderer) show() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = true
	r.displayed = false
	r.queued = true
}

// clearScreen clears the physical screen and forces a full repaint on
// the next redraw.
func (r *renderer) clearScreen() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.displayed = false
	r.queued = true
	_, err := fmt.Fprint(r.out, "\x1b[2J\x1b[H")
	return err
}

// eraseInto appends the erase half of the transaction: move to the
// top-left of the previously drawn region, clear each of its lines and
// return to the top-left. No-op unless something is displayed.
func (r *renderer) eraseInto(b *strings.Builder) {
	if !r.visible || !r.displayed {
		return
	}
	if r.cursor.Line > 0 {
		fmt.Fprintf(b, "\x1b[%dA", r.cursor.Line)
	}
	b.WriteString("\r")
	for i := 0; i <= r.end.Line; i++ {
		b.WriteString("\x1b[K")
		if i < r.end.Line {
			b.WriteString("\x1b[B")
		}
	}
	if r.end.Line > 0 {
		fmt.Fprintf(b, "\x1b[%dA", r.end.Line)
	}
	b.WriteString("\r")
	r.displayed = false
}

// moveTo appends cursor movement from the end-of-display position back
// to the input cursor position.
func moveTo(b *strings.Builder, from, to Position) {
	if from.Line > to.Line {
		fmt.Fprintf(b, "\x1b[%dA", from.Line-to.Line)
	}
	b.WriteString("\r")
	if to.Col > 0 {
		fmt.Fprintf(b, "\x1b[%dC", to.Col)
	}
}

// writeText appends styled text in the given base color. Newlines become
// \r\n because the terminal is in raw mode.
func (r *renderer) writeText(b *strings.Builder, t Text, base Color) {
	for _, span := range t {
		if span.Text == "" {
			continue
		}
		b.WriteString(base.ToANSI())
		if span.Underline {
			b.WriteString("\x1b[4m")
		}
		if span.Reverse {
			b.WriteString("\x1b[7m")
		}
		b.WriteString(strings.ReplaceAll(span.Text, "\n", "\r\n"))
		b.WriteString(Reset())
	}
}

// barRows lays out the three-row completion bar: tick-mark borders above
// and below a horizontally scrolled row of candidate words separated by
// vertical bars, with the selected word in reverse video.
func (r *renderer) barRows(f frame) []string {
	barWidth := r.width - 1
	barColor := r.scheme.Bar.ToANSI()

	if len(f.candidates) == 0 {
		line := barColor + strings.Repeat("─", barWidth) + Reset()
		return []string{line, "", line}
	}

	r.scrollBar(f, barWidth)

	var mid strings.Builder
	ticks := make(map[int]bool)
	col := 0
	for i := r.barStart; i < len(f.candidates); i++ {
		word := f.candidates[i].Word
		if i > r.barStart {
			if col+1 >= barWidth {
				break
			}
			mid.WriteString(barColor + "│" + Reset())
			ticks[col] = true
			col++
		}
		w := runewidth.StringWidth(word)
		if col+w > barWidth {
			word = truncateToWidth(word, barWidth-col)
			w = runewidth.StringWidth(word)
			if w == 0 {
				break
			}
		}
		if i == f.selected {
			mid.WriteString(r.scheme.Selected.ToANSI() + "\x1b[7m" + word + Reset())
		} else {
			mid.WriteString(barColor + word + Reset())
		}
		col += w
		if col >= barWidth {
			break
		}
	}

	top := make([]rune, barWidth)
	bottom := make([]rune, barWidth)
	for i := 0; i < barWidth; i++ {
		if ticks[i] {
			top[i] = '┬'
			bottom[i] = '┴'
		} else {
			top[i] = '─'
			bottom[i] = '─'
		}
	}
	return []string{
		barColor + string(top) + Reset(),
		mid.String(),
		barColor + string(bottom) + Reset(),
	}
}

// scrollBar updates the persistent first-visible index so the selection
// stays inside the bar window. Scrolling backward measures from the
// selection so it becomes the last visible entry; scrolling forward
// starts the window at the selection.
func (r *renderer) scrollBar(f frame, barWidth int) {
	if r.barStart > len(f.candidates)-1 {
		r.barStart = 0
	}
	if f.selected < r.barStart {
		start := f.selected
		col := runewidth.StringWidth(f.candidates[start].Word)
		for start > 0 {
			w := runewidth.StringWidth(f.candidates[start-1].Word) + 1
			if col+w > barWidth {
				break
			}
			col += w
			start--
		}
		r.barStart = start
		return
	}

	col := 0
	lastVisible := r.barStart
	for i := r.barStart; i < len(f.candidates); i++ {
		sep := 0
		if i > r.barStart {
			sep = 1
		}
		w := runewidth.StringWidth(f.candidates[i].Word)
		if col+sep+w > barWidth {
			break
		}
		col += sep + w
		lastVisible = i
	}
	if f.selected > lastVisible {
		r.barStart = f.selected
	}
}

// boxRows lays out the bordered status-message box: box-drawing borders
// sized to the word-wrapped content width.
func (r *renderer) boxRows(msg Text) []string {
	inner := r.width - 4
	if inner < 1 {
		inner = 1
	}

	var styled strings.Builder
	r.writeText(&styled, msg, r.scheme.Message)
	wrapped := wordwrap.String(styled.String(), inner)
	lines := strings.Split(wrapped, "\n")

	contentWidth := 0
	for _, line := range lines {
		if w := ansi.PrintableRuneWidth(line); w > contentWidth {
			contentWidth = w
		}
	}

	frameColor := r.scheme.Message.ToANSI()
	rows := make([]string, 0, len(lines)+2)
	rows = append(rows, frameColor+"┌"+strings.Repeat("─", contentWidth+2)+"┐"+Reset())
	for _, line := range lines {
		pad := strings.Repeat(" ", contentWidth-ansi.PrintableRuneWidth(line))
		rows = append(rows, frameColor+"│ "+Reset()+line+pad+frameColor+" │"+Reset())
	}
	rows = append(rows, frameColor+"└"+strings.Repeat("─", contentWidth+2)+"┘"+Reset())
	return rows
}

// truncateToWidth cuts s to at most max display cells without splitting
// a grapheme cluster.
func truncateToWidth(s string, max int) string {
	if max <= 0 {
		return ""
	}
	var b strings.Builder
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := runewidth.StringWidth(cluster)
		if width+w > max {
			break
		}
		b.WriteString(cluster)
		width += w
	}
	return b.String()
}
