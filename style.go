package linedit

import (
	"fmt"
	"strings"
)

// Color represents an RGB color with optional formatting.
type Color struct {
	R    uint8 `json:"r"`
	G    uint8 `json:"g"`
	B    uint8 `json:"b"`
	Bold bool  `json:"bold"`
}

// ToANSI converts a Color to an ANSI escape sequence.
func (c Color) ToANSI() string {
	var codes []string

	// Bold formatting comes first
	if c.Bold {
		codes = append(codes, "1")
	}

	// RGB color (true color support)
	codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B))

	return fmt.Sprintf("\x1b[%sm", strings.Join(codes, ";"))
}

// Reset returns the ANSI reset sequence.
func Reset() string {
	return "\x1b[0m"
}

// ColorScheme defines the color configuration for the line editor.
type ColorScheme struct {
	Name     string `json:"name"`
	Prefix   Color  `json:"prefix"`   // Prompt prefix
	Input    Color  `json:"input"`    // Typed text
	Bar      Color  `json:"bar"`      // Completion bar frame and entries
	Selected Color  `json:"selected"` // Selected completion-bar entry
	Message  Color  `json:"message"`  // Status message box
}

// ThemeDefault is the default color scheme with green prefix and white text
var ThemeDefault = &ColorScheme{
	Name:     "default",
	Prefix:   Color{R: 0, G: 255, B: 0, Bold: true},
	Input:    Color{R: 255, G: 255, B: 255, Bold: true},
	Bar:      Color{R: 200, G: 200, B: 200, Bold: false},
	Selected: Color{R: 0, G: 255, B: 255, Bold: true},
	Message:  Color{R: 128, G: 128, B: 128, Bold: false},
}

// ThemeDark is a dark theme with light blue prefix and off-white text
var ThemeDark = &ColorScheme{
	Name:     "Dark",
	Prefix:   Color{R: 102, G: 217, B: 239, Bold: true},
	Input:    Color{R: 248, G: 248, B: 242, Bold: false},
	Bar:      Color{R: 189, G: 147, B: 249, Bold: false},
	Selected: Color{R: 80, G: 250, B: 123, Bold: true},
	Message:  Color{R: 98, G: 114, B: 164, Bold: false},
}

// ThemeLight is a light theme with blue prefix and dark gray text
var ThemeLight = &ColorScheme{
	Name:     "Light",
	Prefix:   Color{R: 0, G: 119, B: 187, Bold: true},
	Input:    Color{R: 36, G: 41, B: 46, Bold: false},
	Bar:      Color{R: 88, G: 96, B: 105, Bold: false},
	Selected: Color{R: 40, G: 167, B: 69, Bold: true},
	Message:  Color{R: 149, G: 157, B: 165, Bold: false},
}

// ThemeDracula is the Dracula color scheme
var ThemeDracula = &ColorScheme{
	Name:     "Dracula",
	Prefix:   Color{R: 255, G: 121, B: 198, Bold: true},
	Input:    Color{R: 248, G: 248, B: 242, Bold: false},
	Bar:      Color{R: 139, G: 233, B: 253, Bold: false},
	Selected: Color{R: 80, G: 250, B: 123, Bold: true},
	Message:  Color{R: 98, G: 114, B: 164, Bold: false},
}

// ThemeMonokai is the Monokai color scheme
var ThemeMonokai = &ColorScheme{
	Name:     "Monokai",
	Prefix:   Color{R: 249, G: 38, B: 114, Bold: true},
	Input:    Color{R: 248, G: 248, B: 242, Bold: false},
	Bar:      Color{R: 166, G: 226, B: 46, Bold: false},
	Selected: Color{R: 102, G: 217, B: 239, Bold: true},
	Message:  Color{R: 117, G: 113, B: 94, Bold: false},
}

// Span is a run of text rendered with one style.
type Span struct {
	Text      string
	Underline bool
	Reverse   bool
}

// Text is styled text: a sequence of spans rendered left to right.
type Text []Span

// Plain builds unstyled Text from a string.
func Plain(s string) Text {
	if s == "" {
		return nil
	}
	return Text{{Text: s}}
}

// String returns the text content without styling.
func (t Text) String() string {
	var b strings.Builder
	for _, s := range t {
		b.WriteString(s.Text)
	}
	return b.String()
}

// append concatenates two styled texts, merging nothing.
func (t Text) append(other Text) Text {
	return append(t, other...)
}

// split cuts styled text at a rune offset into (before, after).
func (t Text) split(offset int) (Text, Text) {
	var before, after Text
	remaining := offset
	for _, span := range t {
		runes := []rune(span.Text)
		switch {
		case remaining >= len(runes):
			before = append(before, span)
			remaining -= len(runes)
		case remaining <= 0:
			after = append(after, span)
		default:
			head, tail := span, span
			head.Text = string(runes[:remaining])
			tail.Text = string(runes[remaining:])
			before = append(before, head)
			after = append(after, tail)
			remaining = 0
		}
	}
	return before, after
}

// Stylizer transforms the displayed form of the input buffer. It is used
// by the password variant to mask typed characters; the underlying buffer
// content is untouched.
type Stylizer func(Text) Text

// Mask returns a Stylizer replacing every displayed character with mask.
// Newlines are kept so multi-line geometry stays intact.
func Mask(mask rune) Stylizer {
	return func(t Text) Text {
		out := make(Text, 0, len(t))
		for _, span := range t {
			var b strings.Builder
			for _, r := range span.Text {
				if r == '\n' {
					b.WriteRune(r)
				} else {
					b.WriteRune(mask)
				}
			}
			span.Text = b.String()
			out = append(out, span)
		}
		return out
	}
}
