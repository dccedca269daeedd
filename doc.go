// Package linedit provides an interactive line-editing engine for
// terminal programs: an editable input buffer, tab completion with a
// selectable candidate bar, persistent history with incremental reverse
// search, and an incremental renderer that understands both Unix and
// Windows line-wrap behavior.
//
// Key Features:
//
//   - Interactive input with rich editing and multi-line support
//   - Tab completion with a scrollable candidate bar (word, fuzzy and
//     file-path completers included)
//   - Command history persisted across sessions, merged safely when
//     several processes share one history file
//   - Incremental reverse search over history (Ctrl+R)
//   - Configurable key bindings
//   - Display overrides for password masking and syntax styling
//   - Context support for timeouts and cancellation
//
// Quick Start:
//
// The simplest way to read a line:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		"github.com/linedit/linedit"
//	)
//
//	func main() {
//		ed, err := linedit.New("Enter command: ")
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer ed.Close()
//
//		line, err := ed.Run()
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("You entered: %s\n", line)
//	}
//
// Advanced Usage with Completion and History:
//
//	completer := linedit.NewFuzzyCompleter([]string{
//		"git status", "git commit", "docker run", "kubectl get",
//	})
//
//	ed, err := linedit.New("$ ",
//		linedit.WithCompleter(completer),
//		linedit.WithFileHistory("~/.myapp_history", 1000),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ed.Close()
//
//	line, err := ed.Run()
//
// Key Bindings:
//
// The default key map covers the usual readline-style bindings:
//
//   - Enter: Accept input (Alt+Enter inserts a newline)
//   - Ctrl+C: Cancel and return ErrInterrupted
//   - Ctrl+D: ErrEOF when the buffer is empty, delete forward otherwise
//   - Arrow keys: Navigate history (up/down) and move the cursor
//   - Ctrl+A / Home, Ctrl+E / End: Line boundaries
//   - Ctrl+K, Ctrl+U, Ctrl+W: Kill to end, kill line, kill word
//   - Ctrl+R: Incremental reverse search over history
//   - Tab: Complete; repeated Tab steps through the candidate bar
//   - Ctrl+Left/Right: Move by word boundaries
//
// Custom bindings are added on a KeyMap:
//
//	keyMap := linedit.NewDefaultKeyMap()
//	keyMap.Bind(linedit.KeyChord{Key: linedit.KeyRune, Rune: 'l', Ctrl: true},
//		linedit.Action{Kind: linedit.ActionClearScreen})
//
//	ed, err := linedit.New("$ ", linedit.WithKeyMap(keyMap))
//
// Context Support:
//
// Use RunWithContext for timeout or cancellation support:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	line, err := ed.RunWithContext(ctx)
//	if errors.Is(err, context.DeadlineExceeded) {
//		fmt.Println("timeout reached")
//		return
//	}
//
// Error Handling:
//
// Run distinguishes the ways a session can end:
//
//   - linedit.ErrInterrupted: the user pressed Ctrl+C
//   - linedit.ErrEOF: Ctrl+D on an empty buffer, or the input stream ended
//   - *linedit.EvalError: the evaluation hook rejected the input
//   - context errors when using RunWithContext
//
// Resource Management:
//
// Always call Close when done: it persists history and restores the
// terminal. Close is safe to call multiple times and should be called
// even if Run returns an error.
package linedit
