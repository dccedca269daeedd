package linedit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Common errors
var (
	// ErrEOF is returned when Ctrl+D is pressed on an empty buffer or
	// the input stream ends
	ErrEOF = errors.New("EOF")
	// ErrInterrupted is returned when the user presses Ctrl+C
	ErrInterrupted = errors.New("interrupted")
)

// EvalError reports that the evaluation hook rejected the accepted input.
// It is returned from Run so the caller can redisplay the prompt instead
// of treating the input as lost.
type EvalError struct {
	Input string
	Err   error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluate %q: %v", e.Input, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Evaluator converts the finished buffer text into the session result.
type Evaluator func(input string) (string, error)

// Config holds the configuration for an editor session.
type Config struct {
	Prefix        string            // Prompt prefix (e.g., "$ ")
	Completer     Completer         // Completion hook (nil disables completion)
	Evaluator     Evaluator         // Evaluation hook (nil returns input verbatim)
	HistoryConfig *HistoryConfig    // History configuration (nil for default)
	ColorScheme   *ColorScheme      // Color scheme (nil for default)
	KeyMap        *KeyMap           // Key bindings (nil for default)
	Stylize       Stylizer          // Display override, e.g. Mask for passwords
	FilterAction  func(Action) bool // Action filter; false drops the action
	HideBox       bool              // Suppress the completion bar and message box
	Logger        *zap.Logger       // Logger (nil for no-op)
}

// Option represents a configuration option for the editor.
type Option func(*Config)

// WithCompleter sets the completion hook.
func WithCompleter(completer Completer) Option {
	return func(c *Config) {
		c.Completer = completer
	}
}

// WithEvaluator sets the evaluation hook applied to accepted input.
func WithEvaluator(evaluator Evaluator) Option {
	return func(c *Config) {
		c.Evaluator = evaluator
	}
}

// WithHistory configures history settings with the provided configuration.
//
// Example:
//
//	linedit.New("$ ", linedit.WithHistory(&linedit.HistoryConfig{
//		Enabled:    true,
//		MaxEntries: 100,
//		File:       "~/.myapp_history",
//	}))
func WithHistory(historyConfig *HistoryConfig) Option {
	return func(c *Config) {
		c.HistoryConfig = historyConfig
	}
}

// WithMemoryHistory is a convenience function for memory-only history.
func WithMemoryHistory(maxEntries int) Option {
	return func(c *Config) {
		if maxEntries <= 0 {
			maxEntries = 1000
		}
		c.HistoryConfig = &HistoryConfig{
			Enabled:    true,
			MaxEntries: maxEntries,
		}
	}
}

// WithFileHistory is a convenience function for file-persisted history.
func WithFileHistory(file string, maxEntries int) Option {
	return func(c *Config) {
		if maxEntries <= 0 {
			maxEntries = 1000
		}
		c.HistoryConfig = &HistoryConfig{
			Enabled:    true,
			MaxEntries: maxEntries,
			File:       file,
		}
	}
}

// WithColorScheme sets the color scheme.
func WithColorScheme(colorScheme *ColorScheme) Option {
	return func(c *Config) {
		c.ColorScheme = colorScheme
	}
}

// WithKeyMap sets the key bindings.
func WithKeyMap(keyMap *KeyMap) Option {
	return func(c *Config) {
		c.KeyMap = keyMap
	}
}

// WithStylizer sets a display override for the input buffer.
func WithStylizer(stylize Stylizer) Option {
	return func(c *Config) {
		c.Stylize = stylize
	}
}

// WithActionFilter sets an action filter. Actions for which the filter
// returns false are dropped before dispatch.
func WithActionFilter(filter func(Action) bool) Option {
	return func(c *Config) {
		c.FilterAction = filter
	}
}

// WithoutBox suppresses the completion bar and the message box, keeping
// the UI to the prompt line alone.
func WithoutBox() Option {
	return func(c *Config) {
		c.HideBox = true
	}
}

// WithLogger sets the logger used for diagnostics and soft failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Editor is one interactive line-editing session factory. A single
// Editor may run several sessions in sequence; history accumulates
// across them and is persisted on Close.
type Editor struct {
	config   Config
	logger   *zap.Logger
	terminal terminalInterface
	renderer *renderer
	history  *History
	keyMap   *KeyMap
	buffer   TextBuffer

	completion completionState
	search     searchState
	message    Text

	compSeq    uint64
	compCancel context.CancelFunc
	compCh     chan completionResult
}

type completionResult struct {
	seq        uint64
	start      int
	candidates []Candidate
}

// New creates an editor with the given prompt prefix and options.
//
// Example:
//
//	ed, err := linedit.New("$ ",
//		linedit.WithCompleter(linedit.NewFuzzyCompleter([]string{
//			"git status", "git commit", "git push",
//		})),
//		linedit.WithMemoryHistory(100),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ed.Close()
//
//	line, err := ed.Run()
func New(prefix string, options ...Option) (*Editor, error) {
	config := Config{Prefix: prefix}
	for _, option := range options {
		option(&config)
	}
	return newFromConfig(config)
}

// NewPassword creates an editor configured for masked input: typed
// characters display as asterisks, the completion bar and message box
// are suppressed and history search is disabled.
func NewPassword(prefix string, options ...Option) (*Editor, error) {
	base := []Option{
		WithStylizer(Mask('*')),
		WithoutBox(),
		WithHistory(&HistoryConfig{Enabled: false}),
		WithActionFilter(func(a Action) bool {
			return a.Kind != ActionSearchPrev
		}),
	}
	return New(prefix, append(base, options...)...)
}

func newFromConfig(config Config) (*Editor, error) {
	terminal, err := newRealTerminal()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal: %w", err)
	}
	return newEditorWithTerminal(config, terminal)
}

// newEditorWithTerminal wires an editor over a preconstructed terminal,
// filling in configuration defaults.
func newEditorWithTerminal(config Config, terminal terminalInterface) (*Editor, error) {
	if config.HistoryConfig == nil {
		config.HistoryConfig = DefaultHistoryConfig()
	}
	if config.ColorScheme == nil {
		config.ColorScheme = ThemeDefault
	}
	if config.KeyMap == nil {
		config.KeyMap = NewDefaultKeyMap()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	history := NewHistory(config.HistoryConfig)
	if err := history.Load(); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	ed := &Editor{
		config:   config,
		logger:   config.Logger,
		terminal: terminal,
		history:  history,
		keyMap:   config.KeyMap,
		buffer:   NewLineBuffer(),
	}
	ed.renderer = newRenderer(terminal.Output(), config.ColorScheme, terminal.WrapKind(), !config.HideBox)
	return ed, nil
}

// History returns the session's history store.
func (ed *Editor) History() *History {
	return ed.history
}

// SetPrefix changes the prompt prefix.
func (ed *Editor) SetPrefix(prefix string) {
	ed.config.Prefix = prefix
}

// SetCompleter changes the completion hook.
func (ed *Editor) SetCompleter(completer Completer) {
	ed.config.Completer = completer
}

// Hide erases the UI without discarding state, so the caller can print
// to the terminal.
func (ed *Editor) Hide() error {
	return ed.renderer.hide()
}

// Show repaints the UI after Hide.
func (ed *Editor) Show() error {
	ed.renderer.show()
	return ed.renderer.drawUpdate(ed.frame())
}

// Run starts the interactive session and returns the evaluated input.
//
// It returns ErrEOF when Ctrl+D is pressed on an empty buffer,
// ErrInterrupted on Ctrl+C, and an *EvalError when the evaluation hook
// rejects the accepted input.
func (ed *Editor) Run() (string, error) {
	return ed.RunWithContext(context.Background())
}

// RunWithContext starts the interactive session with context support, so
// the session can be cancelled by timeout or from another goroutine.
//
// Terminal mode is always restored and exactly one final draw is
// performed, on every exit path.
func (ed *Editor) RunWithContext(ctx context.Context) (result string, err error) {
	width, height, _ := ed.terminal.Size()
	ed.renderer.setSize(width, height)

	ed.buffer = NewLineBuffer()
	ed.completion.clear()
	ed.search = searchState{}
	ed.message = nil

	// Registered first so it runs after raw mode is restored. The final
	// draw is identical on success and failure.
	defer func() {
		ed.message = nil
		if ferr := ed.renderer.drawFinal(ed.frame()); ferr != nil && err == nil {
			result, err = "", fmt.Errorf("failed to draw final state: %w", ferr)
		}
	}()

	if ed.terminal.IsInteractive() {
		if rerr := ed.terminal.SetRaw(); rerr != nil {
			return "", fmt.Errorf("failed to enter raw mode: %w", rerr)
		}
		defer func() {
			if rerr := ed.terminal.Restore(); rerr != nil {
				ed.logger.Warn("failed to exit raw mode", zap.Error(rerr))
			}
		}()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	keyCh := make(chan KeyChord, 16)
	readErrCh := make(chan error, 1)
	go func() {
		for {
			chord, rerr := readChord(ed.terminal)
			if rerr != nil {
				readErrCh <- rerr
				return
			}
			select {
			case keyCh <- chord:
			case <-runCtx.Done():
				return
			}
		}
	}()

	ed.compCh = make(chan completionResult, 8)
	ed.recomputeCompletion(runCtx)
	ed.logger.Debug("session started", zap.String("prefix", ed.config.Prefix))

	ed.renderer.queue()
	if derr := ed.flushRedraw(); derr != nil {
		return "", fmt.Errorf("failed to render: %w", derr)
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case ws := <-ed.terminal.Resize():
			ed.renderer.setSize(ws.Width, ws.Height)
			ed.renderer.queue()

		case res := <-ed.compCh:
			// Results of superseded computations are discarded.
			if res.seq == ed.compSeq && !ed.search.active {
				ed.completion.set(res.start, res.candidates)
				ed.renderer.queue()
			}

		case rerr := <-readErrCh:
			// Keys decoded before the stream ended still count.
			for {
				select {
				case chord := <-keyCh:
					done, out, derr := ed.handleChord(runCtx, chord)
					if done || derr != nil {
						return out, derr
					}
				default:
					if errors.Is(rerr, io.EOF) {
						return "", ErrEOF
					}
					return "", fmt.Errorf("failed to read input: %w", rerr)
				}
			}

		case chord := <-keyCh:
			done, out, derr := ed.handleChord(runCtx, chord)
			if done || derr != nil {
				return out, derr
			}
			// Handle keys already pending before redrawing, so a burst
			// produces a single physical write reflecting the final
			// state.
		drain:
			for {
				select {
				case chord := <-keyCh:
					done, out, derr = ed.handleChord(runCtx, chord)
					if done || derr != nil {
						return out, derr
					}
				default:
					break drain
				}
			}
		}

		if derr := ed.flushRedraw(); derr != nil {
			return "", fmt.Errorf("failed to render: %w", derr)
		}
	}
}

// handleChord dispatches one chord and fans the resulting buffer change
// out to the search and completion subsystems. Keys in a burst each see
// the state their predecessors produced; only the redraw is coalesced.
func (ed *Editor) handleChord(ctx context.Context, chord KeyChord) (bool, string, error) {
	prevText, prevCursor := ed.buffer.Text(), ed.buffer.Cursor()
	done, out, err := ed.dispatch(chord)
	if done || err != nil {
		return done, out, err
	}
	ed.afterChange(ctx, prevText, prevCursor)
	return false, "", nil
}

// dispatch resolves a chord and applies the resulting action. It reports
// whether the session is finished, together with the session result.
func (ed *Editor) dispatch(chord KeyChord) (bool, string, error) {
	action := ed.keyMap.Resolve(chord)
	if ed.config.FilterAction != nil && !ed.config.FilterAction(action) {
		return false, "", nil
	}

	switch action.Kind {
	case ActionNone:
		return false, "", nil

	case ActionAccept:
		return ed.accept()

	case ActionCancel:
		return true, "", ErrInterrupted

	case ActionInterruptOrDelete:
		if ed.buffer.Text() == "" {
			return true, "", ErrEOF
		}
		ed.buffer.DeleteForward()

	case ActionEdit:
		action.Edit(ed.buffer)

	case ActionInsert:
		ed.buffer.Insert(string(action.Rune))

	case ActionComplete:
		if ed.search.active {
			ed.exitSearch()
			break
		}
		if text, ok := ed.completion.insertion(ed.buffer.Cursor()); ok {
			ed.buffer.Insert(text)
		}

	case ActionBarSelect:
		if ed.search.active {
			ed.exitSearch()
			break
		}
		if text, ok := ed.completion.selectedInsertion(ed.buffer.Cursor()); ok {
			ed.buffer.Insert(text)
		}

	case ActionBarNext:
		if !ed.search.active {
			ed.completion.moveSelection(1)
		}

	case ActionBarPrev:
		if !ed.search.active {
			ed.completion.moveSelection(-1)
		}

	case ActionBarFirst:
		if !ed.search.active {
			ed.completion.selectFirst()
		}

	case ActionBarLast:
		if !ed.search.active {
			ed.completion.selectLast()
		}

	case ActionHistoryPrev:
		if ed.search.active {
			break
		}
		if entry, ok := ed.history.Prev(ed.buffer.Text()); ok {
			ed.buffer.SetText(entry)
		}

	case ActionHistoryNext:
		if ed.search.active {
			break
		}
		if entry, ok := ed.history.Next(ed.buffer.Text()); ok {
			ed.buffer.SetText(entry)
		}

	case ActionClearScreen:
		if err := ed.renderer.clearScreen(); err != nil {
			return true, "", fmt.Errorf("failed to clear screen: %w", err)
		}

	case ActionSearchPrev:
		pattern := ed.buffer.Text()
		if !ed.search.active {
			ed.search.enter(pattern, ed.history)
		} else {
			ed.search.pass(pattern)
		}
		ed.message = ed.search.message(pattern)

	case ActionSearchCancel:
		if ed.search.active {
			ed.search.cancel()
			ed.message = nil
		}
	}

	ed.renderer.queue()
	return false, "", nil
}

// accept finishes the session: the matched search entry (if searching)
// or the buffer content is recorded in history and passed through the
// evaluation hook.
func (ed *Editor) accept() (bool, string, error) {
	if ed.search.active {
		ed.exitSearch()
	}
	input := ed.buffer.Text()
	ed.history.ResetBrowsing()
	ed.history.Add(input)
	ed.logger.Debug("input accepted", zap.Int("length", len(input)))

	if ed.config.Evaluator == nil {
		return true, input, nil
	}
	value, err := ed.config.Evaluator(input)
	if err != nil {
		return true, "", &EvalError{Input: input, Err: err}
	}
	return true, value, nil
}

// exitSearch leaves search mode, loading the matched entry (if any) into
// the buffer and clearing the status message.
func (ed *Editor) exitSearch() {
	if entry, ok := ed.search.accept(); ok {
		ed.buffer.SetText(entry)
	}
	ed.message = nil
}

// afterChange fans a buffer change out to the dependent subsystems:
// while searching, an edited pattern restarts the scan from the top of
// the corpus; otherwise any text or cursor change triggers a completion
// recompute that cancels the in-flight one.
func (ed *Editor) afterChange(ctx context.Context, prevText string, prevCursor int) {
	text, cursor := ed.buffer.Text(), ed.buffer.Cursor()
	if text == prevText && cursor == prevCursor {
		return
	}
	ed.renderer.queue()
	if ed.search.active {
		if text != prevText {
			ed.search.restart(text)
			ed.message = ed.search.message(text)
		}
		return
	}
	ed.recomputeCompletion(ctx)
}

// recomputeCompletion cancels any in-flight completion computation and
// starts a new one for the current input state.
func (ed *Editor) recomputeCompletion(ctx context.Context) {
	if ed.config.Completer == nil || ed.compCh == nil {
		return
	}
	if ed.compCancel != nil {
		ed.compCancel()
	}
	cctx, cancel := context.WithCancel(ctx)
	ed.compCancel = cancel
	ed.compSeq++
	seq := ed.compSeq
	doc := Document{Text: ed.buffer.Text(), CursorPosition: ed.buffer.Cursor()}

	go func() {
		start, candidates, err := ed.config.Completer(cctx, doc)
		if err != nil || cctx.Err() != nil {
			return
		}
		select {
		case ed.compCh <- completionResult{seq: seq, start: start, candidates: candidates}:
		case <-cctx.Done():
		}
	}()
}

func (ed *Editor) flushRedraw() error {
	if ed.renderer.takeQueued() {
		return ed.renderer.drawUpdate(ed.frame())
	}
	return nil
}

// frame snapshots the current state for the renderer: the styled buffer
// split at the cursor, with the selection in reverse video and the
// display override applied.
func (ed *Editor) frame() frame {
	text := Plain(ed.buffer.Text())
	if start, end, ok := ed.buffer.Selection(); ok {
		head, rest := text.split(start)
		sel, tail := rest.split(end - start)
		for i := range sel {
			sel[i].Reverse = true
		}
		text = head.append(sel).append(tail)
	}
	if ed.config.Stylize != nil {
		text = ed.config.Stylize(text)
	}
	before, after := text.split(ed.buffer.Cursor())

	return frame{
		prompt:     Plain(ed.config.Prefix),
		before:     before,
		after:      after,
		candidates: ed.completion.candidates,
		selected:   ed.completion.selected,
		message:    ed.message,
	}
}

// Close saves the history and releases terminal resources. It is safe
// to call Close multiple times.
func (ed *Editor) Close() error {
	if ed.compCancel != nil {
		ed.compCancel()
	}
	if ed.history != nil {
		if err := ed.history.Save(); err != nil {
			ed.logger.Warn("failed to save history", zap.Error(err))
		}
	}
	if ed.terminal != nil {
		return ed.terminal.Close()
	}
	return nil
}
