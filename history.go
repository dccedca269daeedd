package linedit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HistoryConfig holds all history-related configuration.
//
// File path supports multiple formats:
// - Empty string: Memory-only history (no persistence)
// - Absolute path: "/home/user/.app_history"
// - Home directory: "~/.app_history"
// - Relative path: "./app_history" (converted to absolute)
// - XDG compliant: Use DefaultHistoryFile() for "~/.config/linedit/history"
type HistoryConfig struct {
	Enabled    bool   // Enable/disable history functionality
	MaxEntries int    // Maximum number of entries kept on save (default: 1000)
	File       string // File path for history persistence (empty = memory only)
}

// DefaultHistoryConfig returns a default history configuration.
func DefaultHistoryConfig() *HistoryConfig {
	return &HistoryConfig{
		Enabled:    true,
		MaxEntries: 1000,
		File:       "",
	}
}

// DefaultHistoryFile returns the default history file path following the
// XDG Base Directory Specification: $XDG_CONFIG_HOME/linedit/history, or
// ~/.config/linedit/history when XDG_CONFIG_HOME is unset.
func DefaultHistoryFile() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "linedit", "history")
}

// History is an ordered command history with browsing state.
//
// Entries are kept as two lists, each most recent first: prev holds
// older entries still ahead of the browsing point and next holds
// entries already browsed past, with the in-progress draft stashed at
// next[0] and the entry nearest the browsing point last. Concatenating
// next and prev always recreates the chronological order; the entry
// currently displayed lives in the caller's buffer, not in the lists.
type History struct {
	config *HistoryConfig
	prev   []string
	next   []string
}

// NewHistory creates a history store with the given configuration.
func NewHistory(config *HistoryConfig) *History {
	if config == nil {
		config = DefaultHistoryConfig()
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = 1000
	}
	if config.File != "" {
		if absPath, err := expandHistoryPath(config.File); err == nil {
			config.File = absPath
		}
	}
	return &History{config: config}
}

// IsEnabled returns whether history functionality is enabled.
func (h *History) IsEnabled() bool {
	return h.config.Enabled
}

// Add pushes line onto the front of the chronological list.
//
// Empty or whitespace-only lines are ignored, as is a line identical to
// the current front entry. Non-adjacent duplicates are retained.
func (h *History) Add(line string) {
	if !h.config.Enabled || strings.TrimSpace(line) == "" {
		return
	}
	if len(h.prev) > 0 && h.prev[0] == line {
		return
	}
	h.prev = append([]string{line}, h.prev...)
}

// Prev moves the browsing point one entry back in time. The current
// buffer content is stored so Next can restore it. Returns false at the
// oldest entry.
func (h *History) Prev(current string) (string, bool) {
	if len(h.prev) == 0 {
		return "", false
	}
	entry := h.prev[0]
	h.prev = h.prev[1:]
	h.next = append(h.next, current)
	return entry, true
}

// Next moves the browsing point one entry forward. Returns false when
// already at the newest position.
func (h *History) Next(current string) (string, bool) {
	if len(h.next) == 0 {
		return "", false
	}
	entry := h.next[len(h.next)-1]
	h.next = h.next[:len(h.next)-1]
	h.prev = append([]string{current}, h.prev...)
	return entry, true
}

// Entries returns the chronological history, most recent first,
// regardless of the current browsing point.
func (h *History) Entries() []string {
	if !h.config.Enabled {
		return []string{}
	}
	entries := make([]string, 0, len(h.prev)+len(h.next))
	entries = append(entries, h.next...)
	entries = append(entries, h.prev...)
	return entries
}

// ResetBrowsing returns the browsing point to the newest position. The
// entries browsed past fold back into prev; the stashed draft at
// next[0] was never accepted and is discarded rather than becoming a
// permanent entry.
func (h *History) ResetBrowsing() {
	for i := len(h.next) - 1; i >= 1; i-- {
		h.prev = append([]string{h.next[i]}, h.prev...)
	}
	h.next = nil
}

// SetEntries replaces the history content, given most recent first.
func (h *History) SetEntries(entries []string) {
	if !h.config.Enabled {
		return
	}
	h.prev = append([]string{}, entries...)
	h.next = nil
}

// Clear removes all entries.
func (h *History) Clear() {
	h.prev = nil
	h.next = nil
}

// Load reads the configured history file. A missing file is not an
// error: the history simply starts empty.
func (h *History) Load() error {
	if !h.config.Enabled || h.config.File == "" {
		return nil
	}
	entries, err := readHistoryFile(h.config.File)
	if err != nil {
		return err
	}
	// On disk the file is oldest first; browsing starts from the newest.
	h.prev = reversed(entries)
	h.next = nil
	return nil
}

// Save merges the in-memory history with the current on-disk content and
// atomically replaces the file. The merge keeps a chronological prefix
// shared with a concurrently-written file intact and never reorders
// entries.
func (h *History) Save() error {
	if !h.config.Enabled || h.config.File == "" {
		return nil
	}

	onDisk, err := readHistoryFile(h.config.File)
	if err != nil {
		return err
	}
	merged := mergeHistories(onDisk, reversed(h.Entries()))
	if len(merged) > h.config.MaxEntries {
		merged = merged[len(merged)-h.config.MaxEntries:]
	}

	dir := filepath.Dir(h.config.File)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return fmt.Errorf("failed to create history file: %w", err)
	}
	for _, entry := range merged {
		if _, err := fmt.Fprintln(tmp, Escape(entry)); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("failed to write history entry: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close history file: %w", err)
	}
	if err := os.Rename(tmp.Name(), h.config.File); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}

// readHistoryFile reads and unescapes the history file, returning entries
// oldest first. A missing file yields an empty history.
func readHistoryFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	records := splitRecords(string(data))
	entries := make([]string, 0, len(records))
	for _, record := range records {
		entry := Unescape(record)
		if entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// mergeHistories merges two histories given oldest first. While the heads
// are equal one copy is kept; at the first divergence the remaining tail
// of onDisk is appended, then the remaining tail of inMemory, with no
// further deduplication or reordering.
func mergeHistories(onDisk, inMemory []string) []string {
	var merged []string
	i := 0
	for i < len(onDisk) && i < len(inMemory) && onDisk[i] == inMemory[i] {
		merged = append(merged, onDisk[i])
		i++
	}
	merged = append(merged, onDisk[i:]...)
	merged = append(merged, inMemory[i:]...)
	return merged
}

func reversed(entries []string) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

// expandHistoryPath expands and validates the history file path
// Supports:
// - Absolute paths: /home/user/.history
// - Home directory expansion: ~/.history or ~/config/.history
// - Relative paths: ./.history or config/.history (converted to absolute)
func expandHistoryPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	// Expand home directory (~)
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = home
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to convert to absolute path: %w", err)
	}

	return absPath, nil
}
