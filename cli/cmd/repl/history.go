package repl

import (
	"bufio"
	"errors"
	"os"
	"slices"
	"strings"
	"sync"
)

// Mode is the input mode an entry was submitted in.
type Mode int

const (
	ModeEval Mode = iota
	ModeCommand
)

func (m Mode) prefix() string {
	if m == ModeCommand {
		return "C:"
	}

	return "E:"
}

// Entry is one line of history.
type Entry struct {
	Line string
	Mode Mode
}

// String returns the entry as stored in the history file.
func (e Entry) String() string { return e.Mode.prefix() + e.Line }

// parseEntry decodes a line of the history file. Lines without a mode
// prefix are eval entries.
func parseEntry(line string) (Entry, bool) {
	line = strings.TrimSpace(line)

	if s, ok := strings.CutPrefix(line, ModeCommand.prefix()); ok {
		line = strings.TrimSpace(s)

		return Entry{Line: line, Mode: ModeCommand}, line != ""
	}

	line = strings.TrimSpace(strings.TrimPrefix(line, ModeEval.prefix()))

	return Entry{Line: line, Mode: ModeEval}, line != ""
}

// History is the list of submitted lines, oldest first, optionally
// persisted to a file. Each distinct entry appears once, at the position of
// its latest submission. History is safe for concurrent use.
type History struct {
	path string

	mu      sync.RWMutex
	entries []Entry
}

// NewHistory returns an empty History stored at path. With an empty path
// the history is kept in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with the contents of the history file. A
// missing file is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if e, ok := parseEntry(scanner.Text()); ok {
			h.remove(e)
			h.entries = append(h.entries, e)
		}
	}

	return scanner.Err()
}

// Add records line as the newest entry of the given mode. An earlier
// identical entry is removed. Blank lines are ignored.
func (h *History) Add(line string, mode Mode) error {
	e := Entry{Line: strings.TrimSpace(line), Mode: mode}
	if e.Line == "" || strings.ContainsAny(e.Line, "\r\n") {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	removed := h.remove(e)
	h.entries = append(h.entries, e)

	if h.path == "" {
		return nil
	}

	if removed {
		return h.rewrite()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(e.String() + "\n")

	return err
}

// remove deletes e from the entries. Must be called with h.mu held.
func (h *History) remove(e Entry) bool {
	i := slices.Index(h.entries, e)
	if i < 0 {
		return false
	}

	h.entries = slices.Delete(h.entries, i, i+1)

	return true
}

// rewrite replaces the history file with the current entries. Must be
// called with h.mu held.
func (h *History) rewrite() error {
	var b strings.Builder

	for _, e := range h.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}

// Entry returns the entry at index i, where 0 is the oldest.
func (h *History) Entry(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// Find returns the index of the first entry of the given mode found by
// stepping from index from (exclusive) by step, which must be 1 or -1.
func (h *History) Find(from, step int, mode Mode) (int, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := from + step; i >= 0 && i < len(h.entries); i += step {
		if h.entries[i].Mode == mode {
			return i, true
		}
	}

	return -1, false
}
