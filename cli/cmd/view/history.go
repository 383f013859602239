package view

import (
	"bufio"
	"os"
	"slices"
	"strings"
	"sync"
)

// HistoryFile is the base name of the search history file kept in the
// cache directory.
const HistoryFile = "search.utf8"

// History is the list of past search queries, oldest first, persisted one
// query per line.
type History struct {
	path    string
	entries []string
	mu      sync.RWMutex
}

// NewHistory returns an empty history backed by the file at path.
// An empty path keeps the history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those read from the history file.
// A missing file is not an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, line)
		}
	}

	return scanner.Err()
}

// Add records query as the newest entry. An earlier identical entry is
// removed, and the file is rewritten in that case; otherwise the query is
// appended to it.
func (h *History) Add(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == query {
		return nil
	}

	rewrite := false

	if i := slices.Index(h.entries, query); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
		rewrite = true
	}

	h.entries = append(h.entries, query)

	if h.path == "" {
		return nil
	}

	if rewrite {
		return h.rewriteFile()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(query + "\n")

	return err
}

// At returns the entry at index i, where 0 is the oldest.
func (h *History) At(i int) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", false
	}

	return h.entries[i], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() error {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	for _, entry := range h.entries {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			return err
		}
	}

	return w.Flush()
}
