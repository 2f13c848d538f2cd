package suggest

import (
	"strings"

	"github.com/bastiangx/entryserve/pkg/entry"
)

// Completer answers prefix queries over a fixed set of entries.
// It is read-only after construction and safe for concurrent use.
type Completer struct {
	entries   []entry.Entry
	index     *titleIndex
	functions int
	constants int
}

// NewCompleter indexes entries by title.
func NewCompleter(entries []entry.Entry) *Completer {
	c := &Completer{
		entries: make([]entry.Entry, len(entries)),
		index:   newTitleIndex(),
	}
	copy(c.entries, entries)

	for i, e := range c.entries {
		c.index.add(e.Title(), i)
		if e.IsFunction() {
			c.functions++
		} else {
			c.constants++
		}
	}
	return c
}

// Complete matches prefix against titles without regard to case. Results
// keep the order of the completion file. A limit <= 0 returns every match.
func (c *Completer) Complete(prefix string, limit int) []entry.Entry {
	positions := c.index.search(strings.ToLower(prefix))
	if limit > 0 && len(positions) > limit {
		positions = positions[:limit]
	}

	results := make([]entry.Entry, 0, len(positions))
	for _, pos := range positions {
		results = append(results, c.entries[pos])
	}
	return results
}

// Entries returns a copy of all entries in file order.
func (c *Completer) Entries() []entry.Entry {
	out := make([]entry.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Completer) Len() int {
	return len(c.entries)
}

func (c *Completer) Stats() map[string]int {
	return map[string]int{
		"totalEntries": len(c.entries),
		"functions":    c.functions,
		"constants":    c.constants,
	}
}
