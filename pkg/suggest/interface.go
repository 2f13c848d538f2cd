// Package suggest provides prefix lookups over loaded completion entries.
package suggest

import "github.com/bastiangx/entryserve/pkg/entry"

// ICompleter defines the interface for entry completion engines
type ICompleter interface {
	// Complete returns entries whose title starts with prefix, at most limit of them
	Complete(prefix string, limit int) []entry.Entry

	// Entries returns every loaded entry in file order
	Entries() []entry.Entry

	// Stats returns counts about the loaded entries
	Stats() map[string]int
}
