package suggest

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// titleIndex maps lower-cased titles to positions in the entry list.
// Several entries may share a title.
type titleIndex struct {
	trie *patricia.Trie
}

func newTitleIndex() *titleIndex {
	return &titleIndex{trie: patricia.NewTrie()}
}

func (ix *titleIndex) add(title string, pos int) {
	key := patricia.Prefix(strings.ToLower(title))
	if item := ix.trie.Get(key); item != nil {
		ix.trie.Set(key, append(item.([]int), pos))
		return
	}
	ix.trie.Insert(key, []int{pos})
}

// search returns the sorted positions of every title starting with lowerPrefix.
func (ix *titleIndex) search(lowerPrefix string) []int {
	var positions []int
	err := ix.trie.VisitSubtree(patricia.Prefix(lowerPrefix), func(_ patricia.Prefix, item patricia.Item) error {
		positions = append(positions, item.([]int)...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}
	sort.Ints(positions)
	return positions
}
