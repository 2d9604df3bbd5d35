package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/services"
)

var (
	_ list.Item = entryItem{}
	_ list.Item = savedItem{}
)

// entryItem wraps [models.CatalogEntry] with its list memberships to implement [list.Item].
type entryItem struct {
	entry      models.CatalogEntry
	favourite  bool
	watchLater bool
	busy       bool
}

// FilterValue searches descriptions first, as the catalog search box does, then titles.
func (i entryItem) FilterValue() string { return i.entry.Description + " " + i.entry.Title }

func (i entryItem) Title() string {
	var b strings.Builder
	b.WriteString(i.entry.Title)
	if i.favourite {
		b.WriteString(" ♥")
	}
	if i.watchLater {
		b.WriteString(" ⏱")
	}
	if i.busy {
		b.WriteString(" …")
	}
	return b.String()
}

func (i entryItem) Description() string { return i.entry.Description }

// savedItem wraps [services.SavedEntry] to implement [list.Item].
type savedItem struct {
	saved services.SavedEntry
	busy  bool
}

func (i savedItem) FilterValue() string { return i.saved.Title }

func (i savedItem) Title() string {
	if i.busy {
		return i.saved.Title + " …"
	}
	return i.saved.Title
}

func (i savedItem) Description() string { return i.saved.Description }

// substringFilter is a [list.FilterFunc] matching case-insensitive substrings instead of fuzzy ranks.
func substringFilter(term string, targets []string) []list.Rank {
	q := strings.ToLower(strings.TrimSpace(term))
	ranks := make([]list.Rank, 0, len(targets))
	for i, target := range targets {
		if q == "" {
			ranks = append(ranks, list.Rank{Index: i})
			continue
		}

		at := strings.Index(strings.ToLower(target), q)
		if at < 0 {
			continue
		}
		matched := make([]int, 0, len(q))
		for j := range len([]rune(q)) {
			matched = append(matched, len([]rune(target[:at]))+j)
		}
		ranks = append(ranks, list.Rank{Index: i, MatchedIndexes: matched})
	}
	return ranks
}
