// Package store holds sets, cards, artwork and keyword glossaries. Three
// backends share one interface: an in-memory store, a directory of TOML,
// JSON and CSV files, and a SQLite database.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/keywords"
)

// ErrNotFound is returned when a set, card or artwork record does not exist.
var ErrNotFound = errors.New("not found")

// Store is read access to card data.
type Store interface {
	Sets(ctx context.Context) ([]cards.Set, error)
	Set(ctx context.Context, id string) (cards.Set, error)
	Card(ctx context.Context, id string) (cards.Card, error)
	// CardsInSet returns the set's cards ordered by SortOrder, then name.
	CardsInSet(ctx context.Context, setID string) ([]cards.Card, error)
	Artwork(ctx context.Context, id string) ([]byte, error)
	// Keywords returns the default glossary merged with the set's custom
	// keywords. An empty setID returns only keywords that belong to no set.
	Keywords(ctx context.Context, setID string) ([]cards.Keyword, error)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// sortCards orders cards by SortOrder, breaking ties by name.
func sortCards(cs []cards.Card) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].SortOrder != cs[j].SortOrder {
			return cs[i].SortOrder < cs[j].SortOrder
		}
		return strings.ToLower(cs[i].Name) < strings.ToLower(cs[j].Name)
	})
}

func sortSets(ss []cards.Set) {
	sort.Slice(ss, func(i, j int) bool { return ss[i].ID < ss[j].ID })
}

// glossary merges the default keywords with the custom ones visible to
// setID.
func glossary(custom []cards.Keyword, setID string) []cards.Keyword {
	var extra []cards.Keyword
	for _, k := range custom {
		if k.SetID == "" || k.SetID == setID {
			extra = append(extra, k)
		}
	}
	return keywords.Merge(keywords.Default(), extra)
}
