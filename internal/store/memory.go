package store

import (
	"context"
	"sync"

	"github.com/youruser/cardforge/internal/cards"
)

// Memory is a Store backed by maps. It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	sets     map[string]cards.Set
	cards    map[string]cards.Card
	artwork  map[string][]byte
	keywords []cards.Keyword
}

func NewMemory() *Memory {
	return &Memory{
		sets:    map[string]cards.Set{},
		cards:   map[string]cards.Card{},
		artwork: map[string][]byte{},
	}
}

func (m *Memory) PutSet(s cards.Set) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[s.ID] = s
}

func (m *Memory) PutCard(c cards.Card) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[c.ID] = c
}

func (m *Memory) PutArtwork(id string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artwork[id] = data
}

// AddKeywords appends custom keywords to the glossary.
func (m *Memory) AddKeywords(kws ...cards.Keyword) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keywords = append(m.keywords, kws...)
}

func (m *Memory) Sets(ctx context.Context) ([]cards.Set, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]cards.Set, 0, len(m.sets))
	for _, s := range m.sets {
		out = append(out, s)
	}
	sortSets(out)
	return out, nil
}

func (m *Memory) Set(ctx context.Context, id string) (cards.Set, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sets[id]
	if !ok {
		return cards.Set{}, notFound("set", id)
	}
	return s, nil
}

func (m *Memory) Card(ctx context.Context, id string) (cards.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cards[id]
	if !ok {
		return cards.Card{}, notFound("card", id)
	}
	return c, nil
}

func (m *Memory) CardsInSet(ctx context.Context, setID string) ([]cards.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.sets[setID]; !ok {
		return nil, notFound("set", setID)
	}
	var out []cards.Card
	for _, c := range m.cards {
		if c.SetID == setID {
			out = append(out, c)
		}
	}
	sortCards(out)
	return out, nil
}

func (m *Memory) Artwork(ctx context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.artwork[id]
	if !ok {
		return nil, notFound("artwork", id)
	}
	return data, nil
}

func (m *Memory) Keywords(ctx context.Context, setID string) ([]cards.Keyword, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return glossary(m.keywords, setID), nil
}
