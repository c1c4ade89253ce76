// Package keywords ships the default keyword glossary used to expand
// reminder text.
package keywords

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/youruser/cardforge/internal/cards"
)

//go:embed keywords.yaml
var defaultYAML []byte

var defaults = sync.OnceValues(func() ([]cards.Keyword, error) {
	return Parse(defaultYAML)
})

// Default returns a fresh copy of the built-in glossary.
func Default() []cards.Keyword {
	kws, err := defaults()
	if err != nil {
		panic(fmt.Sprintf("keywords: embedded glossary: %v", err))
	}
	out := make([]cards.Keyword, len(kws))
	copy(out, kws)
	return out
}

// Parse decodes a YAML keyword list. Keywords without an ID get one derived
// from their name; keywords without a match pattern match their name as a
// whole word.
func Parse(data []byte) ([]cards.Keyword, error) {
	var kws []cards.Keyword
	if err := yaml.Unmarshal(data, &kws); err != nil {
		return nil, fmt.Errorf("parsing keywords: %w", err)
	}
	for i := range kws {
		if kws[i].Name == "" {
			return nil, fmt.Errorf("parsing keywords: entry %d has no name", i)
		}
		if kws[i].ID == "" {
			kws[i].ID = "kw-" + strings.ReplaceAll(strings.ToLower(kws[i].Name), " ", "-")
		}
	}
	return kws, nil
}

// Merge returns base with every keyword of extra appended, an extra keyword
// replacing a base keyword of the same name.
func Merge(base, extra []cards.Keyword) []cards.Keyword {
	byName := make(map[string]int, len(base))
	out := make([]cards.Keyword, 0, len(base)+len(extra))
	for _, k := range base {
		byName[strings.ToLower(k.Name)] = len(out)
		out = append(out, k)
	}
	for _, k := range extra {
		if i, ok := byName[strings.ToLower(k.Name)]; ok {
			out[i] = k
			continue
		}
		byName[strings.ToLower(k.Name)] = len(out)
		out = append(out, k)
	}
	return out
}
