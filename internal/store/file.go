package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/keywords"
	"github.com/youruser/cardforge/internal/util"
)

// Patterns a data directory is scanned with.
const (
	SetPattern   = "sets/*.{toml,json}"
	CardPattern  = "cards/**/*.{toml,json,csv}"
	ArtPattern   = "art/*"
	KeywordsFile = "keywords.yaml"
)

// File is a Store read from a data directory:
//
//	sets/<id>.toml|json        one set each, optionally with [[keywords]]
//	cards/**/*.toml|json|csv   cards; a file under cards/<set>/ defaults to that set
//	art/<id>.<ext>             artwork bytes
//	keywords.yaml              custom keywords shared by every set
//
// Artwork IDs that are http(s) URLs are fetched instead of read from art/.
type File struct {
	fsys fs.FS
	log  *slog.Logger

	mu   sync.RWMutex
	data *snapshot
}

type snapshot struct {
	sets     map[string]cards.Set
	cards    map[string]cards.Card
	art      map[string]string
	keywords []cards.Keyword
}

// NewFile loads every file under fsys. A nil logger uses slog.Default.
func NewFile(ctx context.Context, fsys fs.FS, log *slog.Logger) (*File, error) {
	if log == nil {
		log = slog.Default()
	}
	f := &File{fsys: fsys, log: log}
	if err := f.Reload(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

// NewDir loads the data directory at dir.
func NewDir(ctx context.Context, dir string, log *slog.Logger) (*File, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	return NewFile(ctx, os.DirFS(dir), log)
}

// Reload rescans the directory. On error the previously loaded data is kept.
func (f *File) Reload(ctx context.Context) error {
	snap, err := load(ctx, f.fsys)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.data = snap
	f.mu.Unlock()
	f.log.Info("data loaded", "sets", len(snap.sets), "cards", len(snap.cards), "artwork", len(snap.art))
	return nil
}

func (f *File) snap() *snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.data
}

func (f *File) Sets(ctx context.Context) ([]cards.Set, error) {
	s := f.snap()
	out := make([]cards.Set, 0, len(s.sets))
	for _, set := range s.sets {
		out = append(out, set)
	}
	sortSets(out)
	return out, nil
}

func (f *File) Set(ctx context.Context, id string) (cards.Set, error) {
	set, ok := f.snap().sets[id]
	if !ok {
		return cards.Set{}, notFound("set", id)
	}
	return set, nil
}

func (f *File) Card(ctx context.Context, id string) (cards.Card, error) {
	c, ok := f.snap().cards[id]
	if !ok {
		return cards.Card{}, notFound("card", id)
	}
	return c, nil
}

func (f *File) CardsInSet(ctx context.Context, setID string) ([]cards.Card, error) {
	s := f.snap()
	if _, ok := s.sets[setID]; !ok {
		return nil, notFound("set", setID)
	}
	var out []cards.Card
	for _, c := range s.cards {
		if c.SetID == setID {
			out = append(out, c)
		}
	}
	sortCards(out)
	return out, nil
}

func (f *File) Artwork(ctx context.Context, id string) ([]byte, error) {
	if isURL(id) {
		data, err := util.GetBytes(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("artwork %s: %w", id, err)
		}
		return data, nil
	}
	p, ok := f.snap().art[id]
	if !ok {
		return nil, notFound("artwork", id)
	}
	data, err := fs.ReadFile(f.fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound("artwork", id)
	}
	return data, err
}

func (f *File) Keywords(ctx context.Context, setID string) ([]cards.Keyword, error) {
	return glossary(f.snap().keywords, setID), nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func load(ctx context.Context, fsys fs.FS) (*snapshot, error) {
	snap := &snapshot{
		sets:  map[string]cards.Set{},
		cards: map[string]cards.Card{},
		art:   map[string]string{},
	}

	setFiles, err := doublestar.Glob(fsys, SetPattern)
	if err != nil {
		return nil, err
	}
	for _, p := range setFiles {
		set, kws, err := loadSet(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", p, err)
		}
		snap.sets[set.ID] = set
		snap.keywords = append(snap.keywords, kws...)
	}

	cardFiles, err := doublestar.Glob(fsys, CardPattern)
	if err != nil {
		return nil, err
	}
	for _, p := range cardFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cs, err := loadCards(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", p, err)
		}
		for _, c := range cs {
			if _, dup := snap.cards[c.ID]; dup {
				return nil, fmt.Errorf("loading %s: duplicate card id %q", p, c.ID)
			}
			snap.cards[c.ID] = c
		}
	}

	artFiles, err := doublestar.Glob(fsys, ArtPattern)
	if err != nil {
		return nil, err
	}
	for _, p := range artFiles {
		base := path.Base(p)
		snap.art[strings.TrimSuffix(base, path.Ext(base))] = p
	}

	data, err := fs.ReadFile(fsys, KeywordsFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// optional
	case err != nil:
		return nil, err
	default:
		kws, err := keywords.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", KeywordsFile, err)
		}
		for i := range kws {
			kws[i].IsCustom = true
		}
		snap.keywords = append(snap.keywords, kws...)
	}
	return snap, nil
}

type setFile struct {
	cards.Set
	Keywords []cards.Keyword `json:"keywords" toml:"keywords"`
}

func loadSet(fsys fs.FS, p string) (cards.Set, []cards.Keyword, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return cards.Set{}, nil, err
	}
	var sf setFile
	if err := decode(p, data, &sf); err != nil {
		return cards.Set{}, nil, err
	}
	set := sf.Set
	if set.ID == "" {
		base := path.Base(p)
		set.ID = strings.TrimSuffix(base, path.Ext(base))
	}
	for i := range sf.Keywords {
		if sf.Keywords[i].SetID == "" {
			sf.Keywords[i].SetID = set.ID
		}
		if sf.Keywords[i].ID == "" {
			sf.Keywords[i].ID = "kw-" + set.ID + "-" + strings.ReplaceAll(strings.ToLower(sf.Keywords[i].Name), " ", "-")
		}
		sf.Keywords[i].IsCustom = true
	}
	return set, sf.Keywords, nil
}

type cardFile struct {
	Cards []cards.Card `json:"cards" toml:"cards"`
}

func loadCards(fsys fs.FS, p string) ([]cards.Card, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, err
	}

	var cs []cards.Card
	switch path.Ext(p) {
	case ".csv":
		cs, err = parseCSV(data)
	case ".json":
		cs, err = parseJSONCards(data)
	default:
		cs, err = parseTOMLCards(data)
	}
	if err != nil {
		return nil, err
	}

	setID := setFromPath(p)
	base := strings.TrimSuffix(path.Base(p), path.Ext(p))
	for i := range cs {
		if cs[i].SetID == "" {
			cs[i].SetID = setID
		}
		if cs[i].ID == "" {
			cs[i].ID = fmt.Sprintf("%s-%03d", base, i+1)
		}
	}
	return cs, nil
}

// setFromPath returns <set> for cards/<set>/..., or "" for files directly
// under cards/.
func setFromPath(p string) string {
	parts := strings.Split(p, "/")
	if len(parts) > 2 {
		return parts[1]
	}
	return ""
}

func parseJSONCards(data []byte) ([]cards.Card, error) {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.HasPrefix(trimmed, []byte("[")):
		var cs []cards.Card
		err := json.Unmarshal(trimmed, &cs)
		return cs, err
	default:
		var cf cardFile
		if err := json.Unmarshal(trimmed, &cf); err != nil {
			return nil, err
		}
		if len(cf.Cards) > 0 {
			return cf.Cards, nil
		}
		var c cards.Card
		if err := json.Unmarshal(trimmed, &c); err != nil {
			return nil, err
		}
		return []cards.Card{c}, nil
	}
}

func parseTOMLCards(data []byte) ([]cards.Card, error) {
	var cf cardFile
	if err := toml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	if len(cf.Cards) > 0 {
		return cf.Cards, nil
	}
	var c cards.Card
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.ID == "" && c.Name == "" {
		return nil, nil
	}
	return []cards.Card{c}, nil
}

func decode(p string, data []byte, v any) error {
	if path.Ext(p) == ".json" {
		return json.Unmarshal(data, v)
	}
	return toml.Unmarshal(data, v)
}
