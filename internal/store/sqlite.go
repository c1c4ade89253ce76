package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/util"
)

const sqliteSchemaVersion = 1

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS sets (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL DEFAULT '',
    code        TEXT NOT NULL DEFAULT '',
    designer    TEXT NOT NULL DEFAULT '',
    copyright   TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT ''
);

-- Cards keep their full record as JSON; the columns are for lookup and order.
CREATE TABLE IF NOT EXISTS cards (
    id         TEXT PRIMARY KEY,
    set_id     TEXT NOT NULL DEFAULT '',
    name       TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0,
    data       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cards_set ON cards(set_id, sort_order);

CREATE TABLE IF NOT EXISTS artwork (
    id   TEXT PRIMARY KEY,
    data BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS keywords (
    id     TEXT PRIMARY KEY,
    set_id TEXT NOT NULL DEFAULT '',
    data   TEXT NOT NULL
);
`

// SQLite is a Store in a SQLite database file.
type SQLite struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string, log *slog.Logger) (*SQLite, error) {
	if log == nil {
		log = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if err := checkVersion(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db, log: log}, nil
}

func checkVersion(ctx context.Context, db *sql.DB) error {
	var v int
	err := db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", sqliteSchemaVersion)
		return err
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	case v > sqliteSchemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported %d", v, sqliteSchemaVersion)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putSet(ctx context.Context, db execer, set cards.Set) error {
	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO sets (id, name, code, designer, copyright, description)
		VALUES (?, ?, ?, ?, ?, ?)`, set.ID, set.Name, set.Code, set.Designer, set.Copyright, set.Description)
	return err
}

func putCard(ctx context.Context, db execer, c cards.Card) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO cards (id, set_id, name, sort_order, data)
		VALUES (?, ?, ?, ?, ?)`, c.ID, c.SetID, c.Name, c.SortOrder, string(data))
	return err
}

func putArtwork(ctx context.Context, db execer, id string, data []byte) error {
	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO artwork (id, data) VALUES (?, ?)`, id, data)
	return err
}

func putKeyword(ctx context.Context, db execer, k cards.Keyword) error {
	data, err := json.Marshal(k)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO keywords (id, set_id, data) VALUES (?, ?, ?)`,
		k.ID, k.SetID, string(data))
	return err
}

func (s *SQLite) PutSet(ctx context.Context, set cards.Set) error {
	return putSet(ctx, s.db, set)
}

func (s *SQLite) PutCard(ctx context.Context, c cards.Card) error {
	return putCard(ctx, s.db, c)
}

func (s *SQLite) PutArtwork(ctx context.Context, id string, data []byte) error {
	return putArtwork(ctx, s.db, id, data)
}

func (s *SQLite) PutKeyword(ctx context.Context, k cards.Keyword) error {
	return putKeyword(ctx, s.db, k)
}

func (s *SQLite) Sets(ctx context.Context) ([]cards.Set, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, code, designer, copyright, description FROM sets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []cards.Set
	for rows.Next() {
		var set cards.Set
		if err := rows.Scan(&set.ID, &set.Name, &set.Code, &set.Designer, &set.Copyright, &set.Description); err != nil {
			return nil, err
		}
		out = append(out, set)
	}
	return out, rows.Err()
}

func (s *SQLite) Set(ctx context.Context, id string) (cards.Set, error) {
	var set cards.Set
	err := s.db.QueryRowContext(ctx, `SELECT id, name, code, designer, copyright, description FROM sets WHERE id = ?`, id).
		Scan(&set.ID, &set.Name, &set.Code, &set.Designer, &set.Copyright, &set.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return cards.Set{}, notFound("set", id)
	}
	return set, err
}

func (s *SQLite) Card(ctx context.Context, id string) (cards.Card, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM cards WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return cards.Card{}, notFound("card", id)
	}
	if err != nil {
		return cards.Card{}, err
	}
	var c cards.Card
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return cards.Card{}, fmt.Errorf("card %q: %w", id, err)
	}
	return c, nil
}

func (s *SQLite) CardsInSet(ctx context.Context, setID string) ([]cards.Card, error) {
	if _, err := s.Set(ctx, setID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM cards WHERE set_id = ? ORDER BY sort_order, lower(name)`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []cards.Card
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var c cards.Card
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) Artwork(ctx context.Context, id string) ([]byte, error) {
	if isURL(id) {
		data, err := util.GetBytes(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("artwork %s: %w", id, err)
		}
		return data, nil
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM artwork WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("artwork", id)
	}
	return data, err
}

func (s *SQLite) Keywords(ctx context.Context, setID string) ([]cards.Keyword, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM keywords WHERE set_id = '' OR set_id = ? ORDER BY id`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var custom []cards.Keyword
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var k cards.Keyword
		if err := json.Unmarshal([]byte(data), &k); err != nil {
			return nil, err
		}
		custom = append(custom, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return glossary(custom, setID), nil
}

// Import copies every set, its cards, their local artwork and the custom
// keywords of src in one transaction. Artwork that src cannot find is
// skipped with a warning; URL artwork stays a URL.
func (s *SQLite) Import(ctx context.Context, src Store) error {
	sets, err := src.Sets(ctx)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var nCards, nArt int
	for _, set := range sets {
		if err := putSet(ctx, tx, set); err != nil {
			return fmt.Errorf("set %s: %w", set.ID, err)
		}
		cs, err := src.CardsInSet(ctx, set.ID)
		if err != nil {
			return err
		}
		for _, c := range cs {
			if err := putCard(ctx, tx, c); err != nil {
				return fmt.Errorf("card %s: %w", c.ID, err)
			}
			nCards++
			if c.ArtworkImageID == "" || isURL(c.ArtworkImageID) {
				continue
			}
			data, err := src.Artwork(ctx, c.ArtworkImageID)
			if errors.Is(err, ErrNotFound) {
				s.log.Warn("artwork missing, not imported", "card", c.ID, "artwork", c.ArtworkImageID)
				continue
			}
			if err != nil {
				return err
			}
			if err := putArtwork(ctx, tx, c.ArtworkImageID, data); err != nil {
				return fmt.Errorf("artwork %s: %w", c.ArtworkImageID, err)
			}
			nArt++
		}
		kws, err := src.Keywords(ctx, set.ID)
		if err != nil {
			return err
		}
		for _, k := range kws {
			if !k.IsCustom {
				continue
			}
			if err := putKeyword(ctx, tx, k); err != nil {
				return fmt.Errorf("keyword %s: %w", k.Name, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Info("import complete", "sets", len(sets), "cards", nCards, "artwork", nArt)
	return nil
}
