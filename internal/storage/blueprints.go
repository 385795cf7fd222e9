package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
	"github.com/vidyasagar/bpexplorer/internal/logging"
)

// DefaultCacheSize is the number of resolved blueprints kept in memory.
const DefaultCacheSize = 256

// Match is a search hit.
type Match struct {
	ID       uuid.UUID
	Name     string
	Distance int
}

// BlueprintStore serves blueprints from SQLite through an LRU cache.
// It implements blueprint.Store.
type BlueprintStore struct {
	db    *sql.DB
	cache *lru.Cache[uuid.UUID, *blueprint.Handle]

	mu    sync.Mutex
	names []string // loaded lazily for Search
	ids   []uuid.UUID
}

// NewBlueprintStore creates a store on db caching up to cacheSize blueprints.
func NewBlueprintStore(db *DB, cacheSize int) (*BlueprintStore, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[uuid.UUID, *blueprint.Handle](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating blueprint cache: %w", err)
	}
	return &BlueprintStore{db: db.Conn(), cache: cache}, nil
}

// Import replaces the stored index with handles. Back-references are
// stored as given; see blueprint.IndexBackReferences.
func (s *BlueprintStore) Import(handles []*blueprint.Handle) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM back_refs`); err != nil {
		return fmt.Errorf("clearing back-references: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM blueprints`); err != nil {
		return fmt.Errorf("clearing blueprints: %w", err)
	}

	insertBP, err := tx.Prepare(`INSERT INTO blueprints (guid, name, type, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing blueprint insert: %w", err)
	}
	defer insertBP.Close()

	insertRef, err := tx.Prepare(`INSERT INTO back_refs (target, source, ord) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing back-reference insert: %w", err)
	}
	defer insertRef.Close()

	for _, h := range handles {
		data := string(h.Data)
		if data == "" {
			data = "{}"
		}
		if _, err := insertBP.Exec(h.ID.String(), h.Name, h.Type, data); err != nil {
			return fmt.Errorf("storing %s: %w", h.ID, err)
		}
		for i, src := range h.BackReferences {
			if _, err := insertRef.Exec(h.ID.String(), src.String(), i); err != nil {
				return fmt.Errorf("storing back-reference of %s: %w", h.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}

	s.cache.Purge()
	s.mu.Lock()
	s.names, s.ids = nil, nil
	s.mu.Unlock()
	return nil
}

// Resolve implements blueprint.Store. A missing row is a plain miss; any
// other database error is logged before resolving as not found.
func (s *BlueprintStore) Resolve(id uuid.UUID) (*blueprint.Handle, bool) {
	if h, ok := s.cache.Get(id); ok {
		return h, true
	}
	h, err := s.load(id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.Error(fmt.Errorf("resolving %s: %w", id, err))
		}
		return nil, false
	}
	s.cache.Add(id, h)
	return h, true
}

func (s *BlueprintStore) load(id uuid.UUID) (*blueprint.Handle, error) {
	var name, typ, data string
	err := s.db.QueryRow(
		`SELECT name, type, data FROM blueprints WHERE guid = ?`, id.String(),
	).Scan(&name, &typ, &data)
	if err != nil {
		return nil, err
	}

	h := &blueprint.Handle{
		ID:   id,
		Name: name,
		Type: typ,
		Data: json.RawMessage(data),
	}

	rows, err := s.db.Query(
		`SELECT source FROM back_refs WHERE target = ? ORDER BY ord`, id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("loading back-references of %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, err
		}
		srcID, err := uuid.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("back-reference of %s: %w", id, err)
		}
		h.BackReferences = append(h.BackReferences, srcID)
	}
	return h, rows.Err()
}

// Lookup resolves a user-supplied identifier. Unlike Resolve it reports
// why nothing was found.
func (s *BlueprintStore) Lookup(id uuid.UUID) (*blueprint.Handle, error) {
	if h, ok := s.cache.Get(id); ok {
		return h, nil
	}
	h, err := s.load(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no blueprint %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}
	s.cache.Add(id, h)
	return h, nil
}

// Search fuzzy-matches query against blueprint names, best first.
func (s *BlueprintStore) Search(query string, limit int) ([]Match, error) {
	if query == "" {
		return nil, nil
	}
	names, ids, err := s.loadNames()
	if err != nil {
		return nil, err
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	matches := make([]Match, len(ranks))
	for i, r := range ranks {
		matches[i] = Match{ID: ids[r.OriginalIndex], Name: r.Target, Distance: r.Distance}
	}
	return matches, nil
}

func (s *BlueprintStore) loadNames() ([]string, []uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.names != nil {
		return s.names, s.ids, nil
	}

	rows, err := s.db.Query(`SELECT guid, name FROM blueprints ORDER BY rowid`)
	if err != nil {
		return nil, nil, fmt.Errorf("listing blueprint names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	var ids []uuid.UUID
	for rows.Next() {
		var guid, name string
		if err := rows.Scan(&guid, &name); err != nil {
			return nil, nil, fmt.Errorf("scanning blueprint name: %w", err)
		}
		id, err := uuid.Parse(guid)
		if err != nil {
			return nil, nil, fmt.Errorf("stored guid %q: %w", guid, err)
		}
		names = append(names, name)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("listing blueprint names: %w", err)
	}
	s.names, s.ids = names, ids
	return names, ids, nil
}

// Count returns the number of stored blueprints.
func (s *BlueprintStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM blueprints`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting blueprints: %w", err)
	}
	return n, nil
}
