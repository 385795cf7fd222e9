package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
	"github.com/vidyasagar/bpexplorer/internal/logging"
)

var (
	swordID = uuid.MustParse("1f0e2c9a-5d4b-4c1e-9a7f-0b1c2d3e4f50")
	bowID   = uuid.MustParse("2a1b3c4d-5e6f-4a0b-8c9d-0e1f2a3b4c5d")
	speedID = uuid.MustParse("3b2c4d5e-6f70-4b1c-9d0e-1f2a3b4c5d6e")
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testHandles() []*blueprint.Handle {
	return []*blueprint.Handle{
		{ID: swordID, Name: "Longsword", Type: "Weapon", Data: json.RawMessage(`{"Enchant":"!bp_` + speedID.String() + `"}`)},
		{ID: bowID, Name: "Longbow", Type: "Weapon", Data: json.RawMessage(`{"Enchant":"` + speedID.String() + `"}`)},
		{ID: speedID, Name: "SpeedEnchantment", Type: "Enchantment", BackReferences: []uuid.UUID{swordID, bowID}},
	}
}

func TestOpenDBCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	db, err := OpenDB(dir)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, filepath.Join(dir, DBFile), db.Path())
	_, err = os.Stat(db.Path())
	require.NoError(t, err)
}

func TestBlueprintStoreImportAndResolve(t *testing.T) {
	db := openTestDB(t)
	store, err := NewBlueprintStore(db, 0)
	require.NoError(t, err)

	require.NoError(t, store.Import(testHandles()))

	n, err := store.Count()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	speed, ok := store.Resolve(speedID)
	require.True(t, ok)
	assert.Equal(t, "SpeedEnchantment", speed.Name)
	assert.Equal(t, "Enchantment", speed.Type)
	assert.Equal(t, []uuid.UUID{swordID, bowID}, speed.BackReferences)
	assert.JSONEq(t, `{}`, string(speed.Data))

	again, ok := store.Resolve(speedID)
	require.True(t, ok)
	require.Same(t, speed, again, "second resolve is served from the cache")

	_, ok = store.Resolve(uuid.New())
	require.False(t, ok)
}

func TestBlueprintStoreImportReplaces(t *testing.T) {
	db := openTestDB(t)
	store, err := NewBlueprintStore(db, 4)
	require.NoError(t, err)

	require.NoError(t, store.Import(testHandles()))
	_, ok := store.Resolve(swordID)
	require.True(t, ok)

	require.NoError(t, store.Import([]*blueprint.Handle{{ID: bowID, Name: "Shortbow"}}))
	_, ok = store.Resolve(swordID)
	require.False(t, ok, "cache is purged on import")

	bow, ok := store.Resolve(bowID)
	require.True(t, ok)
	require.Equal(t, "Shortbow", bow.Name)
	require.Empty(t, bow.BackReferences)

	matches, err := store.Search("long", 0)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestBlueprintStoreLookup(t *testing.T) {
	db := openTestDB(t)
	store, err := NewBlueprintStore(db, 0)
	require.NoError(t, err)
	require.NoError(t, store.Import(testHandles()))

	h, err := store.Lookup(bowID)
	require.NoError(t, err)
	require.Equal(t, "Longbow", h.Name)

	missing := uuid.New()
	_, err = store.Lookup(missing)
	require.ErrorContains(t, err, missing.String())
}

func TestBlueprintStoreSearch(t *testing.T) {
	db := openTestDB(t)
	store, err := NewBlueprintStore(db, 0)
	require.NoError(t, err)
	require.NoError(t, store.Import(testHandles()))

	matches, err := store.Search("LONG", 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, bowID, matches[0].ID, "closest name ranks first")
	assert.Equal(t, swordID, matches[1].ID)

	matches, err = store.Search("long", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	matches, err = store.Search("spdench", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "SpeedEnchantment", matches[0].Name)

	matches, err = store.Search("", 0)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestRecentStore(t *testing.T) {
	db := openTestDB(t)
	rs := NewRecentStore(db)

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rs.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	require.NoError(t, rs.Add(swordID, "Longsword"))
	require.NoError(t, rs.Add(bowID, "Longbow"))
	require.NoError(t, rs.Add(bowID, "Longbow"))
	require.NoError(t, rs.Add(uuid.Nil, "ignored"))

	visits, err := rs.List(0)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, bowID, visits[0].ID)
	assert.True(t, clock.Equal(visits[0].VisitedAt), "repeat visit refreshes the timestamp")
	assert.Equal(t, swordID, visits[1].ID)

	// Non-consecutive repeats are kept.
	require.NoError(t, rs.Add(swordID, "Longsword"))
	require.Equal(t, 3, rs.Count())

	visits, err = rs.List(1)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, swordID, visits[0].ID)

	require.NoError(t, rs.Clear())
	require.Zero(t, rs.Count())
}

// useTestLog points the logger at a fresh file for the duration of t.
func useTestLog(t *testing.T) string {
	t.Helper()
	prev := logging.Path()
	path := filepath.Join(t.TempDir(), "test.log")
	logging.Configure(path)
	t.Cleanup(func() { logging.Configure(prev) })
	return path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func TestResolveLogsDatabaseErrors(t *testing.T) {
	logPath := useTestLog(t)
	db := openTestDB(t)
	store, err := NewBlueprintStore(db, 0)
	require.NoError(t, err)
	require.NoError(t, store.Import(testHandles()))

	_, ok := store.Resolve(uuid.New())
	require.False(t, ok)
	require.Empty(t, readLog(t, logPath), "a missing row is not an error")

	require.NoError(t, db.Close())
	_, ok = store.Resolve(swordID)
	require.False(t, ok)

	logged := readLog(t, logPath)
	assert.Contains(t, logged, "resolving "+swordID.String())
	assert.Contains(t, logged, "database is closed")
}

func TestRecentStoreSkipsBadTimes(t *testing.T) {
	logPath := useTestLog(t)
	db := openTestDB(t)
	rs := NewRecentStore(db)

	require.NoError(t, rs.Add(swordID, "Longsword"))
	_, err := db.Conn().Exec(
		`INSERT INTO recent (guid, name, visited_at) VALUES (?, ?, ?)`,
		bowID.String(), "Longbow", "yesterday",
	)
	require.NoError(t, err)

	visits, err := rs.List(0)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, swordID, visits[0].ID)
	assert.Contains(t, readLog(t, logPath), `bad time "yesterday"`)
}

func TestRecentStoreTrims(t *testing.T) {
	db := openTestDB(t)
	rs := NewRecentStore(db)
	rs.maxSize = 2

	require.NoError(t, rs.Add(swordID, "Longsword"))
	require.NoError(t, rs.Add(bowID, "Longbow"))
	require.NoError(t, rs.Add(speedID, "SpeedEnchantment"))

	visits, err := rs.List(0)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, speedID, visits[0].ID)
	assert.Equal(t, bowID, visits[1].ID)
}

func TestLoadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bpexplorer", "config.json")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Theme)
	require.Equal(t, 100, cfg.MaxHistory)
	require.Equal(t, DefaultCacheSize, cfg.CacheSize)
	require.Equal(t, path, cfg.Path())

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"theme": "nord",
		"max_history": -5,
		"cache_size": 0,
		"editor": "code --wait",
		"trace": true
	}`), 0o644))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "nord", cfg.Theme)
	assert.Equal(t, 0, cfg.MaxHistory)
	assert.Equal(t, DefaultCacheSize, cfg.CacheSize)
	assert.True(t, cfg.Trace)
	assert.Equal(t, "code --wait", cfg.EditorCommand())

	cfg.Theme = "dracula"
	require.NoError(t, cfg.Save())
	reloaded, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "dracula", reloaded.Theme)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":`), 0o644))

	_, err := LoadConfigFrom(path)
	require.ErrorContains(t, err, "parsing config")
}

func TestEditorCommandFallback(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("EDITOR", "nano")
	require.Equal(t, "nano", cfg.EditorCommand())

	t.Setenv("EDITOR", "")
	require.Equal(t, "vi", cfg.EditorCommand())
}
