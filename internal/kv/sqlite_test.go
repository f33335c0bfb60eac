package kv

import (
	"os"
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *SQLite {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// stores returns one fresh instance of every local backend.
func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": testDB(t),
	}
}

func TestGetMissing(t *testing.T) {
	for name, s := range stores(t) {
		v, ok, err := s.Get("likedNews")
		if err != nil {
			t.Fatalf("%s: get: %v", name, err)
		}
		if ok || v != nil {
			t.Errorf("%s: expected missing key, got %q", name, v)
		}
	}
}

func TestSetAndGet(t *testing.T) {
	for name, s := range stores(t) {
		if err := s.Set("likedNews", []byte(`[{"url":"https://x/1"}]`)); err != nil {
			t.Fatalf("%s: set: %v", name, err)
		}
		v, ok, err := s.Get("likedNews")
		if err != nil {
			t.Fatalf("%s: get: %v", name, err)
		}
		if !ok || string(v) != `[{"url":"https://x/1"}]` {
			t.Errorf("%s: got %q ok=%v", name, v, ok)
		}
	}
}

func TestSetOverwrites(t *testing.T) {
	for name, s := range stores(t) {
		s.Set("k", []byte("first"))
		if err := s.Set("k", []byte("second")); err != nil {
			t.Fatalf("%s: second set: %v", name, err)
		}
		v, _, _ := s.Get("k")
		if string(v) != "second" {
			t.Errorf("%s: expected overwritten value, got %q", name, v)
		}
		keys, err := s.Keys()
		if err != nil {
			t.Fatalf("%s: keys: %v", name, err)
		}
		if len(keys) != 1 {
			t.Errorf("%s: expected 1 key after overwrite, got %v", name, keys)
		}
	}
}

func TestDelete(t *testing.T) {
	for name, s := range stores(t) {
		s.Set("a", []byte("1"))
		s.Set("b", []byte("2"))
		if err := s.Delete("a"); err != nil {
			t.Fatalf("%s: delete: %v", name, err)
		}
		if err := s.Delete("never-set"); err != nil {
			t.Errorf("%s: deleting a missing key should not fail: %v", name, err)
		}
		keys, _ := s.Keys()
		if len(keys) != 1 || keys[0] != "b" {
			t.Errorf("%s: expected [b], got %v", name, keys)
		}
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "news.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Set("likedNews", []byte("[]")); err != nil {
		t.Fatalf("set: %v", err)
	}
	db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	v, ok, err := db.Get("likedNews")
	if err != nil || !ok || string(v) != "[]" {
		t.Errorf("expected value to survive reopen, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestStats(t *testing.T) {
	db := testDB(t)
	db.Set("a", []byte("1"))
	db.Set("b", []byte("2"))

	count, size, err := db.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
	if size == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestOpenCreatesDir(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "deep", "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening db in nested dir: %v", err)
	}
	db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	m.Close()
	if _, _, err := m.Get("k"); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := m.Set("k", nil); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	m.Set("k", buf)
	buf[0] = 'z'

	v, _, _ := m.Get("k")
	if string(v) != "abc" {
		t.Errorf("expected stored copy to be unaffected, got %q", v)
	}
}

func TestOpenRedisUnreachable(t *testing.T) {
	if _, err := OpenRedis("redis://127.0.0.1:1/0", ""); err == nil {
		t.Error("expected error connecting to an unreachable redis")
	}
}
