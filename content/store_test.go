package content

import (
	"errors"
	"path/filepath"
	"testing"
)

type meta struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

func TestStoreGetSetRemove(t *testing.T) {
	s, err := NewStore[string]("files", nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if _, ok := s.Get("a.md"); ok {
		t.Fatal("empty store should miss")
	}
	if err := s.Set("a.md", "<p>one</p>"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, ok := s.Get("a.md"); !ok || got != "<p>one</p>" {
		t.Errorf("Get = %q, %v; want %q, true", got, ok, "<p>one</p>")
	}

	// Overwrite is safe and idempotent.
	for i := 0; i < 2; i++ {
		if err := s.Set("a.md", "<p>two</p>"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if got, _ := s.Get("a.md"); got != "<p>two</p>" {
		t.Errorf("Get after overwrite = %q, want %q", got, "<p>two</p>")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	if err := s.Remove("a.md"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := s.Get("a.md"); ok {
		t.Error("Get after Remove should miss")
	}
	if err := s.Remove("a.md"); err != nil {
		t.Errorf("Remove of absent key should not fail: %v", err)
	}
}

func TestStoreKeysSorted(t *testing.T) {
	s, _ := NewStore[int]("n", nil)
	for i, k := range []string{"c", "a", "b"} {
		_ = s.Set(k, i)
	}
	got := s.Keys()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys = %v, want %v", got, want)
		}
	}
}

func TestStoreWritesThroughMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	m, err := NewSQLiteMirror(path)
	if err != nil {
		t.Fatalf("NewSQLiteMirror failed: %v", err)
	}
	defer m.Close()

	s, err := NewStore[meta]("posts", m)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := s.Set("hello.md", meta{Title: "Hello", Date: "2023-05-01"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("bye.md", meta{Title: "Bye"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Remove("bye.md"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	reloaded, err := NewStore[meta]("posts", m)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got, ok := reloaded.Get("hello.md")
	if !ok {
		t.Fatal("hello.md should be reloaded from the mirror")
	}
	if got.Title != "Hello" || got.Date != "2023-05-01" {
		t.Errorf("reloaded = %+v", got)
	}
	if _, ok := reloaded.Get("bye.md"); ok {
		t.Error("removed entry should not be reloaded")
	}
}

func TestStoreDropsUndecodableEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	m, err := NewSQLiteMirror(path)
	if err != nil {
		t.Fatalf("NewSQLiteMirror failed: %v", err)
	}
	defer m.Close()

	if err := m.Put("posts", "broken.md", []byte(`"just a string"`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	s, err := NewStore[meta]("posts", m)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
	raw, _ := m.Load("posts")
	if len(raw) != 0 {
		t.Errorf("broken entry should be deleted from the mirror, got %d", len(raw))
	}
}

type failingMirror struct{}

var errMirror = errors.New("disk full")

func (failingMirror) Load(string) (map[string][]byte, error) { return nil, nil }
func (failingMirror) Put(string, string, []byte) error       { return errMirror }
func (failingMirror) Delete(string, string) error            { return errMirror }

func TestStoreKeepsMemoryEntryWhenMirrorFails(t *testing.T) {
	s, err := NewStore[string]("files", failingMirror{})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := s.Set("a.md", "x"); !errors.Is(err, errMirror) {
		t.Errorf("Set error = %v, want %v", err, errMirror)
	}
	if got, ok := s.Get("a.md"); !ok || got != "x" {
		t.Errorf("Get = %q, %v; want %q, true", got, ok, "x")
	}
}

func TestStoreClear(t *testing.T) {
	s, _ := NewStore[string]("files", nil)
	_ = s.Set("a.md", "a")
	_ = s.Set("b.md", "b")
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", s.Len())
	}

	f, _ := NewStore[string]("files", failingMirror{})
	_ = f.Set("a.md", "a")
	if err := f.Clear(); !errors.Is(err, errMirror) {
		t.Errorf("Clear error = %v, want %v", err, errMirror)
	}
	if f.Len() != 0 {
		t.Error("Clear should drop memory entries even when the mirror fails")
	}
}
