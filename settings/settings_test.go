package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	store := FileStore{Path: filepath.Join(t.TempDir(), "nested", "settings.gob")}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load before Save: %v", err)
	}
	if got != (Settings{}) {
		t.Errorf("Load before Save = %+v", got)
	}

	if err := store.Save(Settings{Backend: "native"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(Settings{Backend: "gl"}); err != nil {
		t.Fatal(err)
	}

	got, err = store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Backend != "gl" {
		t.Errorf("Backend = %q, want gl", got.Backend)
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("left %v files behind", len(entries))
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.gob")
	if err := os.WriteFile(path, []byte("not gob"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := (FileStore{Path: path}).Load(); err == nil {
		t.Error("Load accepted a corrupt file")
	}
}
