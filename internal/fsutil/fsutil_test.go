package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAtomicWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	type doc struct {
		Version int      `json:"version"`
		Names   []string `json:"names"`
	}
	in := doc{Version: 1, Names: []string{"a", "b"}}

	if err := AtomicWriteJSON(path, in); err != nil {
		t.Fatalf("AtomicWriteJSON: %v", err)
	}

	var out doc
	if err := ReadJSON(path, &out); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if out.Version != 1 || len(out.Names) != 2 {
		t.Errorf("round trip = %+v", out)
	}
}

func TestAtomicWriteJSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := AtomicWriteJSON(path, map[string]int{"version": 1}); err != nil {
		t.Fatalf("AtomicWriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	if !strings.HasSuffix(text, "\n") {
		t.Error("store file missing trailing newline")
	}
	if !strings.Contains(text, "  \"version\": 1") {
		t.Errorf("store file not pretty-printed:\n%s", text)
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	for i := 0; i < 3; i++ {
		if err := AtomicWrite(path, []byte("data")); err != nil {
			t.Fatalf("AtomicWrite: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != "store.json" {
			t.Errorf("leftover temp file %q", entry.Name())
		}
	}
}

func TestReadJSONMissingFile(t *testing.T) {
	err := ReadJSON(filepath.Join(t.TempDir(), "absent.json"), &struct{}{})
	if !os.IsNotExist(err) {
		t.Errorf("err = %v, want os.IsNotExist", err)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	err := ReadJSON(path, &struct{}{})
	if err == nil {
		t.Fatal("ReadJSON accepted malformed input")
	}
	if os.IsNotExist(err) {
		t.Error("parse failure misreported as missing file")
	}
}
