package kvs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashHexFormat(t *testing.T) {
	got := hashHex([]byte("hello"))
	if len(got) != 8 {
		t.Fatalf("got length %d, want 8", len(got))
	}
	for _, c := range got {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Fatalf("got %q, want lowercase hex", got)
		}
	}
}

func TestVerifyHashToleratesTrailingNewline(t *testing.T) {
	payload := []byte(`{"a":1}`)
	hex := hashHex(payload)
	if !verifyHash(payload, []byte(hex+"\n")) {
		t.Fatal("verifyHash should tolerate a trailing newline")
	}
	if verifyHash(payload, []byte("00000000")) {
		t.Fatal("verifyHash should reject a wrong hash")
	}
}

func TestAtomicWriteFileRenamesIntoPlace(t *testing.T) {
	dir := t.TempDir()
	finalPath := filepath.Join(dir, "payload.json")

	if err := atomicWriteFile(dir, finalPath, []byte("data")); err != nil {
		t.Fatalf("atomicWriteFile: %v", err)
	}

	got, err := os.ReadFile(finalPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "data" {
		t.Fatalf("got %q, want data", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "payload.json" {
			t.Fatalf("leftover temp file: %s", e.Name())
		}
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if fileExists(path) {
		t.Fatal("file should not exist yet")
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !fileExists(path) {
		t.Fatal("file should exist now")
	}
	if fileExists(dir) {
		t.Fatal("a directory must not count as an existing file")
	}
}
