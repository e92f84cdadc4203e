package fonts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadBuiltin(t *testing.T) {
	for _, name := range Names() {
		data, err := Load(BuiltinPrefix+name, "")
		if err != nil {
			t.Fatalf("Load(%s) error = %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%s) returned no data", name)
		}
	}
	if _, err := Load("builtin:nope", ""); err == nil {
		t.Fatal("expected error for unknown builtin font")
	}
	if _, err := Load("", ""); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestLoadFileIsSniffed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ok.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fake.ttf"), []byte("definitely not a font"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := Load("ok.ttf", dir)
	if err != nil {
		t.Fatalf("Load(ok.ttf) error = %v", err)
	}
	if !bytes.Equal(data, goregular.TTF) {
		t.Fatal("font bytes differ")
	}
	if _, err := Load("fake.ttf", dir); err == nil {
		t.Fatal("expected error for a file that is not a font")
	}
	if _, err := Load("missing.ttf", dir); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
