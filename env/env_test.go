package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "INKFRAME_BACKEND=gg\nINKFRAME_WORKERS=6\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(Backend, "canvas")
	t.Setenv(Workers, "")
	os.Unsetenv(Workers)

	Load(path)
	t.Cleanup(func() { os.Unsetenv(Workers) })

	if got := StringVariable(Backend, "x"); got != "canvas" {
		t.Fatalf("existing variable should win, got %s", got)
	}
	n, err := IntVariable(Workers, 1)
	if err != nil || n != 6 {
		t.Fatalf("workers from file: %d, %v", n, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	Load(filepath.Join(t.TempDir(), "absent.env"))
}

func TestIntVariable(t *testing.T) {
	t.Setenv(Workers, "")
	if n, err := IntVariable(Workers, 3); err != nil || n != 3 {
		t.Fatalf("default expected, got %d %v", n, err)
	}
	t.Setenv(Workers, "many")
	if _, err := IntVariable(Workers, 3); err == nil {
		t.Fatal("non-integer should fail")
	}
	t.Setenv(FontDir, "")
	if got := StringVariable(FontDir, "fonts"); got != "fonts" {
		t.Fatalf("got %s", got)
	}
}
