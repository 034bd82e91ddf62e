package main

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/inkframe/fonts"
	ggrenderer "github.com/ByLCY/inkframe/renderer/gg"
)

func writeBackground(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 64, 32))); err != nil {
		t.Fatal(err)
	}
}

func TestRunScene(t *testing.T) {
	dir := t.TempDir()
	writeBackground(t, filepath.Join(dir, "bg.png"))
	src := `doc Demo v1 {
  style { caption: "${author}" }
  note "bg.png" { "Hola **mundo**" }
  note "bg.png" { canvas: 9:16 "*segunda*" }
}
`
	input := filepath.Join(dir, "demo.ink")
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	debug := filepath.Join(dir, "debug", "plans.json")
	cfg := config{input: input, output: out, format: "png", workers: 2, debug: debug, preview: true,
		data: map[string]any{"author": "@ana"}}

	n, err := run(context.Background(), cfg, ggrenderer.NewBackend(fonts.NewRegistry()))
	if err != nil || n != 2 {
		t.Fatalf("run: %d images, err %v", n, err)
	}
	for _, name := range []string{"Demo_1_1x1.png", "Demo_2_9x16.png", "Demo_2_9x16_preview.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
	}
	raw, err := os.ReadFile(debug)
	if err != nil {
		t.Fatal(err)
	}
	var plans []map[string]any
	if err := json.Unmarshal(raw, &plans); err != nil || len(plans) != 2 {
		t.Fatalf("debug JSON should list both plans: %v", err)
	}
}

func TestRunBulk(t *testing.T) {
	dir := t.TempDir()
	writeBackground(t, filepath.Join(dir, "a.png"))
	writeBackground(t, filepath.Join(dir, "b.png"))
	images := filepath.Join(dir, "images.txt")
	phrases := filepath.Join(dir, "phrases.txt")
	if err := os.WriteFile(images, []byte("a.png\nb.png\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(phrases, []byte("uno\ndos\ntres\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	cfg := config{images: images, phrases: phrases, output: out, format: "jpg", aspect: "9:16",
		inkColor: "red", author: "@ana", workers: 1}

	n, err := run(context.Background(), cfg, ggrenderer.NewBackend(nil))
	if err != nil || n != 2 {
		t.Fatalf("run: %d images, err %v", n, err)
	}
	if _, err := os.Stat(filepath.Join(out, "resultado_2_9x16.jpg")); err != nil {
		t.Fatal(err)
	}
}

func TestRunRequiresInput(t *testing.T) {
	if _, err := run(context.Background(), config{output: t.TempDir()}, ggrenderer.NewBackend(nil)); err == nil {
		t.Fatal("expected error without input")
	}
	if _, err := newBackend("svg", nil); err == nil {
		t.Fatal("unknown backend should fail")
	}
}
