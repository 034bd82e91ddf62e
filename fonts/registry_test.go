package fonts

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/inkframe/markup"
)

func TestDefaultFamilyHasAllStyles(t *testing.T) {
	r := NewRegistry()
	fam, ok := r.Lookup("go")
	if !ok {
		t.Fatal("默认字体族应可按不区分大小写的名称查找")
	}
	for _, st := range []markup.Style{{}, {Bold: true}, {Italic: true}, {Bold: true, Italic: true}} {
		data := fam.Face(st)
		if len(data) == 0 {
			t.Fatalf("样式 %s 缺少字体数据", st)
		}
	}
	if bytes.Equal(fam.Face(markup.Style{}), fam.Face(markup.Style{Bold: true})) {
		t.Fatal("粗体不应回退到常规体")
	}
}

func TestLookupUnknownFallsBack(t *testing.T) {
	r := NewRegistry()
	fam, ok := r.Lookup("Nope")
	if ok {
		t.Fatal("未知字体族不应命中")
	}
	if fam == nil || fam.Name != DefaultFamily {
		t.Fatalf("应回退到默认字体族，实际 %+v", fam)
	}
}

func TestLoadDirFallsBackForMissingStyles(t *testing.T) {
	dir := t.TempDir()
	regular := []byte("regular")
	italic := []byte("italic")
	if err := os.WriteFile(filepath.Join(dir, "Hand-Regular.ttf"), regular, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Hand-Italic.ttf"), italic, 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	names, err := r.LoadAll(dir)
	if err != nil {
		t.Fatalf("LoadAll 失败: %v", err)
	}
	if len(names) != 1 || names[0] != "Hand" {
		t.Fatalf("期望加载 Hand，实际 %v", names)
	}
	fam, ok := r.Lookup("Hand")
	if !ok {
		t.Fatal("Hand 未注册")
	}
	if got := fam.Face(markup.Style{Bold: true}); !bytes.Equal(got, regular) {
		t.Fatalf("缺失的粗体应回退到常规体，实际 %q", got)
	}
	if got := fam.Face(markup.Style{Bold: true, Italic: true}); !bytes.Equal(got, italic) {
		t.Fatalf("缺失的粗斜体应回退到斜体，实际 %q", got)
	}
}

func TestLoadDirRequiresRegular(t *testing.T) {
	if err := NewRegistry().LoadDir(t.TempDir(), "Missing"); err == nil {
		t.Fatal("缺少常规体时应返回错误")
	}
}

func TestLoadBuiltin(t *testing.T) {
	if _, err := Load("embed:Go-Bold.ttf"); err != nil {
		t.Fatalf("读取内置字体失败: %v", err)
	}
	if _, err := Load("Inter-Regular.ttf"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("不存在的内置字体应返回 ErrNotExist，实际 %v", err)
	}
}

func TestLoadEmbeddedFamily(t *testing.T) {
	r := &Registry{families: map[string]*Family{}}
	names, err := r.LoadAll(EmbedPrefix)
	if err != nil {
		t.Fatalf("加载内置字体族失败: %v", err)
	}
	if len(names) != 1 || names[0] != DefaultFamily {
		t.Fatalf("内置字体族列表 %v", names)
	}
	fam, ok := r.Lookup(DefaultFamily)
	if !ok || !bytes.Equal(fam.Face(markup.Style{Italic: true}), builtin["Go-Italic.ttf"]) {
		t.Fatal("embed: 目录应读取内置字体")
	}
	if err := r.LoadDir(EmbedPrefix, "Inter"); err == nil {
		t.Fatal("不存在的内置字体族应返回错误")
	}
}
