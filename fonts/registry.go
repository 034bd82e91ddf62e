package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ByLCY/inkframe/markup"
)

// Family 保存同一字体族四种样式的 TTF 数据；缺失的样式为 nil。
type Family struct {
	Name       string
	Regular    []byte
	Bold       []byte
	Italic     []byte
	BoldItalic []byte
}

// Face returns the bytes for a style, falling back to the nearest loaded one:
// bold-italic → bold → italic → regular.
func (f *Family) Face(style markup.Style) []byte {
	candidates := [][]byte{f.Regular}
	switch {
	case style.Bold && style.Italic:
		candidates = [][]byte{f.BoldItalic, f.Bold, f.Italic, f.Regular}
	case style.Bold:
		candidates = [][]byte{f.Bold, f.Regular}
	case style.Italic:
		candidates = [][]byte{f.Italic, f.Regular}
	}
	for _, c := range candidates {
		if len(c) > 0 {
			return c
		}
	}
	return nil
}

// Registry maps family names to font data. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*Family
}

// NewRegistry 创建已注册内置 Go 字体族的注册表。
func NewRegistry() *Registry {
	r := &Registry{families: map[string]*Family{}}
	if err := r.LoadDir(EmbedPrefix, DefaultFamily); err != nil {
		panic(err)
	}
	return r
}

// Register adds or replaces a family. Names are matched case-insensitively.
func (r *Registry) Register(f *Family) {
	if f == nil || f.Name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[key(f.Name)] = f
}

// LoadDir 从目录读取 <name>-Regular.ttf（必需）以及可选的 -Bold/-Italic/-BoldItalic。
func (r *Registry) LoadDir(dir, name string) error {
	if name == "" {
		return fmt.Errorf("字体族名称为空")
	}
	read := func(suffix string, required bool) ([]byte, error) {
		file := name + "-" + suffix + ".ttf"
		data, err := readFont(dir, file)
		if err != nil {
			if !required && errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, fmt.Errorf("读取字体 %s 失败: %w", file, err)
		}
		return data, nil
	}

	fam := &Family{Name: name}
	var err error
	if fam.Regular, err = read("Regular", true); err != nil {
		return err
	}
	if fam.Bold, err = read("Bold", false); err != nil {
		return err
	}
	if fam.Italic, err = read("Italic", false); err != nil {
		return err
	}
	if fam.BoldItalic, err = read("BoldItalic", false); err != nil {
		return err
	}
	r.Register(fam)
	return nil
}

// readFont reads file from dir; a dir starting with EmbedPrefix reads the built-in fonts.
func readFont(dir, file string) ([]byte, error) {
	if strings.HasPrefix(dir, EmbedPrefix) {
		return Load(EmbedPrefix + file)
	}
	return os.ReadFile(filepath.Join(dir, file))
}

// LoadAll registers every family found in dir (one per *-Regular.ttf file).
func (r *Registry) LoadAll(dir string) ([]string, error) {
	var matches []string
	if strings.HasPrefix(dir, EmbedPrefix) {
		matches = builtinRegulars()
	} else {
		var err error
		if matches, err = filepath.Glob(filepath.Join(dir, "*-Regular.ttf")); err != nil {
			return nil, err
		}
	}
	var names []string
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.Base(m), "-Regular.ttf")
		if err := r.LoadDir(dir, name); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Lookup 返回字体族；未注册的名称回退到默认字体族，ok 表示是否命中。
func (r *Registry) Lookup(name string) (fam *Family, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, found := r.families[key(name)]; found {
		return f, true
	}
	return r.families[key(DefaultFamily)], false
}

// Names lists the registered family names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.families))
	for _, f := range r.families {
		names = append(names, f.Name)
	}
	return names
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }
