package fonts

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFamily 是内置字体族名称，未知字体族都会回退到它。
const DefaultFamily = "Go"

var builtin = map[string][]byte{
	"Go-Regular.ttf":    goregular.TTF,
	"Go-Bold.ttf":       gobold.TTF,
	"Go-Italic.ttf":     goitalic.TTF,
	"Go-BoldItalic.ttf": gobolditalic.TTF,
}

// EmbedPrefix marks a font directory or path that refers to the built-in fonts.
const EmbedPrefix = "embed:"

// Load 返回内置字体的字节数据，path 可写为 "embed:Go-Bold.ttf" 或直接 "Go-Bold.ttf"。
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, EmbedPrefix)
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: %w", name, fs.ErrNotExist)
	}
	return data, nil
}

func builtinRegulars() []string {
	var out []string
	for name := range builtin {
		if strings.HasSuffix(name, "-Regular.ttf") {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
