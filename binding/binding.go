package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 支持 ${path|默认值}：路径不存在时使用默认值；没有默认值时保留原占位符。
func Interpolate(text string, data any) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path, fallback, hasFallback := splitExpr(match)
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok && val != nil {
			return fmt.Sprint(val)
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// Missing lists the placeholder paths in text that data cannot resolve and
// that carry no default.
func Missing(text string, data any) []string {
	var out []string
	for _, m := range exprPattern.FindAllString(text, -1) {
		path, _, hasFallback := splitExpr(m)
		if path == "" || hasFallback {
			continue
		}
		if val, ok := resolvePath(data, path); !ok || val == nil {
			out = append(out, path)
		}
	}
	return out
}

func splitExpr(match string) (path, fallback string, hasFallback bool) {
	groups := exprPattern.FindStringSubmatch(match)
	if len(groups) < 2 {
		return "", "", false
	}
	inner := groups[1]
	if i := strings.IndexByte(inner, '|'); i != -1 {
		return strings.TrimSpace(inner[:i]), inner[i+1:], true
	}
	return strings.TrimSpace(inner), "", false
}

// pathStep matches "name" or "[3]" inside a dotted path such as users[0].name.
var pathStep = regexp.MustCompile(`\[(-?\d+)\]|([^.\[\]]+)`)

func resolvePath(data any, path string) (any, bool) {
	if data == nil || strings.TrimSpace(path) == "" {
		return nil, false
	}
	current := data
	for _, m := range pathStep.FindAllStringSubmatch(path, -1) {
		var ok bool
		if m[2] != "" {
			obj, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			current, ok = obj[strings.TrimSpace(m[2])]
		} else {
			current, ok = index(current, m[1])
		}
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func index(current any, raw string) (any, bool) {
	list, ok := current.([]any)
	if !ok {
		return nil, false
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 || i >= len(list) {
		return nil, false
	}
	return list[i], true
}
