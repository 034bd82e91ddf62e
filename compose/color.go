package compose

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// InkPresets 是可按名称选择的四种墨水颜色。
var InkPresets = map[string]string{
	"black": "#000000",
	"blue":  "#1e40af",
	"red":   "#991b1b",
	"green": "#064e3b",
}

// ParseInk 解析墨水颜色：预设名称、#rgb 或 #rrggbb。
func ParseInk(v string) (color.Color, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" {
		return color.Black, nil
	}
	if hex, ok := InkPresets[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("无法解析颜色 %q: %w", v, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
