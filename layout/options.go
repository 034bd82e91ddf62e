package layout

import "github.com/ByLCY/inkframe/markup"

// BuildOptions 配置断行阶段所需的依赖，例如测量后端。
type BuildOptions struct {
	Measurer Measurer
	MaxWidth float64 // <= 0 表示不限宽度
	FontSize float64
}

// Measurer 负责测量一段文字在给定样式与字号下的宽度（像素）。
type Measurer interface {
	MeasureText(text string, style markup.Style, fontSize float64) float64
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(text string, style markup.Style, fontSize float64) float64

func (f MeasureFunc) MeasureText(text string, style markup.Style, fontSize float64) float64 {
	return f(text, style, fontSize)
}
