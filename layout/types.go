package layout

// 该文件定义排版结果与几何配置，供布局计算、合成与调试 JSON 共用。

import (
	"fmt"
	"strings"

	"github.com/ByLCY/inkframe/markup"
)

// Line 是一行内按阅读顺序排列的样式片段；零个片段表示显式空行。
type Line []markup.Run

// Document 为一次渲染生成的全部行，不跨渲染保留。
type Document struct {
	Lines []Line `json:"lines"`
}

// AspectRatio selects one of the two supported output geometries.
type AspectRatio string

const (
	AspectSquare   AspectRatio = "1:1"
	AspectPortrait AspectRatio = "9:16"
)

// 默认值：文字最大宽度为画布的 80%，行高为字号的 1.4 倍。
const (
	DefaultMaxTextWidthFraction = 0.8
	DefaultLineHeightFactor     = 1.4
	DefaultFontSize             = 48.0
)

// ParseAspect accepts "1:1", "square", "9:16" or "portrait".
func ParseAspect(v string) (AspectRatio, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "1:1", "square":
		return AspectSquare, nil
	case "9:16", "portrait", "tall", "story":
		return AspectPortrait, nil
	default:
		return "", fmt.Errorf("不支持的画布比例 %q（仅支持 1:1 与 9:16）", v)
	}
}

// Size returns the canvas pixel dimensions for the aspect ratio.
func (a AspectRatio) Size() (int, int) {
	if a == AspectPortrait {
		return 1080, 1920
	}
	return 1080, 1080
}

// Slug is a filename-safe spelling ("1x1", "9x16").
func (a AspectRatio) Slug() string {
	if a == AspectPortrait {
		return "9x16"
	}
	return "1x1"
}

// Geometry 在一次渲染内固定不变；画布尺寸只由比例决定，与原图分辨率无关。
type Geometry struct {
	CanvasWidth          int     `json:"canvasWidth"`
	CanvasHeight         int     `json:"canvasHeight"`
	MaxTextWidthFraction float64 `json:"maxTextWidthFraction"`
	FontSize             float64 `json:"fontSize"`
	LineHeightFactor     float64 `json:"lineHeightFactor"`
}

// NewGeometry builds the geometry for an aspect ratio with the default
// width fraction and line height.
func NewGeometry(aspect AspectRatio, fontSize float64) Geometry {
	w, h := aspect.Size()
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	return Geometry{
		CanvasWidth:          w,
		CanvasHeight:         h,
		MaxTextWidthFraction: DefaultMaxTextWidthFraction,
		FontSize:             fontSize,
		LineHeightFactor:     DefaultLineHeightFactor,
	}
}

func (g Geometry) LineHeight() float64 { return g.FontSize * g.LineHeightFactor }

func (g Geometry) MaxTextWidth() float64 { return float64(g.CanvasWidth) * g.MaxTextWidthFraction }

// Caption 是主文字块下方的署名，单行绘制，不参与换行。
type Caption struct {
	Text     string       `json:"text"`
	Style    markup.Style `json:"style"`
	FontSize float64      `json:"fontSize"`
}

// Rect 以像素为单位，原点在画布左上角。
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	const eps = 1e-9
	return r.X <= o.X+eps && r.Y <= o.Y+eps &&
		r.X+r.W >= o.X+o.W-eps && r.Y+r.H >= o.Y+o.H-eps
}

// PlacedRun 是定位后的片段，X 为左边缘。
type PlacedRun struct {
	Text  string       `json:"text"`
	Style markup.Style `json:"style"`
	X     float64      `json:"x"`
	Width float64      `json:"width"`
}

// PlacedLine holds one line; Y is the vertical middle of the line box.
type PlacedLine struct {
	Y     float64     `json:"y"`
	X     float64     `json:"x"`
	Width float64     `json:"width"`
	Runs  []PlacedRun `json:"runs"`
}

// PlacedCaption is right-aligned: X is the right edge of the text.
type PlacedCaption struct {
	Text     string       `json:"text"`
	Style    markup.Style `json:"style"`
	FontSize float64      `json:"fontSize"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Width    float64      `json:"width"`
}

// Placement 为文字块与署名的最终坐标。
type Placement struct {
	LineHeight  float64        `json:"lineHeight"`
	Top         float64        `json:"top"`
	BlockHeight float64        `json:"blockHeight"`
	Lines       []PlacedLine   `json:"lines"`
	Caption     *PlacedCaption `json:"caption,omitempty"`
}

// Plan 汇总一次合成所需的全部几何信息，也用于调试输出。
type Plan struct {
	Geometry   Geometry  `json:"geometry"`
	Transform  Transform `json:"transform"`
	Background Rect      `json:"background"`
	Document   Document  `json:"document"`
	Placement  Placement `json:"placement"`
}
