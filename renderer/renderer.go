package renderer

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/ByLCY/inkframe/layout"
	"github.com/ByLCY/inkframe/markup"
)

// ErrNoSurface 表示后端无法提供绘图表面（例如尺寸非法）。
var ErrNoSurface = errors.New("无法创建绘图表面")

// Align selects which point of the text FillText anchors at x.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font selects a face: family name, bold/italic flags and size in pixels.
type Font struct {
	Family string
	Style  markup.Style
	Size   float64
}

// Shadow 描述文字阴影；Blur 为模糊半径（像素），高斯 sigma 取 Blur/2。
type Shadow struct {
	Color   color.Color
	Blur    float64
	OffsetX float64
	OffsetY float64
}

// Visible reports whether drawing the shadow would change any pixel.
func (s Shadow) Visible() bool {
	if s.Color == nil {
		return false
	}
	_, _, _, a := s.Color.RGBA()
	return a > 0
}

// Surface 是合成器使用的绘图上下文：先设置状态，再绘制。
// FillText 的 y 为字形 em 框的垂直中线。实现不要求并发安全。
type Surface interface {
	// Size reports the pixel size; an unusable surface (including a nil
	// pointer behind the interface) reports 0×0.
	Size() (int, int)
	Clear(c color.Color)
	// DrawImage draws the src rectangle of img scaled into dst.
	DrawImage(img image.Image, src image.Rectangle, dst layout.Rect)
	SetFont(f Font)
	SetFillColor(c color.Color)
	SetShadow(s Shadow)
	FillText(text string, x, y float64, align Align)
	// MeasureText returns the advance width of text in the current font.
	MeasureText(text string) float64
	// Image flushes pending drawing and returns the pixels.
	Image() image.Image
}

// Backend 创建绘图表面；同一后端可被多个 goroutine 同时使用。
type Backend interface {
	Name() string
	NewSurface(width, height int) (Surface, error)
}

// Crop returns the src part of img as a zero-origin RGBA copy.
func Crop(img image.Image, src image.Rectangle) *image.RGBA {
	src = src.Intersect(img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(out, out.Bounds(), img, src.Min, draw.Src)
	return out
}

// ToRGBA converts c to a non-premultiplied color, treating nil as black.
func ToRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{A: 0xff}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
