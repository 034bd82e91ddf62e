package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// TextOp 是一次待绘制的 FillText 调用及其当时的绘图状态。
type TextOp struct {
	Text  string
	X, Y  float64
	Align Align
	Font  Font
	Color color.Color
}

// Painter rasterizes ops onto dst, shifted by (dx, dy). When ink is non-nil
// every op is painted in that color instead of its own.
type Painter func(dst *image.RGBA, ops []TextOp, dx, dy float64, ink color.Color)

// TextBatch 收集共享同一阴影设置的连续文字绘制；刷新时先画模糊阴影层，再画文字本身。
type TextBatch struct {
	paint  Painter
	shadow Shadow
	ops    []TextOp
}

func NewTextBatch(p Painter) *TextBatch { return &TextBatch{paint: p} }

// SetShadow flushes pending ops onto dst when the shadow actually changes.
func (b *TextBatch) SetShadow(dst *image.RGBA, s Shadow) {
	if sameShadow(b.shadow, s) {
		return
	}
	b.Flush(dst)
	b.shadow = s
}

func (b *TextBatch) Add(op TextOp) {
	if op.Text == "" {
		return
	}
	b.ops = append(b.ops, op)
}

// Pending reports whether ops are waiting for Flush.
func (b *TextBatch) Pending() bool { return len(b.ops) > 0 }

// Flush paints the pending ops onto dst and empties the batch.
func (b *TextBatch) Flush(dst *image.RGBA) {
	if len(b.ops) == 0 {
		return
	}
	ops := b.ops
	b.ops = nil

	if b.shadow.Visible() {
		layer := image.NewRGBA(dst.Bounds())
		b.paint(layer, ops, b.shadow.OffsetX, b.shadow.OffsetY, b.shadow.Color)
		DrawBlurred(dst, layer, b.shadow.Blur)
	}
	b.paint(dst, ops, 0, 0, nil)
}

// DrawBlurred composites layer over dst after a Gaussian blur of the given
// radius. Only the painted area (plus 3 sigma of padding) is blurred.
func DrawBlurred(dst, layer *image.RGBA, radius float64) {
	painted := OpaqueBounds(layer)
	if painted.Empty() {
		return
	}
	sigma := radius / 2
	if sigma <= 0 {
		draw.Draw(dst, painted, layer, painted.Min, draw.Over)
		return
	}
	pad := int(math.Ceil(3 * sigma))
	area := painted.Inset(-pad).Intersect(dst.Bounds())
	blurred := imaging.Blur(layer.SubImage(area), sigma)
	draw.Draw(dst, area, blurred, image.Point{}, draw.Over)
}

// OpaqueBounds returns the smallest rectangle holding every non-transparent pixel.
func OpaqueBounds(img *image.RGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X, b.Min.Y
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := img.PixOffset(b.Min.X, y)
		row := img.Pix[start : start+4*b.Dx()]
		for x := 0; x < b.Dx(); x++ {
			if row[4*x+3] == 0 {
				continue
			}
			px := b.Min.X + x
			if px < minX {
				minX = px
			}
			if px+1 > maxX {
				maxX = px + 1
			}
			if y < minY {
				minY = y
			}
			if y+1 > maxY {
				maxY = y + 1
			}
		}
	}
	if minX >= maxX || minY >= maxY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX, maxY)
}

func sameShadow(a, b Shadow) bool {
	if a.Visible() != b.Visible() {
		return false
	}
	if !a.Visible() {
		return true
	}
	return ToRGBA(a.Color) == ToRGBA(b.Color) && a.Blur == b.Blur &&
		a.OffsetX == b.OffsetX && a.OffsetY == b.OffsetY
}
