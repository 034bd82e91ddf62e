// Package ggrenderer implements renderer.Surface with github.com/fogleman/gg
// and TrueType faces from github.com/golang/freetype.
package ggrenderer

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/ByLCY/inkframe/fonts"
	"github.com/ByLCY/inkframe/layout"
	"github.com/ByLCY/inkframe/markup"
	"github.com/ByLCY/inkframe/renderer"
)

type fontKey struct {
	family string
	style  markup.Style
}

// Backend 解析后的 truetype.Font 只读，可在多个表面间共享。
type Backend struct {
	fonts *fonts.Registry

	mu     sync.Mutex
	parsed map[fontKey]*truetype.Font
}

var _ renderer.Backend = (*Backend)(nil)

func NewBackend(reg *fonts.Registry) *Backend {
	if reg == nil {
		reg = fonts.NewRegistry()
	}
	return &Backend{fonts: reg, parsed: map[fontKey]*truetype.Font{}}
}

func (b *Backend) Name() string { return "gg" }

func (b *Backend) NewSurface(width, height int) (renderer.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: 尺寸 %dx%d 非法", renderer.ErrNoSurface, width, height)
	}
	pixels := image.NewRGBA(image.Rect(0, 0, width, height))
	s := &Surface{
		backend: b,
		pixels:  pixels,
		dc:      gg.NewContextForRGBA(pixels),
		fill:    color.Black,
		font:    renderer.Font{Family: fonts.DefaultFamily, Size: layout.DefaultFontSize},
		faces:   map[faceKey]font.Face{},
	}
	s.batch = renderer.NewTextBatch(s.paintText)
	return s, nil
}

func (b *Backend) font(family string, style markup.Style) (*truetype.Font, error) {
	fam, _ := b.fonts.Lookup(family)
	if fam == nil {
		return nil, fmt.Errorf("找不到字体族 %s", family)
	}
	key := fontKey{family: fam.Name, style: style}

	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.parsed[key]; ok {
		return f, nil
	}
	f, err := truetype.Parse(fam.Face(style))
	if err != nil {
		if fam.Name == fonts.DefaultFamily {
			return nil, fmt.Errorf("解析字体 %s (%s) 失败: %w", fam.Name, style, err)
		}
		log.Printf("解析字体 %s (%s) 失败，改用 %s: %v", fam.Name, style, fonts.DefaultFamily, err)
		def, _ := b.fonts.Lookup(fonts.DefaultFamily)
		if f, err = truetype.Parse(def.Face(style)); err != nil {
			return nil, fmt.Errorf("解析字体 %s (%s) 失败: %w", def.Name, style, err)
		}
	}
	b.parsed[key] = f
	return f, nil
}

type faceKey struct {
	fontKey
	size float64
}

// Surface draws into its own RGBA buffer through a gg.Context. Faces are
// cached per surface since truetype faces keep mutable glyph caches.
type Surface struct {
	backend *Backend
	pixels  *image.RGBA
	dc      *gg.Context
	font    renderer.Font
	fill    color.Color
	batch   *renderer.TextBatch
	faces   map[faceKey]font.Face
}

var _ renderer.Surface = (*Surface)(nil)

// Size 对 nil 表面返回 0×0。
func (s *Surface) Size() (int, int) {
	if s == nil || s.dc == nil {
		return 0, 0
	}
	return s.dc.Width(), s.dc.Height()
}

func (s *Surface) Clear(c color.Color) {
	s.batch.Flush(s.pixels)
	if c == nil {
		c = color.Transparent
	}
	s.dc.SetColor(c)
	s.dc.Clear()
}

func (s *Surface) DrawImage(img image.Image, src image.Rectangle, dst layout.Rect) {
	s.batch.Flush(s.pixels)
	if img == nil || dst.W <= 0 || dst.H <= 0 {
		return
	}
	part := renderer.Crop(img, src)
	b := part.Bounds()
	if b.Empty() {
		return
	}
	s.dc.Push()
	s.dc.Translate(dst.X, dst.Y)
	s.dc.Scale(dst.W/float64(b.Dx()), dst.H/float64(b.Dy()))
	s.dc.DrawImage(part, 0, 0)
	s.dc.Pop()
}

func (s *Surface) SetFont(f renderer.Font) {
	if f.Family == "" {
		f.Family = fonts.DefaultFamily
	}
	s.font = f
}

func (s *Surface) SetFillColor(c color.Color) { s.fill = c }

func (s *Surface) SetShadow(sh renderer.Shadow) { s.batch.SetShadow(s.pixels, sh) }

func (s *Surface) FillText(text string, x, y float64, align renderer.Align) {
	s.batch.Add(renderer.TextOp{Text: text, X: x, Y: y, Align: align, Font: s.font, Color: s.fill})
}

func (s *Surface) MeasureText(text string) float64 {
	if text == "" {
		return 0
	}
	face, err := s.face(s.font)
	if err != nil {
		log.Printf("测量文字失败: %v", err)
		return 0
	}
	s.dc.SetFontFace(face)
	w, _ := s.dc.MeasureString(text)
	return w
}

func (s *Surface) Image() image.Image {
	s.batch.Flush(s.pixels)
	return s.pixels
}

func (s *Surface) face(f renderer.Font) (font.Face, error) {
	ttf, err := s.backend.font(f.Family, f.Style)
	if err != nil {
		return nil, err
	}
	key := faceKey{fontKey: fontKey{family: f.Family, style: f.Style}, size: f.Size}
	if face, ok := s.faces[key]; ok {
		return face, nil
	}
	// DPI 72 时 1pt == 1px
	face := truetype.NewFace(ttf, &truetype.Options{Size: f.Size, DPI: 72})
	s.faces[key] = face
	return face, nil
}

// paintText 是 TextBatch 的绘制回调，y 为行的垂直中线。
func (s *Surface) paintText(dst *image.RGBA, ops []renderer.TextOp, dx, dy float64, ink color.Color) {
	dc := s.dc
	if dst != s.pixels {
		dc = gg.NewContextForRGBA(dst)
	}
	for _, op := range ops {
		face, err := s.face(op.Font)
		if err != nil {
			log.Printf("绘制文字 %q 失败: %v", op.Text, err)
			continue
		}
		col := op.Color
		if ink != nil {
			col = ink
		}
		if col == nil {
			col = color.Black
		}
		dc.SetFontFace(face)
		dc.SetColor(col)
		dc.DrawStringAnchored(op.Text, op.X+dx, op.Y+dy, anchorX(op.Align), 0.5)
	}
}

func anchorX(a renderer.Align) float64 {
	switch a {
	case renderer.AlignCenter:
		return 0.5
	case renderer.AlignRight:
		return 1
	default:
		return 0
	}
}
