package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/draw"

	"github.com/ByLCY/inkframe/fonts"
	"github.com/ByLCY/inkframe/layout"
	"github.com/ByLCY/inkframe/markup"
	"github.com/ByLCY/inkframe/renderer"
)

// 画布以毫米为单位，栅格化时取 1 dot/mm，因此 1mm 恰好对应 1 像素。
var resolution = canvas.DPMM(1.0)

// mmToPt 将毫米(=像素)换算为字体系统使用的点(pt)。
const mmToPt = 72.0 / 25.4

// Backend draws surfaces via github.com/tdewolff/canvas.
type Backend struct {
	fonts *fonts.Registry

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
}

var _ renderer.Backend = (*Backend)(nil)

// NewBackend creates a backend resolving font families from reg
// (nil means the built-in Go fonts only).
func NewBackend(reg *fonts.Registry) *Backend {
	if reg == nil {
		reg = fonts.NewRegistry()
	}
	return &Backend{fonts: reg, families: map[string]*canvas.FontFamily{}}
}

func (b *Backend) Name() string { return "canvas" }

// NewSurface 返回一块新的透明表面；每个表面独占自己的像素缓冲。
func (b *Backend) NewSurface(width, height int) (renderer.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: 尺寸 %dx%d 非法", renderer.ErrNoSurface, width, height)
	}
	s := &Surface{
		backend: b,
		pixels:  image.NewRGBA(image.Rect(0, 0, width, height)),
		fill:    color.Black,
		font:    renderer.Font{Family: fonts.DefaultFamily, Size: layout.DefaultFontSize},
	}
	s.batch = renderer.NewTextBatch(s.paintText)
	return s, nil
}

// family 加载（并缓存）字体族的四种样式；加载失败时回退到内置字体族。
func (b *Backend) family(name string) (*canvas.FontFamily, error) {
	fam, _ := b.fonts.Lookup(name)
	if fam == nil {
		return nil, fmt.Errorf("找不到字体族 %s", name)
	}

	b.fontMu.Lock()
	defer b.fontMu.Unlock()
	if cached, ok := b.families[fam.Name]; ok {
		return cached, nil
	}
	family, err := loadFamily(fam)
	if err != nil {
		if fam.Name == fonts.DefaultFamily {
			return nil, err
		}
		log.Printf("%v，改用 %s", err, fonts.DefaultFamily)
		def, _ := b.fonts.Lookup(fonts.DefaultFamily)
		if cached, ok := b.families[def.Name]; ok {
			family = cached
		} else if family, err = loadFamily(def); err != nil {
			return nil, err
		} else {
			b.families[def.Name] = family
		}
	}
	b.families[fam.Name] = family
	return family, nil
}

func loadFamily(fam *fonts.Family) (*canvas.FontFamily, error) {
	family := canvas.NewFontFamily(fam.Name)
	for _, st := range []markup.Style{{}, {Bold: true}, {Italic: true}, {Bold: true, Italic: true}} {
		if err := family.LoadFont(fam.Face(st), 0, fontStyle(st)); err != nil {
			return nil, fmt.Errorf("加载字体 %s (%s) 失败: %w", fam.Name, st, err)
		}
	}
	return family, nil
}

func (b *Backend) face(f renderer.Font, col color.Color) (*canvas.FontFace, error) {
	family, err := b.family(f.Family)
	if err != nil {
		return nil, err
	}
	if col == nil {
		col = color.Black
	}
	return family.Face(f.Size*mmToPt, col, fontStyle(f.Style), canvas.FontNormal), nil
}

func fontStyle(st markup.Style) canvas.FontStyle {
	style := canvas.FontRegular
	if st.Bold {
		style = canvas.FontBold
	}
	if st.Italic {
		style |= canvas.FontItalic
	}
	return style
}

// Surface implements renderer.Surface on an RGBA buffer; backgrounds and text
// are drawn through a canvas.Context and rasterized onto it.
type Surface struct {
	backend *Backend
	pixels  *image.RGBA
	font    renderer.Font
	fill    color.Color
	batch   *renderer.TextBatch
}

var _ renderer.Surface = (*Surface)(nil)

// Size 对 nil 表面返回 0×0。
func (s *Surface) Size() (int, int) {
	if s == nil || s.pixels == nil {
		return 0, 0
	}
	b := s.pixels.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) Clear(c color.Color) {
	s.batch.Flush(s.pixels)
	if c == nil {
		c = color.Transparent
	}
	draw.Draw(s.pixels, s.pixels.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawImage 以等比缩放把 src 区域绘制到 dst；宽高比由 dst.W 决定。
func (s *Surface) DrawImage(img image.Image, src image.Rectangle, dst layout.Rect) {
	s.batch.Flush(s.pixels)
	if img == nil || dst.W <= 0 || dst.H <= 0 {
		return
	}
	part := renderer.Crop(img, src)
	if part.Bounds().Empty() {
		return
	}
	c, ctx := s.newContext()
	ctx.DrawImage(dst.X, dst.Y, part, canvas.DPMM(float64(part.Bounds().Dx())/dst.W))
	s.composite(c)
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
	face, err := s.backend.face(s.font, color.Black)
	if err != nil {
		log.Printf("测量文字失败: %v", err)
		return 0
	}
	return face.TextWidth(text)
}

func (s *Surface) Image() image.Image {
	s.batch.Flush(s.pixels)
	return s.pixels
}

func (s *Surface) newContext() (*canvas.Canvas, *canvas.Context) {
	w, h := s.Size()
	c := canvas.New(float64(w), float64(h))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	return c, ctx
}

func (s *Surface) composite(c *canvas.Canvas) {
	img := rasterizer.Draw(c, resolution, canvas.DefaultColorSpace)
	draw.Draw(s.pixels, s.pixels.Bounds(), img, image.Point{}, draw.Over)
}

// paintText 是 TextBatch 的绘制回调：在一张临时画布上排好所有文字后一次栅格化。
func (s *Surface) paintText(dst *image.RGBA, ops []renderer.TextOp, dx, dy float64, ink color.Color) {
	c, ctx := s.newContext()
	for _, op := range ops {
		col := op.Color
		if ink != nil {
			col = ink
		}
		face, err := s.backend.face(op.Font, col)
		if err != nil {
			log.Printf("绘制文字 %q 失败: %v", op.Text, err)
			continue
		}
		line := canvas.NewTextLine(face, op.Text, textAlign(op.Align))
		// y 为 em 框中线：基线 = 中线 + (上升部 - 下降部)/2
		metrics := face.Metrics()
		baseline := op.Y + dy + (metrics.Ascent-metrics.Descent)/2
		ctx.DrawText(op.X+dx, baseline, line)
	}
	img := rasterizer.Draw(c, resolution, canvas.DefaultColorSpace)
	draw.Draw(dst, dst.Bounds(), img, image.Point{}, draw.Over)
}

func textAlign(a renderer.Align) canvas.TextAlign {
	switch a {
	case renderer.AlignCenter:
		return canvas.Center
	case renderer.AlignRight:
		return canvas.Right
	default:
		return canvas.Left
	}
}
