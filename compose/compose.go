// Package compose 把背景图、带标记的文字与署名合成到一块绘图表面上。
package compose

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/ByLCY/inkframe/fonts"
	"github.com/ByLCY/inkframe/layout"
	"github.com/ByLCY/inkframe/markup"
	"github.com/ByLCY/inkframe/renderer"
)

// 默认阴影：正文 rgba(0,0,0,0.9) 模糊 15 偏移 (3,3)，署名 rgba(0,0,0,0.7) 模糊 8 偏移 (2,2)。
var (
	DefaultTextShadow    = renderer.Shadow{Color: color.NRGBA{A: 230}, Blur: 15, OffsetX: 3, OffsetY: 3}
	DefaultCaptionShadow = renderer.Shadow{Color: color.NRGBA{A: 179}, Blur: 8, OffsetX: 2, OffsetY: 2}
	NoShadow             = renderer.Shadow{}
)

// Options 描述一次合成；Geometry 的零值字段在合成时补全。
type Options struct {
	Geometry      layout.Geometry
	Transform     layout.Transform
	Base          markup.Style
	Ink           color.Color
	FontFamily    string
	Caption       *layout.Caption
	TextShadow    renderer.Shadow
	CaptionShadow renderer.Shadow
}

// DefaultOptions returns the stock settings for an aspect ratio.
func DefaultOptions(aspect layout.AspectRatio) Options {
	return Options{
		Geometry:      layout.NewGeometry(aspect, layout.DefaultFontSize),
		Transform:     layout.Identity(),
		Ink:           color.Black,
		FontFamily:    fonts.DefaultFamily,
		TextShadow:    DefaultTextShadow,
		CaptionShadow: DefaultCaptionShadow,
	}
}

func (o Options) resolved(width, height int) Options {
	geo := o.Geometry
	if geo.CanvasWidth <= 0 || geo.CanvasHeight <= 0 {
		geo.CanvasWidth, geo.CanvasHeight = width, height
	}
	if geo.FontSize <= 0 {
		geo.FontSize = layout.DefaultFontSize
	}
	if geo.LineHeightFactor <= 0 {
		geo.LineHeightFactor = layout.DefaultLineHeightFactor
	}
	if geo.MaxTextWidthFraction <= 0 {
		geo.MaxTextWidthFraction = layout.DefaultMaxTextWidthFraction
	}
	o.Geometry = geo
	o.Transform = o.Transform.Clamped()
	if o.Ink == nil {
		o.Ink = color.Black
	}
	if o.FontFamily == "" {
		o.FontFamily = fonts.DefaultFamily
	}
	return o
}

// surfaceMeasurer 通过表面自身的字体度量测量文字，保证断行与绘制一致。
type surfaceMeasurer struct {
	surface renderer.Surface
	family  string
}

func (m surfaceMeasurer) MeasureText(text string, style markup.Style, size float64) float64 {
	m.surface.SetFont(renderer.Font{Family: m.family, Style: style, Size: size})
	return m.surface.MeasureText(text)
}

// MeasurerFor adapts a surface to layout.Measurer for the given font family.
func MeasurerFor(s renderer.Surface, family string) layout.Measurer {
	return surfaceMeasurer{surface: s, family: family}
}

// PlanFor 计算合成所需的全部几何信息，不绘制任何内容。
func PlanFor(m layout.Measurer, bg image.Image, text string, opts Options) *layout.Plan {
	return plan(m, bg, text, opts.resolved(opts.Geometry.CanvasWidth, opts.Geometry.CanvasHeight))
}

func plan(m layout.Measurer, bg image.Image, text string, opts Options) *layout.Plan {
	geo := opts.Geometry
	p := &layout.Plan{Geometry: geo, Transform: opts.Transform}
	if bg != nil {
		b := bg.Bounds()
		p.Background = layout.CoverFit(b.Dx(), b.Dy(), geo, opts.Transform)
	}
	p.Document = layout.Build(text, opts.Base, layout.BuildOptions{
		Measurer: m,
		MaxWidth: geo.MaxTextWidth(),
		FontSize: geo.FontSize,
	})
	p.Placement = layout.Place(p.Document, opts.Caption, geo, m)
	return p
}

// Compose 按固定顺序绘制：清空 → 背景 → 正文（正文阴影）→ 署名（署名阴影）→ 重置阴影。
// 只有表面不可用（nil 或尺寸为 0）时返回 false；内容上的异常都按回退规则处理。
func Compose(s renderer.Surface, bg image.Image, text string, opts Options) bool {
	if s == nil {
		return false
	}
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return false
	}
	opts = opts.resolved(w, h)
	p := plan(MeasurerFor(s, opts.FontFamily), bg, text, opts)
	paint(s, bg, p, opts)
	return true
}

func paint(s renderer.Surface, bg image.Image, p *layout.Plan, opts Options) {
	s.Clear(color.Transparent)
	if bg != nil {
		s.DrawImage(bg, bg.Bounds(), p.Background)
	}

	if len(p.Placement.Lines) > 0 {
		s.SetFillColor(opts.Ink)
		s.SetShadow(opts.TextShadow)
		for _, line := range p.Placement.Lines {
			for _, run := range line.Runs {
				if strings.TrimSpace(run.Text) == "" {
					continue
				}
				s.SetFont(renderer.Font{Family: opts.FontFamily, Style: run.Style, Size: p.Geometry.FontSize})
				s.FillText(run.Text, run.X, line.Y, renderer.AlignLeft)
			}
		}
	}

	if c := p.Placement.Caption; c != nil {
		s.SetFont(renderer.Font{Family: opts.FontFamily, Style: c.Style, Size: c.FontSize})
		s.SetFillColor(opts.Ink)
		s.SetShadow(opts.CaptionShadow)
		s.FillText(c.Text, c.X, c.Y, renderer.AlignRight)
	}
	s.SetShadow(renderer.Shadow{})
}

// Render 从后端申请与几何尺寸一致的表面并合成；申请失败是唯一的错误来源。
func Render(b renderer.Backend, bg image.Image, text string, opts Options) (image.Image, error) {
	img, _, err := RenderPlan(b, bg, text, opts)
	return img, err
}

// RenderPlan is Render that also returns the placement used for drawing.
func RenderPlan(b renderer.Backend, bg image.Image, text string, opts Options) (image.Image, *layout.Plan, error) {
	if b == nil {
		return nil, nil, renderer.ErrNoSurface
	}
	opts = opts.resolved(opts.Geometry.CanvasWidth, opts.Geometry.CanvasHeight)
	s, err := b.NewSurface(opts.Geometry.CanvasWidth, opts.Geometry.CanvasHeight)
	if err != nil {
		return nil, nil, fmt.Errorf("申请 %s 绘图表面失败: %w", b.Name(), err)
	}
	if s == nil {
		return nil, nil, renderer.ErrNoSurface
	}
	p := plan(MeasurerFor(s, opts.FontFamily), bg, text, opts)
	paint(s, bg, p, opts)
	return s.Image(), p, nil
}
