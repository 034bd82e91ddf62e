package layout

import "strings"

// 署名位置常量：距主文字块底部 3.5 个行高，右对齐于画布宽度 90% 处。
const (
	captionGapLines     = 3.5
	captionSizeDrop     = 0.8
	captionAnchorX      = 0.9
	captionInsetPerSize = 0.5
)

// Place 计算文字块与署名的坐标：整块垂直居中，每行各自水平居中。
// 行的 Y 为行框的垂直中线；空行只推进一个行高。
func Place(doc Document, caption *Caption, geo Geometry, m Measurer) Placement {
	lineHeight := geo.LineHeight()
	block := float64(len(doc.Lines)) * lineHeight
	canvasW := float64(geo.CanvasWidth)
	top := float64(geo.CanvasHeight)/2 - block/2

	placement := Placement{
		LineHeight:  lineHeight,
		Top:         top,
		BlockHeight: block,
		Lines:       make([]PlacedLine, 0, len(doc.Lines)),
	}

	opts := BuildOptions{Measurer: m, FontSize: geo.FontSize}
	for i, line := range doc.Lines {
		y := top + float64(i)*lineHeight + lineHeight/2
		if len(line) == 0 {
			placement.Lines = append(placement.Lines, PlacedLine{Y: y, X: canvasW / 2})
			continue
		}
		widths := make([]float64, len(line))
		total := 0.0
		for j, run := range line {
			widths[j] = measure(opts, run)
			total += widths[j]
		}
		x := (canvasW - total) / 2
		placed := PlacedLine{Y: y, X: x, Width: total, Runs: make([]PlacedRun, 0, len(line))}
		for j, run := range line {
			placed.Runs = append(placed.Runs, PlacedRun{Text: run.Text, Style: run.Style, X: x, Width: widths[j]})
			x += widths[j]
		}
		placement.Lines = append(placement.Lines, placed)
	}

	placement.Caption = placeCaption(caption, geo, top+block, lineHeight, m)
	return placement
}

func placeCaption(caption *Caption, geo Geometry, blockBottom, lineHeight float64, m Measurer) *PlacedCaption {
	if caption == nil {
		return nil
	}
	text := strings.TrimSpace(caption.Text)
	if text == "" {
		return nil
	}
	size := caption.FontSize
	if size <= 0 {
		size = geo.FontSize
	}
	width := 0.0
	if m != nil {
		width = m.MeasureText(text, caption.Style, size)
	}
	return &PlacedCaption{
		Text:     text,
		Style:    caption.Style,
		FontSize: size,
		X:        float64(geo.CanvasWidth)*captionAnchorX - size*captionInsetPerSize,
		Y:        blockBottom + size*captionSizeDrop + lineHeight*captionGapLines,
		Width:    width,
	}
}

// CoverFit 计算背景图绘制矩形：缩放到覆盖整个画布（不留边），再叠加平移。
// 交叉轴的偏移同样由 Transform 决定。
func CoverFit(imgW, imgH int, geo Geometry, tr Transform) Rect {
	tr = tr.Clamped()
	canvasW, canvasH := float64(geo.CanvasWidth), float64(geo.CanvasHeight)
	if imgW <= 0 || imgH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return Rect{X: tr.OffsetX, Y: tr.OffsetY, W: canvasW * tr.Scale, H: canvasH * tr.Scale}
	}

	imgAspect := float64(imgW) / float64(imgH)
	canvasAspect := canvasW / canvasH
	if imgAspect > canvasAspect {
		h := canvasH * tr.Scale
		w := float64(imgW) * (h / float64(imgH))
		return Rect{X: (canvasW-w)/2 + tr.OffsetX, Y: tr.OffsetY, W: w, H: h}
	}
	w := canvasW * tr.Scale
	h := float64(imgH) * (w / float64(imgW))
	return Rect{X: tr.OffsetX, Y: (canvasH-h)/2 + tr.OffsetY, W: w, H: h}
}

// ClampPan 把平移限制在背景仍能完全覆盖画布的范围内，供手势处理调用。
func ClampPan(imgW, imgH int, geo Geometry, tr Transform) Transform {
	tr = tr.Clamped()
	canvasW, canvasH := float64(geo.CanvasWidth), float64(geo.CanvasHeight)
	r := CoverFit(imgW, imgH, geo, Transform{Scale: tr.Scale})
	// r 为零偏移时的矩形；偏移 d 后需满足 r.X+d <= 0 且 r.X+d+r.W >= canvasW
	tr.OffsetX = clamp(tr.OffsetX, canvasW-r.W-r.X, -r.X)
	tr.OffsetY = clamp(tr.OffsetY, canvasH-r.H-r.Y, -r.Y)
	return tr
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return v
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
