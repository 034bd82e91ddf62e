package layout

// 缩放范围与滚轮步长。
const (
	MinScale  = 1.0
	MaxScale  = 3.0
	WheelStep = 0.1
)

// Transform 是用户控制的背景平移/缩放状态。合成器只读取，不修改。
type Transform struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Scale   float64 `json:"scale"`
}

// Identity is the reset state applied on a new image or aspect change.
func Identity() Transform { return Transform{Scale: 1} }

// Clamped returns t with Scale limited to [MinScale, MaxScale]; a zero scale
// counts as unset and becomes 1.
func (t Transform) Clamped() Transform {
	switch {
	case t.Scale < MinScale:
		t.Scale = MinScale
	case t.Scale > MaxScale:
		t.Scale = MaxScale
	}
	return t
}

// Pan moves the background by a drag delta.
func (t Transform) Pan(dx, dy float64) Transform {
	t.OffsetX += dx
	t.OffsetY += dy
	return t.Clamped()
}

// Wheel zooms by WheelStep per scroll notch (positive zooms in).
func (t Transform) Wheel(notches float64) Transform {
	t = t.Clamped()
	t.Scale += notches * WheelStep
	return t.Clamped()
}

// Pinch multiplies the scale by the ratio between the current and the
// initial finger distance. Non-positive ratios are ignored.
func (t Transform) Pinch(ratio float64) Transform {
	t = t.Clamped()
	if ratio > 0 {
		t.Scale *= ratio
	}
	return t.Clamped()
}

func (t Transform) Reset() Transform { return Identity() }
