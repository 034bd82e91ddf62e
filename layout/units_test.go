package layout

import (
	"math"
	"testing"
)

// TestPtPxRoundTrip 验证 pt↔px 换算的往返精度。
func TestPtPxRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 48, 72, 96, 1000}
	for _, pt := range samples {
		px := pt * PtToPx
		back := px * PxToPt
		if diff := math.Abs(back-pt); diff > 1e-9 {
			t.Fatalf("pt→px→pt 往返误差过大: in=%gpt px=%g back=%g diff=%g", pt, px, back, diff)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		px   float64
		unit Unit
		ok   bool
	}{
		{"64px", 64, UnitPX, true},
		{"36pt", 48, UnitPT, true},
		{" 40 ", 40, UnitNone, true},
		{"12 PX", 12, UnitPX, true},
		{"", 0, UnitNone, false},
		{"abc", 0, UnitNone, false},
		{"3em", 0, UnitNone, false},
	}
	for _, tc := range cases {
		l, ok := ParseLength(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseLength(%q) ok=%v，期望 %v", tc.in, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if l.Unit != tc.unit {
			t.Fatalf("ParseLength(%q) 单位=%s，期望 %s", tc.in, UnitToString(l.Unit), UnitToString(tc.unit))
		}
		if math.Abs(l.ToPX()-tc.px) > 1e-9 {
			t.Fatalf("ParseLength(%q).ToPX()=%g，期望 %g", tc.in, l.ToPX(), tc.px)
		}
	}
}

func TestParseLineHeight(t *testing.T) {
	spec, ok := ParseLineHeight("1.5x")
	if !ok || spec.Kind != LineHeightFactor || spec.FactorFor(48) != 1.5 {
		t.Fatalf("1.5x 解析错误: %+v ok=%v", spec, ok)
	}
	spec, ok = ParseLineHeight("1.4")
	if !ok || spec.FactorFor(10) != 1.4 {
		t.Fatalf("裸数字应视为倍数: %+v ok=%v", spec, ok)
	}
	spec, ok = ParseLineHeight("96px")
	if !ok || spec.Kind != LineHeightAbsolute {
		t.Fatalf("96px 应为绝对行高: %+v ok=%v", spec, ok)
	}
	if got := spec.FactorFor(48); math.Abs(got-2) > 1e-9 {
		t.Fatalf("96px / 48px 期望倍数 2，实际 %g", got)
	}
	if got := spec.FactorFor(0); got != DefaultLineHeightFactor {
		t.Fatalf("字号为 0 时应回退默认倍数，实际 %g", got)
	}
	spec, ok = ParseLineHeight("60PT")
	if !ok || spec.Kind != LineHeightAbsolute || math.Abs(spec.FactorFor(80)-1) > 1e-9 {
		t.Fatalf("60pt 应为 80px 绝对行高: %+v ok=%v", spec, ok)
	}
	for _, bad := range []string{"", "x", "-1x", "0", "abc", "px", "-90px"} {
		if _, ok := ParseLineHeight(bad); ok {
			t.Fatalf("ParseLineHeight(%q) 应失败", bad)
		}
	}
}
