package compose

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ByLCY/inkframe/renderer"
)

// Preview 走与导出完全相同的合成路径，再把结果等比缩小到最长边不超过 maxSide。
func Preview(b renderer.Backend, bg image.Image, text string, opts Options, maxSide int) (image.Image, error) {
	img, err := Render(b, bg, text, opts)
	if err != nil {
		return nil, err
	}
	return Downscale(img, maxSide), nil
}

// Downscale shrinks img so its longer side is at most maxSide (CatmullRom).
// Smaller images and maxSide <= 0 return img unchanged.
func Downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	longest := b.Dx()
	if b.Dy() > longest {
		longest = b.Dy()
	}
	if maxSide <= 0 || longest <= maxSide {
		return img
	}
	ratio := float64(maxSide) / float64(longest)
	w := max(1, int(float64(b.Dx())*ratio+0.5))
	h := max(1, int(float64(b.Dy())*ratio+0.5))
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

// Format 是导出的图像编码格式。
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// FormatFromPath picks the encoding from a file extension; PNG by default.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG
	default:
		return FormatPNG
	}
}

// Encode writes img as PNG (default) or JPEG.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatJPEG:
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 92}); err != nil {
			return fmt.Errorf("编码 JPEG 失败: %w", err)
		}
	case FormatPNG, "":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("编码 PNG 失败: %w", err)
		}
	default:
		return fmt.Errorf("不支持的输出格式 %q", format)
	}
	return nil
}
