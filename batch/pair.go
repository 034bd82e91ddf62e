package batch

import (
	"fmt"
	"strings"

	"github.com/ByLCY/inkframe/compose"
	"github.com/ByLCY/inkframe/layout"
	"github.com/ByLCY/inkframe/scene"
)

// Pair 把图片与短句按顺序一一配对，数量不一致时取较少者，并返回一条提示。
func Pair(images, phrases []string) (pairs [][2]string, warning string) {
	images = nonBlank(images)
	phrases = nonBlank(phrases)
	n := min(len(images), len(phrases))
	if len(images) != len(phrases) {
		warning = fmt.Sprintf("图片数量 (%d) 与短句数量 (%d) 不一致，只生成前 %d 组", len(images), len(phrases), n)
	}
	pairs = make([][2]string, n)
	for i := 0; i < n; i++ {
		pairs[i] = [2]string{images[i], phrases[i]}
	}
	return pairs, warning
}

// Jobs 为每组配对生成任务；所有任务共用 base 与同一个署名。
func Jobs(pairs [][2]string, aspect layout.AspectRatio, author string, base compose.Options) []scene.Job {
	jobs := make([]scene.Job, len(pairs))
	for i, p := range pairs {
		opts := base
		opts.Geometry = layout.NewGeometry(aspect, base.Geometry.FontSize)
		if base.Geometry.LineHeightFactor > 0 {
			opts.Geometry.LineHeightFactor = base.Geometry.LineHeightFactor
		}
		opts.Caption = nil
		if strings.TrimSpace(author) != "" {
			c := layout.Caption{Text: author, FontSize: scene.DefaultCaptionSize}
			if base.Caption != nil {
				c.Style = base.Caption.Style
				c.FontSize = base.Caption.FontSize
			}
			opts.Caption = &c
		}
		jobs[i] = scene.Job{Index: i, Source: p[0], Text: p[1], Aspect: aspect, Options: opts}
	}
	return jobs
}

// SplitLines returns the trimmed, non-empty lines of s.
func SplitLines(s string) []string {
	return nonBlank(strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n"))
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
