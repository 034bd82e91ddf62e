// Package scene 把解析后的场景文件与 JSON 数据转换为渲染任务。
package scene

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/ByLCY/inkframe/binding"
	"github.com/ByLCY/inkframe/compose"
	"github.com/ByLCY/inkframe/dsl"
	"github.com/ByLCY/inkframe/fonts"
	"github.com/ByLCY/inkframe/layout"
	"github.com/ByLCY/inkframe/markup"
)

// DefaultCaptionSize 为未指定 caption-size 时的署名字号（像素）。
const DefaultCaptionSize = 32.0

// Job 是一条便签的完整渲染参数。
type Job struct {
	Index   int
	Source  string
	Text    string
	Aspect  layout.AspectRatio
	Options compose.Options
}

// Scene is a parsed scene file resolved against its data.
type Scene struct {
	Name    string
	Version string
	Meta    map[string]string
	Jobs    []Job
}

// Load 读取并解析场景文件，再结合数据生成任务。
func Load(path string, data any) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取场景文件失败: %w", err)
	}
	defer f.Close()
	doc, err := dsl.ParseFile(path, f)
	if err != nil {
		return nil, fmt.Errorf("解析场景文件失败: %w", err)
	}
	return Build(doc, data)
}

// Build 按出现顺序处理各节：style 修改后续便签的默认值，每个 note 生成一个任务。
func Build(doc *dsl.Document, data any) (*Scene, error) {
	if doc == nil {
		return nil, fmt.Errorf("场景文档为空")
	}
	sc := &Scene{Name: doc.Name, Version: doc.Version, Meta: map[string]string{}}
	defaults := defaultSettings()

	for _, sec := range doc.Sections {
		switch {
		case sec.Meta != nil:
			for _, st := range sec.Meta.Block.Statements {
				if st.Assignment != nil {
					sc.Meta[st.Assignment.Key] = binding.Interpolate(st.Assignment.Value.Text(), data)
				}
			}
		case sec.Style != nil:
			for _, st := range sec.Style.Block.Statements {
				if st.Assignment == nil {
					return nil, fmt.Errorf("style 中只允许属性赋值")
				}
				if err := defaults.apply(st.Assignment, data); err != nil {
					return nil, err
				}
			}
		case sec.Note != nil:
			job, err := buildJob(sec.Note, defaults, data, len(sc.Jobs))
			if err != nil {
				return nil, err
			}
			sc.Jobs = append(sc.Jobs, job)
		}
	}
	return sc, nil
}

func buildJob(note *dsl.NoteSection, defaults settings, data any, index int) (Job, error) {
	s := defaults
	var parts []string
	for _, st := range note.Block.Statements {
		switch {
		case st.Text != nil:
			parts = append(parts, string(st.Text.Value))
		case st.Assignment.Key == "text":
			parts = append(parts, st.Assignment.Value.Text())
		default:
			if err := s.apply(st.Assignment, data); err != nil {
				return Job{}, err
			}
		}
	}
	job := Job{Index: index, Text: binding.Interpolate(strings.Join(parts, "\n"), data), Aspect: s.aspect}
	if note.Source != nil {
		job.Source = binding.Interpolate(string(*note.Source), data)
	}
	job.Options = s.options()
	return job, nil
}

type settings struct {
	aspect       layout.AspectRatio
	ink          color.Color
	font         string
	size         float64
	lineHeight   layout.LineHeightSpec
	base         markup.Style
	caption      string
	captionSize  float64
	captionStyle markup.Style
	shadow       bool
	transform    layout.Transform
}

func defaultSettings() settings {
	return settings{
		aspect:      layout.AspectSquare,
		ink:         color.Black,
		font:        fonts.DefaultFamily,
		size:        layout.DefaultFontSize,
		lineHeight:  layout.LineHeightSpec{Kind: layout.LineHeightFactor, Factor: layout.DefaultLineHeightFactor},
		captionSize: DefaultCaptionSize,
		shadow:      true,
		transform:   layout.Identity(),
	}
}

func (s *settings) apply(a *dsl.Assignment, data any) error {
	raw := binding.Interpolate(a.Value.Text(), data)
	var err error
	switch a.Key {
	case "canvas", "aspect":
		s.aspect, err = layout.ParseAspect(raw)
	case "ink", "color":
		s.ink, err = compose.ParseInk(raw)
	case "font":
		s.font = strings.TrimSpace(raw)
	case "size":
		s.size, err = parsePixels(raw)
	case "line-height":
		spec, ok := layout.ParseLineHeight(raw)
		if !ok {
			err = fmt.Errorf("无法解析行高 %q", raw)
		}
		s.lineHeight = spec
	case "base":
		s.base, err = markup.ParseStyle(raw)
	case "caption", "author":
		s.caption = raw
	case "caption-size":
		s.captionSize, err = parsePixels(raw)
	case "caption-style":
		s.captionStyle, err = markup.ParseStyle(raw)
	case "shadow":
		s.shadow, err = parseSwitch(raw)
	case "transform":
		s.transform, err = parseTransform(a.Value)
	default:
		err = fmt.Errorf("未知属性")
	}
	if err != nil {
		return fmt.Errorf("%s: 属性 %s 无效: %w", a.Pos, a.Key, err)
	}
	return nil
}

func (s settings) options() compose.Options {
	opts := compose.DefaultOptions(s.aspect)
	opts.Geometry = layout.NewGeometry(s.aspect, s.size)
	opts.Geometry.LineHeightFactor = s.lineHeight.FactorFor(s.size)
	opts.Transform = s.transform.Clamped()
	opts.Base = s.base
	opts.Ink = s.ink
	opts.FontFamily = s.font
	if strings.TrimSpace(s.caption) != "" {
		opts.Caption = &layout.Caption{Text: s.caption, Style: s.captionStyle, FontSize: s.captionSize}
	}
	if !s.shadow {
		opts.TextShadow = compose.NoShadow
		opts.CaptionShadow = compose.NoShadow
	}
	return opts
}

func parsePixels(raw string) (float64, error) {
	l, ok := layout.ParseLength(raw)
	if !ok || l.Value <= 0 {
		return 0, fmt.Errorf("无法解析尺寸 %q", raw)
	}
	return l.ToPX(), nil
}

func parseSwitch(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no", "none":
		return false, nil
	default:
		return false, fmt.Errorf("期望 on/off，得到 %q", raw)
	}
}

func parseTransform(v *dsl.Value) (layout.Transform, error) {
	fields := v.Fields()
	if fields == nil {
		return layout.Transform{}, fmt.Errorf("transform 需要 { x: y: scale: } 形式")
	}
	tr := layout.Identity()
	for key, val := range fields {
		f, err := strconv.ParseFloat(strings.TrimSuffix(val.Text(), "px"), 64)
		if err != nil {
			return layout.Transform{}, fmt.Errorf("transform.%s: %w", key, err)
		}
		switch key {
		case "x":
			tr.OffsetX = f
		case "y":
			tr.OffsetY = f
		case "scale":
			tr.Scale = f
		default:
			return layout.Transform{}, fmt.Errorf("transform 不支持字段 %s", key)
		}
	}
	return tr.Clamped(), nil
}
