package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/ridge/must/v2"

	"github.com/ByLCY/inkframe/batch"
	"github.com/ByLCY/inkframe/binding"
	"github.com/ByLCY/inkframe/compose"
	"github.com/ByLCY/inkframe/env"
	"github.com/ByLCY/inkframe/fonts"
	"github.com/ByLCY/inkframe/layout"
	"github.com/ByLCY/inkframe/renderer"
	canvasrenderer "github.com/ByLCY/inkframe/renderer/canvas"
	ggrenderer "github.com/ByLCY/inkframe/renderer/gg"
	"github.com/ByLCY/inkframe/scene"
	"github.com/ByLCY/inkframe/source"
)

// previewSide 为预览图的最长边（像素）。
const previewSide = 480

type config struct {
	input    string
	output   string
	format   string
	data     any
	backend  string
	fontDir  string
	workers  int
	preview  bool
	debug    string
	images   string
	phrases  string
	author   string
	aspect   string
	inkColor string
}

func main() {
	env.Load()

	input := flag.String("in", "", "场景文件路径")
	output := flag.String("out", "output", "图片输出目录")
	format := flag.String("format", "png", "输出格式 png|jpeg")
	dataJSON := flag.String("data", "", "绑定到场景文件的 JSON 数据")
	backend := flag.String("backend", env.StringVariable(env.Backend, "canvas"), "渲染后端 canvas|gg")
	fontDir := flag.String("fonts", env.StringVariable(env.FontDir, ""), "额外字体目录（<族名>-Regular.ttf 等），embed: 表示内置字体")
	workers := flag.Int("workers", must.OK1(env.IntVariable(env.Workers, 4)), "并发渲染数")
	preview := flag.Bool("preview", false, "同时输出缩小的预览图")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	images := flag.String("images", "", "批量模式：每行一个图片路径的文件")
	phrases := flag.String("phrases", "", "批量模式：每行一句文字的文件")
	author := flag.String("author", "", "批量模式：所有图片共用的署名")
	aspect := flag.String("aspect", "1:1", "批量模式：画布比例 1:1|9:16")
	ink := flag.String("ink", "black", "批量模式：墨水颜色（预设名或 #hex）")
	flag.Parse()

	cfg := config{
		input: *input, output: *output, format: *format, backend: *backend, fontDir: *fontDir,
		workers: *workers, preview: *preview, debug: *debug, images: *images, phrases: *phrases,
		author: *author, aspect: *aspect, inkColor: *ink,
	}
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &cfg.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	reg := fonts.NewRegistry()
	if cfg.fontDir != "" {
		names := must.OK1(reg.LoadAll(cfg.fontDir))
		log.Printf("已加载字体族: %s", strings.Join(names, ", "))
	}
	b, err := newBackend(cfg.backend, reg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n, err := run(ctx, cfg, b)
	if err != nil {
		log.Fatalf("生成图片失败: %v", err)
	}
	fmt.Printf("已生成 %d 张图片：%s\n", n, cfg.output)
}

func newBackend(name string, reg *fonts.Registry) (renderer.Backend, error) {
	switch strings.ToLower(name) {
	case "", "canvas":
		return canvasrenderer.NewBackend(reg), nil
	case "gg":
		return ggrenderer.NewBackend(reg), nil
	default:
		return nil, fmt.Errorf("未知渲染后端 %q", name)
	}
}

// run 串联任务生成、加载、合成与写出，返回成功生成的图片数。
func run(ctx context.Context, cfg config, b renderer.Backend) (int, error) {
	jobs, prefix, baseDir, err := loadJobs(cfg)
	if err != nil {
		return 0, err
	}
	if len(jobs) == 0 {
		return 0, fmt.Errorf("没有需要渲染的内容")
	}

	runner := &batch.Runner{
		Backend: b,
		Loader:  source.NewLoader(baseDir),
		Workers: cfg.workers,
		OutDir:  cfg.output,
		Prefix:  prefix,
		Format:  compose.Format(strings.ToLower(cfg.format)),
	}
	if runner.Format == "jpg" {
		runner.Format = compose.FormatJPEG
	}
	if cfg.preview {
		runner.PreviewSide = previewSide
	}
	items, runErr := runner.Run(ctx, jobs)

	done := 0
	var plans []*layout.Plan
	for _, it := range items {
		if it.Status == batch.StatusDone {
			done++
		}
		if it.Plan != nil {
			plans = append(plans, it.Plan)
		}
	}
	if cfg.debug != "" {
		if err := writeDebug(plans, cfg.debug); err != nil {
			return done, err
		}
	}
	return done, runErr
}

// loadJobs 从场景文件或批量模式的两个列表文件生成任务。
func loadJobs(cfg config) (jobs []scene.Job, prefix, baseDir string, err error) {
	if cfg.images != "" || cfg.phrases != "" {
		return bulkJobs(cfg)
	}
	if cfg.input == "" {
		return nil, "", "", fmt.Errorf("需要 -in 场景文件，或 -images 与 -phrases")
	}
	sc, err := scene.Load(cfg.input, cfg.data)
	if err != nil {
		return nil, "", "", err
	}
	for _, j := range sc.Jobs {
		for _, missing := range missingBindings(j, cfg.data) {
			log.Printf("第 %d 条便签: 数据中缺少 %s", j.Index+1, missing)
		}
	}
	return sc.Jobs, sc.Name, filepath.Dir(cfg.input), nil
}

func bulkJobs(cfg config) ([]scene.Job, string, string, error) {
	images, err := readLines(cfg.images)
	if err != nil {
		return nil, "", "", err
	}
	phrases, err := readLines(cfg.phrases)
	if err != nil {
		return nil, "", "", err
	}
	pairs, warning := batch.Pair(images, phrases)
	if warning != "" {
		log.Print(warning)
	}
	aspect, err := layout.ParseAspect(cfg.aspect)
	if err != nil {
		return nil, "", "", err
	}
	base := compose.DefaultOptions(aspect)
	if base.Ink, err = compose.ParseInk(cfg.inkColor); err != nil {
		return nil, "", "", err
	}
	return batch.Jobs(pairs, aspect, cfg.author, base), "resultado", filepath.Dir(cfg.images), nil
}

func readLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("批量模式需要同时提供 -images 与 -phrases")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	return batch.SplitLines(string(raw)), nil
}

func missingBindings(j scene.Job, data any) []string {
	var out []string
	out = append(out, binding.Missing(j.Text, data)...)
	out = append(out, binding.Missing(j.Source, data)...)
	if j.Options.Caption != nil {
		out = append(out, binding.Missing(j.Options.Caption.Text, data)...)
	}
	return out
}

func writeDebug(plans []*layout.Plan, debugPath string) error {
	if dir := filepath.Dir(debugPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}
	if err := layout.WriteDebugJSON(plans, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
