// Package batch renders many notes concurrently and writes them to disk.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ByLCY/inkframe/compose"
	"github.com/ByLCY/inkframe/layout"
	"github.com/ByLCY/inkframe/renderer"
	"github.com/ByLCY/inkframe/scene"
)

// Status 是单个条目的处理阶段。
type Status int

const (
	StatusPending Status = iota
	StatusLoading
	StatusDrawing
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoading:
		return "loading"
	case StatusDrawing:
		return "drawing"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ImageLoader resolves a background reference to a decoded image.
type ImageLoader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// Item 记录一个任务的结果；Output 为写出的文件路径。
type Item struct {
	Job     scene.Job
	Status  Status
	Output  string
	Preview string
	Plan    *layout.Plan
	Err     error
}

// Runner 在有界的 goroutine 池中执行任务。每个任务使用自己的表面。
type Runner struct {
	Backend renderer.Backend
	Loader  ImageLoader
	Workers int
	OutDir  string
	Prefix  string
	Format  compose.Format

	// PreviewSide > 0 additionally writes a downscaled copy next to each output.
	PreviewSide int

	// Progress, when set, is called after every status change. Calls may come
	// from several goroutines at once.
	Progress func(Item)
}

// OutputName 生成 <prefix>_<n>_<比例>.<ext>，n 从 1 开始。
func OutputName(prefix string, index int, aspect layout.AspectRatio, format compose.Format) string {
	if prefix == "" {
		prefix = "note"
	}
	ext := "png"
	if format == compose.FormatJPEG {
		ext = "jpg"
	}
	return fmt.Sprintf("%s_%d_%s.%s", prefix, index+1, aspect.Slug(), ext)
}

// Run 渲染全部任务并按输入顺序返回结果。单个任务失败不会中断其他任务；
// ctx 取消后尚未开始的任务标记为失败。返回的 error 汇总所有失败。
func (r *Runner) Run(ctx context.Context, jobs []scene.Job) ([]Item, error) {
	if r.Backend == nil || r.Loader == nil {
		return nil, fmt.Errorf("batch 需要 Backend 与 Loader")
	}
	if r.OutDir != "" {
		if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	items := make([]Item, len(jobs))
	for i, job := range jobs {
		items[i] = Item{Job: job, Status: StatusPending}
	}

	queue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				r.runOne(ctx, &items[i])
			}
		}()
	}

feed:
	for i := range items {
		select {
		case <-ctx.Done():
			break feed
		case queue <- i:
		}
	}
	close(queue)
	wg.Wait()

	var errs []error
	for i := range items {
		if items[i].Status == StatusPending {
			r.fail(&items[i], ctx.Err())
		}
		if items[i].Err != nil {
			errs = append(errs, fmt.Errorf("第 %d 项: %w", i+1, items[i].Err))
		}
	}
	return items, errors.Join(errs...)
}

func (r *Runner) runOne(ctx context.Context, it *Item) {
	if err := ctx.Err(); err != nil {
		r.fail(it, err)
		return
	}
	r.set(it, StatusLoading)
	bg, err := r.Loader.Load(ctx, it.Job.Source)
	if err != nil {
		r.fail(it, err)
		return
	}

	r.set(it, StatusDrawing)
	img, plan, err := compose.RenderPlan(r.Backend, bg, it.Job.Text, it.Job.Options)
	if err != nil {
		r.fail(it, err)
		return
	}
	it.Plan = plan
	name := OutputName(r.Prefix, it.Job.Index, it.Job.Aspect, r.Format)
	path := filepath.Join(r.OutDir, name)
	if err := writeImage(path, img, r.Format); err != nil {
		r.fail(it, err)
		return
	}
	it.Output = path
	if r.PreviewSide > 0 {
		ext := filepath.Ext(name)
		preview := filepath.Join(r.OutDir, strings.TrimSuffix(name, ext)+"_preview"+ext)
		if err := writeImage(preview, compose.Downscale(img, r.PreviewSide), r.Format); err != nil {
			r.fail(it, err)
			return
		}
		it.Preview = preview
	}
	r.set(it, StatusDone)
	log.Printf("已生成 %s", path)
}

func (r *Runner) set(it *Item, s Status) {
	it.Status = s
	if r.Progress != nil {
		r.Progress(*it)
	}
}

func (r *Runner) fail(it *Item, err error) {
	it.Err = err
	log.Printf("第 %d 项渲染失败: %v", it.Job.Index+1, err)
	r.set(it, StatusError)
}

func writeImage(path string, img image.Image, format compose.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	if err := compose.Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}
