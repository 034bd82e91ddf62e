// Package source 负责把图片引用解码为 image.Image。
package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "golang.org/x/image/webp"
)

// DefaultRetryDelay 为读取失败后两次重试之间的间隔。
const DefaultRetryDelay = 200 * time.Millisecond

// MaxRetries bounds how often a transient read failure is retried.
const MaxRetries = 4

// ErrEmptyRef is returned for a blank image reference.
var ErrEmptyRef = errors.New("图片引用为空")

// Loader 从本地文件读取背景图。相对路径以 Dir 为基准。
type Loader struct {
	Dir        string
	RetryDelay time.Duration

	open func(name string) (*os.File, error)
}

func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir, RetryDelay: DefaultRetryDelay, open: os.Open}
}

// Resolve returns the file path ref points to.
func (l *Loader) Resolve(ref string) string {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "file://")
	if filepath.IsAbs(ref) || l.Dir == "" {
		return ref
	}
	return filepath.Join(l.Dir, ref)
}

// Load 读取并解码 ref 指向的图片。文件不存在或无法解码属于永久错误；
// 其余读取错误按固定间隔重试，最多 MaxRetries 次。
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, ErrEmptyRef
	}
	path := l.Resolve(ref)
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(l.RetryDelay), MaxRetries), ctx)

	img, err := backoff.RetryWithData(func() (image.Image, error) {
		return l.decode(path)
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("加载图片 %s 失败: %w", ref, err)
	}
	return img, nil
}

func (l *Loader) decode(path string) (image.Image, error) {
	open := l.open
	if open == nil {
		open = os.Open
	}
	f, err := open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("无法解码图片: %w", err))
	}
	if b := img.Bounds(); b.Empty() {
		return nil, backoff.Permanent(fmt.Errorf("%s 图片尺寸为空", format))
	}
	return img, nil
}
