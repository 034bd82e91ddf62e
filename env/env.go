// Package env reads runtime settings from the process environment and an
// optional .env file.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// 支持的环境变量。
const (
	Backend = "INKFRAME_BACKEND"
	FontDir = "INKFRAME_FONT_DIR"
	Workers = "INKFRAME_WORKERS"
)

// Load 读取 .env（或给定文件）；已存在的环境变量不会被覆盖。
func Load(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("未找到 .env 文件，使用进程环境变量")
			return
		}
		log.Printf("读取 .env 失败: %v", err)
	}
}

// StringVariable returns the value of name or def when it is unset or empty.
func StringVariable(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// IntVariable 返回整数形式的环境变量；未设置时返回 def。
func IntVariable(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("环境变量 %s 必须是整数，得到 %q", name, v)
	}
	return n, nil
}
