package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"intranet-portal-backend/pkg/config"
)

// LogBuild 构建 zerolog 日志实例
type LogBuild struct {
	writer io.Writer
	level  zerolog.Level
	pretty bool
}

// New 创建日志构建器（默认输出到 stdout，info 级别）
func New() *LogBuild {
	return &LogBuild{writer: os.Stdout, level: zerolog.InfoLevel}
}

// FromBuffer 指定输出目标
func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// WithLevel 设置日志级别，无法识别时保持原值
func (build *LogBuild) WithLevel(level string) *LogBuild {
	if lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && level != "" {
		build.level = lvl
	}
	return build
}

// Pretty 开发环境使用彩色控制台输出
func (build *LogBuild) Pretty(pretty bool) *LogBuild {
	build.pretty = pretty
	return build
}

// Make 生成 zerolog.Logger
func (build *LogBuild) Make() zerolog.Logger {
	w := build.writer
	if w == nil {
		w = os.Stdout
	}
	if build.pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(build.level).With().Timestamp().Logger()
}

var (
	rootLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	rootMu     sync.RWMutex
)

// FromConfig builds the process logger from cfg and installs it as the root logger.
func FromConfig(cfg *config.Config) zerolog.Logger {
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	l := New().WithLevel(level).Pretty(cfg.IsDevelopment()).Make()
	SetRoot(l)
	return l
}

// SetRoot replaces the root logger.
func SetRoot(l zerolog.Logger) {
	rootMu.Lock()
	rootLogger = l
	rootMu.Unlock()
}

// L returns the root logger.
func L() zerolog.Logger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	return rootLogger
}

// Nop returns a disabled logger, handy in tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
