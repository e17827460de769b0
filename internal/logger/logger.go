// Package logger configures the process-wide slog logger.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Config struct {
	Level  string
	Format string // "console", "text", "json"
	File   string // append to this file instead of Output when set
	Output io.Writer
}

var (
	mu sync.Mutex
	lg *slog.Logger
)

var levelStyles = map[slog.Level]lipgloss.Style{
	slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

var keyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// New builds a logger without touching the default.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level := parseLevel(cfg.Level)
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	case "text":
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	default:
		handler = &consoleHandler{w: out, level: level}
	}
	return slog.New(handler)
}

// Init installs a logger built from cfg as the slog default. The returned
// func closes the log file, if one was opened.
func Init(cfg Config) (func() error, error) {
	closer := func() error { return nil }
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return closer, fmt.Errorf("open log file: %w", err)
		}
		cfg.Output = f
		closer = f.Close
	}

	mu.Lock()
	defer mu.Unlock()
	lg = New(cfg)
	slog.SetDefault(lg)
	return closer, nil
}

// Discard silences logging; used by full-screen UIs with no log file.
func Discard() {
	mu.Lock()
	defer mu.Unlock()
	lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	slog.SetDefault(lg)
}

func L() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if lg == nil {
		lg = New(Config{Level: "info"})
	}
	return lg
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// consoleHandler writes one short line per record:
//
//	12:00:00 INFO  run finished  frames=600 ke=1532.1
type consoleHandler struct {
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
	group string
	mu    sync.Mutex
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.Format(time.TimeOnly))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		b.WriteString(formatAttr(h.group, a))
	}
	r.Attrs(func(a slog.Attr) bool {
		b.WriteString(formatAttr(h.group, a))
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		w:     h.w,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
		group: h.group,
	}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	prefix := name
	if h.group != "" {
		prefix = h.group + "." + name
	}
	return &consoleHandler{
		w:     h.w,
		level: h.level,
		attrs: append([]slog.Attr{}, h.attrs...),
		group: prefix,
	}
}

func levelTag(l slog.Level) string {
	var tag string
	var key slog.Level
	switch {
	case l >= slog.LevelError:
		tag, key = "ERROR", slog.LevelError
	case l >= slog.LevelWarn:
		tag, key = "WARN ", slog.LevelWarn
	case l >= slog.LevelInfo:
		tag, key = "INFO ", slog.LevelInfo
	default:
		tag, key = "DEBUG", slog.LevelDebug
	}
	return levelStyles[key].Render(tag)
}

func formatAttr(group string, a slog.Attr) string {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	return fmt.Sprintf("  %s=%v", keyStyle.Render(key), a.Value)
}
