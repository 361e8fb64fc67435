// Package slogutil provides the slog handler and logger constructors used by apidiff.
package slogutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
	"unicode"
)

// RunKey is the attribute carrying the id of one comparison run. Handler
// renders it as a line prefix rather than in the key=value tail.
const RunKey = "run"

// runIDLen is how much of a run id the prefix shows.
const runIDLen = 8

const timeFormat = "15:04:05.000"

// Handler is the human log format of apidiff:
//
//	15:04:05.000 [info] [run 1a2b3c4d] Compiling old package | package=/src/v1
//
// Values with spaces or quotes are quoted. Groups become dotted key prefixes.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	run    string
	group  string // "a.b." for WithGroup("a").WithGroup("b")
	preset []byte // pre-rendered WithAttrs pairs
}

// NewHandler creates a handler writing to w. Only opts.Level is honored.
func NewHandler(w io.Writer, opts *slog.HandlerOptions) *Handler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &Handler{mu: &sync.Mutex{}, w: w, level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the log record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	run := h.run
	tail := append([]byte(nil), h.preset...)
	r.Attrs(func(a slog.Attr) bool {
		if id, ok := h.runID(a); ok {
			run = id
			return true
		}
		tail = appendAttr(tail, h.group, a)
		return true
	})

	buf := make([]byte, 0, 64+len(r.Message)+len(tail))
	if !r.Time.IsZero() {
		buf = r.Time.AppendFormat(buf, timeFormat)
		buf = append(buf, ' ')
	}
	buf = append(buf, '[')
	buf = append(buf, levelString(r.Level)...)
	buf = append(buf, "] "...)
	if run != "" {
		buf = append(buf, "[run "...)
		buf = append(buf, shortRun(run)...)
		buf = append(buf, "] "...)
	}
	buf = append(buf, r.Message...)
	if len(tail) > 0 {
		buf = append(buf, " |"...)
		buf = append(buf, tail...)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs returns a handler that renders attrs on every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.preset = append([]byte(nil), h.preset...)
	for _, a := range attrs {
		if id, ok := h.runID(a); ok {
			h2.run = id
			continue
		}
		h2.preset = appendAttr(h2.preset, h.group, a)
	}
	return &h2
}

// WithGroup returns a handler that prefixes later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = h.group + name + "."
	return &h2
}

// runID reports whether a is the top-level run attribute.
func (h *Handler) runID(a slog.Attr) (string, bool) {
	if h.group != "" || a.Key != RunKey {
		return "", false
	}
	return a.Value.Resolve().String(), true
}

// appendAttr writes " key=value" for a, flattening group values under prefix.
func appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			buf = appendAttr(buf, prefix, ga)
		}
		return buf
	}
	if a.Key == "" {
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	return append(buf, formatValue(a.Value)...)
}

func shortRun(id string) string {
	if len(id) > runIDLen {
		return id[:runIDLen]
	}
	return id
}

func levelString(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "debug"
	case level < slog.LevelWarn:
		return "info"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindString:
		s = v.String()
	default:
		s = fmt.Sprint(v.Any())
	}
	if needsQuoting(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r) {
			return true
		}
	}
	return false
}
