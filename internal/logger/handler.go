package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// tagKey is the attribute the *Tagf helpers attach to a record.
const tagKey = "tag"

// filter is an allow/deny pair over lower-cased names. A nil allow set
// admits every name that is not denied.
type filter struct {
	allow map[string]struct{}
	deny  map[string]struct{}
}

func newFilter(allow, deny []string) filter {
	return filter{allow: sliceToSet(allow), deny: sliceToSet(deny)}
}

func (f filter) admits(name string) bool {
	if _, denied := f.deny[name]; denied {
		return false
	}
	if f.allow == nil {
		return true
	}
	_, ok := f.allow[name]
	return ok
}

// restrictive reports whether only listed names pass.
func (f filter) restrictive() bool { return f.allow != nil }

// tagFilterHandler drops records whose tag or source package is filtered out
// and hands the rest to next.
type tagFilterHandler struct {
	next slog.Handler
	cfg  *Config
}

func newFilteringHandler(next slog.Handler, cfg *Config) slog.Handler {
	return &tagFilterHandler{next: next, cfg: cfg}
}

func (h *tagFilterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *tagFilterHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg != nil && !h.keep(r) {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *tagFilterHandler) keep(r slog.Record) bool {
	if pkg, ok := sourcePackage(r.PC); ok && !h.cfg.packages.admits(pkg) {
		return false
	}
	tag, ok := recordTag(r)
	if !ok {
		// Asking for specific tags hides untagged messages.
		return !h.cfg.tags.restrictive()
	}
	return h.cfg.tags.admits(tag)
}

func (h *tagFilterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newFilteringHandler(h.next.WithAttrs(attrs), h.cfg)
}

func (h *tagFilterHandler) WithGroup(name string) slog.Handler {
	return newFilteringHandler(h.next.WithGroup(name), h.cfg)
}

// sourcePackage names the directory of the file that logged at pc.
func sourcePackage(pc uintptr) (string, bool) {
	if pc == 0 {
		return "", false
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return "", false
	}
	return strings.ToLower(filepath.Base(filepath.Dir(frame.File))), true
}

func recordTag(r slog.Record) (tag string, found bool) {
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != tagKey {
			return true
		}
		tag, found = strings.ToLower(a.Value.String()), true
		return false
	})
	return tag, found
}
