package logger

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestHandler(buf *bytes.Buffer, cfg Config) slog.Handler {
	cfg.process()
	base := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: cfg.level})
	return newFilteringHandler(base, &cfg)
}

func record(msg, tag string) slog.Record {
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])
	r := slog.NewRecord(time.Now(), slog.LevelInfo, msg, pcs[0])
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	return r
}

func TestFilteringHandlerTags(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(&buf, Config{LogLevel: "debug", DisabledTags: []string{"Flash"}})

	_ = h.Handle(context.Background(), record("dropped", "flash"))
	_ = h.Handle(context.Background(), record("kept", "quiet"))
	_ = h.Handle(context.Background(), record("untagged", ""))

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "untagged")
}

func TestFilteringHandlerEnabledTagsDropUntagged(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(&buf, Config{LogLevel: "debug", EnabledTags: []string{"jump"}})

	_ = h.Handle(context.Background(), record("untagged", ""))
	_ = h.Handle(context.Background(), record("other", "quiet"))
	_ = h.Handle(context.Background(), record("wanted", "jump"))

	out := buf.String()
	assert.NotContains(t, out, "untagged")
	assert.NotContains(t, out, "other")
	assert.Contains(t, out, "wanted")
}

func TestFilteringHandlerPackages(t *testing.T) {
	var buf bytes.Buffer
	// Records built in this file originate from the "logger" directory.
	h := newTestHandler(&buf, Config{LogLevel: "debug", DisabledPackages: []string{"logger"}})
	_ = h.Handle(context.Background(), record("from logger", ""))
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("err"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestFilterAdmits(t *testing.T) {
	open := newFilter(nil, []string{"Noisy"})
	assert.True(t, open.admits("flash"))
	assert.False(t, open.admits("noisy"))
	assert.False(t, open.restrictive())

	only := newFilter([]string{"jump", "noisy"}, []string{"noisy"})
	assert.True(t, only.admits("jump"))
	assert.False(t, only.admits("noisy"), "deny overrides allow")
	assert.False(t, only.admits("other"))
	assert.True(t, only.restrictive())
}
