package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// charm logger. The CLI registers it so that -v shows API and cache traffic.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log to l. A nil logger uses log.Default().
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l}
}

// Register installs h as the widget, cache and HTTP hooks.
func (h *LogHooks) Register() {
	SetWidgetHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnFetchStart(context.Context) {
	h.logger.Debug("fetching categories")
}

func (h *LogHooks) OnFetchComplete(_ context.Context, n int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "err", err, "duration", d.Round(time.Millisecond))
		return
	}
	h.logger.Debug("fetched categories", "count", n, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnRedraw(_ context.Context, leaves int, w, hgt float64) {
	h.logger.Debug("redraw", "leaves", leaves, "width", w, "height", hgt)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path,
		"status", status, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ WidgetHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
