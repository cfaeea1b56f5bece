package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline, cache and HTTP events to a logger at debug level.
// Failures are logged at warn level. The CLI registers it for --verbose.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, strategy string, components int) {
	h.logger.Debug("layout started", "strategy", strategy, "components", components)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, strategy string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "strategy", strategy, "duration", d, "err", err)
		return
	}
	h.logger.Debug("layout complete", "strategy", strategy, "duration", d)
}

func (h *LogHooks) OnRouteComplete(_ context.Context, wires, issues int) {
	h.logger.Debug("routing complete", "wires", wires, "dropped", issues)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render started", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "format", format, "duration", d, "err", err)
		return
	}
	h.logger.Debug("render complete", "format", format, "bytes", size, "duration", d)
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

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
