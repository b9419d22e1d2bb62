package db

import (
	"context"
	"time"

	"github.com/jobly/jobly-api/log"
)

// Hook is called around every statement. Implementations must be safe for
// concurrent use.
type Hook interface {
	BeforeQuery(ctx context.Context, query string, args []interface{})
	// AfterQuery receives the already mapped error, nil on success
	AfterQuery(ctx context.Context, query string, args []interface{}, duration time.Duration, err error)
}

type hookChain struct {
	hooks  []Hook
	logger log.Logger
}

func newHookChain(hooks []Hook, logger log.Logger) hookChain {
	filtered := make([]Hook, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			filtered = append(filtered, h)
		}
	}
	return hookChain{hooks: filtered, logger: logger}
}

func (c hookChain) Before(ctx context.Context, query string, args []interface{}) {
	for _, h := range c.hooks {
		c.safely(func() { h.BeforeQuery(ctx, query, args) })
	}
}

func (c hookChain) After(ctx context.Context, query string, args []interface{}, d time.Duration, err error) {
	for _, h := range c.hooks {
		c.safely(func() { h.AfterQuery(ctx, query, args, d, err) })
	}
}

func (c hookChain) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil && c.logger != nil {
			c.logger.Error("database hook panicked", "panic", r)
		}
	}()
	fn()
}

// LogHookConfig configures NewLogHook
type LogHookConfig struct {
	// SlowQueryThreshold logs statements slower than this at warn level. Zero disables it.
	SlowQueryThreshold time.Duration
	// LogArgs includes the bound values, which may contain credentials
	LogArgs bool
}

// NewLogHook returns a Hook that logs every statement at debug level and every failure at error level
func NewLogHook(logger log.Logger, cfg LogHookConfig) Hook {
	return &logHook{logger: logger, cfg: cfg}
}

type logHook struct {
	logger log.Logger
	cfg    LogHookConfig
}

func (h *logHook) BeforeQuery(context.Context, string, []interface{}) {}

func (h *logHook) AfterQuery(_ context.Context, query string, args []interface{}, d time.Duration, err error) {
	keyAndValues := []interface{}{"query", trimQuery(query), "duration", d}
	if h.cfg.LogArgs && len(args) > 0 {
		keyAndValues = append(keyAndValues, "args", args)
	}

	switch {
	case err != nil && !IsNotFound(err):
		h.logger.Error("query failed", append(keyAndValues, "error", err)...)
	case h.cfg.SlowQueryThreshold > 0 && d > h.cfg.SlowQueryThreshold:
		h.logger.Warn("slow query", keyAndValues...)
	default:
		h.logger.Debug("query executed", keyAndValues...)
	}
}

func trimQuery(query string) string {
	if len(query) > 500 {
		return query[:500] + "..."
	}
	return query
}
