package sentry

import (
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/getsentry/sentry-go"

	"music-hub/pkg/common/config"
)

// Reporter forwards operator-relevant failures to Sentry. A Reporter built
// without a DSN is a no-op, so callers never need a nil check.
type Reporter struct {
	initialized bool
}

func NewReporter(cfg config.SentryConfig, env string) *Reporter {
	if cfg.DSN == "" {
		hlog.Info("SENTRY_DSN not set, Sentry disabled")
		return &Reporter{}
	}

	environment := cfg.Environment
	if environment == "" {
		environment = env
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      environment,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		hlog.Errorf("Sentry initialization failed: %v", err)
		return &Reporter{}
	}

	hlog.Info("Sentry initialized successfully")
	return &Reporter{initialized: true}
}

func (r *Reporter) CaptureException(err error) {
	if r == nil || !r.initialized || err == nil {
		return
	}
	sentry.CaptureException(err)
}

func (r *Reporter) CaptureMessage(message string) {
	if r == nil || !r.initialized {
		return
	}
	sentry.CaptureMessage(message)
}

// RecoverValue reports a recovered panic value.
func (r *Reporter) RecoverValue(v interface{}) {
	if r == nil || !r.initialized {
		return
	}
	sentry.CurrentHub().Recover(v)
}

// Flush waits for buffered events; it returns true when Sentry is disabled.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if r == nil || !r.initialized {
		return true
	}
	return sentry.Flush(timeout)
}
