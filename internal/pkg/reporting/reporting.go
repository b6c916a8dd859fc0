// Package reporting forwards server-side failures to Sentry when a DSN is configured.
// Every function is a no-op otherwise.
package reporting

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"hooklog/internal/platform/config"
)

var enabled atomic.Bool

func Init(cfg config.SentryConfig, release string) error {
	if cfg.DSN == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		SampleRate:       cfg.SampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return err
	}

	enabled.Store(true)
	return nil
}

func Enabled() bool {
	return enabled.Load()
}

func CaptureError(r *http.Request, err error) {
	if !enabled.Load() || err == nil {
		return
	}
	hub := requestHub(r)
	hub.CaptureException(err)
}

func CapturePanic(r *http.Request, v any) {
	if !enabled.Load() {
		return
	}
	hub := requestHub(r)
	hub.Recover(v)
}

func Flush(timeout time.Duration) {
	if enabled.Load() {
		sentry.Flush(timeout)
	}
}

func requestHub(r *http.Request) *sentry.Hub {
	hub := sentry.CurrentHub().Clone()
	if r != nil {
		hub.Scope().SetRequest(r)
	}
	return hub
}
