// Package reporting sends unexpected errors to Sentry. Without a DSN every
// call is a no-op.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/ehr/timeline/internal/platform/middleware"
)

type Reporter interface {
	Capture(ctx context.Context, err error, tags map[string]string)
	Flush(timeout time.Duration) bool
}

type Nop struct{}

func (Nop) Capture(context.Context, error, map[string]string) {}
func (Nop) Flush(time.Duration) bool                          { return true }

type SentryReporter struct {
	hub    *sentry.Hub
	logger zerolog.Logger
}

// New returns a Sentry reporter for dsn, or Nop when dsn is empty.
func New(dsn, env, release string, logger zerolog.Logger) (Reporter, error) {
	if dsn == "" {
		return Nop{}, nil
	}
	return newSentry(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
	}, logger)
}

func newSentry(opts sentry.ClientOptions, logger zerolog.Logger) (*SentryReporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("sentry client: %w", err)
	}
	return &SentryReporter{
		hub:    sentry.NewHub(client, sentry.NewScope()),
		logger: logger.With().Str("component", "reporting").Logger(),
	}, nil
}

// Capture sends err tagged with tags and the request id carried by ctx.
func (r *SentryReporter) Capture(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		if rid, ok := middleware.RequestIDFromContext(ctx); ok {
			scope.SetTag("request_id", rid)
		}
		if id := hub.CaptureException(err); id != nil {
			r.logger.Debug().Str("event_id", string(*id)).Msg("error reported")
		}
	})
}

func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}
