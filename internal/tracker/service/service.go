package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/cuongbtq/applog/internal/tracker/domain"
	"github.com/cuongbtq/applog/internal/tracker/events"
	"github.com/cuongbtq/applog/internal/tracker/validation"
)

// Option configures a service.
type Option func(*options)

type options struct {
	now           func() time.Time
	publisher     events.Publisher
	requireJobURL bool
}

func defaultOptions() options {
	return options{
		now:           time.Now,
		publisher:     events.Nop{},
		requireJobURL: true,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides the source of created_at, updated_at and note timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithPublisher sets where committed change events are sent.
func WithPublisher(p events.Publisher) Option {
	return func(o *options) {
		if p != nil {
			o.publisher = p
		}
	}
}

// WithRequireJobURL controls whether job_url is mandatory on create.
func WithRequireJobURL(required bool) Option {
	return func(o *options) { o.requireJobURL = required }
}

// timestamp returns the current time in UTC at the precision both stores keep.
func (o *options) timestamp() time.Time {
	return o.now().UTC().Truncate(time.Microsecond)
}

// notify publishes event once its mutation is durable. A failure cannot undo
// the commit, so it is logged and dropped.
func (o *options) notify(ctx context.Context, logger *slog.Logger, t events.Type, id int64, at time.Time) {
	event := events.New(t, id, at)
	if err := o.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish change event",
			slog.String("type", string(t)),
			slog.Int64("entity_id", id),
			slog.Any("error", err),
		)
	}
}

// failureLevel logs caller mistakes at WARN and store failures at ERROR.
func failureLevel(err error) slog.Level {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrValidation) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

func fieldNames(values validation.Fields) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
