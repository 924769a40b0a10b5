package loyalty

import (
	"context"
	"errors"
)

// Sink receives credits. Implementations must be safe to call from the
// dispatcher goroutine.
type Sink interface {
	Credit(ctx context.Context, c Credit) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, c Credit) error

// Credit calls f.
func (f SinkFunc) Credit(ctx context.Context, c Credit) error {
	return f(ctx, c)
}

// Fanout delivers every credit to each sink in order and joins the errors.
type Fanout []Sink

// Credit implements Sink.
func (f Fanout) Credit(ctx context.Context, c Credit) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Credit(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
