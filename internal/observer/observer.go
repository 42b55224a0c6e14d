// Package observer delivers per-node import outcomes to their sinks.
package observer

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"paligo/taxonomy/internal/domain"
)

type Observer interface {
	Observe(ctx context.Context, outcome *domain.Outcome) error
}

// Func adapts a plain function to Observer
type Func func(ctx context.Context, outcome *domain.Outcome) error

func (f Func) Observe(ctx context.Context, outcome *domain.Outcome) error {
	return f(ctx, outcome)
}

type multi []Observer

// Multi fans an outcome out to every observer, in order. All observers are
// called even when one fails; the errors are joined.
func Multi(observers ...Observer) Observer {
	return multi(observers)
}

func (m multi) Observe(ctx context.Context, outcome *domain.Outcome) error {
	var errs []error
	for _, o := range m {
		if err := o.Observe(ctx, outcome); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type logObserver struct{}

// NewLogObserver reports outcomes on the console
func NewLogObserver() Observer {
	return logObserver{}
}

func (logObserver) Observe(_ context.Context, outcome *domain.Outcome) error {
	switch outcome.Status {
	case domain.OutcomeCreated:
		log.Infof("✅ Created: %s (ID: %s)", outcome.Title, outcome.ID)
	case domain.OutcomeFailed:
		log.Errorf("❌ Failed to create '%s': %d", outcome.Title, outcome.StatusCode)
		if outcome.Detail != "" {
			log.Error(outcome.Detail)
		}
		if outcome.Skipped > 0 {
			log.Warnf("⏭️ Skipped %d nodes below '%s'", outcome.Skipped, outcome.Path)
		}
	}
	return nil
}
