package workflow

import (
	"context"
	"errors"

	domainwf "github.com/garyjia/payroll-console/internal/domain/workflow"
)

// Fetch runs load through the fetch lifecycle and returns the final state
func Fetch(ctx context.Context, load func(ctx context.Context) error) (domainwf.State, error) {
	sm := domainwf.NewFetchMachine()
	if err := sm.Fire(ctx, domainwf.TriggerLoad); err != nil {
		return sm.State(), err
	}

	if err := load(ctx); err != nil {
		_ = sm.Fire(ctx, domainwf.TriggerFail)
		return sm.State(), err
	}

	_ = sm.Fire(ctx, domainwf.TriggerSucceed)
	return sm.State(), nil
}

// Submitter runs modal submissions. Submissions for the same key never overlap.
type Submitter struct {
	inflight *InFlight
}

// NewSubmitter creates a Submitter backed by guard
func NewSubmitter(guard *InFlight) *Submitter {
	if guard == nil {
		guard = NewInFlight()
	}
	return &Submitter{inflight: guard}
}

// Submit runs action for key starting from an open modal. The returned state
// is CLOSED on success and OPEN when the action failed or key was busy.
func (s *Submitter) Submit(ctx context.Context, key string, action func(ctx context.Context) error) (domainwf.State, error) {
	var release func()
	sm := domainwf.NewModalMachine(domainwf.StateOpen, func(ctx context.Context) bool {
		r, ok := s.inflight.Acquire(key)
		release = r
		return ok
	})

	if err := sm.Fire(ctx, domainwf.TriggerSubmit); err != nil {
		if errors.Is(err, domainwf.ErrGuardFailed) {
			return sm.State(), ErrInFlight
		}
		return sm.State(), err
	}
	defer release()

	if err := action(ctx); err != nil {
		_ = sm.Fire(ctx, domainwf.TriggerFail)
		return sm.State(), err
	}

	_ = sm.Fire(ctx, domainwf.TriggerComplete)
	return sm.State(), nil
}

// Busy reports whether key has a submission in progress
func (s *Submitter) Busy(key string) bool {
	return s.inflight.Busy(key)
}
