package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateIdle, false},
		{StateLoading, false},
		{StateError, true},
		{StateSuccess, true},
		{StateOpen, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFetchMachine(t *testing.T) {
	ctx := context.Background()

	t.Run("success path", func(t *testing.T) {
		sm := NewFetchMachine()
		if sm.State() != StateIdle {
			t.Fatalf("initial state = %v, want %v", sm.State(), StateIdle)
		}
		if err := sm.Fire(ctx, TriggerLoad); err != nil {
			t.Fatalf("Fire(LOAD) error = %v", err)
		}
		if err := sm.Fire(ctx, TriggerSucceed); err != nil {
			t.Fatalf("Fire(SUCCEED) error = %v", err)
		}
		if sm.State() != StateSuccess {
			t.Errorf("state = %v, want %v", sm.State(), StateSuccess)
		}
	})

	t.Run("error is terminal", func(t *testing.T) {
		sm := NewFetchMachine()
		_ = sm.Fire(ctx, TriggerLoad)
		if err := sm.Fire(ctx, TriggerFail); err != nil {
			t.Fatalf("Fire(FAIL) error = %v", err)
		}
		if sm.CanFire(TriggerLoad) {
			t.Error("expected LOAD not to be permitted after an error")
		}
		err := sm.Fire(ctx, TriggerLoad)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Fire(LOAD) error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("cannot succeed before loading", func(t *testing.T) {
		sm := NewFetchMachine()
		if err := sm.Fire(ctx, TriggerSucceed); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Fire(SUCCEED) error = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestModalMachine(t *testing.T) {
	ctx := context.Background()

	t.Run("open submit complete", func(t *testing.T) {
		sm := NewModalMachine(StateClosed, nil)
		for _, trig := range []Trigger{TriggerOpen, TriggerSubmit, TriggerComplete} {
			if err := sm.Fire(ctx, trig); err != nil {
				t.Fatalf("Fire(%s) error = %v", trig, err)
			}
		}
		if sm.State() != StateClosed {
			t.Errorf("state = %v, want %v", sm.State(), StateClosed)
		}
	})

	t.Run("failed submit stays open", func(t *testing.T) {
		sm := NewModalMachine(StateOpen, nil)
		_ = sm.Fire(ctx, TriggerSubmit)
		if err := sm.Fire(ctx, TriggerFail); err != nil {
			t.Fatalf("Fire(FAIL) error = %v", err)
		}
		if sm.State() != StateOpen {
			t.Errorf("state = %v, want %v", sm.State(), StateOpen)
		}
	})

	t.Run("no double submit", func(t *testing.T) {
		sm := NewModalMachine(StateOpen, nil)
		_ = sm.Fire(ctx, TriggerSubmit)
		if sm.CanFire(TriggerSubmit) {
			t.Error("expected SUBMIT not to be permitted while submitting")
		}
	})

	t.Run("cancel closes", func(t *testing.T) {
		sm := NewModalMachine(StateOpen, nil)
		if err := sm.Fire(ctx, TriggerCancel); err != nil {
			t.Fatalf("Fire(CANCEL) error = %v", err)
		}
		if sm.State() != StateClosed {
			t.Errorf("state = %v, want %v", sm.State(), StateClosed)
		}
	})
}

func TestModalMachine_SubmitGuard(t *testing.T) {
	sm := NewModalMachine(StateOpen, func(ctx context.Context) bool { return false })
	err := sm.Fire(context.Background(), TriggerSubmit)
	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire(SUBMIT) error = %v, want ErrGuardFailed", err)
	}
	if sm.State() != StateOpen {
		t.Errorf("state = %v, want %v", sm.State(), StateOpen)
	}
}

func TestBuilder_Guards(t *testing.T) {
	ctx := context.Background()
	allowed := false

	b := NewBuilder(StateClosed, StateOpen)
	b.Configure(StateClosed).
		PermitIf(TriggerOpen, StateOpen, func(ctx context.Context) bool { return allowed })
	sm := b.Build(StateClosed)

	if err := sm.Fire(ctx, TriggerOpen); !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire() error = %v, want ErrGuardFailed", err)
	}

	allowed = true
	if err := sm.Fire(ctx, TriggerOpen); err != nil {
		t.Errorf("Fire() error = %v", err)
	}
	if len(sm.PermittedTriggers()) != 0 {
		t.Errorf("PermittedTriggers() = %v, want none", sm.PermittedTriggers())
	}
}

func TestBuilder_PanicsOnUnknownState(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for state outside the builder's set")
		}
	}()
	NewBuilder(StateIdle).Configure(StateOpen)
}
