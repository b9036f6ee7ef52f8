package workflow

// NewFetchMachine returns a machine for one page fetch, starting idle.
func NewFetchMachine() StateMachine {
	b := NewBuilder(fetchStates...)
	b.Configure(StateIdle).
		Permit(TriggerLoad, StateLoading)
	b.Configure(StateLoading).
		Permit(TriggerSucceed, StateSuccess).
		Permit(TriggerFail, StateError)
	return b.Build(StateIdle)
}

// NewModalMachine returns a machine for a create/approve/reject modal.
// A failed submission returns to OPEN so the user can correct the input.
// canSubmit may be nil.
func NewModalMachine(initial State, canSubmit GuardFunc) StateMachine {
	b := NewBuilder(modalStates...)
	b.Configure(StateClosed).
		Permit(TriggerOpen, StateOpen)
	b.Configure(StateOpen).
		PermitIf(TriggerSubmit, StateSubmitting, canSubmit).
		Permit(TriggerCancel, StateClosed)
	b.Configure(StateSubmitting).
		Permit(TriggerComplete, StateClosed).
		Permit(TriggerFail, StateOpen)
	return b.Build(initial)
}
