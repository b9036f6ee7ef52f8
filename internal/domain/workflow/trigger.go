package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

// Fetch triggers
const (
	TriggerLoad    Trigger = "LOAD"
	TriggerSucceed Trigger = "SUCCEED"
	TriggerFail    Trigger = "FAIL"
)

// Modal triggers
const (
	TriggerOpen     Trigger = "OPEN"
	TriggerSubmit   Trigger = "SUBMIT"
	TriggerComplete Trigger = "COMPLETE"
	TriggerCancel   Trigger = "CANCEL"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
