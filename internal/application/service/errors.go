package service

import (
	"errors"
	"fmt"
	"strings"

	domainwf "github.com/garyjia/payroll-console/internal/domain/workflow"
)

// ValidationError is raised before any backend call when user input is rejected
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a *ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ActionResult is the outcome of a modal submission
type ActionResult struct {
	// Message is shown to the user as a flash
	Message string
	// Modal is CLOSED after success and OPEN when the user should correct and retry
	Modal domainwf.State
}

// Succeeded reports whether the submission closed the modal
func (r *ActionResult) Succeeded() bool {
	return r != nil && r.Modal == domainwf.StateClosed
}

func succeeded(message string) *ActionResult {
	return &ActionResult{Message: message, Modal: domainwf.StateClosed}
}

func failed(prefix string, err error) *ActionResult {
	return &ActionResult{Message: failureMessage(prefix, err), Modal: domainwf.StateOpen}
}

// failureMessage renders "<prefix>: <message>" with the generic fallback for empty messages.
// Validation errors are shown verbatim.
func failureMessage(prefix string, err error) string {
	if IsValidation(err) {
		return err.Error()
	}
	msg := ""
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	if msg == "" {
		msg = "Unknown error"
	}
	if prefix == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}
