package entity

import "time"

// Dispute is an employee objection to a payslip
type Dispute struct {
	ID                  string    `json:"_id"`
	DisputeID           string    `json:"disputeId"`
	Employee            Ref       `json:"employeeId"`
	PayslipID           Ref       `json:"payslipId"`
	Description         string    `json:"description"`
	Status              string    `json:"status"`
	RejectionReason     string    `json:"rejectionReason,omitempty"`
	ResolutionComment   string    `json:"resolutionComment,omitempty"`
	RefundAmount        float64   `json:"refundAmount,omitempty"`
	PayrollSpecialistID Ref       `json:"payrollSpecialistId"`
	PayrollManagerID    Ref       `json:"payrollManagerId"`
	FinanceStaffID      Ref       `json:"financeStaffId"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// RecordID implements Reviewable
func (d Dispute) RecordID() string { return d.ID }

// StatusValue implements Reviewable
func (d Dispute) StatusValue() string { return d.Status }

// ClaimedAmount implements Reviewable. Disputes carry no claimed amount until
// a refund amount is attached on approval.
func (d Dispute) ClaimedAmount() float64 { return d.RefundAmount }

// DisplayID returns the readable dispute id, falling back to the record id.
func (d Dispute) DisplayID() string {
	if d.DisputeID != "" {
		return d.DisputeID
	}
	return d.ID
}

// NewDisputeRequest is the body of POST /payroll-tracking/disputes
type NewDisputeRequest struct {
	PayslipID   string `json:"payslipId"`
	Description string `json:"description"`
}
