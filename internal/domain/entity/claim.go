package entity

import "time"

// Claim is an employee expense reimbursement request
type Claim struct {
	ID                  string    `json:"_id"`
	ClaimID             string    `json:"claimId"`
	Employee            Ref       `json:"employeeId"`
	Description         string    `json:"description"`
	ClaimType           string    `json:"claimType"`
	Amount              float64   `json:"amount"`
	ApprovedAmount      *float64  `json:"approvedAmount,omitempty"`
	Status              string    `json:"status"`
	RejectionReason     string    `json:"rejectionReason,omitempty"`
	ResolutionComment   string    `json:"resolutionComment,omitempty"`
	PayrollSpecialistID Ref       `json:"payrollSpecialistId"`
	PayrollManagerID    Ref       `json:"payrollManagerId"`
	FinanceStaffID      Ref       `json:"financeStaffId"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// RecordID implements Reviewable
func (c Claim) RecordID() string { return c.ID }

// StatusValue implements Reviewable
func (c Claim) StatusValue() string { return c.Status }

// ClaimedAmount implements Reviewable
func (c Claim) ClaimedAmount() float64 { return c.Amount }

// RefundableAmount is the approved amount, falling back to the claimed amount.
func (c Claim) RefundableAmount() float64 {
	if c.ApprovedAmount != nil {
		return *c.ApprovedAmount
	}
	return c.Amount
}

// DisplayID returns the readable claim id, falling back to the record id.
func (c Claim) DisplayID() string {
	if c.ClaimID != "" {
		return c.ClaimID
	}
	return c.ID
}

// NewClaimRequest is the body of POST /payroll-tracking/expense-claims
type NewClaimRequest struct {
	Description string  `json:"description"`
	ClaimType   string  `json:"claimType"`
	Amount      float64 `json:"amount"`
}
