package entity

import (
	"strings"
	"time"
)

// RefundDetails is the nested amount block some refund responses carry
type RefundDetails struct {
	Amount      *float64 `json:"amount,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Refund is a finance-issued payment correcting an approved claim or dispute
type Refund struct {
	ID             string         `json:"_id"`
	Type           string         `json:"type,omitempty"`
	RecordID       string         `json:"recordId,omitempty"`
	DisputeID      Ref            `json:"disputeId"`
	ClaimID        Ref            `json:"claimId"`
	Employee       Ref            `json:"employeeId"`
	RefundDetails  *RefundDetails `json:"refundDetails,omitempty"`
	RefundAmount   *float64       `json:"refundAmount,omitempty"`
	FlatAmount     *float64       `json:"amount,omitempty"`
	Status         string         `json:"status"`
	Description    string         `json:"description,omitempty"`
	FinanceStaffID Ref            `json:"financeStaffId"`
	PayrollRunID   Ref            `json:"payrollRunId"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Normalize uppercases the status and resolves the type so that every
// consumer sees one shape regardless of which endpoint produced the refund.
func (r Refund) Normalize() Refund {
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	r.Type = r.Kind()
	return r
}

// Amount returns refundDetails.amount, then refundAmount, then amount, else 0.
func (r Refund) Amount() float64 {
	switch {
	case r.RefundDetails != nil && r.RefundDetails.Amount != nil:
		return *r.RefundDetails.Amount
	case r.RefundAmount != nil:
		return *r.RefundAmount
	case r.FlatAmount != nil:
		return *r.FlatAmount
	}
	return 0
}

// Kind returns the refund type, derived from the linked record when absent.
func (r Refund) Kind() string {
	t := strings.ToLower(strings.TrimSpace(r.Type))
	if t == RefundTypeDispute || t == RefundTypeClaim {
		return t
	}
	switch {
	case !r.DisputeID.IsZero():
		return RefundTypeDispute
	case !r.ClaimID.IsZero():
		return RefundTypeClaim
	}
	return RefundTypeUnknown
}

// ReadableID returns the readable id of the linked dispute or claim.
func (r Refund) ReadableID() string {
	if r.DisputeID.Display != "" {
		return r.DisputeID.Display
	}
	if r.ClaimID.Display != "" {
		return r.ClaimID.Display
	}
	return "N/A"
}

// LinkedRecordID returns the backend id of the linked record.
func (r Refund) LinkedRecordID() string {
	switch {
	case r.DisputeID.ID != "":
		return r.DisputeID.ID
	case r.ClaimID.ID != "":
		return r.ClaimID.ID
	}
	return r.RecordID
}

// IsPending reports whether the refund is still awaiting payment.
func (r Refund) IsPending() bool {
	return strings.EqualFold(r.Status, RefundStatusPending)
}

// CreateRefundRequest is the body of POST /payroll-tracking/refund/create
type CreateRefundRequest struct {
	Type         string  `json:"type"`
	RecordID     string  `json:"recordId"`
	RefundAmount float64 `json:"refundAmount"`
	Description  string  `json:"description"`
}

// MarkPaidRequest is the body of POST /payroll-tracking/refund/:id/mark-paid
type MarkPaidRequest struct {
	PayrollRunID string `json:"payrollRunId"`
}

// ApprovedRecords is the response of GET /payroll-tracking/finance/approved-records
type ApprovedRecords struct {
	Disputes []Dispute `json:"disputes"`
	Claims   []Claim   `json:"claims"`
}
