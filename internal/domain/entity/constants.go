package entity

// Role strings as returned in the identity roles array
const (
	RolePayrollSpecialist = "Payroll Specialist"
	RolePayrollManager    = "Payroll Manager"
	RoleFinanceStaff      = "Finance Staff"
)

// Review status constants shared by claims and disputes
const (
	StatusPending                = "PENDING"
	StatusUnderReview            = "UNDER_REVIEW"
	StatusPendingManagerApproval = "PENDING_MANAGER_APPROVAL"
	StatusApproved               = "APPROVED"
	StatusConfirmed              = "CONFIRMED"
	StatusRejected               = "REJECTED"
	StatusResolved               = "RESOLVED"
)

// Refund status constants
const (
	RefundStatusPending   = "PENDING"
	RefundStatusPaid      = "PAID"
	RefundStatusCancelled = "CANCELLED"
)

// Refund type constants
const (
	RefundTypeDispute = "dispute"
	RefundTypeClaim   = "claim"
	RefundTypeUnknown = "unknown"
)

// Resource names used in action paths (/payroll-tracking/<resource>/:id/...)
const (
	ResourceClaim   = "claim"
	ResourceDispute = "dispute"
)

// Misconduct deduction types
const (
	MisconductAbsenteeism = "Absenteeism"
	MisconductLateness    = "Lateness"
)

// Notification type constants
const (
	NotificationDisputeApproved = "dispute_approved"
	NotificationClaimApproved   = "claim_approved"
)
