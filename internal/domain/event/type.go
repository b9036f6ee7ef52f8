package event

// Type identifies the type of domain event
type Type string

const (
	TypeClaimSubmitted   Type = "claim.submitted"
	TypeClaimApproved    Type = "claim.approved"
	TypeClaimRejected    Type = "claim.rejected"
	TypeDisputeSubmitted Type = "dispute.submitted"
	TypeDisputeApproved  Type = "dispute.approved"
	TypeDisputeRejected  Type = "dispute.rejected"
	TypeRefundCreated    Type = "refund.created"
	TypeRefundPaid       Type = "refund.paid"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeClaimSubmitted,
		TypeClaimApproved,
		TypeClaimRejected,
		TypeDisputeSubmitted,
		TypeDisputeApproved,
		TypeDisputeRejected,
		TypeRefundCreated,
		TypeRefundPaid:
		return true
	default:
		return false
	}
}

// ReviewType returns the approved/rejected event type for a resource.
func ReviewType(resource string, approved bool) Type {
	verb := "rejected"
	if approved {
		verb = "approved"
	}
	return Type(resource + "." + verb)
}
