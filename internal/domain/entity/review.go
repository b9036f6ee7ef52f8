package entity

// Reviewable is a record that moves through the approve/reject workflow
type Reviewable interface {
	RecordID() string
	StatusValue() string
	ClaimedAmount() float64
}

// ApproveRequest is the body of POST /<resource>/:id/<stage>-approve
type ApproveRequest struct {
	Comments       string   `json:"comments"`
	ApprovedAmount *float64 `json:"approvedAmount,omitempty"`
}

// RejectRequest is the body of POST /<resource>/:id/<stage>-reject
type RejectRequest struct {
	RejectionReason string `json:"rejectionReason"`
	Comments        string `json:"comments"`
}

// ActionResponse is the generic body returned by mutation endpoints
type ActionResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
