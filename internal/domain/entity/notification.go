package entity

import "time"

// Notification is derived at render time from approved records awaiting
// refund. It is never persisted.
type Notification struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	RecordID        string    `json:"recordId"`
	RecordDisplayID string    `json:"recordDisplayId"`
	EmployeeID      string    `json:"employeeId"`
	EmployeeDisplay string    `json:"employeeDisplayId"`
	Amount          float64   `json:"amount"`
	Read            bool      `json:"read"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RefundType maps the notification type to the refund type it leads to.
func (n Notification) RefundType() string {
	if n.Type == NotificationClaimApproved {
		return RefundTypeClaim
	}
	return RefundTypeDispute
}
