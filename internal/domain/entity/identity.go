package entity

// Identity is the response of GET /auth/me
type Identity struct {
	ID             string   `json:"_id"`
	UserID         string   `json:"userId,omitempty"`
	Email          string   `json:"email,omitempty"`
	FirstName      string   `json:"firstName,omitempty"`
	LastName       string   `json:"lastName,omitempty"`
	EmployeeNumber string   `json:"employeeNumber,omitempty"`
	Roles          []string `json:"roles"`
}

// HasRole reports whether role appears verbatim in the roles array.
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DisplayName returns a name suitable for page headers.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	name := i.FirstName
	if i.LastName != "" {
		if name != "" {
			name += " "
		}
		name += i.LastName
	}
	if name == "" {
		name = i.Email
	}
	if name == "" {
		name = i.EmployeeNumber
	}
	return name
}
