package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Ref is a reference to another backend record. The backend sends either the
// bare id or a populated object, depending on the endpoint.
type Ref struct {
	ID string
	// Display is the human-readable id of a populated record
	// (employeeNumber, claimId or disputeId), empty when not populated.
	Display   string
	Populated bool
}

type refObject struct {
	MongoID        json.RawMessage `json:"_id"`
	ID             json.RawMessage `json:"id"`
	EmployeeNumber string          `json:"employeeNumber"`
	ClaimID        string          `json:"claimId"`
	DisputeID      string          `json:"disputeId"`
}

// UnmarshalJSON accepts a string, a number, null or a populated object.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref{ID: s}
		return nil
	case '{':
		var obj refObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		id := rawID(obj.MongoID)
		if id == "" {
			id = rawID(obj.ID)
		}
		display := obj.EmployeeNumber
		if display == "" {
			display = obj.ClaimID
		}
		if display == "" {
			display = obj.DisputeID
		}
		*r = Ref{ID: id, Display: display, Populated: true}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*r = Ref{ID: n.String()}
		return nil
	}
}

// MarshalJSON writes the reference back as its id.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// String returns the id, or "N/A" when empty.
func (r Ref) String() string {
	if r.ID == "" {
		return "N/A"
	}
	return r.ID
}

// EmployeeDisplay returns the employee number of a populated employee
// reference. Unpopulated references yield "EMP-UNKNOWN", missing ones "N/A".
func (r Ref) EmployeeDisplay() string {
	if !r.Populated && r.ID == "" {
		return "N/A"
	}
	if r.Display != "" {
		return r.Display
	}
	return "EMP-UNKNOWN"
}

// IsZero reports whether the reference is empty.
func (r Ref) IsZero() bool {
	return r.ID == "" && r.Display == ""
}

func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// {"$oid": "..."} extended JSON
	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(raw, &oid); err == nil && oid.OID != "" {
		return oid.OID
	}
	return strings.Trim(string(raw), `"`)
}

// Amount is a monetary value that the backend sends either as a JSON number
// or as a formatted string such as "$1,250.00".
type Amount float64

// UnmarshalJSON accepts numbers, numeric strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseAmount(s)
		if err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// Float returns the amount as float64.
func (a Amount) Float() float64 {
	return float64(a)
}

// ParseAmount parses a currency string, ignoring "$" and thousands separators.
// An empty string parses as zero.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
