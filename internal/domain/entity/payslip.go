package entity

import (
	"bytes"
	"encoding/json"
	"time"
)

// PayItem is one earnings line (allowance, bonus, benefit or refund)
type PayItem struct {
	ID           string  `json:"_id,omitempty"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status,omitempty"`
	PositionName string  `json:"positionName,omitempty"`
}

// Tax is a tax rule applied to a payslip
type Tax struct {
	ID          string  `json:"_id,omitempty"`
	Name        string  `json:"name"`
	Rate        float64 `json:"rate"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// Insurance is an insurance bracket applied to a payslip
type Insurance struct {
	ID           string  `json:"_id,omitempty"`
	Name         string  `json:"name"`
	Status       string  `json:"status,omitempty"`
	MinSalary    float64 `json:"minSalary"`
	MaxSalary    float64 `json:"maxSalary"`
	EmployeeRate float64 `json:"employeeRate"`
	EmployerRate float64 `json:"employerRate"`
}

// Penalty is a single penalty deduction
type Penalty struct {
	Reason string  `json:"reason"`
	Amount float64 `json:"amount"`
}

// Penalties accepts either a bare array or a {"penalties": [...]} wrapper.
type Penalties []Penalty

// UnmarshalJSON implements json.Unmarshaler
func (p *Penalties) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Penalties{}
		return nil
	}
	if data[0] == '[' {
		var list []Penalty
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*p = list
		return nil
	}
	var wrapper struct {
		Penalties []Penalty `json:"penalties"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	if wrapper.Penalties == nil {
		wrapper.Penalties = []Penalty{}
	}
	*p = wrapper.Penalties
	return nil
}

// EarningsDetails is the earnings breakdown of a payslip
type EarningsDetails struct {
	ID         string    `json:"_id,omitempty"`
	BaseSalary float64   `json:"baseSalary"`
	Allowances []PayItem `json:"allowances"`
	Bonuses    []PayItem `json:"bonuses"`
	Benefits   []PayItem `json:"benefits"`
	Refunds    []PayItem `json:"refunds"`
}

// DeductionsDetails is the deductions breakdown of a payslip
type DeductionsDetails struct {
	ID         string      `json:"_id,omitempty"`
	Taxes      []Tax       `json:"taxes"`
	Insurances []Insurance `json:"insurances"`
	Penalties  Penalties   `json:"penalties"`
}

// Payslip is one payroll period's statement for one employee
type Payslip struct {
	ID                string             `json:"_id"`
	PayslipID         string             `json:"payslipId,omitempty"`
	Employee          Ref                `json:"employeeId"`
	PayrollRunID      Ref                `json:"payrollRunId"`
	Earnings          *EarningsDetails   `json:"earningsDetails"`
	Deductions        *DeductionsDetails `json:"deductionsDetails"`
	TotalGrossSalary  Amount             `json:"totalGrossSalary"`
	TotaDeductions    *Amount            `json:"totaDeductions,omitempty"`
	TotalDeductionsV2 *Amount            `json:"totalDeductions,omitempty"`
	NetPay            Amount             `json:"netPay"`
	PaymentStatus     string             `json:"paymentStatus"`
	Month             int                `json:"month,omitempty"`
	Year              int                `json:"year,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// WithDefaults fills missing breakdowns with empty values.
func (p Payslip) WithDefaults() Payslip {
	if p.Earnings == nil {
		p.Earnings = &EarningsDetails{}
	}
	if p.Deductions == nil {
		p.Deductions = &DeductionsDetails{}
	}
	e := *p.Earnings
	if e.Allowances == nil {
		e.Allowances = []PayItem{}
	}
	if e.Bonuses == nil {
		e.Bonuses = []PayItem{}
	}
	if e.Benefits == nil {
		e.Benefits = []PayItem{}
	}
	if e.Refunds == nil {
		e.Refunds = []PayItem{}
	}
	p.Earnings = &e

	d := *p.Deductions
	if d.Taxes == nil {
		d.Taxes = []Tax{}
	}
	if d.Insurances == nil {
		d.Insurances = []Insurance{}
	}
	if d.Penalties == nil {
		d.Penalties = Penalties{}
	}
	p.Deductions = &d
	return p
}

// TotalDeductions returns the deductions total under either spelling.
func (p Payslip) TotalDeductions() float64 {
	if p.TotaDeductions != nil {
		return p.TotaDeductions.Float()
	}
	if p.TotalDeductionsV2 != nil {
		return p.TotalDeductionsV2.Float()
	}
	return 0
}

// Identifier returns the payslip id under either field name.
func (p Payslip) Identifier() string {
	if p.ID != "" {
		return p.ID
	}
	return p.PayslipID
}

// Period returns the payslip month and year, derived from createdAt when the
// backend omits them.
func (p Payslip) Period() (time.Month, int) {
	if p.Month >= 1 && p.Month <= 12 && p.Year > 0 {
		return time.Month(p.Month), p.Year
	}
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt.Month(), p.CreatedAt.Year()
	}
	return 0, 0
}

// PayslipSummary is one entry of GET /payroll-tracking/my-payslip-status
type PayslipSummary struct {
	PayrollRunID     Ref       `json:"payrollRunId"`
	TotalGrossSalary Amount    `json:"totalGrossSalary"`
	TotalDeductions  Amount    `json:"totalDeductions"`
	NetPay           Amount    `json:"netPay"`
	PaymentStatus    string    `json:"paymentStatus"`
	Month            int       `json:"month"`
	Year             int       `json:"year"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// PayslipFile is a downloaded payslip document
type PayslipFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
