package entity

import (
	"strings"
	"time"
)

// TaxItem is one line of a tax breakdown
type TaxItem struct {
	ID           string  `json:"_id,omitempty"`
	Name         string  `json:"name"`
	Rate         float64 `json:"rate"`
	LawReference string  `json:"lawReference,omitempty"`
	Amount       float64 `json:"amount"`
}

// TaxDeduction is the response of GET /payroll-tracking/tax-deduction/:payslipId
type TaxDeduction struct {
	TaxableBase float64   `json:"taxableBase"`
	TotalTax    float64   `json:"totalTax"`
	Taxes       []TaxItem `json:"taxes"`
}

// InsuranceDetail is one insurance policy's contribution split
type InsuranceDetail struct {
	Name                 string  `json:"name"`
	EmployeeRate         float64 `json:"employeeRate"`
	EmployerRate         float64 `json:"employerRate"`
	EmployeeContribution float64 `json:"employeeContribution"`
	EmployerContribution float64 `json:"employerContribution"`
	Total                float64 `json:"total"`
}

// InsuranceDeductions is the response of GET /payroll-tracking/insurance-deductions
type InsuranceDeductions struct {
	PayslipID     string            `json:"payslipId"`
	PayrollRunID  string            `json:"payrollRunId"`
	BaseSalary    float64           `json:"baseSalary"`
	GrossSalary   float64           `json:"grossSalary"`
	TotalEmployee float64           `json:"totalEmployee"`
	TotalEmployer float64           `json:"totalEmployer"`
	Total         float64           `json:"total"`
	Insurances    []InsuranceDetail `json:"insurances"`
}

// SalaryBasis returns the gross salary when present, else the base salary.
func (d InsuranceDeductions) SalaryBasis() float64 {
	if d.GrossSalary > 0 {
		return d.GrossSalary
	}
	return d.BaseSalary
}

// MisconductDeduction is one absenteeism or lateness record
type MisconductDeduction struct {
	Type                     string   `json:"type"`
	Date                     string   `json:"date"`
	Reason                   string   `json:"reason"`
	PotentialDeductionAmount *float64 `json:"potentialDeductionAmount,omitempty"`
}

// Valid reports whether the record has a known type and the required fields.
func (m MisconductDeduction) Valid() bool {
	if m.Type != MisconductAbsenteeism && m.Type != MisconductLateness {
		return false
	}
	return strings.TrimSpace(m.Date) != "" && m.Reason != ""
}

// DateRange is a half-open period used for deduction lookups
type DateRange struct {
	Start time.Time
	End   time.Time
}

// MonthRange returns the calendar month containing t, in t's location.
func MonthRange(t time.Time) DateRange {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return DateRange{Start: start, End: end}
}

// Label renders the range as "January 2025".
func (r DateRange) Label() string {
	return r.Start.Format("January 2006")
}

// UnpaidLeaveDetail is one leave type's unpaid deduction
type UnpaidLeaveDetail struct {
	LeaveType string  `json:"leaveType"`
	DaysTaken float64 `json:"daysTaken"`
	DailyRate float64 `json:"dailyRate"`
	Amount    float64 `json:"amount"`
}

// UnpaidLeaveDeductions is the response of GET /payroll-tracking/unpaid-leave-deductions
type UnpaidLeaveDeductions struct {
	BaseSalary      float64             `json:"baseSalary"`
	WorkingDays     float64             `json:"workingDays"`
	DailyRate       float64             `json:"dailyRate"`
	UnpaidDaysTotal float64             `json:"unpaidDaysTotal"`
	TotalDeductions float64             `json:"totalDeductions"`
	Details         []UnpaidLeaveDetail `json:"details"`
}

// LeaveBreakdown is one leave type's encashment estimate
type LeaveBreakdown struct {
	LeaveTypeID    *string `json:"leaveTypeId"`
	LeaveTypeName  string  `json:"leaveTypeName"`
	IsEncashable   bool    `json:"isEncashable"`
	RemainingDays  float64 `json:"remainingDays"`
	AccruedActual  float64 `json:"accruedActual"`
	DailyRate      float64 `json:"dailyRate"`
	EstimatedValue float64 `json:"estimatedValue"`
}

// LeaveCompensation is the response of GET /payroll-tracking/unused-leave-compensation
type LeaveCompensation struct {
	EmployeeID                 string           `json:"employeeId"`
	MonthlyBaseSalary          float64          `json:"monthlyBaseSalary"`
	DailyRate                  float64          `json:"dailyRate"`
	TotalPotentialCompensation float64          `json:"totalPotentialCompensation"`
	LeaveBreakdown             []LeaveBreakdown `json:"leaveBreakdown"`
	Note                       string           `json:"note"`
}

// BaseSalary is the response of GET /payroll-tracking/base-salary
type BaseSalary struct {
	EmployeeID         string  `json:"employeeId"`
	ContractType       string  `json:"contractType"`
	WorkType           string  `json:"workType"`
	OriginalBaseSalary float64 `json:"originalBaseSalary"`
	AdjustedBaseSalary float64 `json:"adjustedBaseSalary"`
	Multiplier         float64 `json:"multiplier"`
}
