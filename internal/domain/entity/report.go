package entity

// FinanceReport is one entry of GET /payroll-tracking/finance-report/:year
type FinanceReport struct {
	Month             int     `json:"month,omitempty"`
	TotalTaxes        float64 `json:"totalTaxes"`
	TotalInsurance    float64 `json:"totalInsurance"`
	TotalBenefits     float64 `json:"totalBenefits"`
	TotalAllowances   float64 `json:"totalAllowances"`
	TotalBonuses      float64 `json:"totalBonuses"`
	NumberOfEmployees int     `json:"numberOfEmployees"`
}

// Compensation is benefits, allowances and bonuses net of taxes and insurance.
func (r FinanceReport) Compensation() float64 {
	return -r.TotalTaxes - r.TotalInsurance + r.TotalBenefits + r.TotalAllowances + r.TotalBonuses
}

// PayrollRun is one run returned by the payroll-runs lookups
type PayrollRun struct {
	ID          string  `json:"_id"`
	AltID       string  `json:"id,omitempty"`
	RunID       string  `json:"runId"`
	Employees   int     `json:"employees"`
	TotalNetPay float64 `json:"totalnetpay"`
	Status      string  `json:"status"`
	Period      string  `json:"payrollPeriod,omitempty"`
}

// Identifier returns _id, falling back to id.
func (r PayrollRun) Identifier() string {
	if r.ID != "" {
		return r.ID
	}
	return r.AltID
}

// DepartmentPayslipsRequest is the body of POST /payroll-tracking/payslips/bydepartment
type DepartmentPayslipsRequest struct {
	DepartmentID string `json:"departmentId"`
	PayrollRunID string `json:"payrollRunId"`
}

// PaymentStatusBreakdown counts payslips by payment status
type PaymentStatusBreakdown struct {
	Paid    int `json:"paid"`
	Pending int `json:"pending"`
}

// DepartmentSummary aggregates a department's payslips for one run
type DepartmentSummary struct {
	TotalPayslips          int                     `json:"totalPayslips"`
	TotalGrossSalary       float64                 `json:"totalGrossSalary"`
	TotalDeductions        float64                 `json:"totalDeductions"`
	TotalNetPay            float64                 `json:"totalNetPay"`
	PaymentStatusBreakdown *PaymentStatusBreakdown `json:"paymentStatusBreakdown,omitempty"`
}

// DepartmentPayslips is the response of the department payslip lookup
type DepartmentPayslips struct {
	Summary  *DepartmentSummary `json:"summary,omitempty"`
	Payslips []Payslip          `json:"payslips"`
}

// ContributionItem is one employer-paid line
type ContributionItem struct {
	Name                 string  `json:"name"`
	Amount               float64 `json:"amount"`
	EmployerContribution float64 `json:"employerContribution,omitempty"`
}

// Value returns amount, falling back to employerContribution.
func (c ContributionItem) Value() float64 {
	if c.Amount != 0 {
		return c.Amount
	}
	return c.EmployerContribution
}

// EmployerContributions is the response of GET /payroll-tracking/employer-contributions
type EmployerContributions struct {
	BaseSalary                 float64            `json:"baseSalary"`
	TotalEmployerInsurance     float64            `json:"totalEmployerInsurance"`
	TotalAllowances            float64            `json:"totalAllowances"`
	TotalEmployerContributions float64            `json:"totalEmployerContributions"`
	Insurance                  []ContributionItem `json:"insurance"`
	Allowances                 []ContributionItem `json:"allowances"`
}
