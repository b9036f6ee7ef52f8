package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Ref
	}{
		{"null", `null`, Ref{}},
		{"bare id", `"e1"`, Ref{ID: "e1"}},
		{"number", `42`, Ref{ID: "42"}},
		{"populated employee", `{"_id":"e1","employeeNumber":"EMP-1"}`, Ref{ID: "e1", Display: "EMP-1", Populated: true}},
		{"populated claim", `{"id":"c1","claimId":"CLM-9"}`, Ref{ID: "c1", Display: "CLM-9", Populated: true}},
		{"populated dispute", `{"_id":"d1","disputeId":"DISP-3"}`, Ref{ID: "d1", Display: "DISP-3", Populated: true}},
		{"extended json id", `{"_id":{"$oid":"abc"}}`, Ref{ID: "abc", Populated: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref
			require.NoError(t, json.Unmarshal([]byte(tt.in), &r))
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestRef_Display(t *testing.T) {
	assert.Equal(t, "N/A", Ref{}.EmployeeDisplay())
	assert.Equal(t, "EMP-UNKNOWN", Ref{ID: "e1"}.EmployeeDisplay())
	assert.Equal(t, "EMP-UNKNOWN", Ref{Populated: true}.EmployeeDisplay())
	assert.Equal(t, "EMP-1", Ref{ID: "e1", Display: "EMP-1", Populated: true}.EmployeeDisplay())

	assert.Equal(t, "N/A", Ref{}.String())
	assert.Equal(t, "e1", Ref{ID: "e1"}.String())
	assert.True(t, Ref{}.IsZero())

	out, err := json.Marshal(struct {
		A Ref `json:"a"`
		B Ref `json:"b"`
	}{A: Ref{ID: "x", Display: "X"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null}`, string(out))
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{`12.5`, 12.5},
		{`"$1,250.50"`, 1250.5},
		{`"300"`, 300},
		{`""`, 0},
		{`null`, 0},
	}
	for _, tt := range tests {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(tt.in), &a), tt.in)
		assert.Equal(t, tt.want, a, tt.in)
	}

	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`"twelve"`), &a))
}

func TestRefund_Amount(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.Equal(t, 10.0, Refund{RefundDetails: &RefundDetails{Amount: f(10)}, RefundAmount: f(20), FlatAmount: f(30)}.Amount())
	assert.Equal(t, 20.0, Refund{RefundDetails: &RefundDetails{}, RefundAmount: f(20), FlatAmount: f(30)}.Amount())
	assert.Equal(t, 30.0, Refund{FlatAmount: f(30)}.Amount())
	assert.Equal(t, 0.0, Refund{}.Amount())
}

func TestRefund_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       Refund
		wantType string
	}{
		{"explicit type", Refund{Type: " Claim "}, RefundTypeClaim},
		{"from dispute ref", Refund{DisputeID: Ref{ID: "d1"}}, RefundTypeDispute},
		{"from claim ref", Refund{ClaimID: Ref{ID: "c1"}}, RefundTypeClaim},
		{"unknown type ignored", Refund{Type: "bonus", ClaimID: Ref{ID: "c1"}}, RefundTypeClaim},
		{"nothing linked", Refund{}, RefundTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Status = " pending"
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, RefundStatusPending, got.Status)
			assert.True(t, got.IsPending())
		})
	}
}

func TestRefund_LinkedRecord(t *testing.T) {
	r := Refund{ClaimID: Ref{ID: "c1", Display: "CLM-1", Populated: true}, RecordID: "fallback"}
	assert.Equal(t, "CLM-1", r.ReadableID())
	assert.Equal(t, "c1", r.LinkedRecordID())

	r = Refund{RecordID: "fallback"}
	assert.Equal(t, "N/A", r.ReadableID())
	assert.Equal(t, "fallback", r.LinkedRecordID())
}

func TestPenalties_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Penalties
	}{
		{"array", `[{"reason":"late","amount":5}]`, Penalties{{Reason: "late", Amount: 5}}},
		{"wrapper", `{"penalties":[{"reason":"absent","amount":50}]}`, Penalties{{Reason: "absent", Amount: 50}}},
		{"empty wrapper", `{}`, Penalties{}},
		{"null", `null`, Penalties{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Penalties
			require.NoError(t, json.Unmarshal([]byte(tt.in), &p))
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestPayslip_Fields(t *testing.T) {
	var p Payslip
	require.NoError(t, json.Unmarshal([]byte(`{
		"payslipId": "ps-1",
		"totalGrossSalary": "$5,000.00",
		"totaDeductions": "$750.00",
		"netPay": 4250,
		"createdAt": "2025-03-04T10:00:00Z"
	}`), &p))

	assert.Equal(t, "ps-1", p.Identifier())
	assert.Equal(t, 5000.0, p.TotalGrossSalary.Float())
	assert.Equal(t, 750.0, p.TotalDeductions())
	assert.Equal(t, 4250.0, p.NetPay.Float())

	month, year := p.Period()
	assert.Equal(t, time.March, month)
	assert.Equal(t, 2025, year)

	p = Payslip{ID: "p1", Month: 11, Year: 2024}
	require.NoError(t, json.Unmarshal([]byte(`{"totalDeductions": 120}`), &p))
	assert.Equal(t, 120.0, p.TotalDeductions())
	month, year = p.Period()
	assert.Equal(t, time.November, month)
	assert.Equal(t, 2024, year)
}

func TestPayslip_WithDefaults(t *testing.T) {
	p := Payslip{}.WithDefaults()

	require.NotNil(t, p.Earnings)
	require.NotNil(t, p.Deductions)
	assert.NotNil(t, p.Earnings.Allowances)
	assert.NotNil(t, p.Earnings.Refunds)
	assert.NotNil(t, p.Deductions.Taxes)
	assert.NotNil(t, p.Deductions.Penalties)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"bonuses":[]`)
	assert.Contains(t, string(out), `"insurances":[]`)
}

func TestIdentity(t *testing.T) {
	var nilIdentity *Identity
	assert.False(t, nilIdentity.HasRole(RoleFinanceStaff))
	assert.Equal(t, "", nilIdentity.DisplayName())

	id := &Identity{FirstName: "Dana", LastName: "Lee", Roles: []string{RolePayrollManager}}
	assert.True(t, id.HasRole(RolePayrollManager))
	assert.False(t, id.HasRole("payroll manager"))
	assert.Equal(t, "Dana Lee", id.DisplayName())

	assert.Equal(t, "d@example.com", (&Identity{Email: "d@example.com"}).DisplayName())
	assert.Equal(t, "EMP-4", (&Identity{EmployeeNumber: "EMP-4"}).DisplayName())
}

func TestMonthRange(t *testing.T) {
	r := MonthRange(time.Date(2025, time.February, 10, 15, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2025, time.February, 28, 23, 59, 59, int(999*time.Millisecond), time.UTC), r.End)
	assert.Equal(t, "February 2025", r.Label())
}

func TestMisconductDeduction_Valid(t *testing.T) {
	assert.True(t, MisconductDeduction{Type: MisconductLateness, Date: "2025-01-02", Reason: "late"}.Valid())
	assert.False(t, MisconductDeduction{Type: "Other", Date: "2025-01-02", Reason: "late"}.Valid())
	assert.False(t, MisconductDeduction{Type: MisconductAbsenteeism, Date: " ", Reason: "absent"}.Valid())
	assert.False(t, MisconductDeduction{Type: MisconductAbsenteeism, Date: "2025-01-02"}.Valid())
}

func TestDerivedValues(t *testing.T) {
	report := FinanceReport{TotalTaxes: 100, TotalInsurance: 50, TotalBenefits: 10, TotalAllowances: 20, TotalBonuses: 30}
	assert.Equal(t, -90.0, report.Compensation())

	assert.Equal(t, "alt", PayrollRun{AltID: "alt"}.Identifier())
	assert.Equal(t, 5.0, ContributionItem{EmployerContribution: 5}.Value())
	assert.Equal(t, 3000.0, InsuranceDeductions{BaseSalary: 3000}.SalaryBasis())

	approved := 80.0
	assert.Equal(t, 80.0, Claim{Amount: 100, ApprovedAmount: &approved}.RefundableAmount())
	assert.Equal(t, "c1", Claim{ID: "c1"}.DisplayID())

	assert.Equal(t, RefundTypeClaim, Notification{Type: NotificationClaimApproved}.RefundType())
	assert.Equal(t, RefundTypeDispute, Notification{Type: NotificationDisputeApproved}.RefundType())
}
