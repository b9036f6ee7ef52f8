package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/domain/entity"
)

const payslipFixture = `{
	"_id":"p1",
	"totalGrossSalary":"$10,000.00",
	"totaDeductions":1500,
	"netPay":"$8,500.00",
	"paymentStatus":"PAID",
	"createdAt":"2025-04-10T08:00:00Z",
	"earningsDetails":{
		"baseSalary":9000,
		"allowances":[{"name":"Transport","amount":300,"status":"approved"},{"name":"Housing","amount":700,"status":"draft"}],
		"bonuses":[{"name":"Q1","amount":200}]
	},
	"deductionsDetails":{
		"taxes":[{"name":"Income","rate":10}],
		"insurances":[{"name":"Health","employeeRate":5,"employerRate":7}],
		"penalties":{"penalties":[{"reason":"late","amount":25}]}
	}
}`

func TestPayslipService_Current(t *testing.T) {
	api := newMockAPI()
	api.responses[pathMyPayslip] = payslipFixture

	view, err := NewPayslipService(api, nil, &mockLogger{}).Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, view.Payslip)

	assert.Equal(t, "p1", view.Payslip.ID)
	assert.NotNil(t, view.Payslip.Earnings.Benefits)
	assert.Equal(t, PayslipTotals{
		Allowances:        300,
		Bonuses:           200,
		Taxes:             1000,
		EmployeeInsurance: 500,
		Penalties:         25,
		Gross:             10000,
		Deductions:        1500,
		NetPay:            8500,
	}, view.Totals)
}

func TestPayslipService_CurrentNotFound(t *testing.T) {
	api := newMockAPI()
	api.errs[pathMyPayslip] = &port.APIError{StatusCode: 404, Message: "No payslip found"}

	view, err := NewPayslipService(api, nil, &mockLogger{}).Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, view.Payslip)
}

func TestPayslipService_History(t *testing.T) {
	api := newMockAPI()
	api.responses[pathMyPayslipStatus] = `[
		{"payrollRunId":"run-1","netPay":"$1,000.00","month":1,"year":2025},
		{"payrollRunId":"run-2","netPay":900,"month":12,"year":2024},
		{"payrollRunId":"run-3","netPay":1100,"month":3,"year":2025}
	]`

	history, err := NewPayslipService(api, nil, &mockLogger{}).History(context.Background())
	require.NoError(t, err)
	require.Len(t, history.Payslips, 3)
	assert.Equal(t, "run-3", history.Payslips[0].PayrollRunID.ID)
	assert.Equal(t, "run-2", history.Payslips[2].PayrollRunID.ID)
	assert.InDelta(t, 1000.0, history.Payslips[1].NetPay.Float(), 0.001)
}

func TestPayslipService_HistoryNotFound(t *testing.T) {
	api := newMockAPI()
	api.errs[pathMyPayslipStatus] = &port.APIError{StatusCode: 404}

	history, err := NewPayslipService(api, nil, &mockLogger{}).History(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, history.Payslips)
	assert.Empty(t, history.Payslips)
}

func TestPayslipService_SalaryHistory(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
		n    int
	}{
		{"single object", `{"_id":"p1","netPay":"$1,250.50"}`, 1250.5, 1},
		{"array", `[{"_id":"p1","netPay":"$1,000.00"},{"_id":"p2","netPay":500}]`, 1500, 2},
		{"wrapper", `{"payslips":[{"_id":"p1","netPay":20}]}`, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newMockAPI()
			api.responses[pathMyPayslip] = tt.body

			history, err := NewPayslipService(api, nil, &mockLogger{}).SalaryHistory(context.Background())
			require.NoError(t, err)
			assert.Len(t, history.Payslips, tt.n)
			assert.InDelta(t, tt.want, history.TotalEarnings, 0.001)
		})
	}
}

func TestPayslipService_Preview(t *testing.T) {
	api := newMockAPI()
	api.downloadFunc = func(ctx context.Context, path string) (*entity.PayslipFile, error) {
		assert.Equal(t, pathDownloadPayslip, path)
		return &entity.PayslipFile{Filename: "payslip.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil
	}

	preview, err := NewPayslipService(api, &mockPreviewer{pages: 2}, &mockLogger{}).Preview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), preview.Image)
	assert.Equal(t, 2, preview.Pages)

	_, err = NewPayslipService(api, nil, &mockLogger{}).Preview(context.Background())
	assert.Error(t, err)

	failing := &mockPreviewer{previewFunc: func([]byte) ([]byte, error) { return nil, errors.New("corrupt") }}
	_, err = NewPayslipService(api, failing, &mockLogger{}).Preview(context.Background())
	assert.ErrorContains(t, err, "corrupt")
}
