package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/domain/entity"
)

const refundsFixture = `{"refunds":[
	{"_id":"r1","disputeId":{"_id":"d1","disputeId":"DISP-1"},"refundDetails":{"amount":100},"status":"pending","createdAt":"2025-01-02T00:00:00Z"},
	{"_id":"r2","claimId":"c1","refundAmount":40,"status":"PAID","payrollRunId":"run-1"},
	{"_id":"r3","type":"claim","claimId":"c2","amount":15.5,"status":"PENDING"},
	{"_id":"r4","disputeId":"d2","amount":7,"status":"CANCELLED"}
]}`

func newRefundService(api *mockPayrollAPI, sheet port.Spreadsheet) RefundService {
	return NewRefundService(api, sheet, nil, &mockPublisher{}, &mockLogger{})
}

func TestRefundService_Overview(t *testing.T) {
	api := newMockAPI()
	api.responses[pathRefunds] = refundsFixture
	api.responses[pathApprovedRecords] = `{
		"disputes":[{"_id":"d1","disputeId":"DISP-1","refundAmount":100},{"_id":"d9","disputeId":"DISP-9","refundAmount":60,"updatedAt":"2025-03-01T00:00:00Z"}],
		"claims":[{"_id":"c3","claimId":"CLAIM-3","amount":80,"approvedAmount":70,"updatedAt":"2025-02-01T00:00:00Z"}]
	}`

	overview, err := newRefundService(api, nil).Overview(context.Background(), RefundFilter{})
	require.NoError(t, err)

	assert.Len(t, overview.Refunds, 4)
	assert.Equal(t, RefundStats{Total: 4, Pending: 2, PendingAmount: 115.5, PaidAmount: 40}, overview.Stats)
	assert.InDelta(t, 162.5, overview.FilteredTotal, 0.001)

	require.Len(t, overview.Awaiting, 2)
	assert.Equal(t, "d9", overview.Awaiting[0].RecordID)
	assert.Equal(t, "c3", overview.Awaiting[1].RecordID)
	assert.InDelta(t, 70.0, overview.Awaiting[1].Amount, 0.001)
}

func TestAwaitingRefunds_FlatRecordID(t *testing.T) {
	approved := entity.ApprovedRecords{
		Disputes: []entity.Dispute{{ID: "d1"}, {ID: "d2"}},
		Claims:   []entity.Claim{{ID: "c1"}, {ID: "c2"}},
	}
	refunds := []entity.Refund{
		{Type: entity.RefundTypeDispute, RecordID: "d1"},
		{Type: entity.RefundTypeClaim, RecordID: "c2"},
		{ClaimID: entity.Ref{ID: "d2"}},
	}

	awaiting := AwaitingRefunds(approved, refunds)

	ids := make([]string, 0, len(awaiting))
	for _, a := range awaiting {
		ids = append(ids, a.Type+":"+a.RecordID)
	}
	assert.ElementsMatch(t, []string{"dispute:d2", "claim:c1"}, ids, "a claim refund does not cover a dispute with the same id")
}

func TestRefundService_FilteredTotalMatchesDisplayed(t *testing.T) {
	tests := []struct {
		name    string
		filter  RefundFilter
		wantIDs []string
	}{
		{"all", RefundFilter{Status: "all", Type: "all"}, []string{"r1", "r2", "r3", "r4"}},
		{"pending case insensitive", RefundFilter{Status: "pending"}, []string{"r1", "r3"}},
		{"claims", RefundFilter{Type: "claim"}, []string{"r2", "r3"}},
		{"amount window", RefundFilter{MinAmount: "10", MaxAmount: "50"}, []string{"r2", "r3"}},
		{"unparsable bounds ignored", RefundFilter{MinAmount: "abc"}, []string{"r1", "r2", "r3", "r4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newMockAPI()
			api.responses[pathRefunds] = refundsFixture

			overview, err := newRefundService(api, nil).Overview(context.Background(), tt.filter)
			require.NoError(t, err)

			var ids []string
			var sum float64
			for _, r := range overview.Refunds {
				ids = append(ids, r.ID)
				sum += r.Amount()
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.InDelta(t, sum, overview.FilteredTotal, 0.0001)
		})
	}
}

func TestRefundService_ApprovedRecordsDegrade(t *testing.T) {
	api := newMockAPI()
	api.responses[pathRefunds] = `[]`
	api.errs[pathApprovedRecords] = &port.APIError{StatusCode: 500}

	overview, err := newRefundService(api, nil).Overview(context.Background(), RefundFilter{})
	require.NoError(t, err)
	assert.Empty(t, overview.Awaiting)
}

func TestRefundService_Create(t *testing.T) {
	tests := []struct {
		name      string
		input     RefundInput
		wantMsg   string
		wantPosts int
	}{
		{"missing record", RefundInput{Amount: "10"}, "Please fill in all required fields", 0},
		{"bad amount", RefundInput{RecordID: "d1", Amount: "0"}, "Please enter a valid refund amount greater than zero.", 0},
		{"bad type", RefundInput{Type: "bonus", RecordID: "d1", Amount: "5"}, "Refund type must be dispute or claim", 0},
		{"ok", RefundInput{Type: "Claim", RecordID: "c1", Amount: "12.5", Description: "refund"}, "Refund created successfully!", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newMockAPI()
			result, _ := newRefundService(api, nil).Create(context.Background(), tt.input)

			assert.Equal(t, tt.wantMsg, result.Message)
			posts := api.callsTo("POST", pathCreateRefund)
			require.Len(t, posts, tt.wantPosts)
			if tt.wantPosts == 1 {
				assert.Equal(t, &entity.CreateRefundRequest{Type: "claim", RecordID: "c1", RefundAmount: 12.5, Description: "refund"}, posts[0].Body)
			}
		})
	}
}

func TestRefundService_CreateUsesServerMessage(t *testing.T) {
	api := newMockAPI()
	api.responses[pathCreateRefund] = `{"message":"Refund REF-9 created"}`

	result, err := newRefundService(api, nil).Create(context.Background(), RefundInput{RecordID: "d1", Amount: "5"})
	require.NoError(t, err)
	assert.Equal(t, "Refund REF-9 created", result.Message)
}

func TestRefundService_MarkPaid(t *testing.T) {
	api := newMockAPI()
	svc := newRefundService(api, nil)

	result, err := svc.MarkPaid(context.Background(), "r1", MarkPaidInput{PayrollRunID: " "})
	require.Error(t, err)
	assert.Equal(t, "Please enter payroll run ID", result.Message)
	assert.Equal(t, 0, api.countMethod("POST"))

	result, err = svc.MarkPaid(context.Background(), "r1", MarkPaidInput{PayrollRunID: "run-7"})
	require.NoError(t, err)
	assert.Equal(t, "Refund marked as paid successfully!", result.Message)

	posts := api.callsTo("POST", pathMarkPaid("r1"))
	require.Len(t, posts, 1)
	assert.Equal(t, entity.MarkPaidRequest{PayrollRunID: "run-7"}, posts[0].Body)
}

func TestRefundService_Export(t *testing.T) {
	api := newMockAPI()
	api.responses[pathRefunds] = refundsFixture
	sheet := &mockSpreadsheet{}

	file, err := newRefundService(api, sheet).Export(context.Background(), RefundFilter{Status: "PENDING"})
	require.NoError(t, err)

	assert.Equal(t, "refunds.xlsx", file.Filename)
	assert.Equal(t, XLSXContentType, file.ContentType)
	require.Len(t, sheet.rows, 3)
	total := sheet.rows[2]
	assert.Equal(t, "Total", total[0])
	assert.InDelta(t, 115.5, total[4].(float64), 0.001)
}
