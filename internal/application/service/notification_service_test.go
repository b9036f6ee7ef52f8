package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/domain/entity"
)

func TestDeriveNotifications(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	approved := 250.0
	records := entity.ApprovedRecords{
		Disputes: []entity.Dispute{
			{ID: "d1", DisputeID: "DISP-1", RefundAmount: 90, UpdatedAt: now.Add(-2 * time.Hour)},
		},
		Claims: []entity.Claim{
			{ID: "c1", ClaimID: "CLAIM-1", Amount: 300, ApprovedAmount: &approved, UpdatedAt: now.Add(-time.Hour)},
			{ID: "c2", ClaimID: "CLAIM-2", Amount: 40},
		},
	}

	got := DeriveNotifications(records, now)
	require.Len(t, got, 3)

	assert.Equal(t, "claim_c2", got[0].ID)
	assert.Equal(t, now, got[0].CreatedAt)
	assert.InDelta(t, 40.0, got[0].Amount, 0.001)

	assert.Equal(t, "claim_c1", got[1].ID)
	assert.Equal(t, entity.NotificationClaimApproved, got[1].Type)
	assert.Equal(t, "Claim Approved for Refund", got[1].Title)
	assert.Equal(t, "Claim CLAIM-1 has been approved and requires refund processing", got[1].Description)
	assert.InDelta(t, 250.0, got[1].Amount, 0.001)

	assert.Equal(t, "dispute_d1", got[2].ID)
	assert.Equal(t, "Dispute Approved for Refund", got[2].Title)
	assert.Equal(t, "Dispute DISP-1 has been approved and requires refund processing", got[2].Description)
	assert.InDelta(t, 90.0, got[2].Amount, 0.001)
}

func TestNotificationService_Feed(t *testing.T) {
	api := newMockAPI()
	api.responses[pathApprovedRecords] = `{
		"disputes":[{"_id":"d1","disputeId":"DISP-1","refundAmount":90,"updatedAt":"2025-05-01T00:00:00Z"}],
		"claims":[{"_id":"c1","claimId":"CLAIM-1","amount":30,"updatedAt":"2025-05-02T00:00:00Z"},
		          {"_id":"c2","claimId":"CLAIM-2","amount":10,"updatedAt":"2025-05-03T00:00:00Z"}]
	}`
	api.responses[pathDisputesForManager] = `{"disputes":[{"_id":"x"}]}`
	api.responses[pathClaimsForManager] = `[{"_id":"y"},{"_id":"z"}]`

	svc := NewNotificationService(api, &mockLogger{})

	tests := []struct {
		name    string
		query   NotificationQuery
		wantIDs []string
		unread  int
		total   int
	}{
		{"all", NotificationQuery{}, []string{"claim_c2", "claim_c1", "dispute_d1"}, 3, 3},
		{"disputes", NotificationQuery{Filter: entity.NotificationDisputeApproved}, []string{"dispute_d1"}, 3, 3},
		{"claims", NotificationQuery{Filter: entity.NotificationClaimApproved}, []string{"claim_c2", "claim_c1"}, 3, 3},
		{"unread", NotificationQuery{Filter: FilterUnread, Read: []string{"claim_c2"}}, []string{"claim_c1", "dispute_d1"}, 2, 3},
		{"hidden", NotificationQuery{Hidden: []string{"claim_c1"}}, []string{"claim_c2", "dispute_d1"}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed, err := svc.Feed(context.Background(), tt.query)
			require.NoError(t, err)

			var ids []string
			for _, n := range feed.Notifications {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.unread, feed.UnreadCount)
			assert.Equal(t, tt.total, feed.Total)
			assert.Equal(t, 1, feed.PendingManagerDisputes)
			assert.Equal(t, 2, feed.PendingManagerClaims)
		})
	}
}

func TestNotificationService_FeedDegrades(t *testing.T) {
	api := newMockAPI()
	api.errs[pathApprovedRecords] = &port.APIError{StatusCode: 500}
	api.errs[pathDisputesForManager] = &port.APIError{StatusCode: 403}
	api.responses[pathClaimsForManager] = `{"claims":[{"_id":"y"}]}`

	feed, err := NewNotificationService(api, &mockLogger{}).Feed(context.Background(), NotificationQuery{})
	require.NoError(t, err)

	assert.Empty(t, feed.Notifications)
	assert.Equal(t, FilterAll, feed.Filter)
	assert.Equal(t, 0, feed.PendingManagerDisputes)
	assert.Equal(t, 1, feed.PendingManagerClaims)
}

func TestNotificationService_Approved(t *testing.T) {
	api := newMockAPI()
	api.errs[pathApprovedRecords] = &port.APIError{StatusCode: 401}

	_, err := NewNotificationService(api, &mockLogger{}).Approved(context.Background())
	require.Error(t, err)
	assert.Equal(t, 401, port.StatusCode(err))
}
