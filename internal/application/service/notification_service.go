package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/domain/entity"
)

// Notification filters
const (
	FilterAll    = "all"
	FilterUnread = "unread"
)

// NotificationQuery carries the page's local state. Read and Hidden are
// notification ids the user marked read or dismissed on this page.
type NotificationQuery struct {
	Filter string   `form:"filter" json:"filter"`
	Read   []string `form:"read" json:"read"`
	Hidden []string `form:"hidden" json:"hidden"`
}

// NotificationFeed is the finance notifications page data
type NotificationFeed struct {
	Notifications []entity.Notification `json:"notifications"`
	Filter        string                `json:"filter"`
	Total         int                   `json:"total"`
	UnreadCount   int                   `json:"unreadCount"`
	// Records still waiting for a manager decision
	PendingManagerDisputes int `json:"pendingManagerDisputes"`
	PendingManagerClaims   int `json:"pendingManagerClaims"`
}

// NotificationService derives finance notifications from approved records
type NotificationService interface {
	Feed(ctx context.Context, q NotificationQuery) (*NotificationFeed, error)
	// Approved returns every derived notification, newest first
	Approved(ctx context.Context) ([]entity.Notification, error)
}

type notificationServiceImpl struct {
	api    port.PayrollAPI
	logger Logger
	now    func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(api port.PayrollAPI, logger Logger) NotificationService {
	return &notificationServiceImpl{
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// Feed fetches the three sources concurrently. A failing source contributes nothing.
func (s *notificationServiceImpl) Feed(ctx context.Context, q NotificationQuery) (*NotificationFeed, error) {
	var (
		approved entity.ApprovedRecords
		disputes []entity.Dispute
		claims   []entity.Claim
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		approved = s.fetchApproved(gctx)
		return nil
	})
	g.Go(func() error {
		disputes = fetchListQuietly[entity.Dispute](gctx, s.api, s.logger, pathDisputesForManager, "disputes")
		return nil
	})
	g.Go(func() error {
		claims = fetchListQuietly[entity.Claim](gctx, s.api, s.logger, pathClaimsForManager, "claims")
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("notifications fetch cancelled: %w", err)
	}

	all := ApplyLocalState(DeriveNotifications(approved, s.now()), q.Read, q.Hidden)
	filter := q.Filter
	if filter == "" {
		filter = FilterAll
	}

	return &NotificationFeed{
		Notifications:          FilterNotifications(all, filter),
		Filter:                 filter,
		Total:                  len(all),
		UnreadCount:            CountUnread(all),
		PendingManagerDisputes: len(disputes),
		PendingManagerClaims:   len(claims),
	}, nil
}

func (s *notificationServiceImpl) Approved(ctx context.Context) ([]entity.Notification, error) {
	var approved entity.ApprovedRecords
	if err := s.api.GetJSON(ctx, pathApprovedRecords, &approved); err != nil {
		return nil, fmt.Errorf("failed to fetch approved records: %w", err)
	}
	return DeriveNotifications(approved, s.now()), nil
}

func (s *notificationServiceImpl) fetchApproved(ctx context.Context) entity.ApprovedRecords {
	var approved entity.ApprovedRecords
	if err := s.api.GetJSON(ctx, pathApprovedRecords, &approved); err != nil {
		s.logger.Error("Failed to fetch approved records", "error", err)
		return entity.ApprovedRecords{}
	}
	return approved
}

func fetchListQuietly[T any](ctx context.Context, api port.PayrollAPI, logger Logger, path string, keys ...string) []T {
	var raw json.RawMessage
	if err := api.GetJSON(ctx, path, &raw); err != nil {
		logger.Error("Failed to fetch list", "path", path, "error", err)
		return []T{}
	}
	list, err := DecodeList[T](raw, keys...)
	if err != nil {
		logger.Error("Failed to decode list", "path", path, "error", err)
		return []T{}
	}
	return list
}

// DeriveNotifications builds one notification per approved dispute and claim,
// newest first. Records without updatedAt are stamped with now.
func DeriveNotifications(approved entity.ApprovedRecords, now time.Time) []entity.Notification {
	out := make([]entity.Notification, 0, len(approved.Disputes)+len(approved.Claims))

	for _, d := range approved.Disputes {
		out = append(out, entity.Notification{
			ID:              "dispute_" + d.ID,
			Type:            entity.NotificationDisputeApproved,
			Title:           "Dispute Approved for Refund",
			Description:     fmt.Sprintf("Dispute %s has been approved and requires refund processing", d.DisputeID),
			RecordID:        d.ID,
			RecordDisplayID: d.DisputeID,
			EmployeeID:      d.Employee.ID,
			EmployeeDisplay: d.Employee.EmployeeDisplay(),
			Amount:          d.RefundAmount,
			CreatedAt:       stamp(d.UpdatedAt, now),
		})
	}

	for _, c := range approved.Claims {
		out = append(out, entity.Notification{
			ID:              "claim_" + c.ID,
			Type:            entity.NotificationClaimApproved,
			Title:           "Claim Approved for Refund",
			Description:     fmt.Sprintf("Claim %s has been approved and requires refund processing", c.ClaimID),
			RecordID:        c.ID,
			RecordDisplayID: c.ClaimID,
			EmployeeID:      c.Employee.ID,
			EmployeeDisplay: c.Employee.EmployeeDisplay(),
			Amount:          c.RefundableAmount(),
			CreatedAt:       stamp(c.UpdatedAt, now),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func stamp(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}

// ApplyLocalState marks read ids and drops hidden ids
func ApplyLocalState(notifications []entity.Notification, read, hidden []string) []entity.Notification {
	readSet := toSet(read)
	hiddenSet := toSet(hidden)

	out := make([]entity.Notification, 0, len(notifications))
	for _, n := range notifications {
		if hiddenSet[n.ID] {
			continue
		}
		if readSet[n.ID] {
			n.Read = true
		}
		out = append(out, n)
	}
	return out
}

// FilterNotifications applies all, unread or a notification type
func FilterNotifications(notifications []entity.Notification, filter string) []entity.Notification {
	switch filter {
	case "", FilterAll:
		return notifications
	}

	out := make([]entity.Notification, 0, len(notifications))
	for _, n := range notifications {
		if filter == FilterUnread && !n.Read || n.Type == filter {
			out = append(out, n)
		}
	}
	return out
}

// CountUnread counts notifications not marked read
func CountUnread(notifications []entity.Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
