package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/garyjia/payroll-console/internal/domain/event"
	"github.com/garyjia/payroll-console/pkg/utils"
)

// ReviewStats summarises a review queue
type ReviewStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	// TotalAmount is shown as "Total Amount Pending" and sums every record regardless of status
	TotalAmount   float64 `json:"totalAmount"`
	AverageAmount float64 `json:"averageAmount"`
}

// ReviewQueue is the records awaiting one review stage
type ReviewQueue[T entity.Reviewable] struct {
	Records []T         `json:"records"`
	Stats   ReviewStats `json:"stats"`
}

// ApproveInput is the approval modal form
type ApproveInput struct {
	Comments string `json:"comments" form:"comments"`
	// ApprovedAmount overrides the claimed amount when not blank
	ApprovedAmount string `json:"approvedAmount" form:"approvedAmount"`
	// ClaimedAmount is the record's amount, used when ApprovedAmount is blank
	ClaimedAmount float64 `json:"claimedAmount" form:"claimedAmount"`
}

// RejectInput is the rejection modal form
type RejectInput struct {
	Reason   string `json:"rejectionReason" form:"rejectionReason"`
	Comments string `json:"comments" form:"comments"`
}

// ReviewService runs one list/approve/reject page
type ReviewService[T entity.Reviewable] interface {
	// Review returns the page definition the service was built for
	Review() workflow.Review
	Queue(ctx context.Context) (*ReviewQueue[T], error)
	Approve(ctx context.Context, id string, in ApproveInput) (*ActionResult, error)
	Reject(ctx context.Context, id string, in RejectInput) (*ActionResult, error)
}

type reviewServiceImpl[T entity.Reviewable] struct {
	review    workflow.Review
	api       port.PayrollAPI
	submitter *workflow.Submitter
	events    port.EventPublisher
	logger    Logger
}

// NewReviewService creates a ReviewService for review
func NewReviewService[T entity.Reviewable](
	review workflow.Review,
	api port.PayrollAPI,
	submitter *workflow.Submitter,
	events port.EventPublisher,
	logger Logger,
) ReviewService[T] {
	if submitter == nil {
		submitter = workflow.NewSubmitter(nil)
	}
	return &reviewServiceImpl[T]{
		review:    review,
		api:       api,
		submitter: submitter,
		events:    events,
		logger:    logger,
	}
}

func (s *reviewServiceImpl[T]) Review() workflow.Review {
	return s.review
}

// Queue fetches and normalizes the review queue
func (s *reviewServiceImpl[T]) Queue(ctx context.Context) (*ReviewQueue[T], error) {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, s.review.QueuePath, &raw); err != nil {
		s.logger.Error("Failed to fetch review queue", "page", s.review.PageKey, "error", err)
		return nil, fmt.Errorf("failed to fetch %ss: %w", s.review.Resource, err)
	}

	records, err := DecodeList[T](raw, s.review.ListKeys...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %ss: %w", s.review.Resource, err)
	}

	return &ReviewQueue[T]{
		Records: records,
		Stats:   ComputeReviewStats(s.review, records),
	}, nil
}

// Approve posts the stage approval for record id
func (s *reviewServiceImpl[T]) Approve(ctx context.Context, id string, in ApproveInput) (*ActionResult, error) {
	prefix := fmt.Sprintf("Error approving %s", s.review.Resource)

	body := entity.ApproveRequest{Comments: utils.CleanText(in.Comments)}
	if s.review.AllowAmountOverride {
		amount, err := approvedAmount(in)
		if err != nil {
			return failed(prefix, err), err
		}
		body.ApprovedAmount = amount
	}

	return s.submit(ctx, id, prefix, "approved", s.review.ApprovePath(id), body, true)
}

// Reject posts the stage rejection for record id. A blank reason is refused
// without calling the backend.
func (s *reviewServiceImpl[T]) Reject(ctx context.Context, id string, in RejectInput) (*ActionResult, error) {
	prefix := fmt.Sprintf("Error rejecting %s", s.review.Resource)

	reason := utils.CleanText(in.Reason)
	if reason == "" {
		err := invalid("rejectionReason", "Please provide a rejection reason")
		return failed(prefix, err), err
	}

	body := entity.RejectRequest{RejectionReason: reason, Comments: utils.CleanText(in.Comments)}
	return s.submit(ctx, id, prefix, "rejected", s.review.RejectPath(id), body, false)
}

func (s *reviewServiceImpl[T]) submit(ctx context.Context, id, prefix, verb, path string, body interface{}, approved bool) (*ActionResult, error) {
	if strings.TrimSpace(id) == "" {
		err := invalid("id", fmt.Sprintf("Missing %s id", s.review.Resource))
		return failed(prefix, err), err
	}

	key := s.review.Resource + ":" + id
	state, err := s.submitter.Submit(ctx, key, func(ctx context.Context) error {
		return s.api.PostJSON(ctx, path, body, nil)
	})
	if err != nil {
		s.logger.Error("Review action failed",
			"page", s.review.PageKey,
			"record_id", id,
			"action", verb,
			"error", err,
		)
		return &ActionResult{Message: failureMessage(prefix, err), Modal: state}, err
	}

	s.logger.Info("Review action completed", "page", s.review.PageKey, "record_id", id, "action", verb)
	publish(ctx, s.events, s.logger, event.NewEvent(event.ReviewType(s.review.Resource, approved), id, map[string]interface{}{
		"stage": string(s.review.Stage),
	}))

	return &ActionResult{
		Message: fmt.Sprintf("%s %s successfully!", s.review.Noun(), verb),
		Modal:   state,
	}, nil
}

// approvedAmount resolves the approval amount: the override when given,
// else the claimed amount as is.
func approvedAmount(in ApproveInput) (*float64, error) {
	raw := strings.TrimSpace(in.ApprovedAmount)
	if raw == "" {
		v := in.ClaimedAmount
		return &v, nil
	}

	v, err := utils.ParsePositiveAmount(raw)
	if err != nil {
		return nil, invalid("approvedAmount", "Please enter a valid approved amount greater than zero.")
	}
	return &v, nil
}

// ComputeReviewStats derives the summary cards of a review page
func ComputeReviewStats[T entity.Reviewable](review workflow.Review, records []T) ReviewStats {
	stats := ReviewStats{Total: len(records)}
	for _, r := range records {
		status := strings.ToUpper(r.StatusValue())
		if review.IsPending(r.StatusValue()) {
			stats.Pending++
		}
		switch status {
		case entity.StatusApproved:
			stats.Approved++
		case entity.StatusRejected:
			stats.Rejected++
		}
		stats.TotalAmount += r.ClaimedAmount()
	}
	if stats.Total > 0 {
		stats.AverageAmount = stats.TotalAmount / float64(stats.Total)
	}
	return stats
}
