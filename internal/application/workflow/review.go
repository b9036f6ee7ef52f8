package workflow

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/garyjia/payroll-console/internal/domain/entity"
)

// Stage is the reviewer level acting on a record
type Stage string

const (
	StageSpecialist Stage = "specialist"
	StageManager    Stage = "manager"
)

// Review parameterizes one list/approve/reject page
type Review struct {
	PageKey  string
	Resource string
	Stage    Stage
	// QueuePath is the backend path listing the records awaiting this stage
	QueuePath string
	// ListKeys are the wrapper keys the queue response may nest records under
	ListKeys []string
	// AllowAmountOverride enables the approved amount field on approval
	AllowAmountOverride bool
	// LoosePending counts any status mentioning "pending" or "review" as pending
	LoosePending bool
}

var (
	ClaimsSpecialistReview = Review{
		PageKey:             PageClaimsSpecialist,
		Resource:            entity.ResourceClaim,
		Stage:               StageSpecialist,
		QueuePath:           "/payroll-tracking/claims/for-specialist-review",
		ListKeys:            []string{"claims", "data"},
		AllowAmountOverride: true,
	}
	ClaimsManagerReview = Review{
		PageKey:             PageClaimsManager,
		Resource:            entity.ResourceClaim,
		Stage:               StageManager,
		QueuePath:           "/payroll-tracking/claims/for-manager-approval",
		ListKeys:            []string{"claims", "data"},
		AllowAmountOverride: true,
	}
	DisputesSpecialistReview = Review{
		PageKey:      PageDisputesSpecialist,
		Resource:     entity.ResourceDispute,
		Stage:        StageSpecialist,
		QueuePath:    "/payroll-tracking/disputes/for-specialist-review",
		ListKeys:     []string{"disputes", "data"},
		LoosePending: true,
	}
	DisputesManagerReview = Review{
		PageKey:      PageDisputesManager,
		Resource:     entity.ResourceDispute,
		Stage:        StageManager,
		QueuePath:    "/payroll-tracking/disputes/for-manager-approval",
		ListKeys:     []string{"disputes", "data"},
		LoosePending: true,
	}
)

// Reviews returns every review page definition
func Reviews() []Review {
	return []Review{ClaimsSpecialistReview, DisputesSpecialistReview, ClaimsManagerReview, DisputesManagerReview}
}

// ReviewByPage returns the review definition backing a page
func ReviewByPage(pageKey string) (Review, bool) {
	for _, r := range Reviews() {
		if r.PageKey == pageKey {
			return r, true
		}
	}
	return Review{}, false
}

// Page returns the console page of the review
func (r Review) Page() Page {
	return MustPage(r.PageKey)
}

// RequiredRole returns the role gating the review page
func (r Review) RequiredRole() string {
	return r.Page().RequiredRole
}

// ApprovePath returns the backend approve action path for record id
func (r Review) ApprovePath(id string) string {
	return r.actionPath(id, "approve")
}

// RejectPath returns the backend reject action path for record id
func (r Review) RejectPath(id string) string {
	return r.actionPath(id, "reject")
}

func (r Review) actionPath(id, action string) string {
	return fmt.Sprintf("/payroll-tracking/%s/%s/%s-%s", r.Resource, url.PathEscape(id), r.Stage, action)
}

// Noun returns the capitalized resource name used in messages ("Claim")
func (r Review) Noun() string {
	if r.Resource == "" {
		return ""
	}
	return strings.ToUpper(r.Resource[:1]) + r.Resource[1:]
}

// IsPending reports whether status counts toward "Pending Review"
func (r Review) IsPending(status string) bool {
	if r.LoosePending {
		s := strings.ToLower(status)
		return strings.Contains(s, "pending") || strings.Contains(s, "review")
	}
	return strings.ToUpper(status) == entity.StatusPending
}
