package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/garyjia/payroll-console/internal/domain/event"
	"github.com/garyjia/payroll-console/pkg/utils"
)

// EmployeeStats are the summary cards of the employee claims and disputes pages
type EmployeeStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// MyClaims is the employee claims page data
type MyClaims struct {
	Claims []entity.Claim `json:"claims"`
	Stats  EmployeeStats  `json:"stats"`
	// Warning is set when the list could not be fetched and sample data is shown
	Warning string `json:"warning,omitempty"`
}

// ClaimInput is the new claim form
type ClaimInput struct {
	Description string `json:"description" form:"description"`
	ClaimType   string `json:"claimType" form:"claimType"`
	Amount      string `json:"amount" form:"amount"`
}

// ClaimService runs the employee claims page
type ClaimService interface {
	MyClaims(ctx context.Context) (*MyClaims, error)
	Submit(ctx context.Context, in ClaimInput) (*ActionResult, error)
}

type claimServiceImpl struct {
	api       port.PayrollAPI
	submitter *workflow.Submitter
	events    port.EventPublisher
	logger    Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(api port.PayrollAPI, submitter *workflow.Submitter, events port.EventPublisher, logger Logger) ClaimService {
	if submitter == nil {
		submitter = workflow.NewSubmitter(nil)
	}
	return &claimServiceImpl{
		api:       api,
		submitter: submitter,
		events:    events,
		logger:    logger,
	}
}

// sampleClaims is shown when the claims list cannot be fetched
func sampleClaims() []entity.Claim {
	return []entity.Claim{
		{
			ClaimID:     "CLAIM-0001",
			Description: "Travel expense for client visit",
			ClaimType:   "TRAVEL",
			Amount:      120.5,
			Status:      entity.StatusUnderReview,
		},
	}
}

// MyClaims fetches the caller's claims. A failed fetch degrades to sample
// data with a warning instead of an error.
func (s *claimServiceImpl) MyClaims(ctx context.Context) (*MyClaims, error) {
	var raw json.RawMessage
	err := s.api.GetJSON(ctx, pathMyClaims, &raw)

	var claims []entity.Claim
	if err == nil {
		claims, err = DecodeList[entity.Claim](raw, "claims")
	}
	if err != nil {
		s.logger.Error("Failed to fetch claims, showing sample data", "error", err)
		claims = sampleClaims()
		return &MyClaims{
			Claims:  claims,
			Stats:   ComputeClaimStats(claims),
			Warning: failureMessage("", err),
		}, nil
	}

	return &MyClaims{Claims: claims, Stats: ComputeClaimStats(claims)}, nil
}

// Submit validates the form and creates the claim
func (s *claimServiceImpl) Submit(ctx context.Context, in ClaimInput) (*ActionResult, error) {
	const prefix = "Error submitting claim"

	req, err := validateClaim(in)
	if err != nil {
		return failed(prefix, err), err
	}

	state, err := s.submitter.Submit(ctx, "claim:new:"+sessionKey(ctx), func(ctx context.Context) error {
		return s.api.PostJSON(ctx, pathCreateClaim, req, nil)
	})
	if err != nil {
		s.logger.Error("Failed to submit claim", "error", err)
		return &ActionResult{Message: failureMessage(prefix, err), Modal: state}, err
	}

	s.logger.Info("Claim submitted", "claim_type", req.ClaimType, "amount", req.Amount)
	publish(ctx, s.events, s.logger, event.NewEvent(event.TypeClaimSubmitted, "", map[string]interface{}{
		"claim_type": req.ClaimType,
		"amount":     req.Amount,
	}))
	return &ActionResult{Message: "Claim submitted successfully", Modal: state}, nil
}

func validateClaim(in ClaimInput) (*entity.NewClaimRequest, error) {
	if utils.Blank(in.Description, in.ClaimType, in.Amount) {
		return nil, invalid("", "Please fill in all required fields.")
	}
	amount, err := utils.ParsePositiveAmount(in.Amount)
	if err != nil {
		return nil, invalid("amount", "Please enter a valid amount greater than zero.")
	}
	return &entity.NewClaimRequest{
		Description: utils.CleanText(in.Description),
		ClaimType:   strings.TrimSpace(in.ClaimType),
		Amount:      amount,
	}, nil
}

// ComputeClaimStats counts claims by status. Pending covers UNDER_REVIEW and
// any status mentioning PENDING.
func ComputeClaimStats(claims []entity.Claim) EmployeeStats {
	stats := EmployeeStats{Total: len(claims)}
	for _, c := range claims {
		status := strings.ToUpper(c.Status)
		switch {
		case strings.Contains(status, entity.StatusUnderReview), strings.Contains(status, entity.StatusPending):
			stats.Pending++
		case status == entity.StatusApproved:
			stats.Approved++
		case status == entity.StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

// sessionKey scopes in-flight keys for new records to the caller
func sessionKey(ctx context.Context) string {
	if session, ok := port.SessionFrom(ctx); ok {
		return session.Cookie
	}
	return ""
}
