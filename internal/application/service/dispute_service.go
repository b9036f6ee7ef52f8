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

// MyDisputes is the employee disputes page data
type MyDisputes struct {
	Disputes []entity.Dispute `json:"disputes"`
	// Stats.Approved counts APPROVED and RESOLVED disputes
	Stats EmployeeStats `json:"stats"`
	// Payslips are the options of the new dispute form
	Payslips []entity.Payslip `json:"payslips"`
	// Warning is set when the disputes could not be fetched and sample data is shown
	Warning string `json:"warning,omitempty"`
}

// DisputeInput is the new dispute form
type DisputeInput struct {
	PayslipID   string `json:"payslipId" form:"payslipId"`
	Description string `json:"description" form:"description"`
}

// DisputeService runs the employee disputes page
type DisputeService interface {
	MyDisputes(ctx context.Context) (*MyDisputes, error)
	Submit(ctx context.Context, in DisputeInput) (*ActionResult, error)
}

type disputeServiceImpl struct {
	api       port.PayrollAPI
	submitter *workflow.Submitter
	events    port.EventPublisher
	logger    Logger
}

// NewDisputeService creates a new DisputeService
func NewDisputeService(api port.PayrollAPI, submitter *workflow.Submitter, events port.EventPublisher, logger Logger) DisputeService {
	if submitter == nil {
		submitter = workflow.NewSubmitter(nil)
	}
	return &disputeServiceImpl{
		api:       api,
		submitter: submitter,
		events:    events,
		logger:    logger,
	}
}

// sampleDisputes is shown when the disputes list cannot be fetched
func sampleDisputes() []entity.Dispute {
	return []entity.Dispute{
		{
			DisputeID:   "1",
			Description: "Incorrect overtime calculation for November",
			Status:      entity.StatusPending,
		},
	}
}

// MyDisputes fetches the caller's disputes and the payslips they may dispute.
// A failed fetch degrades to sample data with a warning instead of an error.
func (s *disputeServiceImpl) MyDisputes(ctx context.Context) (*MyDisputes, error) {
	var raw json.RawMessage
	err := s.api.GetJSON(ctx, pathMyDisputes, &raw)

	var disputes []entity.Dispute
	if err == nil {
		disputes, err = DecodeList[entity.Dispute](raw, "disputes")
	}

	page := &MyDisputes{Payslips: s.payslipOptions(ctx)}
	if err != nil {
		s.logger.Error("Failed to fetch disputes, showing sample data", "error", err)
		disputes = sampleDisputes()
		page.Warning = failureMessage("", err)
	}
	page.Disputes = disputes
	page.Stats = ComputeDisputeStats(disputes)
	return page, nil
}

// payslipOptions degrades to no options; the form then cannot be submitted
func (s *disputeServiceImpl) payslipOptions(ctx context.Context) []entity.Payslip {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, pathMyPayslip, &raw); err != nil {
		s.logger.Info("Payslips unavailable for dispute form", "error", err)
		return []entity.Payslip{}
	}
	payslips, err := DecodeListOrSingle[entity.Payslip](raw, "payslips")
	if err != nil {
		s.logger.Info("Payslips unreadable for dispute form", "error", err)
		return []entity.Payslip{}
	}
	return payslips
}

// Submit validates the form and creates the dispute
func (s *disputeServiceImpl) Submit(ctx context.Context, in DisputeInput) (*ActionResult, error) {
	const prefix = "Error submitting dispute"

	if utils.Blank(in.PayslipID, in.Description) {
		err := invalid("", "Please select a payslip and enter a description")
		return failed(prefix, err), err
	}
	req := entity.NewDisputeRequest{
		PayslipID:   strings.TrimSpace(in.PayslipID),
		Description: utils.CleanText(in.Description),
	}

	state, err := s.submitter.Submit(ctx, "dispute:new:"+req.PayslipID, func(ctx context.Context) error {
		return s.api.PostJSON(ctx, pathCreateDispute, req, nil)
	})
	if err != nil {
		s.logger.Error("Failed to submit dispute", "payslip_id", req.PayslipID, "error", err)
		return &ActionResult{Message: failureMessage(prefix, err), Modal: state}, err
	}

	s.logger.Info("Dispute submitted", "payslip_id", req.PayslipID)
	publish(ctx, s.events, s.logger, event.NewEvent(event.TypeDisputeSubmitted, "", map[string]interface{}{
		"payslip_id": req.PayslipID,
	}))
	return &ActionResult{Message: "Dispute submitted successfully!", Modal: state}, nil
}

// ComputeDisputeStats counts disputes by status
func ComputeDisputeStats(disputes []entity.Dispute) EmployeeStats {
	stats := EmployeeStats{Total: len(disputes)}
	for _, d := range disputes {
		switch strings.ToUpper(d.Status) {
		case entity.StatusPending:
			stats.Pending++
		case entity.StatusApproved, entity.StatusResolved:
			stats.Approved++
		case entity.StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}
