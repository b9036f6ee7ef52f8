package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/garyjia/payroll-console/internal/domain/event"
	"github.com/garyjia/payroll-console/pkg/utils"
)

// RefundFilter narrows the refunds table. Blank or "all" disables a filter;
// unparsable amounts are ignored.
type RefundFilter struct {
	Status    string `form:"status" json:"status"`
	Type      string `form:"type" json:"type"`
	MinAmount string `form:"minAmount" json:"minAmount"`
	MaxAmount string `form:"maxAmount" json:"maxAmount"`
}

// Match reports whether r passes the filter
func (f RefundFilter) Match(r entity.Refund) bool {
	if s := strings.TrimSpace(f.Status); s != "" && !strings.EqualFold(s, "all") && !strings.EqualFold(r.Status, s) {
		return false
	}
	if t := strings.TrimSpace(f.Type); t != "" && !strings.EqualFold(t, "all") && r.Kind() != strings.ToLower(t) {
		return false
	}
	amount := r.Amount()
	if lo, err := utils.ParseAmount(f.MinAmount); err == nil && amount < lo {
		return false
	}
	if hi, err := utils.ParseAmount(f.MaxAmount); err == nil && amount > hi {
		return false
	}
	return true
}

// RefundStats are the summary cards of the refunds page, over all refunds
type RefundStats struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	PendingAmount float64 `json:"pendingAmount"`
	PaidAmount    float64 `json:"paidAmount"`
}

// AwaitingRefund is an approved dispute or claim with no refund yet
type AwaitingRefund struct {
	Type            string    `json:"type"`
	RecordID        string    `json:"recordId"`
	DisplayID       string    `json:"displayId"`
	EmployeeDisplay string    `json:"employeeDisplayId"`
	Description     string    `json:"description"`
	Amount          float64   `json:"amount"`
	ApprovedAt      time.Time `json:"approvedAt"`
}

// RefundInput is the create refund form
type RefundInput struct {
	Type        string `form:"type" json:"type"`
	RecordID    string `form:"recordId" json:"recordId"`
	Amount      string `form:"amount" json:"amount"`
	Description string `form:"description" json:"description"`
}

// MarkPaidInput is the mark paid form
type MarkPaidInput struct {
	PayrollRunID string `form:"payrollRunId" json:"payrollRunId"`
}

// RefundOverview is the refunds page data
type RefundOverview struct {
	Refunds []entity.Refund `json:"refunds"`
	// FilteredTotal is the sum of the amounts in Refunds
	FilteredTotal float64          `json:"filteredTotal"`
	Filter        RefundFilter     `json:"filter"`
	Stats         RefundStats      `json:"stats"`
	Awaiting      []AwaitingRefund `json:"awaiting"`
}

// RefundService runs the finance refunds page
type RefundService interface {
	Overview(ctx context.Context, filter RefundFilter) (*RefundOverview, error)
	Create(ctx context.Context, in RefundInput) (*ActionResult, error)
	MarkPaid(ctx context.Context, id string, in MarkPaidInput) (*ActionResult, error)
	Export(ctx context.Context, filter RefundFilter) (*ExportFile, error)
}

type refundServiceImpl struct {
	api         port.PayrollAPI
	spreadsheet port.Spreadsheet
	submitter   *workflow.Submitter
	events      port.EventPublisher
	logger      Logger
}

// NewRefundService creates a new RefundService
func NewRefundService(
	api port.PayrollAPI,
	spreadsheet port.Spreadsheet,
	submitter *workflow.Submitter,
	events port.EventPublisher,
	logger Logger,
) RefundService {
	if submitter == nil {
		submitter = workflow.NewSubmitter(nil)
	}
	return &refundServiceImpl{
		api:         api,
		spreadsheet: spreadsheet,
		submitter:   submitter,
		events:      events,
		logger:      logger,
	}
}

func (s *refundServiceImpl) listRefunds(ctx context.Context) ([]entity.Refund, error) {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, pathRefunds, &raw); err != nil {
		s.logger.Error("Failed to fetch refunds", "error", err)
		return nil, fmt.Errorf("failed to fetch refunds: %w", err)
	}
	refunds, err := DecodeList[entity.Refund](raw, "refunds", "data")
	if err != nil {
		return nil, err
	}
	for i := range refunds {
		refunds[i] = refunds[i].Normalize()
	}
	return refunds, nil
}

// Overview fetches refunds and approved records and applies filter
func (s *refundServiceImpl) Overview(ctx context.Context, filter RefundFilter) (*RefundOverview, error) {
	refunds, err := s.listRefunds(ctx)
	if err != nil {
		return nil, err
	}

	var approved entity.ApprovedRecords
	if err := s.api.GetJSON(ctx, pathApprovedRecords, &approved); err != nil {
		s.logger.Error("Failed to fetch approved records", "error", err)
		approved = entity.ApprovedRecords{}
	}

	filtered := FilterRefunds(refunds, filter)
	return &RefundOverview{
		Refunds:       filtered,
		FilteredTotal: SumRefunds(filtered),
		Filter:        filter,
		Stats:         ComputeRefundStats(refunds),
		Awaiting:      AwaitingRefunds(approved, refunds),
	}, nil
}

// Create validates the form and creates the refund
func (s *refundServiceImpl) Create(ctx context.Context, in RefundInput) (*ActionResult, error) {
	const prefix = "Error creating refund"

	req, err := validateRefund(in)
	if err != nil {
		return failed(prefix, err), err
	}

	var resp entity.ActionResponse
	state, err := s.submitter.Submit(ctx, "refund:create:"+req.RecordID, func(ctx context.Context) error {
		return s.api.PostJSON(ctx, pathCreateRefund, req, &resp)
	})
	if err != nil {
		s.logger.Error("Failed to create refund", "record_id", req.RecordID, "error", err)
		return &ActionResult{Message: failureMessage(prefix, err), Modal: state}, err
	}

	s.logger.Info("Refund created", "record_id", req.RecordID, "type", req.Type, "amount", req.RefundAmount)
	publish(ctx, s.events, s.logger, event.NewEvent(event.TypeRefundCreated, req.RecordID, map[string]interface{}{
		"type":   req.Type,
		"amount": req.RefundAmount,
	}))
	return &ActionResult{Message: messageOr(resp.Message, "Refund created successfully!"), Modal: state}, nil
}

// MarkPaid records the payroll run that paid refund id
func (s *refundServiceImpl) MarkPaid(ctx context.Context, id string, in MarkPaidInput) (*ActionResult, error) {
	const prefix = "Error marking refund as paid"

	runID := strings.TrimSpace(in.PayrollRunID)
	if strings.TrimSpace(id) == "" || runID == "" {
		err := invalid("payrollRunId", "Please enter payroll run ID")
		return failed(prefix, err), err
	}

	var resp entity.ActionResponse
	state, err := s.submitter.Submit(ctx, "refund:"+id, func(ctx context.Context) error {
		return s.api.PostJSON(ctx, pathMarkPaid(id), entity.MarkPaidRequest{PayrollRunID: runID}, &resp)
	})
	if err != nil {
		s.logger.Error("Failed to mark refund as paid", "refund_id", id, "error", err)
		return &ActionResult{Message: failureMessage(prefix, err), Modal: state}, err
	}

	s.logger.Info("Refund marked as paid", "refund_id", id, "payroll_run_id", runID)
	publish(ctx, s.events, s.logger, event.NewEvent(event.TypeRefundPaid, id, map[string]interface{}{
		"payroll_run_id": runID,
	}))
	return &ActionResult{Message: messageOr(resp.Message, "Refund marked as paid successfully!"), Modal: state}, nil
}

// Export renders the filtered refunds as a spreadsheet
func (s *refundServiceImpl) Export(ctx context.Context, filter RefundFilter) (*ExportFile, error) {
	refunds, err := s.listRefunds(ctx)
	if err != nil {
		return nil, err
	}
	filtered := FilterRefunds(refunds, filter)

	header := []string{"Refund ID", "Type", "Record", "Employee", "Amount", "Status", "Payroll Run", "Created"}
	rows := make([][]interface{}, 0, len(filtered)+1)
	for _, r := range filtered {
		rows = append(rows, []interface{}{
			r.ID,
			r.Kind(),
			r.ReadableID(),
			r.Employee.EmployeeDisplay(),
			r.Amount(),
			r.Status,
			r.PayrollRunID.ID,
			formatDate(r.CreatedAt),
		})
	}
	rows = append(rows, []interface{}{"Total", "", "", "", SumRefunds(filtered), "", "", ""})

	data, err := s.spreadsheet.Write("Refunds", header, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to render refunds export: %w", err)
	}
	return &ExportFile{Filename: "refunds.xlsx", ContentType: XLSXContentType, Data: data}, nil
}

func validateRefund(in RefundInput) (*entity.CreateRefundRequest, error) {
	if utils.Blank(in.RecordID, in.Amount) {
		return nil, invalid("", "Please fill in all required fields")
	}
	amount, err := utils.ParsePositiveAmount(in.Amount)
	if err != nil {
		return nil, invalid("amount", "Please enter a valid refund amount greater than zero.")
	}

	kind := strings.ToLower(strings.TrimSpace(in.Type))
	switch kind {
	case "":
		kind = entity.RefundTypeDispute
	case entity.RefundTypeDispute, entity.RefundTypeClaim:
	default:
		return nil, invalid("type", "Refund type must be dispute or claim")
	}

	return &entity.CreateRefundRequest{
		Type:         kind,
		RecordID:     strings.TrimSpace(in.RecordID),
		RefundAmount: amount,
		Description:  utils.CleanText(in.Description),
	}, nil
}

// FilterRefunds returns the refunds matching filter, preserving order
func FilterRefunds(refunds []entity.Refund, filter RefundFilter) []entity.Refund {
	out := make([]entity.Refund, 0, len(refunds))
	for _, r := range refunds {
		if filter.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// SumRefunds sums the normalized refund amounts
func SumRefunds(refunds []entity.Refund) float64 {
	var total float64
	for _, r := range refunds {
		total += r.Amount()
	}
	return total
}

// ComputeRefundStats derives the refunds summary cards
func ComputeRefundStats(refunds []entity.Refund) RefundStats {
	stats := RefundStats{Total: len(refunds)}
	for _, r := range refunds {
		switch {
		case r.IsPending():
			stats.Pending++
			stats.PendingAmount += r.Amount()
		case strings.EqualFold(r.Status, entity.RefundStatusPaid):
			stats.PaidAmount += r.Amount()
		}
	}
	return stats
}

// AwaitingRefunds lists approved records not yet linked to any refund
func AwaitingRefunds(approved entity.ApprovedRecords, refunds []entity.Refund) []AwaitingRefund {
	refundedDisputes := map[string]bool{}
	refundedClaims := map[string]bool{}
	for _, r := range refunds {
		id := r.LinkedRecordID()
		if id == "" {
			continue
		}
		switch r.Kind() {
		case entity.RefundTypeDispute:
			refundedDisputes[id] = true
		case entity.RefundTypeClaim:
			refundedClaims[id] = true
		default:
			refundedDisputes[id] = true
			refundedClaims[id] = true
		}
	}

	out := make([]AwaitingRefund, 0, len(approved.Disputes)+len(approved.Claims))
	for _, d := range approved.Disputes {
		if refundedDisputes[d.ID] {
			continue
		}
		out = append(out, AwaitingRefund{
			Type:            entity.RefundTypeDispute,
			RecordID:        d.ID,
			DisplayID:       d.DisplayID(),
			EmployeeDisplay: d.Employee.EmployeeDisplay(),
			Description:     d.Description,
			Amount:          d.RefundAmount,
			ApprovedAt:      d.UpdatedAt,
		})
	}
	for _, c := range approved.Claims {
		if refundedClaims[c.ID] {
			continue
		}
		out = append(out, AwaitingRefund{
			Type:            entity.RefundTypeClaim,
			RecordID:        c.ID,
			DisplayID:       c.DisplayID(),
			EmployeeDisplay: c.Employee.EmployeeDisplay(),
			Description:     c.Description,
			Amount:          c.RefundableAmount(),
			ApprovedAt:      c.UpdatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ApprovedAt.After(out[j].ApprovedAt) })
	return out
}

func messageOr(message, fallback string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	return fallback
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
