package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/domain/entity"
)

// DefaultMisconductTimeout bounds the misconduct deductions lookup
const DefaultMisconductTimeout = 10 * time.Second

// Misconduct error kinds
const (
	ErrorKindNetwork    = "network"
	ErrorKindServer     = "server"
	ErrorKindValidation = "validation"
	ErrorKindTimeout    = "timeout"
	ErrorKindUnknown    = "unknown"
)

// TaxView is the payslip tax details page data. Deduction is nil when no
// payslip could be resolved.
type TaxView struct {
	PayslipID string               `json:"payslipId"`
	Deduction *entity.TaxDeduction `json:"deduction"`
}

// ClassifiedError is a fetch failure shown with a retry link
type ClassifiedError struct {
	Kind    string `json:"type"`
	Message string `json:"message"`
}

// MisconductView is the misconduct deductions page data
type MisconductView struct {
	Start      time.Time                    `json:"start"`
	End        time.Time                    `json:"end"`
	Label      string                       `json:"label"`
	Deductions []entity.MisconductDeduction `json:"deductions"`
	// Dropped counts records that failed validation
	Dropped int `json:"dropped"`
	// PotentialTotal sums the potential deduction amounts
	PotentialTotal float64          `json:"potentialTotal"`
	Error          *ClassifiedError `json:"error,omitempty"`
}

// ContributionsView is the employer contributions page data. Warning carries
// the backend's error field, shown alongside zeroed figures.
type ContributionsView struct {
	Contributions entity.EmployerContributions `json:"contributions"`
	Warning       string                       `json:"warning,omitempty"`
}

// DeductionService runs the payslip breakdown pages
type DeductionService interface {
	Tax(ctx context.Context, payslipID string) (*TaxView, error)
	Insurance(ctx context.Context) (*entity.InsuranceDeductions, error)
	// Misconduct never fails; lookup errors are classified into the view.
	// month is an optional "2006-01" override of the payslip month.
	Misconduct(ctx context.Context, month string) *MisconductView
	UnpaidLeave(ctx context.Context) (*entity.UnpaidLeaveDeductions, error)
	UnusedLeave(ctx context.Context) (*entity.LeaveCompensation, error)
	BaseSalary(ctx context.Context) (*entity.BaseSalary, error)
	EmployerContributions(ctx context.Context) (*ContributionsView, error)
}

type deductionServiceImpl struct {
	api               port.PayrollAPI
	logger            Logger
	misconductTimeout time.Duration
	now               func() time.Time
}

// NewDeductionService creates a new DeductionService
func NewDeductionService(api port.PayrollAPI, misconductTimeout time.Duration, logger Logger) DeductionService {
	if misconductTimeout <= 0 {
		misconductTimeout = DefaultMisconductTimeout
	}
	return &deductionServiceImpl{
		api:               api,
		logger:            logger,
		misconductTimeout: misconductTimeout,
		now:               time.Now,
	}
}

// Tax fetches the tax breakdown of payslipID, defaulting to the latest payslip
func (s *deductionServiceImpl) Tax(ctx context.Context, payslipID string) (*TaxView, error) {
	payslipID = strings.TrimSpace(payslipID)
	if payslipID == "" {
		latest, err := s.latestPayslip(ctx)
		if err != nil && !port.IsNotFound(err) {
			return nil, err
		}
		if latest == nil {
			return &TaxView{}, nil
		}
		payslipID = latest.Identifier()
	}

	var deduction entity.TaxDeduction
	if err := s.api.GetJSON(ctx, pathTaxDeduction(payslipID), &deduction); err != nil {
		s.logger.Error("Failed to fetch tax details", "payslip_id", payslipID, "error", err)
		return nil, fmt.Errorf("failed to load tax details: %w", err)
	}
	if deduction.Taxes == nil {
		deduction.Taxes = []entity.TaxItem{}
	}
	return &TaxView{PayslipID: payslipID, Deduction: &deduction}, nil
}

func (s *deductionServiceImpl) Insurance(ctx context.Context) (*entity.InsuranceDeductions, error) {
	var out entity.InsuranceDeductions
	if err := s.get(ctx, pathInsuranceDeductions, "insurance deductions", &out); err != nil {
		return nil, err
	}
	if out.Insurances == nil {
		out.Insurances = []entity.InsuranceDetail{}
	}
	return &out, nil
}

func (s *deductionServiceImpl) UnpaidLeave(ctx context.Context) (*entity.UnpaidLeaveDeductions, error) {
	var out entity.UnpaidLeaveDeductions
	if err := s.get(ctx, pathUnpaidLeaveDeductions, "unpaid leave deductions", &out); err != nil {
		return nil, err
	}
	if out.Details == nil {
		out.Details = []entity.UnpaidLeaveDetail{}
	}
	return &out, nil
}

func (s *deductionServiceImpl) UnusedLeave(ctx context.Context) (*entity.LeaveCompensation, error) {
	var out entity.LeaveCompensation
	if err := s.get(ctx, pathUnusedLeave, "unused leave compensation", &out); err != nil {
		return nil, err
	}
	if out.LeaveBreakdown == nil {
		out.LeaveBreakdown = []entity.LeaveBreakdown{}
	}
	return &out, nil
}

func (s *deductionServiceImpl) BaseSalary(ctx context.Context) (*entity.BaseSalary, error) {
	var out entity.BaseSalary
	if err := s.get(ctx, pathBaseSalary, "contract details", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *deductionServiceImpl) EmployerContributions(ctx context.Context) (*ContributionsView, error) {
	var body struct {
		entity.EmployerContributions
		Error string `json:"error"`
	}
	if err := s.get(ctx, pathEmployerContributions, "employer contributions", &body); err != nil {
		return nil, err
	}
	if body.Error != "" {
		return &ContributionsView{
			Contributions: entity.EmployerContributions{
				Insurance:  []entity.ContributionItem{},
				Allowances: []entity.ContributionItem{},
			},
			Warning: body.Error,
		}, nil
	}

	c := body.EmployerContributions
	if c.Insurance == nil {
		c.Insurance = []entity.ContributionItem{}
	}
	if c.Allowances == nil {
		c.Allowances = []entity.ContributionItem{}
	}
	return &ContributionsView{Contributions: c}, nil
}

// Misconduct resolves the month of the latest payslip, falling back to the
// current month, and lists the deductions recorded in it.
func (s *deductionServiceImpl) Misconduct(ctx context.Context, month string) *MisconductView {
	r := s.misconductRange(ctx, month)
	view := &MisconductView{
		Start:      r.Start,
		End:        r.End,
		Label:      r.Label(),
		Deductions: []entity.MisconductDeduction{},
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.misconductTimeout)
	defer cancel()

	var raw json.RawMessage
	err := s.api.GetJSON(lookupCtx, pathMisconduct(r), &raw)
	if err == nil {
		view.Deductions, view.Dropped, err = decodeMisconduct(raw)
	}
	if err != nil {
		classified := ClassifyFetchError(err)
		s.logger.Error("Failed to fetch misconduct deductions", "kind", classified.Kind, "error", err)
		view.Error = &classified
		return view
	}

	if view.Dropped > 0 {
		s.logger.Info("Dropped invalid misconduct records", "dropped", view.Dropped)
	}
	for _, d := range view.Deductions {
		if d.PotentialDeductionAmount != nil {
			view.PotentialTotal += *d.PotentialDeductionAmount
		}
	}
	return view
}

func (s *deductionServiceImpl) misconductRange(ctx context.Context, month string) entity.DateRange {
	if month = strings.TrimSpace(month); month != "" {
		if t, err := time.ParseInLocation("2006-01", month, time.Local); err == nil {
			return entity.MonthRange(t)
		}
	}

	latest, err := s.latestPayslip(ctx)
	if err != nil || latest == nil || latest.CreatedAt.IsZero() {
		s.logger.Info("Using current month for misconduct lookup", "error", err)
		return entity.MonthRange(s.now())
	}
	return entity.MonthRange(latest.CreatedAt.In(time.Local))
}

func pathMisconduct(r entity.DateRange) string {
	q := url.Values{}
	q.Set("startDate", isoTime(r.Start))
	q.Set("endDate", isoTime(r.End))
	return pathMisconductDeductions + "?" + q.Encode()
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// decodeMisconduct requires a JSON array and drops records that fail validation
func decodeMisconduct(raw json.RawMessage) ([]entity.MisconductDeduction, int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, 0, invalid("", "Invalid response format: expected array")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, invalid("", "Invalid response format: expected array")
	}

	valid := make([]entity.MisconductDeduction, 0, len(items))
	for _, item := range items {
		var d entity.MisconductDeduction
		if err := json.Unmarshal(item, &d); err != nil || !d.Valid() {
			continue
		}
		valid = append(valid, d)
	}
	return valid, len(items) - len(valid), nil
}

// ClassifyFetchError maps a lookup failure onto network, server, validation,
// timeout or unknown.
func ClassifyFetchError(err error) ClassifiedError {
	if err == nil {
		return ClassifiedError{Kind: ErrorKindUnknown, Message: "An unexpected error occurred. Please try again."}
	}
	if isTimeout(err) {
		return ClassifiedError{Kind: ErrorKindTimeout, Message: "Request timed out. The server took too long to respond."}
	}

	var apiErr *port.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("Server Error: %d", apiErr.StatusCode)
		}
		kind := ErrorKindValidation
		if strings.Contains(msg, "Server Error") {
			kind = ErrorKindServer
		}
		return ClassifiedError{Kind: kind, Message: msg}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifiedError{Kind: ErrorKindNetwork, Message: "Network error. Please check your connection."}
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return ClassifiedError{Kind: ErrorKindValidation, Message: msg}
	}
	return ClassifiedError{Kind: ErrorKindUnknown, Message: "An unexpected error occurred. Please try again."}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (s *deductionServiceImpl) latestPayslip(ctx context.Context) (*entity.Payslip, error) {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, pathMyPayslip, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch payslip: %w", err)
	}
	payslips, err := DecodeListOrSingle[entity.Payslip](raw, "payslips", "data")
	if err != nil {
		return nil, fmt.Errorf("failed to decode payslip: %w", err)
	}
	return LatestPayslip(payslips), nil
}

func (s *deductionServiceImpl) get(ctx context.Context, path, what string, out interface{}) error {
	if err := s.api.GetJSON(ctx, path, out); err != nil {
		s.logger.Error("Failed to fetch "+what, "error", err)
		return fmt.Errorf("failed to fetch %s: %w", what, err)
	}
	return nil
}
