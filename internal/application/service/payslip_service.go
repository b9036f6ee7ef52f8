package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/domain/entity"
)

// PayslipTotals are the derived sums shown on the payslip page
type PayslipTotals struct {
	// Allowances counts approved allowances only
	Allowances        float64 `json:"allowances"`
	Bonuses           float64 `json:"bonuses"`
	Benefits          float64 `json:"benefits"`
	Refunds           float64 `json:"refunds"`
	Taxes             float64 `json:"taxes"`
	EmployeeInsurance float64 `json:"employeeInsurance"`
	Penalties         float64 `json:"penalties"`
	Gross             float64 `json:"gross"`
	Deductions        float64 `json:"deductions"`
	NetPay            float64 `json:"netPay"`
}

// PayslipView is the view my payslip page data. Payslip is nil when the
// employee has no payslip yet.
type PayslipView struct {
	Payslip *entity.Payslip `json:"payslip"`
	Totals  PayslipTotals   `json:"totals"`
}

// PayslipHistory is the payslip history page data
type PayslipHistory struct {
	Payslips []entity.PayslipSummary `json:"payslips"`
}

// SalaryHistory is the salary history page data
type SalaryHistory struct {
	Payslips []entity.Payslip `json:"payslips"`
	// TotalEarnings is the sum of net pay over Payslips
	TotalEarnings float64 `json:"totalEarnings"`
}

// PayslipPreview is the first page of the payslip rendered as PNG
type PayslipPreview struct {
	Image []byte
	Pages int
}

// PayslipService runs the employee payslip pages
type PayslipService interface {
	Current(ctx context.Context) (*PayslipView, error)
	History(ctx context.Context) (*PayslipHistory, error)
	SalaryHistory(ctx context.Context) (*SalaryHistory, error)
	Download(ctx context.Context) (*entity.PayslipFile, error)
	Preview(ctx context.Context) (*PayslipPreview, error)
}

type payslipServiceImpl struct {
	api       port.PayrollAPI
	previewer port.DocumentPreviewer
	logger    Logger
}

// NewPayslipService creates a new PayslipService. previewer may be nil, in
// which case Preview always fails.
func NewPayslipService(api port.PayrollAPI, previewer port.DocumentPreviewer, logger Logger) PayslipService {
	return &payslipServiceImpl{
		api:       api,
		previewer: previewer,
		logger:    logger,
	}
}

// Current returns the latest payslip with defaults merged. A 404 is the
// "no payslip" state, not an error.
func (s *payslipServiceImpl) Current(ctx context.Context) (*PayslipView, error) {
	payslips, err := s.myPayslips(ctx)
	if err != nil {
		if port.IsNotFound(err) {
			return &PayslipView{}, nil
		}
		return nil, err
	}

	latest := LatestPayslip(payslips)
	if latest == nil {
		return &PayslipView{}, nil
	}
	return &PayslipView{Payslip: latest, Totals: ComputePayslipTotals(*latest)}, nil
}

// History lists payslip summaries. A 404 yields an empty history.
func (s *payslipServiceImpl) History(ctx context.Context) (*PayslipHistory, error) {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, pathMyPayslipStatus, &raw); err != nil {
		if port.IsNotFound(err) {
			return &PayslipHistory{Payslips: []entity.PayslipSummary{}}, nil
		}
		s.logger.Error("Failed to fetch payslip history", "error", err)
		return nil, fmt.Errorf("failed to fetch payslip history: %w", err)
	}

	summaries, err := DecodeListOrSingle[entity.PayslipSummary](raw, "payslips", "history", "data")
	if err != nil {
		return nil, fmt.Errorf("failed to decode payslip history: %w", err)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})
	return &PayslipHistory{Payslips: summaries}, nil
}

// SalaryHistory lists payslips with the total of their net pay
func (s *payslipServiceImpl) SalaryHistory(ctx context.Context) (*SalaryHistory, error) {
	payslips, err := s.myPayslips(ctx)
	if err != nil {
		return nil, err
	}
	return &SalaryHistory{Payslips: payslips, TotalEarnings: TotalNetPay(payslips)}, nil
}

// Download fetches the payslip document
func (s *payslipServiceImpl) Download(ctx context.Context) (*entity.PayslipFile, error) {
	file, err := s.api.Download(ctx, pathDownloadPayslip)
	if err != nil {
		s.logger.Error("Failed to download payslip", "error", err)
		return nil, fmt.Errorf("failed to download payslip: %w", err)
	}
	return file, nil
}

// Preview downloads the payslip and renders its first page
func (s *payslipServiceImpl) Preview(ctx context.Context) (*PayslipPreview, error) {
	if s.previewer == nil {
		return nil, fmt.Errorf("payslip preview is not available")
	}

	file, err := s.Download(ctx)
	if err != nil {
		return nil, err
	}

	pages, err := s.previewer.PageCount(file.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to open payslip document: %w", err)
	}
	image, err := s.previewer.PreviewPNG(file.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to render payslip preview: %w", err)
	}
	return &PayslipPreview{Image: image, Pages: pages}, nil
}

func (s *payslipServiceImpl) myPayslips(ctx context.Context) ([]entity.Payslip, error) {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, pathMyPayslip, &raw); err != nil {
		if !port.IsNotFound(err) {
			s.logger.Error("Failed to fetch payslips", "error", err)
		}
		return nil, fmt.Errorf("failed to fetch payslips: %w", err)
	}

	payslips, err := DecodeListOrSingle[entity.Payslip](raw, "payslips", "data")
	if err != nil {
		return nil, fmt.Errorf("failed to decode payslips: %w", err)
	}
	for i := range payslips {
		payslips[i] = payslips[i].WithDefaults()
	}
	return payslips, nil
}

// LatestPayslip returns the most recently created payslip, or nil
func LatestPayslip(payslips []entity.Payslip) *entity.Payslip {
	var latest *entity.Payslip
	for i := range payslips {
		if latest == nil || payslips[i].CreatedAt.After(latest.CreatedAt) {
			latest = &payslips[i]
		}
	}
	return latest
}

// TotalNetPay sums net pay across payslips
func TotalNetPay(payslips []entity.Payslip) float64 {
	var total float64
	for _, p := range payslips {
		total += p.NetPay.Float()
	}
	return total
}

// ComputePayslipTotals derives the payslip page sums. Taxes and employee
// insurance are rates applied to the gross salary.
func ComputePayslipTotals(p entity.Payslip) PayslipTotals {
	p = p.WithDefaults()
	gross := p.TotalGrossSalary.Float()
	totals := PayslipTotals{
		Gross:      gross,
		Deductions: p.TotalDeductions(),
		NetPay:     p.NetPay.Float(),
	}

	for _, a := range p.Earnings.Allowances {
		if strings.EqualFold(a.Status, "approved") {
			totals.Allowances += a.Amount
		}
	}
	totals.Bonuses = sumItems(p.Earnings.Bonuses)
	totals.Benefits = sumItems(p.Earnings.Benefits)
	totals.Refunds = sumItems(p.Earnings.Refunds)

	for _, t := range p.Deductions.Taxes {
		totals.Taxes += gross * t.Rate / 100
	}
	for _, i := range p.Deductions.Insurances {
		totals.EmployeeInsurance += gross * i.EmployeeRate / 100
	}
	for _, pen := range p.Deductions.Penalties {
		totals.Penalties += pen.Amount
	}
	return totals
}

func sumItems(items []entity.PayItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Amount
	}
	return total
}
