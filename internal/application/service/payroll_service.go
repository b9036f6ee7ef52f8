package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/domain/entity"
)

// Payroll run search modes
const (
	SearchByMonthYear = "month-year"
	SearchByYear      = "year"
)

// RunSearch is the payroll runs search form
type RunSearch struct {
	Mode  string `form:"searchType" json:"searchType"`
	Month string `form:"month" json:"month"`
	Year  string `form:"year" json:"year"`
}

// PayrollRuns is the payroll run listing page data
type PayrollRuns struct {
	Month          string              `json:"month,omitempty"`
	Year           string              `json:"year"`
	Runs           []entity.PayrollRun `json:"runs"`
	TotalEmployees int                 `json:"totalEmployees"`
	TotalNetPay    float64             `json:"totalNetPay"`
}

// DepartmentInput is the department payrolls form
type DepartmentInput struct {
	DepartmentID string `form:"departmentId" json:"departmentId"`
	PayrollRunID string `form:"payrollRunId" json:"payrollRunId"`
}

// PayrollService runs the payroll runs and department payrolls pages
type PayrollService interface {
	// SearchPath validates the search form and returns the listing page to open
	SearchPath(in RunSearch) (string, error)
	RunsByMonth(ctx context.Context, month, year string) (*PayrollRuns, error)
	RunsByYear(ctx context.Context, year string) (*PayrollRuns, error)
	DepartmentPayslips(ctx context.Context, in DepartmentInput) (*entity.DepartmentPayslips, error)
}

type payrollServiceImpl struct {
	api    port.PayrollAPI
	logger Logger
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(api port.PayrollAPI, logger Logger) PayrollService {
	return &payrollServiceImpl{api: api, logger: logger}
}

func (s *payrollServiceImpl) SearchPath(in RunSearch) (string, error) {
	month := strings.TrimSpace(in.Month)
	year := strings.TrimSpace(in.Year)
	base := workflow.MustPage(workflow.PagePayrollRuns).URL()

	if in.Mode == SearchByYear {
		if year == "" {
			return "", invalid("year", "Please select a year")
		}
		return base + "/year/" + url.PathEscape(year), nil
	}

	if month == "" || year == "" {
		return "", invalid("", "Please select both month and year")
	}
	return base + "/month/" + url.PathEscape(month) + "/" + url.PathEscape(year), nil
}

func (s *payrollServiceImpl) RunsByMonth(ctx context.Context, month, year string) (*PayrollRuns, error) {
	month = strings.TrimSpace(month)
	year = strings.TrimSpace(year)
	if month == "" || year == "" {
		return nil, invalid("", "Missing month or year in route parameters")
	}

	runs, err := s.runs(ctx, pathPayrollRunsByMonth(month, year))
	if err != nil {
		return nil, err
	}
	result := summarizeRuns(runs)
	result.Month = month
	result.Year = year
	return result, nil
}

func (s *payrollServiceImpl) RunsByYear(ctx context.Context, year string) (*PayrollRuns, error) {
	year = strings.TrimSpace(year)
	if year == "" {
		return nil, invalid("year", "Please select a year")
	}

	runs, err := s.runs(ctx, pathPayrollRunsByYear(year))
	if err != nil {
		return nil, err
	}
	result := summarizeRuns(runs)
	result.Year = year
	return result, nil
}

// DepartmentPayslips looks up one department's payslips for a run
func (s *payrollServiceImpl) DepartmentPayslips(ctx context.Context, in DepartmentInput) (*entity.DepartmentPayslips, error) {
	req := entity.DepartmentPayslipsRequest{
		DepartmentID: strings.TrimSpace(in.DepartmentID),
		PayrollRunID: strings.TrimSpace(in.PayrollRunID),
	}
	if req.DepartmentID == "" || req.PayrollRunID == "" {
		return nil, invalid("", "Please enter both Department ID and Payroll Run ID")
	}

	var out entity.DepartmentPayslips
	if err := s.api.PostJSON(ctx, pathDepartmentPayslips, req, &out); err != nil {
		s.logger.Error("Failed to fetch department payslips",
			"department_id", req.DepartmentID,
			"payroll_run_id", req.PayrollRunID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to fetch department payslips: %w", err)
	}
	if out.Payslips == nil {
		out.Payslips = []entity.Payslip{}
	}
	for i := range out.Payslips {
		out.Payslips[i] = out.Payslips[i].WithDefaults()
	}
	return &out, nil
}

func (s *payrollServiceImpl) runs(ctx context.Context, path string) ([]entity.PayrollRun, error) {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, path, &raw); err != nil {
		s.logger.Error("Failed to fetch payroll runs", "path", path, "error", err)
		return nil, fmt.Errorf("failed to fetch payroll runs: %w", err)
	}
	runs, err := DecodeList[entity.PayrollRun](raw, "payrollRuns", "runs", "data")
	if err != nil {
		return nil, fmt.Errorf("failed to decode payroll runs: %w", err)
	}
	return runs, nil
}

func summarizeRuns(runs []entity.PayrollRun) *PayrollRuns {
	result := &PayrollRuns{Runs: runs}
	for _, r := range runs {
		result.TotalEmployees += r.Employees
		result.TotalNetPay += r.TotalNetPay
	}
	return result
}
