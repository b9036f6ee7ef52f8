package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/domain/entity"
)

// yearsBack is how many past years the finance report year picker offers
const yearsBack = 5

// FinanceOverview is the finance reports page data
type FinanceOverview struct {
	Year               int                    `json:"year"`
	Years              []int                  `json:"years"`
	Reports            []entity.FinanceReport `json:"reports"`
	TotalCompensation  float64                `json:"totalCompensation"`
	TotalEmployees     int                    `json:"totalEmployees"`
	AveragePerEmployee float64                `json:"averagePerEmployee"`
}

// ReportService runs the finance reports page
type ReportService interface {
	Finance(ctx context.Context, year int) (*FinanceOverview, error)
	Export(ctx context.Context, year int) (*ExportFile, error)
}

type reportServiceImpl struct {
	api         port.PayrollAPI
	spreadsheet port.Spreadsheet
	logger      Logger
	now         func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(api port.PayrollAPI, spreadsheet port.Spreadsheet, logger Logger) ReportService {
	return &reportServiceImpl{
		api:         api,
		spreadsheet: spreadsheet,
		logger:      logger,
		now:         time.Now,
	}
}

// Finance fetches the report for year, defaulting to the current year
func (s *reportServiceImpl) Finance(ctx context.Context, year int) (*FinanceOverview, error) {
	current := s.now().Year()
	if year <= 0 {
		year = current
	}

	reports, err := s.fetch(ctx, year)
	if err != nil {
		return nil, err
	}

	overview := &FinanceOverview{
		Year:              year,
		Years:             YearOptions(current),
		Reports:           reports,
		TotalCompensation: TotalCompensation(reports),
	}
	for _, r := range reports {
		overview.TotalEmployees += r.NumberOfEmployees
	}
	if overview.TotalEmployees > 0 {
		overview.AveragePerEmployee = overview.TotalCompensation / float64(overview.TotalEmployees)
	}
	return overview, nil
}

// Export renders the year's report lines as a spreadsheet
func (s *reportServiceImpl) Export(ctx context.Context, year int) (*ExportFile, error) {
	if year <= 0 {
		year = s.now().Year()
	}
	reports, err := s.fetch(ctx, year)
	if err != nil {
		return nil, err
	}

	header := []string{"Year", "Month", "Taxes", "Insurance", "Benefits", "Allowances", "Bonuses", "Employees", "Compensation"}
	rows := make([][]interface{}, 0, len(reports)+1)
	for _, r := range reports {
		month := ""
		if r.Month >= 1 && r.Month <= 12 {
			month = time.Month(r.Month).String()
		}
		rows = append(rows, []interface{}{
			year, month,
			-r.TotalTaxes, -r.TotalInsurance,
			r.TotalBenefits, r.TotalAllowances, r.TotalBonuses,
			r.NumberOfEmployees,
			r.Compensation(),
		})
	}
	rows = append(rows, []interface{}{"Total", "", "", "", "", "", "", "", TotalCompensation(reports)})

	data, err := s.spreadsheet.Write(fmt.Sprintf("Finance %d", year), header, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to render finance export: %w", err)
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("finance-report-%d.xlsx", year),
		ContentType: XLSXContentType,
		Data:        data,
	}, nil
}

func (s *reportServiceImpl) fetch(ctx context.Context, year int) ([]entity.FinanceReport, error) {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, pathFinanceReport(year), &raw); err != nil {
		s.logger.Error("Failed to fetch finance reports", "year", year, "error", err)
		return nil, fmt.Errorf("failed to fetch finance reports: %w", err)
	}
	reports, err := DecodeListOrSingle[entity.FinanceReport](raw, "reports", "data")
	if err != nil {
		return nil, fmt.Errorf("failed to decode finance reports: %w", err)
	}
	return reports, nil
}

// TotalCompensation sums benefits, allowances and bonuses net of taxes and insurance
func TotalCompensation(reports []entity.FinanceReport) float64 {
	var total float64
	for _, r := range reports {
		total += r.Compensation()
	}
	return total
}

// YearOptions lists current-5 through current, ascending
func YearOptions(current int) []int {
	years := make([]int, 0, yearsBack+1)
	for y := current - yearsBack; y <= current; y++ {
		years = append(years, y)
	}
	return years
}
