package http

import (
	"context"
	"sync"

	"github.com/garyjia/payroll-console/internal/application/service"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	domainwf "github.com/garyjia/payroll-console/internal/domain/workflow"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func closed(msg string) *service.ActionResult {
	return &service.ActionResult{Message: msg, Modal: domainwf.StateClosed}
}

func open(msg string) *service.ActionResult {
	return &service.ActionResult{Message: msg, Modal: domainwf.StateOpen}
}

type mockGate struct {
	checkFunc func(ctx context.Context, page workflow.Page) (*entity.Identity, error)

	mu    sync.Mutex
	pages []string
}

func (m *mockGate) Check(ctx context.Context, page workflow.Page) (*entity.Identity, error) {
	m.mu.Lock()
	m.pages = append(m.pages, page.Key)
	m.mu.Unlock()
	if m.checkFunc != nil {
		return m.checkFunc(ctx, page)
	}
	return &entity.Identity{ID: "u1", FirstName: "Dana", LastName: "Lee"}, nil
}

type mockClaims struct {
	myClaimsFunc func(ctx context.Context) (*service.MyClaims, error)
	submitFunc   func(ctx context.Context, in service.ClaimInput) (*service.ActionResult, error)

	mu      sync.Mutex
	fetches int
}

func (m *mockClaims) MyClaims(ctx context.Context) (*service.MyClaims, error) {
	m.mu.Lock()
	m.fetches++
	m.mu.Unlock()
	if m.myClaimsFunc != nil {
		return m.myClaimsFunc(ctx)
	}
	return &service.MyClaims{}, nil
}

func (m *mockClaims) Submit(ctx context.Context, in service.ClaimInput) (*service.ActionResult, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, in)
	}
	return closed("Claim submitted successfully"), nil
}

func (m *mockClaims) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

type mockDisputes struct{}

func (m *mockDisputes) MyDisputes(ctx context.Context) (*service.MyDisputes, error) {
	return &service.MyDisputes{}, nil
}

func (m *mockDisputes) Submit(ctx context.Context, in service.DisputeInput) (*service.ActionResult, error) {
	return closed("Dispute submitted successfully"), nil
}

type mockReview[T entity.Reviewable] struct {
	review      workflow.Review
	queueFunc   func(ctx context.Context) (*service.ReviewQueue[T], error)
	approveFunc func(ctx context.Context, id string, in service.ApproveInput) (*service.ActionResult, error)
	rejectFunc  func(ctx context.Context, id string, in service.RejectInput) (*service.ActionResult, error)

	mu      sync.Mutex
	fetches int
}

func (m *mockReview[T]) Review() workflow.Review {
	return m.review
}

func (m *mockReview[T]) Queue(ctx context.Context) (*service.ReviewQueue[T], error) {
	m.mu.Lock()
	m.fetches++
	m.mu.Unlock()
	if m.queueFunc != nil {
		return m.queueFunc(ctx)
	}
	return &service.ReviewQueue[T]{}, nil
}

func (m *mockReview[T]) Approve(ctx context.Context, id string, in service.ApproveInput) (*service.ActionResult, error) {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, id, in)
	}
	return closed("Approved successfully"), nil
}

func (m *mockReview[T]) Reject(ctx context.Context, id string, in service.RejectInput) (*service.ActionResult, error) {
	if m.rejectFunc != nil {
		return m.rejectFunc(ctx, id, in)
	}
	return closed("Rejected successfully"), nil
}

func (m *mockReview[T]) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

type mockRefunds struct {
	overviewFunc func(ctx context.Context, filter service.RefundFilter) (*service.RefundOverview, error)
	createFunc   func(ctx context.Context, in service.RefundInput) (*service.ActionResult, error)
	markPaidFunc func(ctx context.Context, id string, in service.MarkPaidInput) (*service.ActionResult, error)
}

func (m *mockRefunds) Overview(ctx context.Context, filter service.RefundFilter) (*service.RefundOverview, error) {
	if m.overviewFunc != nil {
		return m.overviewFunc(ctx, filter)
	}
	return &service.RefundOverview{Filter: filter}, nil
}

func (m *mockRefunds) Create(ctx context.Context, in service.RefundInput) (*service.ActionResult, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return closed("Refund created successfully"), nil
}

func (m *mockRefunds) MarkPaid(ctx context.Context, id string, in service.MarkPaidInput) (*service.ActionResult, error) {
	if m.markPaidFunc != nil {
		return m.markPaidFunc(ctx, id, in)
	}
	return closed("Refund marked as paid"), nil
}

func (m *mockRefunds) Export(ctx context.Context, filter service.RefundFilter) (*service.ExportFile, error) {
	return &service.ExportFile{
		Filename:    "refunds.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        []byte("xlsx"),
	}, nil
}

type mockNotifications struct {
	feedFunc func(ctx context.Context, q service.NotificationQuery) (*service.NotificationFeed, error)
}

func (m *mockNotifications) Feed(ctx context.Context, q service.NotificationQuery) (*service.NotificationFeed, error) {
	if m.feedFunc != nil {
		return m.feedFunc(ctx, q)
	}
	return &service.NotificationFeed{Filter: q.Filter}, nil
}

func (m *mockNotifications) Approved(ctx context.Context) ([]entity.Notification, error) {
	return nil, nil
}

type mockReports struct{}

func (m *mockReports) Finance(ctx context.Context, year int) (*service.FinanceOverview, error) {
	if year == 0 {
		year = 2025
	}
	return &service.FinanceOverview{Year: year, Years: []int{2025, 2024}}, nil
}

func (m *mockReports) Export(ctx context.Context, year int) (*service.ExportFile, error) {
	return &service.ExportFile{
		Filename:    "finance-report.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        []byte("xlsx"),
	}, nil
}

type mockPayslips struct {
	downloadFunc func(ctx context.Context) (*entity.PayslipFile, error)
}

func (m *mockPayslips) Current(ctx context.Context) (*service.PayslipView, error) {
	return &service.PayslipView{}, nil
}

func (m *mockPayslips) History(ctx context.Context) (*service.PayslipHistory, error) {
	return &service.PayslipHistory{}, nil
}

func (m *mockPayslips) SalaryHistory(ctx context.Context) (*service.SalaryHistory, error) {
	return &service.SalaryHistory{}, nil
}

func (m *mockPayslips) Download(ctx context.Context) (*entity.PayslipFile, error) {
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx)
	}
	return &entity.PayslipFile{Filename: "payslip.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil
}

func (m *mockPayslips) Preview(ctx context.Context) (*service.PayslipPreview, error) {
	return &service.PayslipPreview{Image: []byte("png"), Pages: 2}, nil
}

type mockDeductions struct{}

func (m *mockDeductions) Tax(ctx context.Context, payslipID string) (*service.TaxView, error) {
	return &service.TaxView{PayslipID: payslipID}, nil
}

func (m *mockDeductions) Insurance(ctx context.Context) (*entity.InsuranceDeductions, error) {
	return &entity.InsuranceDeductions{}, nil
}

func (m *mockDeductions) Misconduct(ctx context.Context, month string) *service.MisconductView {
	return &service.MisconductView{Label: "January 2025"}
}

func (m *mockDeductions) UnpaidLeave(ctx context.Context) (*entity.UnpaidLeaveDeductions, error) {
	return &entity.UnpaidLeaveDeductions{}, nil
}

func (m *mockDeductions) UnusedLeave(ctx context.Context) (*entity.LeaveCompensation, error) {
	return &entity.LeaveCompensation{}, nil
}

func (m *mockDeductions) BaseSalary(ctx context.Context) (*entity.BaseSalary, error) {
	return &entity.BaseSalary{}, nil
}

func (m *mockDeductions) EmployerContributions(ctx context.Context) (*service.ContributionsView, error) {
	return &service.ContributionsView{}, nil
}

type mockPayroll struct {
	searchFunc     func(in service.RunSearch) (string, error)
	departmentFunc func(ctx context.Context, in service.DepartmentInput) (*entity.DepartmentPayslips, error)
}

func (m *mockPayroll) SearchPath(in service.RunSearch) (string, error) {
	if m.searchFunc != nil {
		return m.searchFunc(in)
	}
	return "/payroll-tracking/payroll-runs/year/" + in.Year, nil
}

func (m *mockPayroll) RunsByMonth(ctx context.Context, month, year string) (*service.PayrollRuns, error) {
	return &service.PayrollRuns{Month: month, Year: year}, nil
}

func (m *mockPayroll) RunsByYear(ctx context.Context, year string) (*service.PayrollRuns, error) {
	return &service.PayrollRuns{Year: year}, nil
}

func (m *mockPayroll) DepartmentPayslips(ctx context.Context, in service.DepartmentInput) (*entity.DepartmentPayslips, error) {
	if m.departmentFunc != nil {
		return m.departmentFunc(ctx, in)
	}
	return &entity.DepartmentPayslips{}, nil
}

type testServices struct {
	gate          *mockGate
	claims        *mockClaims
	claimsManager *mockReview[entity.Claim]
	refunds       *mockRefunds
	notifications *mockNotifications
	payslips      *mockPayslips
	payroll       *mockPayroll
}

func newTestServices() *testServices {
	return &testServices{
		gate:          &mockGate{},
		claims:        &mockClaims{},
		claimsManager: &mockReview[entity.Claim]{review: workflow.ClaimsManagerReview},
		refunds:       &mockRefunds{},
		notifications: &mockNotifications{},
		payslips:      &mockPayslips{},
		payroll:       &mockPayroll{},
	}
}

func (t *testServices) Services() Services {
	return Services{
		Gate:               t.gate,
		Claims:             t.claims,
		Disputes:           &mockDisputes{},
		ClaimsSpecialist:   &mockReview[entity.Claim]{review: workflow.ClaimsSpecialistReview},
		ClaimsManager:      t.claimsManager,
		DisputesSpecialist: &mockReview[entity.Dispute]{review: workflow.DisputesSpecialistReview},
		DisputesManager:    &mockReview[entity.Dispute]{review: workflow.DisputesManagerReview},
		Refunds:            t.refunds,
		Notifications:      t.notifications,
		Reports:            &mockReports{},
		Payslips:           t.payslips,
		Deductions:         &mockDeductions{},
		Payroll:            t.payroll,
	}
}
