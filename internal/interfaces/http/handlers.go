package http

import (
	"mime"
	"net/http"
	"time"

	"github.com/garyjia/payroll-console/internal/application/service"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/gin-gonic/gin"
)

const (
	basePath  = workflow.BasePath
	apiPrefix = "/api"
	version   = "1.0.0"
)

// Services are the application services behind the console pages
type Services struct {
	Gate               service.Gate
	Claims             service.ClaimService
	Disputes           service.DisputeService
	ClaimsSpecialist   service.ReviewService[entity.Claim]
	ClaimsManager      service.ReviewService[entity.Claim]
	DisputesSpecialist service.ReviewService[entity.Dispute]
	DisputesManager    service.ReviewService[entity.Dispute]
	Refunds            service.RefundService
	Notifications      service.NotificationService
	Reports            service.ReportService
	Payslips           service.PayslipService
	Deductions         service.DeductionService
	Payroll            service.PayrollService
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// Register mounts every page on group. With api set the routes answer JSON.
func (h *Handlers) Register(group *gin.RouterGroup, api bool) {
	e := endpoint{Handlers: h, api: api}

	group.GET("", e.landing)

	group.GET("/claims", e.claims)
	group.POST("/claims", e.submitClaim)
	group.GET("/disputes", e.disputes)
	group.POST("/disputes", e.submitDispute)

	registerReview(group, e, h.services.ClaimsSpecialist)
	registerReview(group, e, h.services.ClaimsManager)
	registerReview(group, e, h.services.DisputesSpecialist)
	registerReview(group, e, h.services.DisputesManager)

	group.GET("/view-my-payslip", e.viewPayslip)
	group.GET("/view-my-payslip/download", e.downloadPayslip)
	group.GET("/view-my-payslip/preview.png", e.previewPayslip)
	group.GET("/payslip-history", e.payslipHistory)
	group.GET("/salary-history", e.salaryHistory)

	group.GET("/payslip-tax-details", e.taxDetails)
	group.GET("/payslip-insurance-details", e.insuranceDetails)
	group.GET("/payslip-misconduct-details", e.misconductDetails)
	group.GET("/payslip-unpaid-leave-details", e.unpaidLeaveDetails)
	group.GET("/unused-leave-compensation", e.unusedLeave)
	group.GET("/contract-details", e.contractDetails)
	group.GET("/employercontributions", e.employerContributions)

	group.GET("/payroll-runs", e.payrollRuns)
	group.GET("/payroll-runs/search", e.searchPayrollRuns)
	group.GET("/payroll-runs/month/:month/:year", e.payrollRunsByMonth)
	group.GET("/payroll-runs/year/:year", e.payrollRunsByYear)
	group.GET("/department-payrolls", e.departmentPayrolls)
	group.POST("/department-payrolls", e.lookupDepartmentPayrolls)

	group.GET("/finance-notifications", e.financeNotifications)
	group.GET("/finance-reports", e.financeReports)
	group.GET("/finance-reports/export.xlsx", e.exportFinanceReport)
	group.GET("/refunds", e.refunds)
	group.POST("/refunds", e.createRefund)
	group.POST("/refunds/:id/mark-paid", e.markRefundPaid)
	group.GET("/refunds/export.xlsx", e.exportRefunds)
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   version,
		},
	})
}

// NotFound answers unknown routes
func (h *Handlers) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{Success: false, Error: "not found"})
}

// landing lists the console modules. Every authenticated user sees every
// section; the pages themselves enforce their roles.
func (e endpoint) landing(c *gin.Context) {
	page := workflow.Page{Key: "home", Label: "Payroll Tracking", Path: ""}
	identity, err := e.services.Gate.Check(c.Request.Context(), page)
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "index.html", workflow.Sections())
}

// attachment streams a generated or downloaded file
func attachment(c *gin.Context, filename, contentType string, data []byte) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, contentType, data)
}
