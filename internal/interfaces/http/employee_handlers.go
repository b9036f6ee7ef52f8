package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/garyjia/payroll-console/internal/application/service"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/gin-gonic/gin"
)

// reloader adapts a typed page fetch for finish
func reloader[T any](fetch func(ctx context.Context) (T, error)) func(ctx context.Context) (interface{}, error) {
	return func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	}
}

// bind decodes a form or JSON body into in, writing a 400 on failure
func (e endpoint) bind(c *gin.Context, page workflow.Page, in interface{}) bool {
	if err := c.ShouldBind(in); err != nil {
		e.logger.Info("Invalid form", "page", page.Key, "error", err)
		e.fail(c, page, &service.ValidationError{Message: "Invalid form data"})
		return false
	}
	return true
}

func (e endpoint) claims(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageClaims)
	if !ok {
		return
	}
	data, err := e.services.Claims.MyClaims(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "claims.html", data)
}

func (e endpoint) submitClaim(c *gin.Context) {
	page, _, ok := e.gate(c, workflow.PageClaims)
	if !ok {
		return
	}
	var in service.ClaimInput
	if !e.bind(c, page, &in) {
		return
	}
	res, err := e.services.Claims.Submit(c.Request.Context(), in)
	e.finish(c, page, res, err, modal("create", ""), reloader(e.services.Claims.MyClaims))
}

func (e endpoint) disputes(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageDisputes)
	if !ok {
		return
	}
	data, err := e.services.Disputes.MyDisputes(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "disputes.html", data)
}

func (e endpoint) submitDispute(c *gin.Context) {
	page, _, ok := e.gate(c, workflow.PageDisputes)
	if !ok {
		return
	}
	var in service.DisputeInput
	if !e.bind(c, page, &in) {
		return
	}
	res, err := e.services.Disputes.Submit(c.Request.Context(), in)
	e.finish(c, page, res, err, modal("create", ""), reloader(e.services.Disputes.MyDisputes))
}

func (e endpoint) viewPayslip(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageViewPayslip)
	if !ok {
		return
	}
	data, err := e.services.Payslips.Current(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "payslip.html", data)
}

func (e endpoint) downloadPayslip(c *gin.Context) {
	page, _, ok := e.gate(c, workflow.PageViewPayslip)
	if !ok {
		return
	}
	file, err := e.services.Payslips.Download(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	attachment(c, file.Filename, file.ContentType, file.Data)
}

func (e endpoint) previewPayslip(c *gin.Context) {
	page, _, ok := e.gate(c, workflow.PageViewPayslip)
	if !ok {
		return
	}
	preview, err := e.services.Payslips.Preview(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	c.Header(pageCountHeader, strconv.Itoa(preview.Pages))
	c.Data(http.StatusOK, "image/png", preview.Image)
}

func (e endpoint) payslipHistory(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PagePayslipHistory)
	if !ok {
		return
	}
	data, err := e.services.Payslips.History(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "payslip_history.html", data)
}

func (e endpoint) salaryHistory(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageSalaryHistory)
	if !ok {
		return
	}
	data, err := e.services.Payslips.SalaryHistory(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "salary_history.html", data)
}

func (e endpoint) taxDetails(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageTaxDetails)
	if !ok {
		return
	}
	data, err := e.services.Deductions.Tax(c.Request.Context(), c.Query("payslipId"))
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "tax.html", data)
}

func (e endpoint) insuranceDetails(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageInsuranceDetails)
	if !ok {
		return
	}
	data, err := e.services.Deductions.Insurance(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "insurance.html", data)
}

// misconductDetails always renders; fetch failures are part of the view
// with a retry link
func (e endpoint) misconductDetails(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageMisconductDetails)
	if !ok {
		return
	}
	data := e.services.Deductions.Misconduct(c.Request.Context(), c.Query("month"))
	e.render(c, page, identity, "misconduct.html", data)
}

func (e endpoint) unpaidLeaveDetails(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageUnpaidLeaveDetails)
	if !ok {
		return
	}
	data, err := e.services.Deductions.UnpaidLeave(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "unpaid_leave.html", data)
}

func (e endpoint) unusedLeave(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageUnusedLeave)
	if !ok {
		return
	}
	data, err := e.services.Deductions.UnusedLeave(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "unused_leave.html", data)
}

func (e endpoint) contractDetails(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageContractDetails)
	if !ok {
		return
	}
	data, err := e.services.Deductions.BaseSalary(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "contract.html", data)
}

func (e endpoint) employerContributions(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageEmployerContributions)
	if !ok {
		return
	}
	data, err := e.services.Deductions.EmployerContributions(c.Request.Context())
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "contributions.html", data)
}
