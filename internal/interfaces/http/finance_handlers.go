package http

import (
	"context"
	"strconv"

	"github.com/garyjia/payroll-console/internal/application/service"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/gin-gonic/gin"
)

func (e endpoint) financeNotifications(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageFinanceNotifications)
	if !ok {
		return
	}
	var q service.NotificationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		e.fail(c, page, &service.ValidationError{Message: "Invalid filter"})
		return
	}
	feed, err := e.services.Notifications.Feed(c.Request.Context(), q)
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "notifications.html", feed)
}

// yearParam reads ?year, 0 when absent or invalid
func yearParam(c *gin.Context) int {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0
	}
	return year
}

func (e endpoint) financeReports(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageFinanceReports)
	if !ok {
		return
	}
	overview, err := e.services.Reports.Finance(c.Request.Context(), yearParam(c))
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "finance_reports.html", overview)
}

func (e endpoint) exportFinanceReport(c *gin.Context) {
	page, _, ok := e.gate(c, workflow.PageFinanceReports)
	if !ok {
		return
	}
	file, err := e.services.Reports.Export(c.Request.Context(), yearParam(c))
	if err != nil {
		e.fail(c, page, err)
		return
	}
	attachment(c, file.Filename, file.ContentType, file.Data)
}

func (e endpoint) refundFilter(c *gin.Context) service.RefundFilter {
	var filter service.RefundFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		e.logger.Info("Ignoring invalid refund filter", "error", err)
		return service.RefundFilter{}
	}
	return filter
}

func (e endpoint) refunds(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageRefunds)
	if !ok {
		return
	}
	overview, err := e.services.Refunds.Overview(c.Request.Context(), e.refundFilter(c))
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "refunds.html", overview)
}

func (e endpoint) reloadRefunds(ctx context.Context) (interface{}, error) {
	return e.services.Refunds.Overview(ctx, service.RefundFilter{})
}

func (e endpoint) createRefund(c *gin.Context) {
	page, _, ok := e.gate(c, workflow.PageRefunds)
	if !ok {
		return
	}
	var in service.RefundInput
	if !e.bind(c, page, &in) {
		return
	}
	res, err := e.services.Refunds.Create(c.Request.Context(), in)

	reopen := modal("create", "")
	reopen.Set("type", in.Type)
	reopen.Set("recordId", in.RecordID)
	reopen.Set("amount", in.Amount)
	e.finish(c, page, res, err, reopen, e.reloadRefunds)
}

func (e endpoint) markRefundPaid(c *gin.Context) {
	page, _, ok := e.gate(c, workflow.PageRefunds)
	if !ok {
		return
	}
	var in service.MarkPaidInput
	if !e.bind(c, page, &in) {
		return
	}
	id := c.Param("id")
	res, err := e.services.Refunds.MarkPaid(c.Request.Context(), id, in)
	e.finish(c, page, res, err, modal("markPaid", id), e.reloadRefunds)
}

func (e endpoint) exportRefunds(c *gin.Context) {
	page, _, ok := e.gate(c, workflow.PageRefunds)
	if !ok {
		return
	}
	file, err := e.services.Refunds.Export(c.Request.Context(), e.refundFilter(c))
	if err != nil {
		e.fail(c, page, err)
		return
	}
	attachment(c, file.Filename, file.ContentType, file.Data)
}
