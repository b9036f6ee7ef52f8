package http

import (
	"net/http"
	"net/url"

	"github.com/garyjia/payroll-console/internal/application/service"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/gin-gonic/gin"
)

// departmentView is the department payrolls page data
type departmentView struct {
	Input  service.DepartmentInput     `json:"input"`
	Result *entity.DepartmentPayslips `json:"result,omitempty"`
}

func (e endpoint) payrollRuns(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PagePayrollRuns)
	if !ok {
		return
	}
	e.render(c, page, identity, "payroll_runs.html", (*service.PayrollRuns)(nil))
}

// searchPayrollRuns validates the search form and redirects to the listing
func (e endpoint) searchPayrollRuns(c *gin.Context) {
	page, _, ok := e.gate(c, workflow.PagePayrollRuns)
	if !ok {
		return
	}
	var in service.RunSearch
	if err := c.ShouldBindQuery(&in); err != nil {
		e.fail(c, page, &service.ValidationError{Message: "Invalid search"})
		return
	}

	target, err := e.services.Payroll.SearchPath(in)
	if err != nil {
		if e.api {
			e.fail(c, page, err)
			return
		}
		q := url.Values{}
		q.Set("flash", errorMessage(err))
		q.Set("flashKind", flashError)
		c.Redirect(http.StatusSeeOther, page.URL()+"?"+q.Encode())
		return
	}

	if e.api {
		target = apiPrefix + target
	}
	c.Redirect(http.StatusFound, target)
}

func (e endpoint) payrollRunsByMonth(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PagePayrollRuns)
	if !ok {
		return
	}
	runs, err := e.services.Payroll.RunsByMonth(c.Request.Context(), c.Param("month"), c.Param("year"))
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "payroll_runs.html", runs)
}

func (e endpoint) payrollRunsByYear(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PagePayrollRuns)
	if !ok {
		return
	}
	runs, err := e.services.Payroll.RunsByYear(c.Request.Context(), c.Param("year"))
	if err != nil {
		e.fail(c, page, err)
		return
	}
	e.render(c, page, identity, "payroll_runs.html", runs)
}

func (e endpoint) departmentPayrolls(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageDepartmentPayrolls)
	if !ok {
		return
	}
	e.render(c, page, identity, "department_payrolls.html", departmentView{})
}

// lookupDepartmentPayrolls is a read: the result renders in the response
func (e endpoint) lookupDepartmentPayrolls(c *gin.Context) {
	page, identity, ok := e.gate(c, workflow.PageDepartmentPayrolls)
	if !ok {
		return
	}
	var in service.DepartmentInput
	if !e.bind(c, page, &in) {
		return
	}

	result, err := e.services.Payroll.DepartmentPayslips(c.Request.Context(), in)
	if err != nil {
		if e.api || !service.IsValidation(err) {
			e.fail(c, page, err)
			return
		}
		data := e.newPageData(c, page, identity, departmentView{Input: in})
		data.Flash = err.Error()
		data.FlashKind = flashError
		c.HTML(http.StatusBadRequest, "department_payrolls.html", data)
		return
	}
	e.render(c, page, identity, "department_payrolls.html", departmentView{Input: in, Result: result})
}
