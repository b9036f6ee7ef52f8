package workflow

import "github.com/garyjia/payroll-console/internal/domain/entity"

// Page is one console page. RequiredRole is empty for pages any
// authenticated employee may open.
type Page struct {
	Key          string
	Label        string
	Description  string
	Path         string
	RequiredRole string
}

// Section groups pages on the landing page
type Section struct {
	Title       string
	Description string
	Pages       []Page
}

// Page keys
const (
	PageClaims                = "claims"
	PageDisputes              = "disputes"
	PageUnusedLeave           = "unused-leave-compensation"
	PageViewPayslip           = "view-my-payslip"
	PagePayslipHistory        = "payslip-history"
	PageInsuranceDetails      = "payslip-insurance-details"
	PageTaxDetails            = "payslip-tax-details"
	PageContractDetails       = "contract-details"
	PageSalaryHistory         = "salary-history"
	PageEmployerContributions = "employercontributions"
	PageMisconductDetails     = "payslip-misconduct-details"
	PageUnpaidLeaveDetails    = "payslip-unpaid-leave-details"
	PageClaimsManager         = "claims-manager"
	PageDisputesManager       = "disputes-manager"
	PageClaimsSpecialist      = "claims-specialist"
	PageDisputesSpecialist    = "disputes-specialist"
	PageDepartmentPayrolls    = "department-payrolls"
	PagePayrollRuns           = "payroll-runs"
	PageFinanceNotifications  = "finance-notifications"
	PageFinanceReports        = "finance-reports"
	PageRefunds               = "refunds"
)

// BasePath is the mount point of every console page
const BasePath = "/payroll-tracking"

var sections = []Section{
	{
		Title:       "Track your Compensations",
		Description: "Track your payments",
		Pages: []Page{
			{Key: PageClaims, Label: "Employee Claims", Description: "Create and View your Claims", Path: "/claims"},
			{Key: PageDisputes, Label: "Employee Disputes", Description: "Create and View your disputes", Path: "/disputes"},
			{Key: PageUnusedLeave, Label: "Unused leave Compensations", Description: "View your Unused leave Compensations", Path: "/unused-leave-compensation"},
		},
	},
	{
		Title:       "Track your Payslips",
		Description: "Track your paid & unpaid payments",
		Pages: []Page{
			{Key: PageViewPayslip, Label: "Payslip", Description: "View your payslip", Path: "/view-my-payslip"},
			{Key: PagePayslipHistory, Label: "Payslip history", Description: "View your payslip history", Path: "/payslip-history"},
			{Key: PageInsuranceDetails, Label: "Payslip Insurance Details", Description: "View Insurance Details", Path: "/payslip-insurance-details"},
			{Key: PageTaxDetails, Label: "Payslip Tax Details", Description: "View tax deductions", Path: "/payslip-tax-details"},
		},
	},
	{
		Title:       "Salary Details",
		Description: "View Salary Details",
		Pages: []Page{
			{Key: PageContractDetails, Label: "Employee Contract", Description: "View your Contract", Path: "/contract-details"},
			{Key: PageSalaryHistory, Label: "Salary History", Description: "View your Salary History", Path: "/salary-history"},
			{Key: PageEmployerContributions, Label: "Employer Contributions", Description: "View Employer Contributions", Path: "/employercontributions"},
		},
	},
	{
		Title:       "Payslip Deductions",
		Description: "View Your Deductions",
		Pages: []Page{
			{Key: PageMisconductDetails, Label: "Payslip misconduct details", Description: "View payslip misconducts", Path: "/payslip-misconduct-details"},
			{Key: PageUnpaidLeaveDetails, Label: "Payslip unpaid leave details", Description: "View unpaid leave deductions", Path: "/payslip-unpaid-leave-details"},
		},
	},
	{
		Title:       "Manager Approval",
		Description: "Things that need a Manager Approval",
		Pages: []Page{
			{Key: PageClaimsManager, Label: "Claims", Description: "Manage Claims", Path: "/claims/manager", RequiredRole: entity.RolePayrollManager},
			{Key: PageDisputesManager, Label: "Disputes", Description: "Manage Disputes", Path: "/disputes/manager", RequiredRole: entity.RolePayrollManager},
		},
	},
	{
		Title:       "Payroll Specialist Management",
		Description: "Manage Payrolls",
		Pages: []Page{
			{Key: PageClaimsSpecialist, Label: "Claims", Description: "Manage claims", Path: "/claims/specialist", RequiredRole: entity.RolePayrollSpecialist},
			{Key: PageDisputesSpecialist, Label: "Disputes", Description: "Manage Disputes", Path: "/disputes/specialist", RequiredRole: entity.RolePayrollSpecialist},
		},
	},
	{
		Title:       "Reports",
		Description: "View Analytics",
		Pages: []Page{
			{Key: PageDepartmentPayrolls, Label: "Department Payrolls", Description: "View Departments Payroll", Path: "/department-payrolls"},
			{Key: PagePayrollRuns, Label: "Payroll Runs", Description: "View Payroll Runs", Path: "/payroll-runs"},
		},
	},
	{
		Title:       "Finance Management",
		Description: "Only Finance",
		Pages: []Page{
			{Key: PageFinanceNotifications, Label: "Finance Notifications", Description: "Notifications", Path: "/finance-notifications", RequiredRole: entity.RoleFinanceStaff},
			{Key: PageFinanceReports, Label: "Finance Reports", Description: "View Analytics", Path: "/finance-reports", RequiredRole: entity.RoleFinanceStaff},
			{Key: PageRefunds, Label: "Refunds", Description: "View & Manage Refunds", Path: "/refunds", RequiredRole: entity.RoleFinanceStaff},
		},
	},
}

var pagesByKey = indexPages()

func indexPages() map[string]Page {
	m := make(map[string]Page)
	for _, s := range sections {
		for _, p := range s.Pages {
			m[p.Key] = p
		}
	}
	return m
}

// Sections returns the landing page layout
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// Pages returns every page in landing page order
func Pages() []Page {
	var out []Page
	for _, s := range sections {
		out = append(out, s.Pages...)
	}
	return out
}

// PageByKey looks up a page by key
func PageByKey(key string) (Page, bool) {
	p, ok := pagesByKey[key]
	return p, ok
}

// MustPage returns the page for key and panics if it is not registered
func MustPage(key string) Page {
	p, ok := pagesByKey[key]
	if !ok {
		panic("unknown page: " + key)
	}
	return p
}

// URL returns the absolute console path of the page
func (p Page) URL() string {
	return BasePath + p.Path
}
