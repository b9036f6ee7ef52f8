package service

import (
	"fmt"
	"net/url"
)

// Backend paths, relative to the configured payroll API base URL
const (
	pathMyClaims              = "/payroll-tracking/my-claims"
	pathCreateClaim           = "/payroll-tracking/expense-claims"
	pathMyDisputes            = "/payroll-tracking/my-disputes"
	pathCreateDispute         = "/payroll-tracking/disputes"
	pathMyPayslip             = "/payroll-tracking/my-payslip"
	pathMyPayslipStatus       = "/payroll-tracking/my-payslip-status"
	pathDownloadPayslip       = "/payroll-tracking/download-payslip"
	pathInsuranceDeductions   = "/payroll-tracking/insurance-deductions"
	pathMisconductDeductions  = "/payroll-tracking/misconduct-deductions"
	pathUnpaidLeaveDeductions = "/payroll-tracking/unpaid-leave-deductions"
	pathUnusedLeave           = "/payroll-tracking/unused-leave-compensation"
	pathBaseSalary            = "/payroll-tracking/base-salary"
	pathEmployerContributions = "/payroll-tracking/employer-contributions"
	pathRefunds               = "/payroll-tracking/refunds"
	pathCreateRefund          = "/payroll-tracking/refund/create"
	pathApprovedRecords       = "/payroll-tracking/finance/approved-records"
	pathDisputesForManager    = "/payroll-tracking/disputes/for-manager-approval"
	pathClaimsForManager      = "/payroll-tracking/claims/for-manager-approval"
	pathDepartmentPayslips    = "/payroll-tracking/payslips/bydepartment"
)

func pathTaxDeduction(payslipID string) string {
	return "/payroll-tracking/tax-deduction/" + url.PathEscape(payslipID)
}

func pathMarkPaid(refundID string) string {
	return fmt.Sprintf("/payroll-tracking/refund/%s/mark-paid", url.PathEscape(refundID))
}

func pathFinanceReport(year int) string {
	return fmt.Sprintf("/payroll-tracking/finance-report/%d", year)
}

func pathPayrollRunsByMonth(month, year string) string {
	return fmt.Sprintf("/payroll-tracking/payroll-runs/month/%s/%s", url.PathEscape(month), url.PathEscape(year))
}

func pathPayrollRunsByYear(year string) string {
	return "/payroll-tracking/payroll-runs/year/" + url.PathEscape(year)
}
