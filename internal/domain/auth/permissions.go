package auth

const (
	PermEmployeesRead      = "core.employees.read"
	PermEmployeesWrite     = "core.employees.write"
	PermOrgRead            = "core.org.read"
	PermOrgWrite           = "core.org.write"
	PermLeaveRead          = "leave.read"
	PermLeaveWrite         = "leave.write"
	PermLeaveApprove       = "leave.approve"
	PermPayrollRead        = "payroll.read"
	PermPayrollWrite       = "payroll.write"
	PermAdvanceRead        = "advance.read"
	PermAdvanceWrite       = "advance.write"
	PermAdvanceApprove     = "advance.approve"
	PermTrainingRead       = "training.read"
	PermTrainingWrite      = "training.write"
	PermResignationRead    = "resignation.read"
	PermResignationWrite   = "resignation.write"
	PermResignationApprove = "resignation.approve"
	PermTimesheetRead      = "timesheet.read"
	PermTimesheetWrite     = "timesheet.write"
	PermAssetsRead         = "assets.read"
	PermAssetsWrite        = "assets.write"
	PermReportsRead        = "reports.read"
	PermAuditRead          = "audit.read"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermOrgRead,
	PermOrgWrite,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermPayrollRead,
	PermPayrollWrite,
	PermAdvanceRead,
	PermAdvanceWrite,
	PermAdvanceApprove,
	PermTrainingRead,
	PermTrainingWrite,
	PermResignationRead,
	PermResignationWrite,
	PermResignationApprove,
	PermTimesheetRead,
	PermTimesheetWrite,
	PermAssetsRead,
	PermAssetsWrite,
	PermReportsRead,
	PermAuditRead,
}

var approverPermissions = []string{
	PermEmployeesRead,
	PermOrgRead,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermPayrollRead,
	PermTrainingRead,
	PermTimesheetRead,
	PermTimesheetWrite,
	PermAssetsRead,
	PermReportsRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermOrgRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermPayrollRead,
		PermAdvanceRead,
		PermAdvanceWrite,
		PermTrainingRead,
		PermResignationRead,
		PermResignationWrite,
		PermTimesheetRead,
		PermTimesheetWrite,
		PermAssetsRead,
	},
	RoleManager:        approverPermissions,
	RoleDirector:       approverPermissions,
	RoleGeneralManager: approverPermissions,
	RoleHR:             DefaultPermissions,
}
