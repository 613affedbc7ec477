package notifications

const (
	TypeLeaveSubmitted     = "leave_submitted"
	TypeLeaveApproved      = "leave_approved"
	TypeLeaveRejected      = "leave_rejected"
	TypePayslipPublished   = "payslip_published"
	TypeAdvanceDecided     = "advance_decided"
	TypeResignationDecided = "resignation_decided"
	TypeTrainingEnrolled   = "training_enrolled"
	TypeAssetAssigned      = "asset_assigned"
)
