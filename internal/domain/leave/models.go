package leave

import "time"

type Stage string

const (
	StageSubmitted        Stage = "submitted"
	StageManagerApproved  Stage = "manager_approved"
	StageDirectorApproved Stage = "director_approved"
	StageApproved         Stage = "approved"
	StageRejected         Stage = "rejected"
)

// NonTerminalStages lists the stages in which a request still occupies its
// date range for overlap and balance purposes. Rejected requests release it.
var NonTerminalStages = []Stage{StageSubmitted, StageManagerApproved, StageDirectorApproved}

func (s Stage) Terminal() bool {
	return s == StageApproved || s == StageRejected
}

type Request struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Days       int       `json:"days"`
	Reason     string    `json:"reason,omitempty"`
	Stage      Stage     `json:"stage"`
	DecidedBy  string    `json:"decidedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Balance struct {
	EmployeeID    string `json:"employeeId"`
	Year          int    `json:"year"`
	EntitledDays  int    `json:"entitledDays"`
	UsedDays      int    `json:"usedDays"`
	RemainingDays int    `json:"remainingDays"`
}
