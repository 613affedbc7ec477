package leave

import (
	"errors"
	"time"

	"hris/internal/domain/auth"
)

const entitlementDaysPerYear = 14

var (
	ErrInvalidPeriod       = errors.New("reference year precedes hire year")
	ErrInvalidRange        = errors.New("end date before start date")
	ErrOverlap             = errors.New("overlapping leave request exists")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrWrongStage          = errors.New("request is not in an approvable stage")
	ErrUnauthorizedRole    = errors.New("role not authorized for this stage")
)

// All date arithmetic happens in a single regional calendar so that range
// boundaries do not shift across server time zones.
var location = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		return time.FixedZone("TRT", 3*60*60)
	}
	return loc
}

func localDate(t time.Time) time.Time {
	t = t.In(location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, location)
}

// YearOf reports the calendar year of t in the leave calendar's zone, so
// that default-year lookups agree with the rest of the date arithmetic
// regardless of the server's local zone.
func YearOf(t time.Time) int {
	return localDate(t).Year()
}

// ComputeEntitlement returns the annual leave entitlement in days for an
// employee hired in startYear, as of asOfYear. The formula does not prorate
// partial first years and does not cap accrual; that mirrors the payroll
// office's standing policy.
func ComputeEntitlement(startYear, asOfYear int) (int, error) {
	if asOfYear < startYear {
		return 0, ErrInvalidPeriod
	}
	return (asOfYear - startYear) * entitlementDaysPerYear, nil
}

// BusinessDays counts the days in the inclusive [start, end] range,
// excluding Saturdays and Sundays.
func BusinessDays(start, end time.Time) (int, error) {
	start = localDate(start)
	end = localDate(end)
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		days++
	}
	return days, nil
}

func rangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !localDate(aEnd).Before(localDate(bStart)) && !localDate(bEnd).Before(localDate(aStart))
}

// UsedDays sums the business days of all non-rejected requests that start in
// the given year. Pending requests count as used so that an employee cannot
// over-commit the balance before approvals settle.
func UsedDays(requests []Request, year int) int {
	used := 0
	for _, req := range requests {
		if req.Stage == StageRejected {
			continue
		}
		if localDate(req.StartDate).Year() != year {
			continue
		}
		used += req.Days
	}
	return used
}

// RemainingBalance computes the leave balance for the year: entitlement minus
// approved-or-pending business days.
func RemainingBalance(startYear, year int, requests []Request) (Balance, error) {
	entitled, err := ComputeEntitlement(startYear, year)
	if err != nil {
		return Balance{}, err
	}
	used := UsedDays(requests, year)
	return Balance{
		Year:          year,
		EntitledDays:  entitled,
		UsedDays:      used,
		RemainingDays: entitled - used,
	}, nil
}

// SubmitRequest validates a new leave request against the employee's existing
// requests and, on success, returns it in the submitted stage. The caller is
// responsible for persisting the result.
func SubmitRequest(employeeID string, hireYear int, start, end time.Time, existing []Request) (Request, error) {
	days, err := BusinessDays(start, end)
	if err != nil {
		return Request{}, err
	}

	for _, req := range existing {
		if req.Stage == StageRejected {
			continue
		}
		if rangesOverlap(start, end, req.StartDate, req.EndDate) {
			return Request{}, ErrOverlap
		}
	}

	year := localDate(start).Year()
	balance, err := RemainingBalance(hireYear, year, existing)
	if err != nil {
		return Request{}, err
	}
	if days > balance.RemainingDays {
		return Request{}, ErrInsufficientBalance
	}

	return Request{
		EmployeeID: employeeID,
		StartDate:  localDate(start),
		EndDate:    localDate(end),
		Days:       days,
		Stage:      StageSubmitted,
	}, nil
}

type chainStep struct {
	stage Stage
	role  string
	next  Stage
}

// The approval chain is strictly sequential: each stage has exactly one
// authorized role and one successor. The same role may instead reject,
// which is terminal.
var approvalChain = []chainStep{
	{StageSubmitted, auth.RoleManager, StageManagerApproved},
	{StageManagerApproved, auth.RoleDirector, StageDirectorApproved},
	{StageDirectorApproved, auth.RoleGeneralManager, StageApproved},
}

// stepFor locates the chain step for the current stage and checks the acting
// role against it. A role whose own step has already passed is acting too
// late and gets ErrWrongStage; a role acting ahead of its step, or one that
// is not in the chain at all, gets ErrUnauthorizedRole.
func stepFor(current Stage, role string) (chainStep, error) {
	stageIdx, roleIdx := -1, -1
	for i, step := range approvalChain {
		if step.stage == current {
			stageIdx = i
		}
		if step.role == role {
			roleIdx = i
		}
	}
	if stageIdx < 0 {
		return chainStep{}, ErrWrongStage
	}
	if roleIdx == stageIdx {
		return approvalChain[stageIdx], nil
	}
	if roleIdx >= 0 && roleIdx < stageIdx {
		return chainStep{}, ErrWrongStage
	}
	return chainStep{}, ErrUnauthorizedRole
}

// AdvanceApproval moves a request one step along the approval chain.
func AdvanceApproval(current Stage, role string) (Stage, error) {
	step, err := stepFor(current, role)
	if err != nil {
		return current, err
	}
	return step.next, nil
}

// RejectApproval rejects a request at its current stage. Only the role that
// would otherwise advance the stage may reject it.
func RejectApproval(current Stage, role string) (Stage, error) {
	if _, err := stepFor(current, role); err != nil {
		return current, err
	}
	return StageRejected, nil
}
