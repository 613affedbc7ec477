package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hris/internal/domain/auth"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestComputeEntitlement(t *testing.T) {
	days, err := ComputeEntitlement(2020, 2024)
	require.NoError(t, err)
	assert.Equal(t, 56, days)

	days, err = ComputeEntitlement(2024, 2024)
	require.NoError(t, err)
	assert.Equal(t, 0, days)

	_, err = ComputeEntitlement(2024, 2023)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestComputeEntitlementMonotonic(t *testing.T) {
	previous := 0
	for year := 2015; year <= 2030; year++ {
		days, err := ComputeEntitlement(2015, year)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, days, previous)
		assert.Equal(t, (year-2015)*14, days)
		previous = days
	}
}

func TestBusinessDaysSingleDay(t *testing.T) {
	// 2024-01-08 is a Monday.
	days, err := BusinessDays(date(2024, time.January, 8), date(2024, time.January, 8))
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	// 2024-01-06 is a Saturday.
	days, err = BusinessDays(date(2024, time.January, 6), date(2024, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, 0, days)

	// 2024-01-07 is a Sunday.
	days, err = BusinessDays(date(2024, time.January, 7), date(2024, time.January, 7))
	require.NoError(t, err)
	assert.Equal(t, 0, days)
}

func TestBusinessDaysFullWeekFromAnyStart(t *testing.T) {
	// A full calendar week holds exactly five business days regardless of
	// which weekday it starts on.
	for offset := 0; offset < 7; offset++ {
		start := date(2024, time.January, 8+offset)
		end := start.AddDate(0, 0, 6)
		days, err := BusinessDays(start, end)
		require.NoError(t, err)
		assert.Equal(t, 5, days, "week starting %s", start.Weekday())
	}
}

func TestBusinessDaysInvalidRange(t *testing.T) {
	_, err := BusinessDays(date(2024, time.January, 10), date(2024, time.January, 9))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSubmitRequestOverlap(t *testing.T) {
	first, err := SubmitRequest("emp-1", 2020, date(2024, time.January, 1), date(2024, time.January, 10), nil)
	require.NoError(t, err)
	assert.Equal(t, StageSubmitted, first.Stage)

	_, err = SubmitRequest("emp-1", 2020, date(2024, time.January, 5), date(2024, time.January, 15), []Request{first})
	assert.ErrorIs(t, err, ErrOverlap)
}

func TestSubmitRequestRejectedDoesNotBlock(t *testing.T) {
	rejected := Request{
		EmployeeID: "emp-1",
		StartDate:  date(2024, time.January, 1),
		EndDate:    date(2024, time.January, 10),
		Days:       8,
		Stage:      StageRejected,
	}

	req, err := SubmitRequest("emp-1", 2020, date(2024, time.January, 5), date(2024, time.January, 15), []Request{rejected})
	require.NoError(t, err)
	assert.Equal(t, StageSubmitted, req.Stage)
}

func TestSubmitRequestInsufficientBalance(t *testing.T) {
	// Hired in 2023: entitlement for 2024 is 14 days. A three-week request
	// holds 15 business days.
	_, err := SubmitRequest("emp-1", 2023, date(2024, time.January, 8), date(2024, time.January, 28), nil)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestSubmitRequestPendingDaysCountAgainstBalance(t *testing.T) {
	// Entitlement 14 days; a pending 10-day request leaves 4.
	pending := Request{
		EmployeeID: "emp-1",
		StartDate:  date(2024, time.February, 5),
		EndDate:    date(2024, time.February, 16),
		Days:       10,
		Stage:      StageSubmitted,
	}

	_, err := SubmitRequest("emp-1", 2023, date(2024, time.March, 4), date(2024, time.March, 7), []Request{pending})
	require.NoError(t, err)

	_, err = SubmitRequest("emp-1", 2023, date(2024, time.March, 4), date(2024, time.March, 8), []Request{pending})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestAdvanceApprovalChain(t *testing.T) {
	stage, err := AdvanceApproval(StageSubmitted, auth.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, StageManagerApproved, stage)

	stage, err = AdvanceApproval(stage, auth.RoleDirector)
	require.NoError(t, err)
	assert.Equal(t, StageDirectorApproved, stage)

	stage, err = AdvanceApproval(stage, auth.RoleGeneralManager)
	require.NoError(t, err)
	assert.Equal(t, StageApproved, stage)
	assert.True(t, stage.Terminal())
}

func TestAdvanceApprovalSameRoleTwice(t *testing.T) {
	stage, err := AdvanceApproval(StageSubmitted, auth.RoleManager)
	require.NoError(t, err)

	// The manager's own step has already passed, so repeating it is a stage
	// problem, not a role problem.
	_, err = AdvanceApproval(stage, auth.RoleManager)
	assert.ErrorIs(t, err, ErrWrongStage)

	_, err = AdvanceApproval(StageDirectorApproved, auth.RoleManager)
	assert.ErrorIs(t, err, ErrWrongStage)

	_, err = AdvanceApproval(StageDirectorApproved, auth.RoleDirector)
	assert.ErrorIs(t, err, ErrWrongStage)
}

func TestAdvanceApprovalNoSkipping(t *testing.T) {
	_, err := AdvanceApproval(StageSubmitted, auth.RoleGeneralManager)
	assert.ErrorIs(t, err, ErrUnauthorizedRole)

	_, err = AdvanceApproval(StageSubmitted, auth.RoleDirector)
	assert.ErrorIs(t, err, ErrUnauthorizedRole)

	_, err = AdvanceApproval(StageSubmitted, auth.RoleHR)
	assert.ErrorIs(t, err, ErrUnauthorizedRole)
}

func TestAdvanceApprovalTerminalStages(t *testing.T) {
	_, err := AdvanceApproval(StageApproved, auth.RoleManager)
	assert.ErrorIs(t, err, ErrWrongStage)

	_, err = AdvanceApproval(StageRejected, auth.RoleManager)
	assert.ErrorIs(t, err, ErrWrongStage)
}

func TestRejectApproval(t *testing.T) {
	stage, err := RejectApproval(StageSubmitted, auth.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, StageRejected, stage)

	stage, err = RejectApproval(StageDirectorApproved, auth.RoleGeneralManager)
	require.NoError(t, err)
	assert.Equal(t, StageRejected, stage)

	_, err = RejectApproval(StageSubmitted, auth.RoleDirector)
	assert.ErrorIs(t, err, ErrUnauthorizedRole)

	_, err = RejectApproval(StageManagerApproved, auth.RoleManager)
	assert.ErrorIs(t, err, ErrWrongStage)

	_, err = RejectApproval(StageRejected, auth.RoleManager)
	assert.ErrorIs(t, err, ErrWrongStage)
}

func TestYearOfUsesRegionalCalendar(t *testing.T) {
	// 23:00 UTC on New Year's Eve is already past midnight in Istanbul.
	eve := time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 2025, YearOf(eve))
	assert.Equal(t, 2024, YearOf(date(2024, time.December, 31)))
}
