package timesheet

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func entry(in, out string) Entry {
	clockIn, _ := time.Parse(time.RFC3339, in)
	e := Entry{ClockIn: clockIn}
	if out != "" {
		clockOut, _ := time.Parse(time.RFC3339, out)
		e.ClockOut = &clockOut
	}
	return e
}

func TestWorkedHours(t *testing.T) {
	e := entry("2025-03-03T09:00:00+03:00", "2025-03-03T17:30:00+03:00")
	assert.True(t, e.WorkedHours().Equal(decimal.RequireFromString("8.5")))
}

func TestWorkedHoursRounding(t *testing.T) {
	e := entry("2025-03-03T09:00:00+03:00", "2025-03-03T09:20:00+03:00")
	assert.True(t, e.WorkedHours().Equal(decimal.RequireFromString("0.33")))
}

func TestWorkedHoursOpenEntryIsZero(t *testing.T) {
	e := entry("2025-03-03T09:00:00+03:00", "")
	assert.True(t, e.WorkedHours().IsZero())
}

func TestTotalHours(t *testing.T) {
	entries := []Entry{
		entry("2025-03-03T09:00:00+03:00", "2025-03-03T17:00:00+03:00"),
		entry("2025-03-04T09:00:00+03:00", "2025-03-04T13:15:00+03:00"),
		entry("2025-03-05T09:00:00+03:00", ""),
	}
	assert.True(t, TotalHours(entries).Equal(decimal.RequireFromString("12.25")))
}
