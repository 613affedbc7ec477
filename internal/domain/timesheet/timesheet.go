package timesheet

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyClockedIn = errors.New("employee already has an open entry")
	ErrNotClockedIn     = errors.New("employee has no open entry")
)

type Entry struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// WorkedHours reports an entry's duration in hours with two decimal places.
// An open entry counts as zero.
func (e Entry) WorkedHours() decimal.Decimal {
	if e.ClockOut == nil || e.ClockOut.Before(e.ClockIn) {
		return decimal.Zero
	}
	minutes := e.ClockOut.Sub(e.ClockIn).Minutes()
	return decimal.NewFromFloat(minutes).Div(decimal.NewFromInt(60)).Round(2)
}

// TotalHours sums the closed entries of a reporting window.
func TotalHours(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.WorkedHours())
	}
	return total
}

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) ClockIn(ctx context.Context, employeeID string, at time.Time) (Entry, error) {
	open, err := s.Store.OpenEntry(ctx, employeeID)
	if err != nil {
		return Entry{}, err
	}
	if open != nil {
		return Entry{}, ErrAlreadyClockedIn
	}
	return s.Store.Insert(ctx, employeeID, at)
}

func (s *Service) ClockOut(ctx context.Context, employeeID string, at time.Time) (Entry, error) {
	open, err := s.Store.OpenEntry(ctx, employeeID)
	if err != nil {
		return Entry{}, err
	}
	if open == nil {
		return Entry{}, ErrNotClockedIn
	}
	if err := s.Store.Close(ctx, open.ID, at); err != nil {
		return Entry{}, err
	}
	open.ClockOut = &at
	return *open, nil
}

func (s *Service) Entries(ctx context.Context, employeeID string, from, to time.Time) ([]Entry, error) {
	return s.Store.Entries(ctx, employeeID, from, to)
}
