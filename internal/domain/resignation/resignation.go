package resignation

import (
	"context"
	"errors"
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var ErrInvalidState = errors.New("resignation already decided")

type Resignation struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	LastWorkDay time.Time `json:"lastWorkDay"`
	Reason      string    `json:"reason,omitempty"`
	Status      string    `json:"status"`
	DecidedBy   string    `json:"decidedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Submit(ctx context.Context, employeeID string, lastWorkDay time.Time, reason string) (Resignation, error) {
	res := Resignation{EmployeeID: employeeID, LastWorkDay: lastWorkDay, Reason: reason, Status: StatusPending}
	id, err := s.Store.Insert(ctx, res)
	if err != nil {
		return Resignation{}, err
	}
	res.ID = id
	return res, nil
}

// Decide closes a pending resignation. Approval also deactivates the employee
// so they stop appearing in payroll runs and listings; the two updates run in
// one transaction.
func (s *Service) Decide(ctx context.Context, resignationID, deciderUserID string, approve bool) (Resignation, error) {
	res, err := s.Store.Get(ctx, resignationID)
	if err != nil {
		return Resignation{}, err
	}
	if res.Status != StatusPending {
		return Resignation{}, ErrInvalidState
	}

	status := StatusRejected
	if approve {
		status = StatusApproved
	}
	if err := s.Store.Decide(ctx, resignationID, res.EmployeeID, status, deciderUserID, approve); err != nil {
		return Resignation{}, err
	}
	res.Status = status
	res.DecidedBy = deciderUserID
	return res, nil
}

func (s *Service) Get(ctx context.Context, resignationID string) (Resignation, error) {
	return s.Store.Get(ctx, resignationID)
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]Resignation, error) {
	return s.Store.List(ctx, employeeID, limit, offset)
}
