package advance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var (
	ErrInvalidAmount = errors.New("advance amount must be positive")
	ErrOverLimit     = errors.New("advance amount exceeds the employee's gross salary")
	ErrInvalidState  = errors.New("advance request already decided")
)

type Request struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason,omitempty"`
	Status     string          `json:"status"`
	DecidedBy  string          `json:"decidedBy,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Submit caps the advance at the employee's most recent gross salary. With no
// payroll history the position's upper band applies instead.
func (s *Service) Submit(ctx context.Context, employeeID string, amount decimal.Decimal, reason string) (Request, error) {
	if !amount.IsPositive() {
		return Request{}, ErrInvalidAmount
	}

	limit, err := s.Store.LatestGross(ctx, employeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		limit, err = s.Store.PositionMaxSalary(ctx, employeeID)
	}
	if err != nil {
		return Request{}, err
	}
	if amount.GreaterThan(limit) {
		return Request{}, ErrOverLimit
	}

	req := Request{EmployeeID: employeeID, Amount: amount, Reason: reason, Status: StatusPending}
	id, err := s.Store.Insert(ctx, req)
	if err != nil {
		return Request{}, err
	}
	req.ID = id
	return req, nil
}

func (s *Service) Decide(ctx context.Context, requestID, deciderUserID string, approve bool) (Request, error) {
	req, err := s.Store.Get(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, ErrInvalidState
	}

	status := StatusRejected
	if approve {
		status = StatusApproved
	}
	if err := s.Store.UpdateStatus(ctx, requestID, status, deciderUserID); err != nil {
		return Request{}, err
	}
	req.Status = status
	req.DecidedBy = deciderUserID
	return req, nil
}

func (s *Service) Get(ctx context.Context, requestID string) (Request, error) {
	return s.Store.Get(ctx, requestID)
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]Request, error) {
	return s.Store.List(ctx, employeeID, limit, offset)
}
