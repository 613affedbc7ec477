package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Submit runs the engine against the employee's current request snapshot and
// persists the result. The leave_requests exclusion constraint backs the
// in-process overlap check; a violation from a concurrent submission is
// reported as the same ErrOverlap.
func (s *Service) Submit(ctx context.Context, employeeID string, start, end time.Time, reason string) (Request, error) {
	hireDate, err := s.Store.EmployeeHireDate(ctx, employeeID)
	if err != nil {
		return Request{}, err
	}

	existing, err := s.Store.ActiveRequests(ctx, employeeID)
	if err != nil {
		return Request{}, err
	}

	req, err := SubmitRequest(employeeID, hireDate.Year(), start, end, existing)
	if err != nil {
		return Request{}, err
	}
	req.Reason = reason

	id, err := s.Store.InsertRequest(ctx, req)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "23P01" || pgErr.Code == "23505") {
			return Request{}, ErrOverlap
		}
		return Request{}, err
	}
	req.ID = id
	return req, nil
}

func (s *Service) Approve(ctx context.Context, requestID, approverUserID, roleName string) (Request, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}

	next, err := AdvanceApproval(req.Stage, roleName)
	if err != nil {
		return Request{}, err
	}

	if err := s.Store.UpdateStage(ctx, requestID, next, approverUserID); err != nil {
		return Request{}, err
	}
	req.Stage = next
	req.DecidedBy = approverUserID
	return req, nil
}

func (s *Service) Reject(ctx context.Context, requestID, approverUserID, roleName string) (Request, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}

	next, err := RejectApproval(req.Stage, roleName)
	if err != nil {
		return Request{}, err
	}

	if err := s.Store.UpdateStage(ctx, requestID, next, approverUserID); err != nil {
		return Request{}, err
	}
	req.Stage = next
	req.DecidedBy = approverUserID
	return req, nil
}

func (s *Service) Get(ctx context.Context, requestID string) (Request, error) {
	return s.Store.GetRequest(ctx, requestID)
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]Request, error) {
	return s.Store.ListRequests(ctx, employeeID, limit, offset)
}

func (s *Service) BalanceFor(ctx context.Context, employeeID string, year int) (Balance, error) {
	hireDate, err := s.Store.EmployeeHireDate(ctx, employeeID)
	if err != nil {
		return Balance{}, err
	}
	requests, err := s.Store.ActiveRequests(ctx, employeeID)
	if err != nil {
		return Balance{}, err
	}
	balance, err := RemainingBalance(hireDate.Year(), year, requests)
	if err != nil {
		return Balance{}, err
	}
	balance.EmployeeID = employeeID
	return balance, nil
}

func (s *Service) ReportUsage(ctx context.Context, year int) ([]Balance, error) {
	return s.Store.UsageByEmployee(ctx, year)
}
