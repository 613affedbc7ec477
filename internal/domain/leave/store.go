package leave

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const requestColumns = `id, employee_id, start_date, end_date, days, COALESCE(reason, ''), stage, COALESCE(decided_by::text, ''), created_at, updated_at`

func (s *Store) InsertRequest(ctx context.Context, req Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, start_date, end_date, days, reason, stage)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, req.EmployeeID, req.StartDate, req.EndDate, req.Days, req.Reason, req.Stage).Scan(&id)
	return id, err
}

func (s *Store) GetRequest(ctx context.Context, requestID string) (Request, error) {
	var req Request
	err := s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, requestID).Scan(&req.ID, &req.EmployeeID, &req.StartDate, &req.EndDate, &req.Days, &req.Reason, &req.Stage, &req.DecidedBy, &req.CreatedAt, &req.UpdatedAt)
	return req, err
}

func (s *Store) ListRequests(ctx context.Context, employeeID string, limit, offset int) ([]Request, error) {
	query := `
    SELECT ` + requestColumns + `
    FROM leave_requests
  `
	args := []any{}
	if employeeID != "" {
		query += " WHERE employee_id = $1"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit, offset)
		if employeeID != "" {
			query += " LIMIT $2 OFFSET $3"
		} else {
			query += " LIMIT $1 OFFSET $2"
		}
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.StartDate, &req.EndDate, &req.Days, &req.Reason, &req.Stage, &req.DecidedBy, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// ActiveRequests returns all non-rejected requests for an employee; the
// engine uses them for overlap and balance checks.
func (s *Store) ActiveRequests(ctx context.Context, employeeID string) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE employee_id = $1 AND stage <> $2
  `, employeeID, StageRejected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.StartDate, &req.EndDate, &req.Days, &req.Reason, &req.Stage, &req.DecidedBy, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (s *Store) UpdateStage(ctx context.Context, requestID string, stage Stage, decidedBy string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET stage = $1, decided_by = $2, updated_at = now()
    WHERE id = $3
  `, stage, decidedBy, requestID)
	return err
}

func (s *Store) EmployeeHireDate(ctx context.Context, employeeID string) (time.Time, error) {
	var hireDate time.Time
	err := s.DB.QueryRow(ctx, "SELECT start_date FROM employees WHERE id = $1", employeeID).Scan(&hireDate)
	return hireDate, err
}

func (s *Store) UsageByEmployee(ctx context.Context, year int) ([]Balance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, EXTRACT(YEAR FROM e.start_date)::int, COALESCE(SUM(lr.days) FILTER (WHERE lr.stage <> $1 AND EXTRACT(YEAR FROM lr.start_date)::int = $2), 0)::int
    FROM employees e
    LEFT JOIN leave_requests lr ON lr.employee_id = e.id
    WHERE e.active
    GROUP BY e.id, e.start_date
    ORDER BY e.id
  `, StageRejected, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []Balance
	for rows.Next() {
		var employeeID string
		var hireYear, used int
		if err := rows.Scan(&employeeID, &hireYear, &used); err != nil {
			return nil, err
		}
		entitled, err := ComputeEntitlement(hireYear, year)
		if err != nil {
			// Hired after the reference year; no entitlement yet.
			entitled = 0
		}
		balances = append(balances, Balance{
			EmployeeID:    employeeID,
			Year:          year,
			EntitledDays:  entitled,
			UsedDays:      used,
			RemainingDays: entitled - used,
		})
	}
	return balances, rows.Err()
}
