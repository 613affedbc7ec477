package advance

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const columns = `id, employee_id, amount, COALESCE(reason, ''), status, COALESCE(decided_by::text, ''), created_at, updated_at`

func (s *Store) Insert(ctx context.Context, req Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO advance_requests (employee_id, amount, reason, status)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, req.EmployeeID, req.Amount, req.Reason, req.Status).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, requestID string) (Request, error) {
	var req Request
	err := s.DB.QueryRow(ctx, `
    SELECT `+columns+`
    FROM advance_requests
    WHERE id = $1
  `, requestID).Scan(&req.ID, &req.EmployeeID, &req.Amount, &req.Reason, &req.Status, &req.DecidedBy, &req.CreatedAt, &req.UpdatedAt)
	return req, err
}

func (s *Store) List(ctx context.Context, employeeID string, limit, offset int) ([]Request, error) {
	query := `
    SELECT ` + columns + `
    FROM advance_requests
  `
	args := []any{}
	if employeeID != "" {
		query += " WHERE employee_id = $1"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC"
	if employeeID != "" {
		query += " LIMIT $2 OFFSET $3"
	} else {
		query += " LIMIT $1 OFFSET $2"
	}
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.Amount, &req.Reason, &req.Status, &req.DecidedBy, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, requestID, status, decidedBy string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE advance_requests
    SET status = $1, decided_by = $2, updated_at = now()
    WHERE id = $3
  `, status, decidedBy, requestID)
	return err
}

func (s *Store) LatestGross(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	var gross decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT gross_salary
    FROM payroll_records
    WHERE employee_id = $1
    ORDER BY year DESC, month DESC
    LIMIT 1
  `, employeeID).Scan(&gross)
	return gross, err
}

func (s *Store) PositionMaxSalary(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	var max decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT p.max_salary
    FROM employees e
    JOIN positions p ON e.position_id = p.id
    WHERE e.id = $1
  `, employeeID).Scan(&max)
	return max, err
}
