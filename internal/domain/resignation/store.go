package resignation

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const columns = `id, employee_id, last_work_day, COALESCE(reason, ''), status, COALESCE(decided_by::text, ''), created_at, updated_at`

func (s *Store) Insert(ctx context.Context, res Resignation) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO resignations (employee_id, last_work_day, reason, status)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, res.EmployeeID, res.LastWorkDay, res.Reason, res.Status).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, resignationID string) (Resignation, error) {
	var res Resignation
	err := s.DB.QueryRow(ctx, `
    SELECT `+columns+`
    FROM resignations
    WHERE id = $1
  `, resignationID).Scan(&res.ID, &res.EmployeeID, &res.LastWorkDay, &res.Reason, &res.Status, &res.DecidedBy, &res.CreatedAt, &res.UpdatedAt)
	return res, err
}

func (s *Store) Decide(ctx context.Context, resignationID, employeeID, status, decidedBy string, deactivate bool) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
    UPDATE resignations
    SET status = $1, decided_by = $2, updated_at = now()
    WHERE id = $3
  `, status, decidedBy, resignationID)
	if err != nil {
		return err
	}

	if deactivate {
		_, err = tx.Exec(ctx, "UPDATE employees SET active = false, updated_at = now() WHERE id = $1", employeeID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) List(ctx context.Context, employeeID string, limit, offset int) ([]Resignation, error) {
	query := `
    SELECT ` + columns + `
    FROM resignations
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

	var resignations []Resignation
	for rows.Next() {
		var res Resignation
		if err := rows.Scan(&res.ID, &res.EmployeeID, &res.LastWorkDay, &res.Reason, &res.Status, &res.DecidedBy, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		resignations = append(resignations, res)
	}
	return resignations, rows.Err()
}
