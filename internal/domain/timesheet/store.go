package timesheet

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, employeeID string, clockIn time.Time) (Entry, error) {
	var entry Entry
	err := s.DB.QueryRow(ctx, `
    INSERT INTO timesheet_entries (employee_id, clock_in)
    VALUES ($1,$2)
    RETURNING id, employee_id, clock_in, clock_out, created_at
  `, employeeID, clockIn).Scan(&entry.ID, &entry.EmployeeID, &entry.ClockIn, &entry.ClockOut, &entry.CreatedAt)
	return entry, err
}

// OpenEntry returns the employee's entry without a clock_out, or nil.
func (s *Store) OpenEntry(ctx context.Context, employeeID string) (*Entry, error) {
	var entry Entry
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, clock_in, clock_out, created_at
    FROM timesheet_entries
    WHERE employee_id = $1 AND clock_out IS NULL
    ORDER BY clock_in DESC
    LIMIT 1
  `, employeeID).Scan(&entry.ID, &entry.EmployeeID, &entry.ClockIn, &entry.ClockOut, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) Close(ctx context.Context, entryID string, clockOut time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE timesheet_entries SET clock_out = $1 WHERE id = $2", clockOut, entryID)
	return err
}

func (s *Store) Entries(ctx context.Context, employeeID string, from, to time.Time) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, clock_in, clock_out, created_at
    FROM timesheet_entries
    WHERE employee_id = $1 AND clock_in >= $2 AND clock_in < $3
    ORDER BY clock_in
  `, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.EmployeeID, &entry.ClockIn, &entry.ClockOut, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
