package training

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, tr Training) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO trainings (title, description, instructor, start_date, end_date)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, tr.Title, tr.Description, tr.Instructor, tr.StartDate, tr.EndDate).Scan(&id)
	return id, err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Training, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, COALESCE(description, ''), COALESCE(instructor, ''), start_date, end_date, created_at
    FROM trainings
    ORDER BY start_date DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trainings []Training
	for rows.Next() {
		var tr Training
		if err := rows.Scan(&tr.ID, &tr.Title, &tr.Description, &tr.Instructor, &tr.StartDate, &tr.EndDate, &tr.CreatedAt); err != nil {
			return nil, err
		}
		trainings = append(trainings, tr)
	}
	return trainings, rows.Err()
}

func (s *Store) Enroll(ctx context.Context, trainingID, employeeID string) (Enrollment, error) {
	var enr Enrollment
	err := s.DB.QueryRow(ctx, `
    INSERT INTO training_enrollments (training_id, employee_id)
    VALUES ($1,$2)
    RETURNING id, training_id, employee_id, completed, created_at
  `, trainingID, employeeID).Scan(&enr.ID, &enr.TrainingID, &enr.EmployeeID, &enr.Completed, &enr.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Enrollment{}, ErrAlreadyEnrolled
	}
	return enr, err
}

func (s *Store) MarkCompleted(ctx context.Context, enrollmentID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE training_enrollments SET completed = true WHERE id = $1", enrollmentID)
	return err
}

func (s *Store) Enrollments(ctx context.Context, trainingID string) ([]Enrollment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, training_id, employee_id, completed, created_at
    FROM training_enrollments
    WHERE training_id = $1
    ORDER BY created_at
  `, trainingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []Enrollment
	for rows.Next() {
		var enr Enrollment
		if err := rows.Scan(&enr.ID, &enr.TrainingID, &enr.EmployeeID, &enr.Completed, &enr.CreatedAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enr)
	}
	return enrollments, rows.Err()
}

func (s *Store) Delete(ctx context.Context, trainingID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM trainings WHERE id = $1", trainingID)
	return err
}
