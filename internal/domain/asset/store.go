package asset

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

func (s *Store) Insert(ctx context.Context, a Asset) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO assets (name, serial_number, category)
    VALUES ($1,$2,$3)
    RETURNING id
  `, a.Name, a.SerialNumber, a.Category).Scan(&id)
	return id, err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Asset, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(serial_number, ''), COALESCE(category, ''), created_at
    FROM assets
    ORDER BY name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.SerialNumber, &a.Category, &a.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (s *Store) OpenAssignment(ctx context.Context, assetID string) (*Assignment, error) {
	var asg Assignment
	err := s.DB.QueryRow(ctx, `
    SELECT id, asset_id, employee_id, assigned_at, returned_at
    FROM asset_assignments
    WHERE asset_id = $1 AND returned_at IS NULL
    LIMIT 1
  `, assetID).Scan(&asg.ID, &asg.AssetID, &asg.EmployeeID, &asg.AssignedAt, &asg.ReturnedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asg, nil
}

func (s *Store) Assign(ctx context.Context, assetID, employeeID string) (Assignment, error) {
	var asg Assignment
	err := s.DB.QueryRow(ctx, `
    INSERT INTO asset_assignments (asset_id, employee_id)
    VALUES ($1,$2)
    RETURNING id, asset_id, employee_id, assigned_at, returned_at
  `, assetID, employeeID).Scan(&asg.ID, &asg.AssetID, &asg.EmployeeID, &asg.AssignedAt, &asg.ReturnedAt)
	return asg, err
}

func (s *Store) CloseAssignment(ctx context.Context, assignmentID string, at time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE asset_assignments SET returned_at = $1 WHERE id = $2", at, assignmentID)
	return err
}

func (s *Store) History(ctx context.Context, assetID string) ([]Assignment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, asset_id, employee_id, assigned_at, returned_at
    FROM asset_assignments
    WHERE asset_id = $1
    ORDER BY assigned_at DESC
  `, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var asg Assignment
		if err := rows.Scan(&asg.ID, &asg.AssetID, &asg.EmployeeID, &asg.AssignedAt, &asg.ReturnedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, asg)
	}
	return assignments, rows.Err()
}

func (s *Store) Delete(ctx context.Context, assetID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM assets WHERE id = $1", assetID)
	return err
}
