package asset

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAlreadyAssigned = errors.New("asset is already assigned")
	ErrNotAssigned     = errors.New("asset has no open assignment")
)

type Asset struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SerialNumber string    `json:"serialNumber,omitempty"`
	Category     string    `json:"category,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Assignment struct {
	ID         string     `json:"id"`
	AssetID    string     `json:"assetId"`
	EmployeeID string     `json:"employeeId"`
	AssignedAt time.Time  `json:"assignedAt"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
}

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Create(ctx context.Context, a Asset) (Asset, error) {
	id, err := s.Store.Insert(ctx, a)
	if err != nil {
		return Asset{}, err
	}
	a.ID = id
	return a, nil
}

func (s *Service) Assign(ctx context.Context, assetID, employeeID string) (Assignment, error) {
	open, err := s.Store.OpenAssignment(ctx, assetID)
	if err != nil {
		return Assignment{}, err
	}
	if open != nil {
		return Assignment{}, ErrAlreadyAssigned
	}
	return s.Store.Assign(ctx, assetID, employeeID)
}

func (s *Service) Return(ctx context.Context, assetID string, at time.Time) (Assignment, error) {
	open, err := s.Store.OpenAssignment(ctx, assetID)
	if err != nil {
		return Assignment{}, err
	}
	if open == nil {
		return Assignment{}, ErrNotAssigned
	}
	if err := s.Store.CloseAssignment(ctx, open.ID, at); err != nil {
		return Assignment{}, err
	}
	open.ReturnedAt = &at
	return *open, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Asset, error) {
	return s.Store.List(ctx, limit, offset)
}

func (s *Service) History(ctx context.Context, assetID string) ([]Assignment, error) {
	return s.Store.History(ctx, assetID)
}

func (s *Service) Delete(ctx context.Context, assetID string) error {
	return s.Store.Delete(ctx, assetID)
}
