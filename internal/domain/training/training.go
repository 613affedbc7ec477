package training

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidWindow   = errors.New("training end date precedes start date")
	ErrAlreadyEnrolled = errors.New("employee already enrolled in training")
)

type Training struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Instructor  string    `json:"instructor,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Enrollment struct {
	ID         string    `json:"id"`
	TrainingID string    `json:"trainingId"`
	EmployeeID string    `json:"employeeId"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Create(ctx context.Context, tr Training) (Training, error) {
	if tr.EndDate.Before(tr.StartDate) {
		return Training{}, ErrInvalidWindow
	}
	id, err := s.Store.Insert(ctx, tr)
	if err != nil {
		return Training{}, err
	}
	tr.ID = id
	return tr, nil
}

func (s *Service) Enroll(ctx context.Context, trainingID, employeeID string) (Enrollment, error) {
	return s.Store.Enroll(ctx, trainingID, employeeID)
}

func (s *Service) Complete(ctx context.Context, enrollmentID string) error {
	return s.Store.MarkCompleted(ctx, enrollmentID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Training, error) {
	return s.Store.List(ctx, limit, offset)
}

func (s *Service) Enrollments(ctx context.Context, trainingID string) ([]Enrollment, error) {
	return s.Store.Enrollments(ctx, trainingID)
}

func (s *Service) Delete(ctx context.Context, trainingID string) error {
	return s.Store.Delete(ctx, trainingID)
}
