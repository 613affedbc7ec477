package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type Service struct {
	Store *Store
	Table TaxTable
}

func NewService(store *Store, table TaxTable) *Service {
	return &Service{Store: store, Table: table}
}

// CreateRecord validates and persists a payroll record for the period. The
// unique index on (employee_id, year, month) backs the duplicate check, so a
// concurrent insert for the same period surfaces as ErrDuplicatePeriod too.
func (s *Service) CreateRecord(ctx context.Context, employeeID string, year, month int, gross decimal.Decimal) (Record, error) {
	band, err := s.Store.EmployeeBand(ctx, employeeID)
	if err != nil {
		return Record{}, err
	}

	existing, err := s.Store.RecordsForPeriod(ctx, employeeID, year, month)
	if err != nil {
		return Record{}, err
	}

	rec, err := BuildRecord(employeeID, year, month, gross, band, existing, s.Table)
	if err != nil {
		return Record{}, err
	}

	id, err := s.Store.InsertRecord(ctx, rec)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, ErrDuplicatePeriod
		}
		return Record{}, err
	}
	rec.ID = id
	return rec, nil
}

// ReplaceRecord deletes an existing record and writes a corrected one for the
// same period. Records are never updated in place.
func (s *Service) ReplaceRecord(ctx context.Context, recordID string, gross decimal.Decimal) (Record, error) {
	old, err := s.Store.GetRecord(ctx, recordID)
	if err != nil {
		return Record{}, err
	}

	band, err := s.Store.EmployeeBand(ctx, old.EmployeeID)
	if err != nil {
		return Record{}, err
	}

	rec, err := BuildRecord(old.EmployeeID, old.Year, old.Month, gross, band, nil, s.Table)
	if err != nil {
		return Record{}, err
	}

	if err := s.Store.DeleteRecord(ctx, recordID); err != nil {
		return Record{}, err
	}
	id, err := s.Store.InsertRecord(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	rec.ID = id
	return rec, nil
}

func (s *Service) Get(ctx context.Context, recordID string) (Record, error) {
	return s.Store.GetRecord(ctx, recordID)
}

func (s *Service) List(ctx context.Context, employeeID string, year, month, limit, offset int) ([]Record, error) {
	return s.Store.ListRecords(ctx, employeeID, year, month, limit, offset)
}

func (s *Service) Preview(ctx context.Context, gross decimal.Decimal) (Breakdown, error) {
	return ComputeNetSalary(gross, s.Table)
}
