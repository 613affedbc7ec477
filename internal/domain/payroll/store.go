package payroll

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = `id, employee_id, year, month, gross_salary, sgk, tax, net_salary, created_at`

func (s *Store) InsertRecord(ctx context.Context, rec Record) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_records (employee_id, year, month, gross_salary, sgk, tax, net_salary)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, rec.EmployeeID, rec.Year, rec.Month, rec.GrossSalary, rec.SGK, rec.Tax, rec.NetSalary).Scan(&id)
	return id, err
}

func (s *Store) DeleteRecord(ctx context.Context, recordID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM payroll_records WHERE id = $1", recordID)
	return err
}

func (s *Store) GetRecord(ctx context.Context, recordID string) (Record, error) {
	var rec Record
	err := s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM payroll_records
    WHERE id = $1
  `, recordID).Scan(&rec.ID, &rec.EmployeeID, &rec.Year, &rec.Month, &rec.GrossSalary, &rec.SGK, &rec.Tax, &rec.NetSalary, &rec.CreatedAt)
	return rec, err
}

func (s *Store) RecordsForPeriod(ctx context.Context, employeeID string, year, month int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM payroll_records
    WHERE employee_id = $1 AND year = $2 AND month = $3
  `, employeeID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Store) ListRecords(ctx context.Context, employeeID string, year, month, limit, offset int) ([]Record, error) {
	query := `
    SELECT ` + recordColumns + `
    FROM payroll_records
    WHERE 1=1
  `
	args := []any{}
	if employeeID != "" {
		args = append(args, employeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if year > 0 {
		args = append(args, year)
		query += fmt.Sprintf(" AND year = $%d", len(args))
	}
	if month > 0 {
		args = append(args, month)
		query += fmt.Sprintf(" AND month = $%d", len(args))
	}
	query += " ORDER BY year DESC, month DESC, created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Year, &rec.Month, &rec.GrossSalary, &rec.SGK, &rec.Tax, &rec.NetSalary, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// EmployeeBand returns the salary band of the employee's position.
func (s *Store) EmployeeBand(ctx context.Context, employeeID string) (SalaryBand, error) {
	var band SalaryBand
	err := s.DB.QueryRow(ctx, `
    SELECT p.min_salary, p.max_salary
    FROM employees e
    JOIN positions p ON e.position_id = p.id
    WHERE e.id = $1
  `, employeeID).Scan(&band.Min, &band.Max)
	return band, err
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

func (s *Store) RegisterRows(ctx context.Context, year, month int) ([]RegisterRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT pr.employee_id, e.first_name, e.last_name, pr.gross_salary, pr.sgk, pr.tax, pr.net_salary
    FROM payroll_records pr
    JOIN employees e ON pr.employee_id = e.id
    WHERE pr.year = $1 AND pr.month = $2
    ORDER BY e.last_name, e.first_name
  `, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegisterRow
	for rows.Next() {
		var row RegisterRow
		if err := rows.Scan(&row.EmployeeID, &row.FirstName, &row.LastName, &row.Gross, &row.SGK, &row.Tax, &row.Net); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

type PayslipData struct {
	FirstName string
	LastName  string
	Email     string
	Record    Record
}

func (s *Store) PayslipData(ctx context.Context, recordID string) (PayslipData, error) {
	var data PayslipData
	err := s.DB.QueryRow(ctx, `
    SELECT e.first_name, e.last_name, e.email, `+prefixedRecordColumns("pr")+`
    FROM payroll_records pr
    JOIN employees e ON pr.employee_id = e.id
    WHERE pr.id = $1
  `, recordID).Scan(
		&data.FirstName, &data.LastName, &data.Email,
		&data.Record.ID, &data.Record.EmployeeID, &data.Record.Year, &data.Record.Month,
		&data.Record.GrossSalary, &data.Record.SGK, &data.Record.Tax, &data.Record.NetSalary, &data.Record.CreatedAt,
	)
	return data, err
}

func prefixedRecordColumns(alias string) string {
	return alias + ".id, " + alias + ".employee_id, " + alias + ".year, " + alias + ".month, " +
		alias + ".gross_salary, " + alias + ".sgk, " + alias + ".tax, " + alias + ".net_salary, " + alias + ".created_at"
}
