package core

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

const employeeColumns = `
  id,
  COALESCE(user_id::text, ''),
  first_name, last_name, email,
  COALESCE(phone, ''),
  COALESCE(national_id, ''),
  start_date,
  COALESCE(position_id::text, ''),
  COALESCE(department_id::text, ''),
  COALESCE(level_id::text, ''),
  COALESCE(manager_id::text, ''),
  active, created_at, updated_at`

func scanEmployee(row interface{ Scan(dest ...any) error }) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone,
		&emp.NationalID, &emp.StartDate, &emp.PositionID, &emp.DepartmentID,
		&emp.LevelID, &emp.ManagerID, &emp.Active, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, employeeID)
	return scanEmployee(row)
}

func (s *Store) GetEmployeeByUserID(ctx context.Context, userID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE user_id = $1
  `, userID)
	return scanEmployee(row)
}

func (s *Store) ListEmployees(ctx context.Context, includeInactive bool, limit, offset int) ([]Employee, error) {
	query := `
    SELECT ` + employeeColumns + `
    FROM employees
  `
	if !includeInactive {
		query += " WHERE active"
	}
	query += " ORDER BY last_name, first_name LIMIT $1 OFFSET $2"

	rows, err := s.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, first_name, last_name, email, phone, national_id, start_date, position_id, department_id, level_id, manager_id, active)
    VALUES (NULLIF($1,'')::uuid,$2,$3,$4,$5,$6,$7,NULLIF($8,'')::uuid,NULLIF($9,'')::uuid,NULLIF($10,'')::uuid,NULLIF($11,'')::uuid,$12)
    RETURNING id
  `, emp.UserID, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.NationalID, emp.StartDate,
		emp.PositionID, emp.DepartmentID, emp.LevelID, emp.ManagerID, emp.Active).Scan(&id)
	return id, err
}

func (s *Store) UpdateEmployee(ctx context.Context, emp Employee) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $1, last_name = $2, email = $3, phone = $4, national_id = $5,
        start_date = $6, position_id = NULLIF($7,'')::uuid, department_id = NULLIF($8,'')::uuid,
        level_id = NULLIF($9,'')::uuid, manager_id = NULLIF($10,'')::uuid, updated_at = now()
    WHERE id = $11
  `, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.NationalID, emp.StartDate,
		emp.PositionID, emp.DepartmentID, emp.LevelID, emp.ManagerID, emp.ID)
	return err
}

// DeactivateEmployee is the soft delete: the row stays for history, the
// employee drops out of listings and payroll runs.
func (s *Store) DeactivateEmployee(ctx context.Context, employeeID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE employees SET active = false, updated_at = now() WHERE id = $1", employeeID)
	return err
}

// DeleteEmployee is the hard delete; dependent rows cascade.
func (s *Store) DeleteEmployee(ctx context.Context, employeeID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", employeeID)
	return err
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM departments ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var dept Department
		if err := rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}
	return departments, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "INSERT INTO departments (name) VALUES ($1) RETURNING id", name).Scan(&id)
	return id, err
}

func (s *Store) DeleteDepartment(ctx context.Context, departmentID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", departmentID)
	return err
}

func (s *Store) ListPositions(ctx context.Context) ([]Position, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, min_salary, max_salary FROM positions ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var pos Position
		if err := rows.Scan(&pos.ID, &pos.Name, &pos.MinSalary, &pos.MaxSalary); err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

func (s *Store) CreatePosition(ctx context.Context, pos Position) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO positions (name, min_salary, max_salary)
    VALUES ($1,$2,$3)
    RETURNING id
  `, pos.Name, pos.MinSalary, pos.MaxSalary).Scan(&id)
	return id, err
}

func (s *Store) DeletePosition(ctx context.Context, positionID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM positions WHERE id = $1", positionID)
	return err
}

func (s *Store) ListLevels(ctx context.Context) ([]Level, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, rank FROM levels ORDER BY rank")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []Level
	for rows.Next() {
		var level Level
		if err := rows.Scan(&level.ID, &level.Name, &level.Rank); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

func (s *Store) CreateLevel(ctx context.Context, level Level) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "INSERT INTO levels (name, rank) VALUES ($1,$2) RETURNING id", level.Name, level.Rank).Scan(&id)
	return id, err
}

func (s *Store) DeleteLevel(ctx context.Context, levelID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM levels WHERE id = $1", levelID)
	return err
}
