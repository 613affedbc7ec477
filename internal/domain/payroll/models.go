package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Record struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employeeId"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	GrossSalary decimal.Decimal `json:"grossSalary"`
	SGK         decimal.Decimal `json:"sgk"`
	Tax         decimal.Decimal `json:"tax"`
	NetSalary   decimal.Decimal `json:"netSalary"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SalaryBand is the employee's position salary range; gross pay must fall
// inside it, bounds inclusive.
type SalaryBand struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

type RegisterRow struct {
	EmployeeID string
	FirstName  string
	LastName   string
	Gross      decimal.Decimal
	SGK        decimal.Decimal
	Tax        decimal.Decimal
	Net        decimal.Decimal
}
