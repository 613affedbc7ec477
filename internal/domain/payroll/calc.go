package payroll

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeSalary  = errors.New("gross salary must be positive")
	ErrDuplicatePeriod = errors.New("payroll record already exists for this period")
	ErrOutOfBand       = errors.New("gross salary outside position salary band")
	ErrInvalidMonth    = errors.New("month must be between 1 and 12")
)

type Breakdown struct {
	SGK decimal.Decimal `json:"sgk"`
	Tax decimal.Decimal `json:"tax"`
	Net decimal.Decimal `json:"net"`
}

// ComputeNetSalary derives the deductions for a gross salary. SGK is a flat
// rate; income tax is marginal: each slice of the gross between consecutive
// bracket bounds is taxed at that slice's rate, and the portion above the top
// bound at the top rate.
func ComputeNetSalary(gross decimal.Decimal, table TaxTable) (Breakdown, error) {
	if !gross.IsPositive() {
		return Breakdown{}, ErrNegativeSalary
	}

	sgk := gross.Mul(table.SGKRate)

	tax := decimal.Zero
	for i, bracket := range table.Brackets {
		upper := gross
		if i+1 < len(table.Brackets) && table.Brackets[i+1].Lower.LessThan(gross) {
			upper = table.Brackets[i+1].Lower
		}
		slice := upper.Sub(bracket.Lower)
		if !slice.IsPositive() {
			continue
		}
		tax = tax.Add(slice.Mul(bracket.Rate))
	}

	return Breakdown{
		SGK: sgk,
		Tax: tax,
		Net: gross.Sub(sgk).Sub(tax),
	}, nil
}

// BuildRecord validates a new payroll record against the period's existing
// records and the position salary band, then computes the deductions. The
// caller persists the result; records are immutable once stored.
func BuildRecord(employeeID string, year, month int, gross decimal.Decimal, band SalaryBand, existing []Record, table TaxTable) (Record, error) {
	if month < 1 || month > 12 {
		return Record{}, ErrInvalidMonth
	}
	for _, rec := range existing {
		if rec.EmployeeID == employeeID && rec.Year == year && rec.Month == month {
			return Record{}, ErrDuplicatePeriod
		}
	}
	if gross.LessThan(band.Min) || gross.GreaterThan(band.Max) {
		return Record{}, ErrOutOfBand
	}

	breakdown, err := ComputeNetSalary(gross, table)
	if err != nil {
		return Record{}, err
	}

	return Record{
		EmployeeID:  employeeID,
		Year:        year,
		Month:       month,
		GrossSalary: gross,
		SGK:         breakdown.SGK,
		Tax:         breakdown.Tax,
		NetSalary:   breakdown.Net,
	}, nil
}
