package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func testTable(t *testing.T) TaxTable {
	t.Helper()
	table := TaxTable{
		SGKRate: d("0.14"),
		Brackets: []Bracket{
			{Lower: d("0"), Rate: d("0.15")},
			{Lower: d("5000"), Rate: d("0.20")},
			{Lower: d("10000"), Rate: d("0.27")},
		},
	}
	require.NoError(t, table.Validate())
	return table
}

func TestComputeNetSalaryMarginalBrackets(t *testing.T) {
	breakdown, err := ComputeNetSalary(d("10000"), testTable(t))
	require.NoError(t, err)

	// 5000 at 15% + 5000 at 20%, not 10000 at a single flat rate.
	assert.True(t, breakdown.Tax.Equal(d("1750")), "tax = %s", breakdown.Tax)
	assert.True(t, breakdown.SGK.Equal(d("1400")), "sgk = %s", breakdown.SGK)
	assert.True(t, breakdown.Net.Equal(d("6850")), "net = %s", breakdown.Net)
}

func TestComputeNetSalaryTopBracketOpenEnded(t *testing.T) {
	breakdown, err := ComputeNetSalary(d("20000"), testTable(t))
	require.NoError(t, err)

	// 5000*0.15 + 5000*0.20 + 10000*0.27
	assert.True(t, breakdown.Tax.Equal(d("4450")), "tax = %s", breakdown.Tax)
}

func TestComputeNetSalaryWithinFirstBracket(t *testing.T) {
	breakdown, err := ComputeNetSalary(d("4000"), testTable(t))
	require.NoError(t, err)

	assert.True(t, breakdown.Tax.Equal(d("600")), "tax = %s", breakdown.Tax)
}

func TestComputeNetSalaryAtBracketBoundary(t *testing.T) {
	breakdown, err := ComputeNetSalary(d("5000"), testTable(t))
	require.NoError(t, err)

	// Exactly at the boundary the second bracket contributes nothing.
	assert.True(t, breakdown.Tax.Equal(d("750")), "tax = %s", breakdown.Tax)
}

func TestComputeNetSalaryRejectsNonPositive(t *testing.T) {
	_, err := ComputeNetSalary(d("0"), testTable(t))
	assert.ErrorIs(t, err, ErrNegativeSalary)

	_, err = ComputeNetSalary(d("-100"), testTable(t))
	assert.ErrorIs(t, err, ErrNegativeSalary)
}

func TestBuildRecordDuplicatePeriod(t *testing.T) {
	band := SalaryBand{Min: d("1000"), Max: d("50000")}

	first, err := BuildRecord("emp-1", 2024, 3, d("10000"), band, nil, testTable(t))
	require.NoError(t, err)

	_, err = BuildRecord("emp-1", 2024, 3, d("12000"), band, []Record{first}, testTable(t))
	assert.ErrorIs(t, err, ErrDuplicatePeriod)
}

func TestBuildRecordOtherPeriodAllowed(t *testing.T) {
	band := SalaryBand{Min: d("1000"), Max: d("50000")}

	first, err := BuildRecord("emp-1", 2024, 3, d("10000"), band, nil, testTable(t))
	require.NoError(t, err)

	_, err = BuildRecord("emp-1", 2024, 4, d("10000"), band, []Record{first}, testTable(t))
	assert.NoError(t, err)

	_, err = BuildRecord("emp-2", 2024, 3, d("10000"), band, []Record{first}, testTable(t))
	assert.NoError(t, err)
}

func TestBuildRecordSalaryBandBoundsInclusive(t *testing.T) {
	band := SalaryBand{Min: d("5000"), Max: d("15000")}
	table := testTable(t)

	_, err := BuildRecord("emp-1", 2024, 3, d("15000"), band, nil, table)
	assert.NoError(t, err)

	_, err = BuildRecord("emp-1", 2024, 3, d("15000.01"), band, nil, table)
	assert.ErrorIs(t, err, ErrOutOfBand)

	_, err = BuildRecord("emp-1", 2024, 3, d("5000"), band, nil, table)
	assert.NoError(t, err)

	_, err = BuildRecord("emp-1", 2024, 3, d("4999.99"), band, nil, table)
	assert.ErrorIs(t, err, ErrOutOfBand)
}

func TestBuildRecordInvalidMonth(t *testing.T) {
	band := SalaryBand{Min: d("1000"), Max: d("50000")}

	_, err := BuildRecord("emp-1", 2024, 0, d("10000"), band, nil, testTable(t))
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = BuildRecord("emp-1", 2024, 13, d("10000"), band, nil, testTable(t))
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
