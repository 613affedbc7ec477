package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTaxTable = `
sgkRate: "0.14"
brackets:
  - lower: "0"
    rate: "0.15"
  - lower: "110000"
    rate: "0.20"
  - lower: "230000"
    rate: "0.27"
  - lower: "870000"
    rate: "0.35"
`

func TestParseTaxTable(t *testing.T) {
	table, err := ParseTaxTable([]byte(sampleTaxTable))
	require.NoError(t, err)

	assert.True(t, table.SGKRate.Equal(d("0.14")))
	require.Len(t, table.Brackets, 4)
	assert.True(t, table.Brackets[0].Lower.IsZero())
	assert.True(t, table.Brackets[3].Rate.Equal(d("0.35")))
}

func TestParseTaxTableRejectsUnsortedBrackets(t *testing.T) {
	_, err := ParseTaxTable([]byte(`
sgkRate: "0.14"
brackets:
  - lower: "5000"
    rate: "0.20"
  - lower: "0"
    rate: "0.15"
`))
	assert.Error(t, err)
}

func TestParseTaxTableRejectsNonZeroFirstBound(t *testing.T) {
	_, err := ParseTaxTable([]byte(`
sgkRate: "0.14"
brackets:
  - lower: "1000"
    rate: "0.15"
`))
	assert.Error(t, err)
}

func TestParseTaxTableRejectsBadRate(t *testing.T) {
	_, err := ParseTaxTable([]byte(`
sgkRate: "1.5"
brackets:
  - lower: "0"
    rate: "0.15"
`))
	assert.Error(t, err)

	_, err = ParseTaxTable([]byte(`
sgkRate: "0.14"
brackets:
  - lower: "0"
    rate: "-0.1"
`))
	assert.Error(t, err)
}

func TestParseTaxTableRejectsEmpty(t *testing.T) {
	_, err := ParseTaxTable([]byte(`sgkRate: "0.14"`))
	assert.Error(t, err)
}
