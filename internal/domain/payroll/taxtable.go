package payroll

import (
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Bracket taxes the slice of income above Lower, up to the next bracket's
// lower bound, at Rate. The top bracket is open-ended.
type Bracket struct {
	Lower decimal.Decimal
	Rate  decimal.Decimal
}

type TaxTable struct {
	SGKRate  decimal.Decimal
	Brackets []Bracket
}

type taxTableFile struct {
	SGKRate  string `yaml:"sgkRate"`
	Brackets []struct {
		Lower string `yaml:"lower"`
		Rate  string `yaml:"rate"`
	} `yaml:"brackets"`
}

// LoadTaxTable reads the fiscal parameters from a YAML file. Brackets change
// yearly, so they are deployment configuration rather than code.
func LoadTaxTable(path string) (TaxTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TaxTable{}, err
	}
	return ParseTaxTable(raw)
}

func ParseTaxTable(raw []byte) (TaxTable, error) {
	var file taxTableFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return TaxTable{}, fmt.Errorf("invalid tax table: %w", err)
	}

	sgkRate, err := decimal.NewFromString(file.SGKRate)
	if err != nil {
		return TaxTable{}, fmt.Errorf("invalid sgk rate %q: %w", file.SGKRate, err)
	}

	table := TaxTable{SGKRate: sgkRate}
	for _, entry := range file.Brackets {
		lower, err := decimal.NewFromString(entry.Lower)
		if err != nil {
			return TaxTable{}, fmt.Errorf("invalid bracket lower bound %q: %w", entry.Lower, err)
		}
		rate, err := decimal.NewFromString(entry.Rate)
		if err != nil {
			return TaxTable{}, fmt.Errorf("invalid bracket rate %q: %w", entry.Rate, err)
		}
		table.Brackets = append(table.Brackets, Bracket{Lower: lower, Rate: rate})
	}

	if err := table.Validate(); err != nil {
		return TaxTable{}, err
	}
	return table, nil
}

func (t TaxTable) Validate() error {
	if t.SGKRate.IsNegative() || t.SGKRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("sgk rate must be in [0,1), got %s", t.SGKRate)
	}
	if len(t.Brackets) == 0 {
		return fmt.Errorf("tax table needs at least one bracket")
	}
	if !sort.SliceIsSorted(t.Brackets, func(i, j int) bool {
		return t.Brackets[i].Lower.LessThan(t.Brackets[j].Lower)
	}) {
		return fmt.Errorf("bracket lower bounds must be strictly ascending")
	}
	if !t.Brackets[0].Lower.IsZero() {
		return fmt.Errorf("first bracket must start at zero")
	}
	for i := 1; i < len(t.Brackets); i++ {
		if t.Brackets[i].Lower.Equal(t.Brackets[i-1].Lower) {
			return fmt.Errorf("bracket lower bounds must be strictly ascending")
		}
	}
	for _, bracket := range t.Brackets {
		if bracket.Rate.IsNegative() || bracket.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket rate must be in [0,1), got %s", bracket.Rate)
		}
	}
	return nil
}
