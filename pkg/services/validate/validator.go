package validate

import (
	"math"

	"github.com/dash-tools/report-atlas/pkg/models/domain"
)

// DefaultTolerance is the relative deviation allowed between net revenue
// and averageOrderValue * count before a warning is emitted.
const DefaultTolerance = 0.01

// Validator cross-checks parsed rows for internal consistency. Violations
// are reported, never fatal: the source values are rounded independently,
// so small deviations are expected.
type Validator struct {
	tolerance float64
}

func NewValidator(tolerance float64) *Validator {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Validator{tolerance: tolerance}
}

// Validate returns one warning per row whose net revenue deviates from
// aov * count by more than the tolerance, relative to max(netRevenue, 1).
func (v *Validator) Validate(rows []domain.ReportRow) []domain.ConsistencyWarning {
	var warnings []domain.ConsistencyWarning

	for _, row := range rows {
		expected := row.AverageOrderValue * float64(row.Count)
		deviation := math.Abs(row.NetRevenue-expected) / math.Max(row.NetRevenue, 1)

		if deviation > v.tolerance {
			warnings = append(warnings, domain.ConsistencyWarning{
				Category: row.Category,
				Expected: expected,
				Actual:   row.NetRevenue,
			})
		}
	}

	return warnings
}
