package domain

import "github.com/shopspring/decimal"

// Test is a diagnostic test with its projected annual volumes and the
// reagents and instruments it references.
type Test struct {
	ID          int64
	LabID       int64 // 0 when the test is not attached to a lab
	Name        string
	Description string

	ReagentList    []ReagentEntry
	InstrumentList []InstrumentEntry

	// annual volumes
	AnnualCredit   int64
	AnnualNHIMA    int64
	AnnualResearch int64
	AnnualWalkins  int64
	AnnualShift    decimal.Decimal
	AnnualTotal    int64

	// lab plan
	SitesNo int64
	StaffNo int64

	// instrument usage
	RunsDayWeek       int64
	RunsShiftDay      int64
	RunsAnnual        int64
	RunsAverageVolume decimal.Decimal
}

// AnnualVolume returns the annual total as a decimal for cost arithmetic.
func (t Test) AnnualVolume() decimal.Decimal {
	return decimal.NewFromInt(t.AnnualTotal)
}
