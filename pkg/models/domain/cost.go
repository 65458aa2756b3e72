package domain

import "github.com/shopspring/decimal"

const (
	ComponentReagent    = "reagent"
	ComponentInstrument = "instrument"
)

// AllocationMode selects how instrument cost is attributed to a test.
type AllocationMode string

const (
	// AllocationFlat attaches the instrument's total cost to every reference.
	AllocationFlat AllocationMode = "flat"
	// AllocationProportional additionally weights the total cost by the
	// entry's percent_volume.
	AllocationProportional AllocationMode = "proportional"
)

func (m AllocationMode) Valid() bool {
	return m == AllocationFlat || m == AllocationProportional
}

// ReagentCost holds the fields derived for one reagent reference.
type ReagentCost struct {
	Name               string
	Cost               decimal.Decimal
	ExpiryPeriod       decimal.Decimal
	GenericReagentUnit string
	QuantityPerGRU     decimal.Decimal
	TestsPerGRU        decimal.Decimal
	TestActual         decimal.Decimal // annual total of the test
	GRUConsumed        decimal.Decimal // GRUs consumed per year
	CostPerTest        decimal.Decimal
	TotalCost          decimal.Decimal
}

func (c ReagentCost) writeTo(fields map[string]any) {
	fields["name"] = c.Name
	fields["cost"] = number(c.Cost)
	fields["expiry_period"] = number(c.ExpiryPeriod)
	fields["generic_reagent_unit"] = c.GenericReagentUnit
	fields["quantity_per_gru"] = number(c.QuantityPerGRU)
	fields["tests_per_gru"] = number(c.TestsPerGRU)
	fields["test_actual"] = number(c.TestActual)
	fields["gru_consumed"] = number(c.GRUConsumed)
	fields["cost_per_test"] = number(c.CostPerTest)
	fields["total_cost"] = number(c.TotalCost)
}

// InstrumentCost holds the fields derived for one instrument reference.
type InstrumentCost struct {
	Name       string
	TotalCost  decimal.Decimal
	AnnualCost decimal.Decimal
	// AllocatedCost is set only in proportional allocation mode.
	AllocatedCost *decimal.Decimal
}

// Attributed is the amount this reference contributes to the test total.
func (c InstrumentCost) Attributed() decimal.Decimal {
	if c.AllocatedCost != nil {
		return *c.AllocatedCost
	}
	return c.TotalCost
}

func (c InstrumentCost) writeTo(fields map[string]any) {
	fields["name"] = c.Name
	fields["total_cost"] = number(c.TotalCost)
	fields["annual_cost"] = number(c.AnnualCost)
	if c.AllocatedCost != nil {
		fields["allocated_cost"] = number(*c.AllocatedCost)
	}
}

// CostComponent is one line of a test's cost breakdown. Exactly one of
// Reagents or Instruments is populated, according to Component.
type CostComponent struct {
	Component   string
	Cost        decimal.Decimal
	Reagents    []ReagentEntry
	Instruments []InstrumentEntry
}

// TestCostSummary is the per-test read model. It is recomputed on every
// request and never stored.
type TestCostSummary struct {
	TestID     int64
	Name       string
	Lab        string
	TotalCost  decimal.Decimal
	Components []CostComponent
}

type Dashboard struct {
	Counts CatalogCounts
	Tests  []TestCostSummary
}
