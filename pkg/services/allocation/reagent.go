// Package allocation derives per-test consumption and cost figures for the
// reagents and instruments referenced by a test. Everything here is pure:
// no I/O, no shared state, safe for concurrent use.
package allocation

import (
	"github.com/de-tools/lab-costing/pkg/models/domain"
	"github.com/shopspring/decimal"
)

var daysPerYear = decimal.NewFromInt(365)

// ComputeReagentCost derives how much of a reagent a test consumes over a year
// and what it costs. Zero throughput or zero demand yields a zero result
// instead of a division by zero.
func ComputeReagentCost(annualTotal decimal.Decimal, reagent domain.Reagent) domain.ReagentCost {
	// tests one GRU can serve before it expires at the test's annual rate
	testsWithinExpiry := annualTotal.Mul(reagent.ExpiryPeriod).Div(daysPerYear)
	testsUsable := decimal.Min(testsWithinExpiry, reagent.TestsPerGRU)

	consumed := decimal.Zero
	if testsUsable.IsPositive() {
		consumed = annualTotal.Div(testsUsable)
	}

	perUnitVolume := decimal.Zero
	if annualTotal.IsPositive() {
		perUnitVolume = consumed.Div(annualTotal)
	}

	costPerTest := perUnitVolume.Mul(reagent.Cost)

	return domain.ReagentCost{
		Name:               reagent.Name,
		Cost:               reagent.Cost,
		ExpiryPeriod:       reagent.ExpiryPeriod,
		GenericReagentUnit: reagent.GenericReagentUnit,
		QuantityPerGRU:     reagent.QuantityPerGRU,
		TestsPerGRU:        reagent.TestsPerGRU,
		TestActual:         annualTotal,
		GRUConsumed:        consumed,
		CostPerTest:        costPerTest,
		TotalCost:          costPerTest.Mul(annualTotal),
	}
}

// EnrichReagent returns a copy of entry carrying the derived reagent figures.
func EnrichReagent(entry domain.ReagentEntry, annualTotal decimal.Decimal, reagent domain.Reagent) domain.ReagentEntry {
	c := ComputeReagentCost(annualTotal, reagent)
	return domain.ReagentEntry{
		AssociationEntry: entry.AssociationEntry.Clone(),
		Cost:             &c,
	}
}
