package allocation

import (
	"github.com/de-tools/lab-costing/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// ComputeInstrumentCost attaches the instrument's recorded total cost to a
// reference as both its total and annual cost. The cost is not split across
// the tests sharing the instrument.
func ComputeInstrumentCost(instrument domain.Instrument) domain.InstrumentCost {
	return domain.InstrumentCost{
		Name:       instrument.Name,
		TotalCost:  instrument.TotalCost,
		AnnualCost: instrument.TotalCost,
	}
}

// AllocateInstrumentCost weights the instrument's total cost by the share of
// its volume the test uses.
func AllocateInstrumentCost(instrument domain.Instrument, percentVolume decimal.Decimal) decimal.Decimal {
	return instrument.TotalCost.Mul(percentVolume)
}

// EnrichInstrument returns a copy of entry carrying the instrument figures.
// In proportional mode the entry's percent_volume drives AllocatedCost.
func EnrichInstrument(entry domain.InstrumentEntry, instrument domain.Instrument, mode domain.AllocationMode) domain.InstrumentEntry {
	c := ComputeInstrumentCost(instrument)
	if mode == domain.AllocationProportional {
		allocated := AllocateInstrumentCost(instrument, entry.PercentVolume())
		c.AllocatedCost = &allocated
	}
	return domain.InstrumentEntry{
		AssociationEntry: entry.AssociationEntry.Clone(),
		Cost:             &c,
	}
}
