package adapters

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/de-tools/lab-costing/pkg/models/domain"
	"github.com/de-tools/lab-costing/pkg/models/store"
	"github.com/shopspring/decimal"
)

func MapStoreReagentToDomain(r store.Reagent) domain.Reagent {
	return domain.Reagent{
		ID:                 r.ID,
		Name:               r.Name,
		Description:        r.Description.String,
		Cost:               finite(r.Cost),
		ExpiryPeriod:       finite(r.ExpiryPeriod),
		GenericReagentUnit: r.GenericReagentUnit,
		QuantityPerGRU:     finite(r.QuantityPerGRU),
		TestsPerGRU:        finite(r.TestsPerGRU),
	}
}

func MapStoreInstrumentToDomain(i store.Instrument) domain.Instrument {
	return domain.Instrument{
		ID:              i.ID,
		Name:            i.Name,
		Description:     i.Description.String,
		Cost:            finite(i.Cost),
		Amortization:    finite(i.Amortization),
		AnnualCost:      finite(i.AnnualCost),
		MaintenanceCost: finite(i.MaintenanceCost),
		TotalCost:       finite(i.TotalCost),
	}
}

// finite converts a float8 column to a decimal. NaN and infinities, which
// PostgreSQL accepts in float8, read as zero.
func finite(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func MapStoreLabToDomain(l store.Lab) domain.Lab {
	return domain.Lab{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description.String,
	}
}

func MapStoreCountsToDomain(c store.Counts) domain.CatalogCounts {
	return domain.CatalogCounts{
		Tests:       c.Tests,
		Labs:        c.Labs,
		Instruments: c.Instruments,
		Reagents:    c.Reagents,
		Users:       c.Users,
	}
}

// MapStoreTestToDomain decodes the JSONB association lists of a test row.
// NULL and empty documents yield empty lists.
func MapStoreTestToDomain(t store.Test) (domain.Test, error) {
	reagents, err := decodeList[domain.ReagentEntry](t.ReagentList)
	if err != nil {
		return domain.Test{}, fmt.Errorf("test %d: decode reagent_list: %w", t.ID, err)
	}
	instruments, err := decodeList[domain.InstrumentEntry](t.InstrumentList)
	if err != nil {
		return domain.Test{}, fmt.Errorf("test %d: decode instrument_list: %w", t.ID, err)
	}

	return domain.Test{
		ID:                t.ID,
		LabID:             t.LabID.Int64,
		Name:              t.Name,
		Description:       t.Description.String,
		ReagentList:       reagents,
		InstrumentList:    instruments,
		AnnualCredit:      t.AnnualCredit,
		AnnualNHIMA:       t.AnnualNHIMA,
		AnnualResearch:    t.AnnualResearch,
		AnnualWalkins:     t.AnnualWalkins,
		AnnualShift:       finite(t.AnnualShift),
		AnnualTotal:       t.AnnualTotal,
		SitesNo:           t.SitesNo,
		StaffNo:           t.StaffNo,
		RunsDayWeek:       t.RunsDayWeek,
		RunsShiftDay:      t.RunsShiftDay,
		RunsAnnual:        t.RunsAnnual,
		RunsAverageVolume: finite(t.RunsAverageVolume),
	}, nil
}

func decodeList[T any](doc []byte) ([]T, error) {
	if len(doc) == 0 || string(doc) == "null" {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil, err
	}
	return items, nil
}
