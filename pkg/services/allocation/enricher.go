package allocation

import (
	"github.com/de-tools/lab-costing/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Snapshot is an immutable point-in-time view of the catalog, keyed by id.
// When the catalog holds duplicate ids the first record wins.
type Snapshot struct {
	reagents    map[int64]domain.Reagent
	instruments map[int64]domain.Instrument
}

func NewSnapshot(reagents []domain.Reagent, instruments []domain.Instrument) Snapshot {
	s := Snapshot{
		reagents:    make(map[int64]domain.Reagent, len(reagents)),
		instruments: make(map[int64]domain.Instrument, len(instruments)),
	}
	for _, r := range reagents {
		if _, ok := s.reagents[r.ID]; !ok {
			s.reagents[r.ID] = r
		}
	}
	for _, i := range instruments {
		if _, ok := s.instruments[i.ID]; !ok {
			s.instruments[i.ID] = i
		}
	}
	return s
}

func (s Snapshot) Reagent(id int64) (domain.Reagent, bool) {
	r, ok := s.reagents[id]
	return r, ok
}

func (s Snapshot) Instrument(id int64) (domain.Instrument, bool) {
	i, ok := s.instruments[id]
	return i, ok
}

// EnrichStats reports how many entries of a list matched the catalog.
type EnrichStats struct {
	Matched   int
	Unmatched int
	// UnmatchedIDs lists the ids that had no catalog record, in list order.
	UnmatchedIDs []int64
}

func (s *EnrichStats) record(id int64, matched bool) {
	if matched {
		s.Matched++
		return
	}
	s.Unmatched++
	s.UnmatchedIDs = append(s.UnmatchedIDs, id)
}

// Enricher attaches derived cost fields to association lists.
type Enricher struct {
	snapshot Snapshot
	mode     domain.AllocationMode
}

func NewEnricher(snapshot Snapshot, mode domain.AllocationMode) *Enricher {
	if !mode.Valid() {
		mode = domain.AllocationFlat
	}
	return &Enricher{snapshot: snapshot, mode: mode}
}

// EnrichReagents returns enriched copies of entries. Entries whose id has no
// catalog record are returned unchanged.
func (e *Enricher) EnrichReagents(annualTotal decimal.Decimal, entries []domain.ReagentEntry) ([]domain.ReagentEntry, EnrichStats) {
	var stats EnrichStats
	out := make([]domain.ReagentEntry, 0, len(entries))
	for _, entry := range entries {
		reagent, ok := e.lookupReagent(entry.AssociationEntry)
		stats.record(entry.ID, ok)
		if !ok {
			out = append(out, entry)
			continue
		}
		out = append(out, EnrichReagent(entry, annualTotal, reagent))
	}
	return out, stats
}

// EnrichInstruments returns enriched copies of entries. Entries whose id has
// no catalog record are returned unchanged.
func (e *Enricher) EnrichInstruments(entries []domain.InstrumentEntry) ([]domain.InstrumentEntry, EnrichStats) {
	var stats EnrichStats
	out := make([]domain.InstrumentEntry, 0, len(entries))
	for _, entry := range entries {
		instrument, ok := e.lookupInstrument(entry.AssociationEntry)
		stats.record(entry.ID, ok)
		if !ok {
			out = append(out, entry)
			continue
		}
		out = append(out, EnrichInstrument(entry, instrument, e.mode))
	}
	return out, stats
}

func (e *Enricher) lookupReagent(entry domain.AssociationEntry) (domain.Reagent, bool) {
	if !entry.HasID() {
		return domain.Reagent{}, false
	}
	return e.snapshot.Reagent(entry.ID)
}

func (e *Enricher) lookupInstrument(entry domain.AssociationEntry) (domain.Instrument, bool) {
	if !entry.HasID() {
		return domain.Instrument{}, false
	}
	return e.snapshot.Instrument(entry.ID)
}

// ReagentTotal sums the total cost of the enriched entries.
func ReagentTotal(entries []domain.ReagentEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		if entry.Cost != nil {
			total = total.Add(entry.Cost.TotalCost)
		}
	}
	return total
}

// InstrumentTotal sums the attributed cost of the enriched entries.
func InstrumentTotal(entries []domain.InstrumentEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		if entry.Cost != nil {
			total = total.Add(entry.Cost.Attributed())
		}
	}
	return total
}
