package dashboard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/de-tools/lab-costing/pkg/adapters"
	"github.com/de-tools/lab-costing/pkg/models/domain"
	"github.com/de-tools/lab-costing/pkg/services/allocation"
	"github.com/de-tools/lab-costing/pkg/store/postgres/catalog"
	"github.com/de-tools/lab-costing/pkg/store/postgres/labtest"
)

// Legacy component and test totals, reported instead of the computed sums
// when Config.PlaceholderTotals is set.
var (
	placeholderTestTotal       = decimal.NewFromInt(20000)
	placeholderReagentTotal    = decimal.NewFromInt(3000)
	placeholderInstrumentTotal = decimal.NewFromInt(4000)
)

type Config struct {
	AllocationMode    domain.AllocationMode
	PlaceholderTotals bool
}

// Recorder receives enrichment statistics, one call per component of every
// summarised test.
type Recorder interface {
	ObserveEnrichment(component string, stats allocation.EnrichStats)
}

type noopRecorder struct{}

func (noopRecorder) ObserveEnrichment(string, allocation.EnrichStats) {}

type Service interface {
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
	TestCost(ctx context.Context, testID int64) (*domain.TestCostSummary, error)
}

type Option func(*service)

func WithRecorder(r Recorder) Option {
	return func(s *service) {
		if r != nil {
			s.recorder = r
		}
	}
}

type service struct {
	catalog  catalog.Store
	tests    labtest.Store
	config   Config
	recorder Recorder
}

func NewService(catalogStore catalog.Store, testStore labtest.Store, config Config, opts ...Option) Service {
	s := &service{
		catalog:  catalogStore,
		tests:    testStore,
		config:   config,
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// catalogView is the per-request read of the catalog: the engine snapshot and
// the lab names.
type catalogView struct {
	snapshot allocation.Snapshot
	labs     map[int64]string
}

func (s *service) loadCatalog(ctx context.Context) (*catalogView, error) {
	reagentRows, err := s.catalog.ListReagents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reagents: %w", err)
	}
	instrumentRows, err := s.catalog.ListInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}
	labRows, err := s.catalog.ListLabs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}

	reagents := make([]domain.Reagent, 0, len(reagentRows))
	for _, r := range reagentRows {
		reagents = append(reagents, adapters.MapStoreReagentToDomain(r))
	}
	instruments := make([]domain.Instrument, 0, len(instrumentRows))
	for _, i := range instrumentRows {
		instruments = append(instruments, adapters.MapStoreInstrumentToDomain(i))
	}
	labs := make(map[int64]string, len(labRows))
	for _, l := range labRows {
		lab := adapters.MapStoreLabToDomain(l)
		if _, ok := labs[lab.ID]; !ok {
			labs[lab.ID] = lab.Name
		}
	}

	return &catalogView{
		snapshot: allocation.NewSnapshot(reagents, instruments),
		labs:     labs,
	}, nil
}

func (s *service) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	counts, err := s.catalog.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	view, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.tests.ListTests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}

	enricher := allocation.NewEnricher(view.snapshot, s.config.AllocationMode)
	dashboard := &domain.Dashboard{
		Counts: adapters.MapStoreCountsToDomain(counts),
		Tests:  make([]domain.TestCostSummary, 0, len(rows)),
	}
	for _, row := range rows {
		test, err := adapters.MapStoreTestToDomain(row)
		if err != nil {
			return nil, err
		}
		dashboard.Tests = append(dashboard.Tests, s.summarize(ctx, enricher, view, test))
	}

	zerolog.Ctx(ctx).Debug().
		Int("tests", len(dashboard.Tests)).
		Str("allocation_mode", string(s.config.AllocationMode)).
		Msg("dashboard computed")
	return dashboard, nil
}

func (s *service) TestCost(ctx context.Context, testID int64) (*domain.TestCostSummary, error) {
	row, err := s.tests.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	test, err := adapters.MapStoreTestToDomain(*row)
	if err != nil {
		return nil, err
	}

	view, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	enricher := allocation.NewEnricher(view.snapshot, s.config.AllocationMode)
	summary := s.summarize(ctx, enricher, view, test)
	return &summary, nil
}

func (s *service) summarize(
	ctx context.Context,
	enricher *allocation.Enricher,
	view *catalogView,
	test domain.Test,
) domain.TestCostSummary {
	reagents, reagentStats := enricher.EnrichReagents(test.AnnualVolume(), test.ReagentList)
	instruments, instrumentStats := enricher.EnrichInstruments(test.InstrumentList)
	s.observe(ctx, test.ID, domain.ComponentReagent, reagentStats)
	s.observe(ctx, test.ID, domain.ComponentInstrument, instrumentStats)

	reagentCost := allocation.ReagentTotal(reagents)
	instrumentCost := allocation.InstrumentTotal(instruments)
	total := reagentCost.Add(instrumentCost)
	if s.config.PlaceholderTotals {
		reagentCost = placeholderReagentTotal
		instrumentCost = placeholderInstrumentTotal
		total = placeholderTestTotal
	}

	return domain.TestCostSummary{
		TestID:    test.ID,
		Name:      test.Name,
		Lab:       view.labs[test.LabID],
		TotalCost: total,
		Components: []domain.CostComponent{
			{Component: domain.ComponentReagent, Cost: reagentCost, Reagents: reagents},
			{Component: domain.ComponentInstrument, Cost: instrumentCost, Instruments: instruments},
		},
	}
}

func (s *service) observe(ctx context.Context, testID int64, component string, stats allocation.EnrichStats) {
	s.recorder.ObserveEnrichment(component, stats)
	if stats.Unmatched == 0 {
		return
	}
	zerolog.Ctx(ctx).Debug().
		Int64("test_id", testID).
		Str("component", component).
		Ints64("unmatched_ids", stats.UnmatchedIDs).
		Msg("association entries without catalog record")
}
