package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/de-tools/lab-costing/pkg/errors"
	"github.com/de-tools/lab-costing/pkg/models/domain"
	"github.com/de-tools/lab-costing/pkg/models/store"
	"github.com/de-tools/lab-costing/pkg/services/allocation"
)

type mockCatalogStore struct {
	mock.Mock
}

func (m *mockCatalogStore) ListReagents(ctx context.Context) ([]store.Reagent, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.Reagent), args.Error(1)
}

func (m *mockCatalogStore) ListInstruments(ctx context.Context) ([]store.Instrument, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.Instrument), args.Error(1)
}

func (m *mockCatalogStore) ListLabs(ctx context.Context) ([]store.Lab, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.Lab), args.Error(1)
}

func (m *mockCatalogStore) Counts(ctx context.Context) (store.Counts, error) {
	args := m.Called(ctx)
	return args.Get(0).(store.Counts), args.Error(1)
}

type mockTestStore struct {
	mock.Mock
}

func (m *mockTestStore) ListTests(ctx context.Context) ([]store.Test, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.Test), args.Error(1)
}

func (m *mockTestStore) GetTest(ctx context.Context, id int64) (*store.Test, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Test), args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) ObserveEnrichment(component string, stats allocation.EnrichStats) {
	m.Called(component, stats)
}

var (
	reagentRows = []store.Reagent{
		{ID: 1, Name: "Glucose oxidase", Cost: 10, ExpiryPeriod: 30, GenericReagentUnit: "ml", QuantityPerGRU: 500, TestsPerGRU: 50},
		{ID: 2, Name: "Creatinine Jaffe", Cost: 20, ExpiryPeriod: 10, GenericReagentUnit: "ml", QuantityPerGRU: 250, TestsPerGRU: 100},
	}
	instrumentRows = []store.Instrument{
		{ID: 7, Name: "Cobas c311", TotalCost: 20000},
		{ID: 8, Name: "Sysmex XN-350", TotalCost: 4000},
	}
	labRows = []store.Lab{
		{ID: 1, Name: "Chemistry"},
	}
	fastingBloodSugar = store.Test{
		ID:             1,
		LabID:          sql.NullInt64{Int64: 1, Valid: true},
		Name:           "Fasting blood sugar",
		ReagentList:    []byte(`[{"id": 1, "test_no": 12}]`),
		InstrumentList: []byte(`[{"id": 7, "percent_volume": 0.5}]`),
		AnnualTotal:    3650,
	}
	serumCreatinine = store.Test{
		ID:             2,
		Name:           "Serum creatinine",
		ReagentList:    []byte(`[{"id": 2}, {"id": 42}]`),
		InstrumentList: []byte(`[{"id": 7, "percent_volume": 0.1}, {"id": 8, "percent_volume": 0.1}]`),
		AnnualTotal:    365,
	}
)

func setupCatalog() *mockCatalogStore {
	c := new(mockCatalogStore)
	c.On("ListReagents", mock.Anything).Return(reagentRows, nil)
	c.On("ListInstruments", mock.Anything).Return(instrumentRows, nil)
	c.On("ListLabs", mock.Anything).Return(labRows, nil)
	return c
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestService_Dashboard(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		testTotals  []string
		reagents    []string
		instruments []string
	}{
		{
			name:        "flat allocation sums enriched items",
			config:      Config{AllocationMode: domain.AllocationFlat},
			testTotals:  []string{"20730", "24730"},
			reagents:    []string{"730", "730"},
			instruments: []string{"20000", "24000"},
		},
		{
			name:        "proportional allocation weights instruments",
			config:      Config{AllocationMode: domain.AllocationProportional},
			testTotals:  []string{"10730", "3130"},
			reagents:    []string{"730", "730"},
			instruments: []string{"10000", "2400"},
		},
		{
			name:        "placeholder totals",
			config:      Config{AllocationMode: domain.AllocationFlat, PlaceholderTotals: true},
			testTotals:  []string{"20000", "20000"},
			reagents:    []string{"3000", "3000"},
			instruments: []string{"4000", "4000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalogStore := setupCatalog()
			catalogStore.On("Counts", mock.Anything).
				Return(store.Counts{Tests: 2, Labs: 1, Instruments: 2, Reagents: 2, Users: 3}, nil)
			testStore := new(mockTestStore)
			testStore.On("ListTests", mock.Anything).
				Return([]store.Test{fastingBloodSugar, serumCreatinine}, nil)

			svc := NewService(catalogStore, testStore, tt.config)
			got, err := svc.Dashboard(context.Background())

			require.NoError(t, err)
			assert.Equal(t, domain.CatalogCounts{Tests: 2, Labs: 1, Instruments: 2, Reagents: 2, Users: 3}, got.Counts)
			require.Len(t, got.Tests, 2)

			for i, summary := range got.Tests {
				require.Len(t, summary.Components, 2)
				assert.Equal(t, domain.ComponentReagent, summary.Components[0].Component)
				assert.Equal(t, domain.ComponentInstrument, summary.Components[1].Component)
				assertDecimal(t, tt.testTotals[i], summary.TotalCost)
				assertDecimal(t, tt.reagents[i], summary.Components[0].Cost)
				assertDecimal(t, tt.instruments[i], summary.Components[1].Cost)
			}

			assert.Equal(t, "Chemistry", got.Tests[0].Lab)
			assert.Equal(t, "", got.Tests[1].Lab)

			unmatched := got.Tests[1].Components[0].Reagents[1]
			assert.Nil(t, unmatched.Cost)
			assert.Equal(t, int64(42), unmatched.ID)

			catalogStore.AssertExpectations(t)
			testStore.AssertExpectations(t)
		})
	}
}

func TestService_Dashboard_Errors(t *testing.T) {
	t.Run("counts", func(t *testing.T) {
		catalogStore := new(mockCatalogStore)
		catalogStore.On("Counts", mock.Anything).Return(store.Counts{}, errors.New("timeout"))

		got, err := NewService(catalogStore, new(mockTestStore), Config{}).Dashboard(context.Background())

		assert.Nil(t, got)
		assert.EqualError(t, err, "count records: timeout")
	})

	t.Run("list tests", func(t *testing.T) {
		catalogStore := setupCatalog()
		catalogStore.On("Counts", mock.Anything).Return(store.Counts{}, nil)
		testStore := new(mockTestStore)
		testStore.On("ListTests", mock.Anything).Return([]store.Test(nil), errors.New("timeout"))

		got, err := NewService(catalogStore, testStore, Config{}).Dashboard(context.Background())

		assert.Nil(t, got)
		assert.EqualError(t, err, "list tests: timeout")
	})

	t.Run("malformed association list", func(t *testing.T) {
		catalogStore := setupCatalog()
		catalogStore.On("Counts", mock.Anything).Return(store.Counts{}, nil)
		testStore := new(mockTestStore)
		testStore.On("ListTests", mock.Anything).
			Return([]store.Test{{ID: 5, ReagentList: []byte(`{"id": 1}`)}}, nil)

		got, err := NewService(catalogStore, testStore, Config{}).Dashboard(context.Background())

		assert.Nil(t, got)
		assert.ErrorContains(t, err, "test 5: decode reagent_list")
	})
}

func TestService_Dashboard_RecordsEnrichment(t *testing.T) {
	catalogStore := setupCatalog()
	catalogStore.On("Counts", mock.Anything).Return(store.Counts{}, nil)
	testStore := new(mockTestStore)
	testStore.On("ListTests", mock.Anything).Return([]store.Test{serumCreatinine}, nil)
	recorder := new(mockRecorder)
	recorder.On("ObserveEnrichment", domain.ComponentReagent, allocation.EnrichStats{
		Matched: 1, Unmatched: 1, UnmatchedIDs: []int64{42},
	}).Once()
	recorder.On("ObserveEnrichment", domain.ComponentInstrument, allocation.EnrichStats{
		Matched: 2,
	}).Once()

	_, err := NewService(catalogStore, testStore, Config{}, WithRecorder(recorder)).Dashboard(context.Background())

	require.NoError(t, err)
	recorder.AssertExpectations(t)
}

func TestService_TestCost(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		testStore := new(mockTestStore)
		testStore.On("GetTest", mock.Anything, int64(1)).Return(&fastingBloodSugar, nil)

		got, err := NewService(setupCatalog(), testStore, Config{}).TestCost(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), got.TestID)
		assert.Equal(t, "Chemistry", got.Lab)
		assertDecimal(t, "20730", got.TotalCost)

		reagent := got.Components[0].Reagents[0]
		require.NotNil(t, reagent.Cost)
		assertDecimal(t, "73", reagent.Cost.GRUConsumed)
		assertDecimal(t, "0.2", reagent.Cost.CostPerTest)
	})

	t.Run("not found", func(t *testing.T) {
		testStore := new(mockTestStore)
		testStore.On("GetTest", mock.Anything, int64(9)).Return(nil, apperrors.NewNotFoundError("test 9 not found"))
		catalogStore := new(mockCatalogStore)

		got, err := NewService(catalogStore, testStore, Config{}).TestCost(context.Background(), 9)

		assert.Nil(t, got)
		assert.True(t, apperrors.IsNotFound(err))
		catalogStore.AssertNotCalled(t, "ListReagents", mock.Anything)
	})

	t.Run("catalog failure", func(t *testing.T) {
		testStore := new(mockTestStore)
		testStore.On("GetTest", mock.Anything, int64(1)).Return(&fastingBloodSugar, nil)
		catalogStore := new(mockCatalogStore)
		catalogStore.On("ListReagents", mock.Anything).Return([]store.Reagent(nil), errors.New("timeout"))

		got, err := NewService(catalogStore, testStore, Config{}).TestCost(context.Background(), 1)

		assert.Nil(t, got)
		assert.EqualError(t, err, "list reagents: timeout")
	})
}
