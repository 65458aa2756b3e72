package adapters

import (
	"database/sql"
	"encoding/json"
	"math"
	"testing"

	"github.com/de-tools/lab-costing/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapStoreReagentToDomain(t *testing.T) {
	r := MapStoreReagentToDomain(store.Reagent{
		ID:                 3,
		Name:               "Glucose oxidase",
		Description:        sql.NullString{String: "GOD-PAP", Valid: true},
		Cost:               10,
		ExpiryPeriod:       30,
		GenericReagentUnit: "ml",
		QuantityPerGRU:     500,
		TestsPerGRU:        50,
	})

	assert.Equal(t, int64(3), r.ID)
	assert.Equal(t, "GOD-PAP", r.Description)
	assert.Equal(t, "10", r.Cost.String())
	assert.Equal(t, "30", r.ExpiryPeriod.String())
	assert.Equal(t, "500", r.QuantityPerGRU.String())
	assert.Equal(t, "50", r.TestsPerGRU.String())
}

func TestMapStoreInstrumentToDomain(t *testing.T) {
	i := MapStoreInstrumentToDomain(store.Instrument{
		ID:              7,
		Name:            "Cobas c311",
		Cost:            90000,
		Amortization:    18000,
		AnnualCost:      18000,
		MaintenanceCost: 2000,
		TotalCost:       20000.5,
	})

	assert.Equal(t, "", i.Description)
	assert.Equal(t, "20000.5", i.TotalCost.String())
	assert.Equal(t, "2000", i.MaintenanceCost.String())
}

func TestMapStore_NonFiniteFloats(t *testing.T) {
	i := MapStoreInstrumentToDomain(store.Instrument{
		ID:         7,
		Cost:       math.Inf(1),
		AnnualCost: math.Inf(-1),
		TotalCost:  math.NaN(),
	})
	r := MapStoreReagentToDomain(store.Reagent{ID: 3, Cost: math.NaN(), TestsPerGRU: 50})

	assert.True(t, i.Cost.IsZero())
	assert.True(t, i.AnnualCost.IsZero())
	assert.True(t, i.TotalCost.IsZero())
	assert.True(t, r.Cost.IsZero())
	assert.Equal(t, "50", r.TestsPerGRU.String())
}

func TestMapStoreTestToDomain(t *testing.T) {
	tests := []struct {
		name         string
		row          store.Test
		reagents     int
		instruments  int
		expectedErr  string
		expectedLab  int64
		checkEntries func(t *testing.T, reagentExtra map[string]json.RawMessage)
	}{
		{
			name: "decodes both lists",
			row: store.Test{
				ID:             1,
				LabID:          sql.NullInt64{Int64: 2, Valid: true},
				Name:           "Fasting blood sugar",
				ReagentList:    []byte(`[{"id": 3, "test_no": 12}]`),
				InstrumentList: []byte(`[{"id": 7, "percent_volume": 0.5}, {"id": 8}]`),
				AnnualTotal:    3650,
			},
			reagents:    1,
			instruments: 2,
			expectedLab: 2,
			checkEntries: func(t *testing.T, extra map[string]json.RawMessage) {
				assert.JSONEq(t, `12`, string(extra["test_no"]))
			},
		},
		{
			name: "null lists",
			row: store.Test{
				ID:             2,
				ReagentList:    []byte(`null`),
				InstrumentList: nil,
			},
		},
		{
			name: "malformed reagent list",
			row: store.Test{
				ID:          3,
				ReagentList: []byte(`{"id": 3}`),
			},
			expectedErr: "test 3: decode reagent_list",
		},
		{
			name: "malformed instrument list",
			row: store.Test{
				ID:             4,
				InstrumentList: []byte(`[1, 2]`),
			},
			expectedErr: "test 4: decode instrument_list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapStoreTestToDomain(tt.row)

			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got.ReagentList, tt.reagents)
			assert.Len(t, got.InstrumentList, tt.instruments)
			assert.Equal(t, tt.expectedLab, got.LabID)
			assert.Equal(t, tt.row.AnnualTotal, got.AnnualTotal)
			if tt.checkEntries != nil {
				tt.checkEntries(t, got.ReagentList[0].Extra)
			}
		})
	}
}
