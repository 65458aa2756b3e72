package file

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	apperrors "github.com/de-tools/lab-costing/pkg/errors"
	"github.com/de-tools/lab-costing/pkg/models/store"
)

// Store serves the catalog and the tests from a JSON document loaded once at
// open. It backs offline CLI runs and demos; the document layout mirrors the
// database tables.
type Store struct {
	reagents    []store.Reagent
	instruments []store.Instrument
	labs        []store.Lab
	tests       []store.Test
	users       int64
}

type document struct {
	Users       int64        `json:"users"`
	Labs        []lab        `json:"labs"`
	Reagents    []reagent    `json:"reagents"`
	Instruments []instrument `json:"instruments"`
	Tests       []test       `json:"tests"`
}

type lab struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type reagent struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	Cost               float64 `json:"cost"`
	ExpiryPeriod       float64 `json:"expiry_period"`
	GenericReagentUnit string  `json:"generic_reagent_unit"`
	QuantityPerGRU     float64 `json:"quantity_per_gru"`
	TestsPerGRU        float64 `json:"tests_per_gru"`
}

type instrument struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Cost            float64 `json:"cost"`
	Amortization    float64 `json:"amortization"`
	AnnualCost      float64 `json:"annual_cost"`
	MaintenanceCost float64 `json:"maintenance_cost"`
	TotalCost       float64 `json:"total_cost"`
}

type test struct {
	ID                int64           `json:"id"`
	LabID             *int64          `json:"lab_id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	ReagentList       json.RawMessage `json:"reagent_list"`
	InstrumentList    json.RawMessage `json:"instrument_list"`
	AnnualCredit      int64           `json:"annual_credit"`
	AnnualNHIMA       int64           `json:"annual_nhima"`
	AnnualResearch    int64           `json:"annual_research"`
	AnnualWalkins     int64           `json:"annual_walkins"`
	AnnualShift       float64         `json:"annual_shift"`
	AnnualTotal       int64           `json:"annual_total"`
	SitesNo           int64           `json:"sites_no"`
	StaffNo           int64           `json:"staff_no"`
	RunsDayWeek       int64           `json:"runs_day_week"`
	RunsShiftDay      int64           `json:"runs_shift_day"`
	RunsAnnual        int64           `json:"runs_annual"`
	RunsAverageVolume float64         `json:"runs_average_volume"`
}

func Open(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Parse(data []byte) (*Store, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode data file: %w", err)
	}

	s := &Store{users: doc.Users}
	for _, l := range doc.Labs {
		s.labs = append(s.labs, store.Lab{
			ID:          l.ID,
			Name:        l.Name,
			Description: nullString(l.Description),
		})
	}
	for _, r := range doc.Reagents {
		s.reagents = append(s.reagents, store.Reagent{
			ID:                 r.ID,
			Name:               r.Name,
			Description:        nullString(r.Description),
			Cost:               r.Cost,
			ExpiryPeriod:       r.ExpiryPeriod,
			GenericReagentUnit: r.GenericReagentUnit,
			QuantityPerGRU:     r.QuantityPerGRU,
			TestsPerGRU:        r.TestsPerGRU,
		})
	}
	for _, i := range doc.Instruments {
		s.instruments = append(s.instruments, store.Instrument{
			ID:              i.ID,
			Name:            i.Name,
			Description:     nullString(i.Description),
			Cost:            i.Cost,
			Amortization:    i.Amortization,
			AnnualCost:      i.AnnualCost,
			MaintenanceCost: i.MaintenanceCost,
			TotalCost:       i.TotalCost,
		})
	}
	for _, t := range doc.Tests {
		row := store.Test{
			ID:                t.ID,
			Name:              t.Name,
			Description:       nullString(t.Description),
			ReagentList:       []byte(t.ReagentList),
			InstrumentList:    []byte(t.InstrumentList),
			AnnualCredit:      t.AnnualCredit,
			AnnualNHIMA:       t.AnnualNHIMA,
			AnnualResearch:    t.AnnualResearch,
			AnnualWalkins:     t.AnnualWalkins,
			AnnualShift:       t.AnnualShift,
			AnnualTotal:       t.AnnualTotal,
			SitesNo:           t.SitesNo,
			StaffNo:           t.StaffNo,
			RunsDayWeek:       t.RunsDayWeek,
			RunsShiftDay:      t.RunsShiftDay,
			RunsAnnual:        t.RunsAnnual,
			RunsAverageVolume: t.RunsAverageVolume,
		}
		if t.LabID != nil {
			row.LabID = sql.NullInt64{Int64: *t.LabID, Valid: true}
		}
		s.tests = append(s.tests, row)
	}
	return s, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) ListReagents(_ context.Context) ([]store.Reagent, error) {
	return s.reagents, nil
}

func (s *Store) ListInstruments(_ context.Context) ([]store.Instrument, error) {
	return s.instruments, nil
}

func (s *Store) ListLabs(_ context.Context) ([]store.Lab, error) {
	return s.labs, nil
}

func (s *Store) Counts(_ context.Context) (store.Counts, error) {
	return store.Counts{
		Tests:       int64(len(s.tests)),
		Labs:        int64(len(s.labs)),
		Instruments: int64(len(s.instruments)),
		Reagents:    int64(len(s.reagents)),
		Users:       s.users,
	}, nil
}

func (s *Store) ListTests(_ context.Context) ([]store.Test, error) {
	return s.tests, nil
}

func (s *Store) GetTest(_ context.Context, id int64) (*store.Test, error) {
	for _, t := range s.tests {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("test %d not found", id))
}
