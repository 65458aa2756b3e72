package labtest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	apperrors "github.com/de-tools/lab-costing/pkg/errors"
	"github.com/de-tools/lab-costing/pkg/models/store"
)

// Store reads tests together with their raw reagent and instrument lists.
type Store interface {
	ListTests(ctx context.Context) ([]store.Test, error)
	GetTest(ctx context.Context, id int64) (*store.Test, error)
}

var testColumns = []any{
	"id", "lab_id", "name", "description", "reagent_list", "instrument_list",
	"annual_credit", "annual_nhima", "annual_research", "annual_walkins",
	"annual_shift", "annual_total", "sites_no", "staff_no",
	"runs_day_week", "runs_shift_day", "runs_annual", "runs_average_volume",
}

type testStore struct {
	db   *sql.DB
	goqu *goqu.Database
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &testStore{
		db:   db,
		goqu: goqu.New("postgres", db),
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTest(row scanner) (store.Test, error) {
	var t store.Test
	err := row.Scan(
		&t.ID, &t.LabID, &t.Name, &t.Description, &t.ReagentList, &t.InstrumentList,
		&t.AnnualCredit, &t.AnnualNHIMA, &t.AnnualResearch, &t.AnnualWalkins,
		&t.AnnualShift, &t.AnnualTotal, &t.SitesNo, &t.StaffNo,
		&t.RunsDayWeek, &t.RunsShiftDay, &t.RunsAnnual, &t.RunsAverageVolume,
	)
	return t, err
}

func (s *testStore) ListTests(ctx context.Context) ([]store.Test, error) {
	query, args, err := s.goqu.
		From("tests").
		Select(testColumns...).
		Order(goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build tests query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tests: %w", err)
	}
	defer rows.Close()

	var tests []store.Test
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		tests = append(tests, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tests: %w", err)
	}
	return tests, nil
}

func (s *testStore) GetTest(ctx context.Context, id int64) (*store.Test, error) {
	query, args, err := s.goqu.
		From("tests").
		Prepared(true).
		Select(testColumns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build test query: %w", err)
	}

	t, err := scanTest(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("test %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("query test %d: %w", id, err)
	}
	return &t, nil
}
