package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/de-tools/lab-costing/pkg/models/store"
)

// Store reads the reagent, instrument and lab catalog. Records are written by
// the administration UI; this store never modifies them.
type Store interface {
	ListReagents(ctx context.Context) ([]store.Reagent, error)
	ListInstruments(ctx context.Context) ([]store.Instrument, error)
	ListLabs(ctx context.Context) ([]store.Lab, error)
	Counts(ctx context.Context) (store.Counts, error)
}

type catalogStore struct {
	db   *sql.DB
	goqu *goqu.Database
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &catalogStore{
		db:   db,
		goqu: goqu.New("postgres", db),
	}, nil
}

func (s *catalogStore) ListReagents(ctx context.Context) ([]store.Reagent, error) {
	query, args, err := s.goqu.
		From("reagents").
		Select(
			"id", "name", "description", "cost", "expiry_period",
			"generic_reagent_unit", "quantity_per_gru", "tests_per_gru",
		).
		Order(goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build reagents query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reagents: %w", err)
	}
	defer rows.Close()

	var reagents []store.Reagent
	for rows.Next() {
		var r store.Reagent
		if err := rows.Scan(
			&r.ID, &r.Name, &r.Description, &r.Cost, &r.ExpiryPeriod,
			&r.GenericReagentUnit, &r.QuantityPerGRU, &r.TestsPerGRU,
		); err != nil {
			return nil, fmt.Errorf("scan reagent: %w", err)
		}
		reagents = append(reagents, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reagents: %w", err)
	}
	return reagents, nil
}

func (s *catalogStore) ListInstruments(ctx context.Context) ([]store.Instrument, error) {
	// annual_cost and total_cost were added after the table; older rows hold NULL.
	query, args, err := s.goqu.
		From("instruments").
		Select(
			goqu.C("id"), goqu.C("name"), goqu.C("description"), goqu.C("cost"),
			goqu.C("amortization"),
			goqu.COALESCE(goqu.C("annual_cost"), 0).As("annual_cost"),
			goqu.C("maintenance_cost"),
			goqu.COALESCE(goqu.C("total_cost"), 0).As("total_cost"),
		).
		Order(goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build instruments query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query instruments: %w", err)
	}
	defer rows.Close()

	var instruments []store.Instrument
	for rows.Next() {
		var i store.Instrument
		if err := rows.Scan(
			&i.ID, &i.Name, &i.Description, &i.Cost, &i.Amortization,
			&i.AnnualCost, &i.MaintenanceCost, &i.TotalCost,
		); err != nil {
			return nil, fmt.Errorf("scan instrument: %w", err)
		}
		instruments = append(instruments, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instruments: %w", err)
	}
	return instruments, nil
}

func (s *catalogStore) ListLabs(ctx context.Context) ([]store.Lab, error) {
	query, args, err := s.goqu.
		From("labs").
		Select("id", "name", "description").
		Order(goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build labs query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query labs: %w", err)
	}
	defer rows.Close()

	var labs []store.Lab
	for rows.Next() {
		var l store.Lab
		if err := rows.Scan(&l.ID, &l.Name, &l.Description); err != nil {
			return nil, fmt.Errorf("scan lab: %w", err)
		}
		labs = append(labs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate labs: %w", err)
	}
	return labs, nil
}

func (s *catalogStore) Counts(ctx context.Context) (store.Counts, error) {
	var counts store.Counts
	targets := []struct {
		table string
		dest  *int64
	}{
		{"tests", &counts.Tests},
		{"labs", &counts.Labs},
		{"instruments", &counts.Instruments},
		{"reagents", &counts.Reagents},
		{"users", &counts.Users},
	}

	for _, target := range targets {
		query, args, err := s.goqu.
			From(target.table).
			Select(goqu.COUNT(goqu.Star())).
			ToSQL()
		if err != nil {
			return store.Counts{}, fmt.Errorf("build %s count query: %w", target.table, err)
		}
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(target.dest); err != nil {
			return store.Counts{}, fmt.Errorf("count %s: %w", target.table, err)
		}
	}
	return counts, nil
}
