package domain

import "github.com/shopspring/decimal"

// Reagent is the cost profile of a reagent as recorded in the catalog.
// All numeric fields are non-negative; zero is a valid value for every one of them.
type Reagent struct {
	ID                 int64
	Name               string
	Description        string
	Cost               decimal.Decimal // per generic reagent unit (GRU)
	ExpiryPeriod       decimal.Decimal // days a GRU stays usable once opened
	GenericReagentUnit string          // ml
	QuantityPerGRU     decimal.Decimal
	TestsPerGRU        decimal.Decimal
}

// Instrument is the cost profile of an instrument. TotalCost is the figure
// used for allocation; the other amounts are informational.
type Instrument struct {
	ID              int64
	Name            string
	Description     string
	Cost            decimal.Decimal
	Amortization    decimal.Decimal
	AnnualCost      decimal.Decimal
	MaintenanceCost decimal.Decimal
	TotalCost       decimal.Decimal
}

type Lab struct {
	ID          int64
	Name        string
	Description string
}

// CatalogCounts holds the number of records held by each store.
type CatalogCounts struct {
	Tests       int64
	Labs        int64
	Instruments int64
	Reagents    int64
	Users       int64
}
