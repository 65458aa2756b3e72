package store

import "database/sql"

type Reagent struct {
	ID                 int64
	Name               string
	Description        sql.NullString
	Cost               float64
	ExpiryPeriod       float64
	GenericReagentUnit string
	QuantityPerGRU     float64
	TestsPerGRU        float64
}

type Instrument struct {
	ID              int64
	Name            string
	Description     sql.NullString
	Cost            float64
	Amortization    float64
	AnnualCost      float64
	MaintenanceCost float64
	TotalCost       float64
}

type Lab struct {
	ID          int64
	Name        string
	Description sql.NullString
}

// Test mirrors a row of the tests table. ReagentList and InstrumentList hold
// the raw JSONB documents.
type Test struct {
	ID                int64
	LabID             sql.NullInt64
	Name              string
	Description       sql.NullString
	ReagentList       []byte
	InstrumentList    []byte
	AnnualCredit      int64
	AnnualNHIMA       int64
	AnnualResearch    int64
	AnnualWalkins     int64
	AnnualShift       float64
	AnnualTotal       int64
	SitesNo           int64
	StaffNo           int64
	RunsDayWeek       int64
	RunsShiftDay      int64
	RunsAnnual        int64
	RunsAverageVolume float64
}

type Counts struct {
	Tests       int64
	Labs        int64
	Instruments int64
	Reagents    int64
	Users       int64
}
