package api

import "encoding/json"

type Dashboard struct {
	TotalTests       int64      `json:"total_tests"`
	TotalLabs        int64      `json:"total_labs"`
	TotalInstruments int64      `json:"total_instruments"`
	TotalReagents    int64      `json:"total_reagents"`
	TotalUsers       int64      `json:"total_users"`
	Tests            []TestCost `json:"tests"`
}

type TestCost struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Lab        string          `json:"lab"`
	TotalCost  float64         `json:"total_cost"`
	Components []CostComponent `json:"components"`
}

// CostComponent carries the enriched association entries verbatim: caller
// supplied keys are kept next to the computed ones.
type CostComponent struct {
	Component string            `json:"component"`
	Cost      float64           `json:"cost"`
	Items     []json.RawMessage `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
