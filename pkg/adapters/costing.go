package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/lab-costing/pkg/models/api"
	"github.com/de-tools/lab-costing/pkg/models/domain"
)

func MapDashboardDomainToApi(d domain.Dashboard) (api.Dashboard, error) {
	dashboard := api.Dashboard{
		TotalTests:       d.Counts.Tests,
		TotalLabs:        d.Counts.Labs,
		TotalInstruments: d.Counts.Instruments,
		TotalReagents:    d.Counts.Reagents,
		TotalUsers:       d.Counts.Users,
		Tests:            make([]api.TestCost, 0, len(d.Tests)),
	}

	for _, summary := range d.Tests {
		test, err := MapTestCostSummaryDomainToApi(summary)
		if err != nil {
			return api.Dashboard{}, err
		}
		dashboard.Tests = append(dashboard.Tests, test)
	}
	return dashboard, nil
}

func MapTestCostSummaryDomainToApi(s domain.TestCostSummary) (api.TestCost, error) {
	test := api.TestCost{
		ID:         s.TestID,
		Name:       s.Name,
		Lab:        s.Lab,
		TotalCost:  s.TotalCost.InexactFloat64(),
		Components: make([]api.CostComponent, 0, len(s.Components)),
	}

	for _, c := range s.Components {
		component, err := MapCostComponentDomainToApi(c)
		if err != nil {
			return api.TestCost{}, fmt.Errorf("test %d: %w", s.TestID, err)
		}
		test.Components = append(test.Components, component)
	}
	return test, nil
}

func MapCostComponentDomainToApi(c domain.CostComponent) (api.CostComponent, error) {
	component := api.CostComponent{
		Component: c.Component,
		Cost:      c.Cost.InexactFloat64(),
		Items:     make([]json.RawMessage, 0, len(c.Reagents)+len(c.Instruments)),
	}

	for _, entry := range c.Reagents {
		item, err := json.Marshal(entry)
		if err != nil {
			return api.CostComponent{}, fmt.Errorf("encode %s item %d: %w", c.Component, entry.ID, err)
		}
		component.Items = append(component.Items, item)
	}
	for _, entry := range c.Instruments {
		item, err := json.Marshal(entry)
		if err != nil {
			return api.CostComponent{}, fmt.Errorf("encode %s item %d: %w", c.Component, entry.ID, err)
		}
		component.Items = append(component.Items, item)
	}
	return component, nil
}
