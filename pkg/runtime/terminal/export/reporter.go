package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/lab-costing/pkg/models/domain"
)

type TableConfig struct {
	NameWidth        int
	ValueWidth       int
	UnitWidth        int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:        32,
		ValueWidth:       14,
		UnitWidth:        12,
		DescriptionWidth: 48,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type reportRow struct {
	Name        string
	Value       string
	Unit        string
	Description string
}

type testSection struct {
	Title     string
	TotalCost string
	Summary   []string
	Rows      []reportRow
}

type dashboardView struct {
	Counts domain.CatalogCounts
	Tests  []testSection
}

const dashboardTemplate = `
Lab Test Costing

Tests: {{.Counts.Tests}}  Labs: {{.Counts.Labs}}  Instruments: {{.Counts.Instruments}}  Reagents: {{.Counts.Reagents}}  Users: {{.Counts.Users}}
{{range .Tests}}{{template "test" .}}{{end}}`

const testTemplate = `
=== {{.Title}} ===
Total cost: {{.TotalCost}}
{{range .Summary}}{{.}}
{{end}}
{{separator}}
{{formatRow "Item" "Cost" "Component" "Detail"}}
{{separator}}
{{range .Rows}}{{formatRow .Name .Value .Unit .Description}}
{{end}}{{separator}}
`

func (c *Reporter) templates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatRow": func(name, value, unit, desc string) string {
			return fmt.Sprintf("| %-*s | %*s | %-*s | %-*s |",
				c.config.NameWidth, truncate(name, c.config.NameWidth),
				c.config.ValueWidth, value,
				c.config.UnitWidth, unit,
				c.config.DescriptionWidth, truncate(desc, c.config.DescriptionWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.UnitWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2))
		},
	}

	t, err := template.New("dashboard").Funcs(funcMap).Parse(dashboardTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if _, err := t.New("test").Parse(testTemplate); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return t, nil
}

func (c *Reporter) Dashboard(d *domain.Dashboard) error {
	t, err := c.templates()
	if err != nil {
		return err
	}

	view := dashboardView{Counts: d.Counts}
	for _, summary := range d.Tests {
		view.Tests = append(view.Tests, newTestSection(summary))
	}
	return t.ExecuteTemplate(c.writer, "dashboard", view)
}

func (c *Reporter) TestCost(s *domain.TestCostSummary) error {
	t, err := c.templates()
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(c.writer, "test", newTestSection(*s))
}

func newTestSection(s domain.TestCostSummary) testSection {
	title := fmt.Sprintf("#%d %s", s.TestID, s.Name)
	if s.Lab != "" {
		title += " (" + s.Lab + ")"
	}
	section := testSection{
		Title:     title,
		TotalCost: s.TotalCost.StringFixed(2),
	}

	for _, component := range s.Components {
		section.Summary = append(section.Summary,
			fmt.Sprintf("%s: %s", component.Component, component.Cost.StringFixed(2)))

		for _, entry := range component.Reagents {
			section.Rows = append(section.Rows, reagentRow(entry))
		}
		for _, entry := range component.Instruments {
			section.Rows = append(section.Rows, instrumentRow(entry))
		}
	}
	return section
}

func reagentRow(entry domain.ReagentEntry) reportRow {
	if entry.Cost == nil {
		return unmatchedRow(entry.AssociationEntry, domain.ComponentReagent)
	}
	c := entry.Cost
	return reportRow{
		Name:  c.Name,
		Value: c.TotalCost.StringFixed(2),
		Unit:  domain.ComponentReagent,
		Description: fmt.Sprintf("%s %s/yr, %s per test",
			c.GRUConsumed.Round(2), gruLabel(c.GenericReagentUnit), c.CostPerTest.StringFixed(4)),
	}
}

func instrumentRow(entry domain.InstrumentEntry) reportRow {
	if entry.Cost == nil {
		return unmatchedRow(entry.AssociationEntry, domain.ComponentInstrument)
	}
	c := entry.Cost
	desc := "total " + c.TotalCost.StringFixed(2)
	if c.AllocatedCost != nil {
		desc = fmt.Sprintf("%s of %s", entry.PercentVolume().String(), c.TotalCost.StringFixed(2))
	}
	return reportRow{
		Name:        c.Name,
		Value:       c.Attributed().StringFixed(2),
		Unit:        domain.ComponentInstrument,
		Description: desc,
	}
}

func unmatchedRow(entry domain.AssociationEntry, component string) reportRow {
	name := "(no id)"
	if entry.HasID() {
		name = fmt.Sprintf("#%d", entry.ID)
	}
	return reportRow{
		Name:        name,
		Value:       "-",
		Unit:        component,
		Description: "not in catalog",
	}
}

func gruLabel(unit string) string {
	if unit == "" {
		return "GRU"
	}
	return unit + " GRU"
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-1] + "~"
}
