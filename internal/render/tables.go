package render

import (
	"fmt"

	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
)

// Table names accepted by BuildTable.
const (
	TableGeneral    = "general"
	TableCountries  = "countries"
	TableRegions    = "regions"
	TableCurrencies = "currencies"
)

// TableNames lists every table in display order.
var TableNames = []string{TableGeneral, TableCountries, TableRegions, TableCurrencies}

// Table is a rendered, presentation-ready table.
type Table struct {
	Name    string
	Title   string
	Columns []string
	Rows    [][]string
}

// BuildTable renders one table of the report with f.
func BuildTable(name string, r model.StatisticsReport, f Formatter) (Table, error) {
	switch name {
	case TableGeneral:
		avg := NotAvailable
		if v, ok := r.Average(); ok {
			avg = f.Float(v)
		}
		return Table{
			Name:    name,
			Title:   "General Statistics",
			Columns: []string{"Statistic", "Value"},
			Rows: [][]string{
				{"Total Countries", f.Int(int64(r.TotalCountries))},
				{"Total Population", f.Int(r.TotalPopulation)},
				{"Average Population", avg},
			},
		}, nil
	case TableCountries:
		rows := make([][]string, 0, len(r.CountryRows))
		for _, row := range r.CountryRows {
			rows = append(rows, []string{row.Name, f.Population(row.Population)})
		}
		return Table{Name: name, Title: "Country Details", Columns: []string{"Country Name", "Population"}, Rows: rows}, nil
	case TableRegions:
		return histogramTable(name, "Regions", "Region", r.RegionCounts, f), nil
	case TableCurrencies:
		return histogramTable(name, "Currencies", "Currency", r.CurrencyCounts, f), nil
	default:
		return Table{}, fmt.Errorf("unknown table %q", name)
	}
}

// BuildTables renders every table in TableNames order.
func BuildTables(r model.StatisticsReport, f Formatter) []Table {
	tables := make([]Table, 0, len(TableNames))
	for _, name := range TableNames {
		t, _ := BuildTable(name, r, f)
		tables = append(tables, t)
	}
	return tables
}

func histogramTable(name, title, label string, h model.Histogram, f Formatter) Table {
	rows := make([][]string, 0, len(h))
	for _, b := range h {
		rows = append(rows, []string{b.Label, f.Int(int64(b.Count))})
	}
	return Table{Name: name, Title: title, Columns: []string{label, "Number of Countries"}, Rows: rows}
}
