package countries

import (
	"strings"

	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
)

// Aggregate reduces country records into a StatisticsReport.
// It is pure: the input is not modified and the report shares no memory with it.
// A record with a blank name or negative population fails the whole call.
func Aggregate(records []model.CountryRecord) (model.StatisticsReport, error) {
	for i, rec := range records {
		if err := validateRecord(i, rec); err != nil {
			return model.StatisticsReport{}, err
		}
	}

	var totalPopulation int64
	rows := make([]model.CountryRow, 0, len(records))
	for _, rec := range records {
		row := model.CountryRow{Name: rec.Name}
		if rec.Population != nil {
			pop := *rec.Population
			totalPopulation += pop
			row.Population = &pop
		}
		rows = append(rows, row)
	}

	report := model.StatisticsReport{
		TotalCountries:  len(records),
		TotalPopulation: totalPopulation,
		CountryRows:     rows,
		RegionCounts:    countRegions(records),
		CurrencyCounts:  countCurrencies(records),
	}
	if report.TotalCountries > 0 {
		avg := float64(totalPopulation) / float64(report.TotalCountries)
		report.AveragePopulation = &avg
	}
	return report, nil
}

func validateRecord(i int, rec model.CountryRecord) error {
	if strings.TrimSpace(rec.Name) == "" {
		return &InvalidInputError{Index: i, Reason: "missing name"}
	}
	if rec.Population != nil && *rec.Population < 0 {
		return &InvalidInputError{Index: i, Name: rec.Name, Reason: "negative population"}
	}
	return nil
}

// counter keeps label counts in first-seen order.
type counter struct {
	index map[string]int
	hist  model.Histogram
}

func newCounter() *counter {
	return &counter{index: make(map[string]int), hist: model.Histogram{}}
}

func (c *counter) inc(label string) {
	if i, ok := c.index[label]; ok {
		c.hist[i].Count++
		return
	}
	c.index[label] = len(c.hist)
	c.hist = append(c.hist, model.Bucket{Label: label, Count: 1})
}

func countRegions(records []model.CountryRecord) model.Histogram {
	c := newCounter()
	for _, rec := range records {
		region := model.UnknownRegion
		if rec.Region != nil && strings.TrimSpace(*rec.Region) != "" {
			region = *rec.Region
		}
		c.inc(region)
	}
	return c.hist
}

// countCurrencies counts countries per currency; a currency listed twice by
// one country counts once for it.
func countCurrencies(records []model.CountryRecord) model.Histogram {
	c := newCounter()
	for _, rec := range records {
		if len(rec.Currencies) == 0 {
			continue
		}
		seen := make(map[string]struct{}, len(rec.Currencies))
		for _, cur := range rec.Currencies {
			if cur.Name == "" {
				continue
			}
			if _, dup := seen[cur.Name]; dup {
				continue
			}
			seen[cur.Name] = struct{}{}
			c.inc(cur.Name)
		}
	}
	return c.hist
}
