package model

import "time"

// UnknownRegion is the histogram label used for records without a region.
const UnknownRegion = "Unknown"

// Currency is a single currency reported by a country.
type Currency struct {
	Name string `json:"name" firestore:"name"`
}

// CountryRecord is one country's attributes as supplied by the data source.
// Optional fields are nil when the provider omitted them.
type CountryRecord struct {
	Name       string     `json:"name" firestore:"name"`
	Population *int64     `json:"population,omitempty" firestore:"population,omitempty"`
	Region     *string    `json:"region,omitempty" firestore:"region,omitempty"`
	Currencies []Currency `json:"currencies,omitempty" firestore:"currencies,omitempty"`
}

// CountryRow is one line of the per-country table. A nil Population is rendered as "N/A".
type CountryRow struct {
	Name       string `json:"name" firestore:"name"`
	Population *int64 `json:"population" firestore:"population"`
}

// Bucket is a single label/count pair of a Histogram.
type Bucket struct {
	Label string `json:"label" firestore:"label"`
	Count int    `json:"count" firestore:"count"`
}

// Histogram holds counts per label in first-seen order.
type Histogram []Bucket

// Count returns the count stored for label, or 0.
func (h Histogram) Count(label string) int {
	for _, b := range h {
		if b.Label == label {
			return b.Count
		}
	}
	return 0
}

// Total sums every bucket.
func (h Histogram) Total() int {
	var total int
	for _, b := range h {
		total += b.Count
	}
	return total
}

// StatisticsReport is the aggregation result handed to presentation.
type StatisticsReport struct {
	TotalCountries  int   `json:"totalCountries" firestore:"totalCountries"`
	TotalPopulation int64 `json:"totalPopulation" firestore:"totalPopulation"`
	// AveragePopulation is nil when there are no countries to average over.
	AveragePopulation *float64     `json:"averagePopulation" firestore:"averagePopulation"`
	CountryRows       []CountryRow `json:"countryRows" firestore:"countryRows"`
	RegionCounts      Histogram    `json:"regionCounts" firestore:"regionCounts"`
	CurrencyCounts    Histogram    `json:"currencyCounts" firestore:"currencyCounts"`
}

// Average returns the average population and whether it is defined.
func (r StatisticsReport) Average() (float64, bool) {
	if r.AveragePopulation == nil {
		return 0, false
	}
	return *r.AveragePopulation, true
}

// ReportRun is a persisted aggregation with the query that produced it.
type ReportRun struct {
	ID        string           `json:"id" firestore:"id"`
	Query     string           `json:"query" firestore:"query"`
	QueryKey  string           `json:"queryKey" firestore:"queryKey"`
	CreatedAt time.Time        `json:"createdAt" firestore:"createdAt"`
	Report    StatisticsReport `json:"report" firestore:"report"`
}
