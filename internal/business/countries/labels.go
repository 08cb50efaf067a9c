package countries

import (
	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
	"github.com/weiwei-tsao/country-stats/apps/api/pkg/util"
)

// DirtyLabels returns the labels of a stored report that still carry markup or
// stray whitespace, in report order. Reports built by DecodeCountries never
// have any; older runs saved before a cleaner change may.
func DirtyLabels(r model.StatisticsReport) []string {
	var dirty []string
	for _, row := range r.CountryRows {
		if util.NeedsCleanup(row.Name) {
			dirty = append(dirty, row.Name)
		}
	}
	for _, h := range []model.Histogram{r.RegionCounts, r.CurrencyCounts} {
		for _, b := range h {
			if util.NeedsCleanup(b.Label) {
				dirty = append(dirty, b.Label)
			}
		}
	}
	return dirty
}
