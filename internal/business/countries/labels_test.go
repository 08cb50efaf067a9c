package countries

import (
	"reflect"
	"strings"
	"testing"

	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
)

func TestDirtyLabels(t *testing.T) {
	report := model.StatisticsReport{
		CountryRows: []model.CountryRow{{Name: "France"}, {Name: "Peru<wbr>"}},
		RegionCounts: model.Histogram{
			{Label: "Europe", Count: 1},
			{Label: " Americas", Count: 1},
		},
		CurrencyCounts: model.Histogram{{Label: "Trinidad &amp; Tobago dollar", Count: 1}},
	}
	got := DirtyLabels(report)
	want := []string{"Peru<wbr>", " Americas", "Trinidad &amp; Tobago dollar"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DirtyLabels = %q, want %q", got, want)
	}
}

func TestDirtyLabelsDecodedReportIsClean(t *testing.T) {
	body := `[{"name":{"common":"Côte d'Ivoire<wbr>"},"population":1,"region":" Africa ",
		"currencies":{"XOF":{"name":"West African CFA &amp; franc"}}}]`
	records, err := DecodeCountries(strings.NewReader(body))
	if err != nil {
		t.Fatalf("DecodeCountries: %v", err)
	}
	report, err := Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if dirty := DirtyLabels(report); len(dirty) != 0 {
		t.Errorf("decoded report has dirty labels: %q", dirty)
	}
}
