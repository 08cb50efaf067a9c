package countries

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
	"github.com/weiwei-tsao/country-stats/apps/api/pkg/util"
)

// providerCountry mirrors the subset of the restcountries v3.1 payload we read.
type providerCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Population *int64                      `json:"population"`
	Region     *string                     `json:"region"`
	Currencies map[string]providerCurrency `json:"currencies"`
}

type providerCurrency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// DecodeCountries parses a provider JSON array into validated records.
// Labels are cleaned, blank regions become absent, and currencies are ordered by code.
func DecodeCountries(r io.Reader) ([]model.CountryRecord, error) {
	var raw []providerCountry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode countries: %w", err)
	}

	records := make([]model.CountryRecord, 0, len(raw))
	for i, pc := range raw {
		rec := model.CountryRecord{
			Name:       util.CleanLabel(pc.Name.Common),
			Population: pc.Population,
		}
		if pc.Region != nil {
			if region := util.CleanLabel(*pc.Region); region != "" {
				rec.Region = &region
			}
		}
		if pc.Currencies != nil {
			rec.Currencies = decodeCurrencies(pc.Currencies)
		}
		if err := validateRecord(i, rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeCurrencies(in map[string]providerCurrency) []model.Currency {
	codes := make([]string, 0, len(in))
	for code := range in {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]model.Currency, 0, len(codes))
	for _, code := range codes {
		name := util.CleanLabel(in[code].Name)
		if name == "" {
			// Some entries only carry a code.
			name = strings.ToUpper(strings.TrimSpace(code))
		}
		if name == "" {
			continue
		}
		out = append(out, model.Currency{Name: name})
	}
	return out
}
