package countries

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
)

// DefaultBaseURL is the public restcountries v3.1 API.
const DefaultBaseURL = "https://restcountries.com/v3.1"

// providerFields limits the payload to what the aggregation reads.
const providerFields = "name,population,region,currencies"

// Source supplies country records, either all of them or those matching a name.
type Source interface {
	All(ctx context.Context) ([]model.CountryRecord, error)
	ByName(ctx context.Context, name string) ([]model.CountryRecord, error)
}

// RESTSource reads countries from the restcountries API.
type RESTSource struct {
	fetcher Fetcher
	baseURL string
}

// NewRESTSource creates a source. An empty baseURL falls back to DefaultBaseURL.
func NewRESTSource(fetcher Fetcher, baseURL string) *RESTSource {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &RESTSource{fetcher: fetcher, baseURL: base}
}

func (s *RESTSource) All(ctx context.Context) ([]model.CountryRecord, error) {
	return s.get(ctx, s.baseURL+"/all?fields="+providerFields)
}

func (s *RESTSource) ByName(ctx context.Context, name string) ([]model.CountryRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyQuery
	}
	records, err := s.get(ctx, s.baseURL+"/name/"+url.PathEscape(name)+"?fields="+providerFields)
	var upstream *UpstreamError
	if errors.As(err, &upstream) && upstream.Status == http.StatusNotFound {
		return nil, fmt.Errorf("search %q: %w", name, ErrNotFound)
	}
	return records, err
}

func (s *RESTSource) get(ctx context.Context, endpoint string) ([]model.CountryRecord, error) {
	body, err := s.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return DecodeCountries(body)
}
