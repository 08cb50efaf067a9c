package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/business/countries"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/logger"
	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
)

type fakeSource struct {
	all    []model.CountryRecord
	byName map[string][]model.CountryRecord
	err    error
}

func (f fakeSource) All(ctx context.Context) ([]model.CountryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.all, nil
}

func (f fakeSource) ByName(ctx context.Context, name string) ([]model.CountryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	recs, ok := f.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("search %q: %w", name, countries.ErrNotFound)
	}
	return recs, nil
}

type memStore struct {
	runs []model.ReportRun
}

func (m *memStore) SaveReport(ctx context.Context, run model.ReportRun) error {
	m.runs = append(m.runs, run)
	return nil
}

func (m *memStore) GetReport(ctx context.Context, id string) (model.ReportRun, error) {
	for _, r := range m.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return model.ReportRun{}, countries.ErrReportNotFound
}

func (m *memStore) ListReports(ctx context.Context, queryKey string, limit int) ([]model.ReportRun, error) {
	var out []model.ReportRun
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if queryKey == "" || m.runs[i].QueryKey == queryKey {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

var testCountries = []model.CountryRecord{
	{Name: "Germany", Population: ptr(int64(83240525)), Region: ptr("Europe"), Currencies: []model.Currency{{Name: "Euro"}}},
	{Name: "Japan", Population: ptr(int64(125836021)), Region: ptr("Asia"), Currencies: []model.Currency{{Name: "Japanese yen"}}},
	{Name: "Bouvet Island", Region: ptr("Antarctic")},
}

func newTestRouter(src countries.Source, store countries.ReportStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := countries.NewService(src, store, logger.NewNop(), 2)
	return NewRouter(svc, logger.NewNop(), "")
}

func do(t *testing.T, h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestRouter(fakeSource{}, nil), http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAllStats(t *testing.T) {
	w := do(t, newTestRouter(fakeSource{all: testCountries}, nil), http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var run model.ReportRun
	if err := json.Unmarshal(w.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if run.Report.TotalCountries != 3 || run.Report.TotalPopulation != 209076546 {
		t.Errorf("report = %+v", run.Report)
	}
	if run.Report.RegionCounts.Count("Antarctic") != 1 {
		t.Errorf("regions = %+v", run.Report.RegionCounts)
	}
}

func TestSearchStats(t *testing.T) {
	src := fakeSource{byName: map[string][]model.CountryRecord{
		"germany": testCountries[:1],
		"japan":   testCountries[1:2],
	}}
	h := newTestRouter(src, nil)

	w := do(t, h, http.MethodGet, "/api/stats/search?name=germany&name=japan", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var run model.ReportRun
	if err := json.Unmarshal(w.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if run.Report.TotalCountries != 2 || run.Query != "germany, japan" {
		t.Errorf("run = %+v", run)
	}
}

func TestSearchStatsErrors(t *testing.T) {
	h := newTestRouter(fakeSource{byName: map[string][]model.CountryRecord{}}, nil)
	tests := []struct {
		target string
		status int
	}{
		{"/api/stats/search", http.StatusBadRequest},
		{"/api/stats/search?name=%20", http.StatusBadRequest},
		{"/api/stats/search?name=atlantis", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := do(t, h, http.MethodGet, tt.target, nil)
		if w.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.target, w.Code, tt.status)
		}
		if !strings.Contains(w.Body.String(), `"error"`) {
			t.Errorf("%s: expected error body, got %s", tt.target, w.Body.String())
		}
	}
}

func TestUpstreamErrorIsBadGateway(t *testing.T) {
	src := fakeSource{err: &countries.UpstreamError{URL: "x", Status: http.StatusServiceUnavailable}}
	w := do(t, newTestRouter(src, nil), http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestExportStats(t *testing.T) {
	h := newTestRouter(fakeSource{all: testCountries}, nil)

	w := do(t, h, http.MethodGet, "/api/stats/export?table=countries", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %s", ct)
	}
	want := "Country Name,Population\nGermany,83240525\nJapan,125836021\nBouvet Island,N/A\n"
	if w.Body.String() != want {
		t.Errorf("csv = %q", w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/api/stats/export?table=regions", nil)
	if !strings.HasPrefix(w.Body.String(), "Region,Number of Countries\nEurope,1\n") {
		t.Errorf("regions csv = %q", w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/api/stats/export?table=nope", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown table status = %d", w.Code)
	}
}

func TestReports(t *testing.T) {
	store := &memStore{}
	h := newTestRouter(fakeSource{all: testCountries}, store)

	if w := do(t, h, http.MethodGet, "/api/stats", nil); w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	w := do(t, h, http.MethodGet, "/api/reports", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reports status = %d", w.Code)
	}
	var body struct {
		Items []model.ReportRun `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 1 {
		t.Fatalf("items = %+v", body.Items)
	}

	w = do(t, h, http.MethodGet, "/api/reports/"+body.Items[0].ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("report status = %d", w.Code)
	}
	w = do(t, h, http.MethodGet, "/api/reports/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing report status = %d", w.Code)
	}
}

func TestReportsDisabled(t *testing.T) {
	w := do(t, newTestRouter(fakeSource{}, nil), http.MethodGet, "/api/reports", nil)
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPage(t *testing.T) {
	src := fakeSource{
		all:    testCountries,
		byName: map[string][]model.CountryRecord{"japan": testCountries[1:2]},
	}
	h := newTestRouter(src, nil)

	w := do(t, h, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `id="searchForm"`) {
		t.Fatalf("empty page: %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "General Statistics") {
		t.Errorf("empty page should not render tables")
	}

	w = do(t, h, http.MethodGet, "/?name=japan", map[string]string{"Accept-Language": "de-DE"})
	if w.Code != http.StatusOK {
		t.Fatalf("search page status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "125.836.021") {
		t.Errorf("expected German grouping in page")
	}

	w = do(t, h, http.MethodGet, "/?all=1", nil)
	if !strings.Contains(w.Body.String(), "Bouvet Island") || !strings.Contains(w.Body.String(), "N/A") {
		t.Errorf("all page missing rows")
	}

	w = do(t, h, http.MethodGet, "/?name=atlantis", nil)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "alert-danger") {
		t.Errorf("not found page: %d", w.Code)
	}
}

func TestBlankNameFallsBackToAll(t *testing.T) {
	h := newTestRouter(fakeSource{all: testCountries, byName: map[string][]model.CountryRecord{}}, nil)

	w := do(t, h, http.MethodGet, "/?name=&all=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("page status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Bouvet Island") || strings.Contains(w.Body.String(), "alert-danger") {
		t.Errorf("expected all-countries page without error")
	}

	w = do(t, h, http.MethodGet, "/api/stats/export?table=regions&name=&name=%20", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Antarctic,1") {
		t.Errorf("regions csv = %q", w.Body.String())
	}
}

func TestReportsInvalidLimit(t *testing.T) {
	h := newTestRouter(fakeSource{all: testCountries}, &memStore{})
	for _, target := range []string{"/api/reports?limit=abc", "/api/reports?limit=-1"} {
		w := do(t, h, http.MethodGet, target, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", target, w.Code)
		}
		if !strings.Contains(w.Body.String(), "invalid limit") {
			t.Errorf("%s: body = %s", target, w.Body.String())
		}
	}
	if w := do(t, h, http.MethodGet, "/api/reports?limit=5", nil); w.Code != http.StatusOK {
		t.Errorf("valid limit status = %d", w.Code)
	}
}
