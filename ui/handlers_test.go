package ui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nullsim/adapters/engine"
	"nullsim/adapters/memory"
	"nullsim/adapters/report"
	"nullsim/adapters/rng"
	"nullsim/app"
	"nullsim/internal"
	"nullsim/internal/config"
	"nullsim/ports"
)

func newTestApp() *App {
	service := app.NewTestService(
		engine.NewResamplingEngine(rng.NewStreamAdapter()),
		memory.NewRunRepository(),
		report.NewMarkdownRenderer(),
		config.EngineConfig{DefaultReplicates: 500, MaxReplicates: 10000, Workers: 2, Alpha: 0.05},
		internal.NewLogger(internal.LogLevelError),
	)
	return NewApp(service, internal.NewLogger(internal.LogLevelError))
}

func postJSON(t *testing.T, handler http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func validRequest() app.TestRequest {
	return app.TestRequest{
		Values:    []float64{195, 201, 230, 189, 214, 222, 206, 199, 218, 210},
		Stat:      "mean",
		Direction: "two-sided",
		NullValue: 200,
		Seed:      42,
	}
}

func TestHandleRunTest(t *testing.T) {
	a := newTestApp()

	rec := postJSON(t, a.Router(), "/api/tests", validRequest())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var record ports.RunRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if record.ID == "" {
		t.Error("response should carry a run ID")
	}
	if record.PValue < 0 || record.PValue > 1 {
		t.Errorf("p-value out of range: %f", record.PValue)
	}
}

func TestHandleRunTest_InvalidInput(t *testing.T) {
	a := newTestApp()

	req := validRequest()
	req.Values = nil
	rec := postJSON(t, a.Router(), "/api/tests", req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an empty sample, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Error("error response should carry an error field")
	}
}

func TestHandleGetRun_RoundTrip(t *testing.T) {
	a := newTestApp()

	rec := postJSON(t, a.Router(), "/api/tests", validRequest())
	var created ports.RunRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tests/"+created.ID.String(), nil)
	got := httptest.NewRecorder()
	a.Router().ServeHTTP(got, req)
	if got.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", got.Code)
	}

	var fetched ports.RunRecord
	if err := json.Unmarshal(got.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("failed to decode get response: %v", err)
	}
	if fetched.PValue != created.PValue {
		t.Errorf("fetched p-value %f differs from created %f", fetched.PValue, created.PValue)
	}
}

func TestHandleGetRun_NotFound(t *testing.T) {
	a := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/tests/b3b9897f-5f10-4cdb-b3cb-17f2b3e1b0c7", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown run, got %d", rec.Code)
	}
}

func TestHandleReport_ReturnsHTML(t *testing.T) {
	a := newTestApp()

	rec := postJSON(t, a.Router(), "/api/tests", validRequest())
	var created ports.RunRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tests/"+created.ID.String()+"/report", nil)
	got := httptest.NewRecorder()
	a.Router().ServeHTTP(got, req)
	if got.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", got.Code)
	}
	if ct := got.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML content type, got %s", ct)
	}
	if !strings.Contains(got.Body.String(), "Hypothesis Test Report") {
		t.Error("report body should contain the report title")
	}
}

func TestHandleRunBatch(t *testing.T) {
	a := newTestApp()

	rec := postJSON(t, a.Router(), "/api/tests/batch", []app.TestRequest{validRequest(), validRequest()})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var records []ports.RunRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("failed to decode batch response: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}
