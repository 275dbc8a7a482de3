package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, gen Generator) *httptest.Server {
	t.Helper()
	cfg := testConfig(t)
	raster := &fakeRasterizer{width: 100, heights: []int{100, 100, 100, 100, 100, 100}, failAt: -1}
	ws := NewWebServer(cfg, "", NewPlanner(gen, cfg, nil), NewReportBuilder(NewCompositor(raster, testGeometry(), nil), nil), nil)
	srv := httptest.NewServer(ws.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func cannedGenerator() Generator {
	return languageGenerator(map[Language]string{
		English: "## Financial Summary\n<b>Healthy</b><script>alert(1)</script>\n\n**Disclaimer:** general advice",
		Hindi:   "## वित्तीय सारांश\nअच्छी स्थिति।",
	})
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", strings.NewReader(string(data)))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestWebServer_Health(t *testing.T) {
	srv := newTestServer(t, cannedGenerator())

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestWebServer_Index(t *testing.T) {
	srv := newTestServer(t, cannedGenerator())

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	missing, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestWebServer_Config(t *testing.T) {
	srv := newTestServer(t, cannedGenerator())

	resp, err := http.Get(srv.URL + "/api/config")
	require.NoError(t, err)
	defer resp.Body.Close()

	var cfg Config
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.InDelta(t, 0.06, cfg.Planning.InflationRate, 1e-9)
	assert.Empty(t, cfg.Generator.APIKey)
}

func TestWebServer_Plan(t *testing.T) {
	srv := newTestServer(t, cannedGenerator())

	resp := postJSON(t, srv.URL+"/api/plan", APIPlanRequest{Profile: *validProfile()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out APIPlanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.RequestID)
	require.Contains(t, out.Plans, English)
	require.Contains(t, out.Plans, Hindi)
	assert.Equal(t, "Financial Summary", out.Plans[English].Sections[0].Title)
	assert.NotContains(t, out.Plans[English].Sections[0].Content, "<script>")
	assert.Contains(t, out.Plans[English].Sections[0].Content, "<b>Healthy</b>")
	assert.Equal(t, "Disclaimer: general advice", out.Plans[English].Disclaimer)
	require.NotNil(t, out.Snapshot)
	assert.InDelta(t, 50000, out.Snapshot.TotalExpenses, 1e-9)
}

func TestWebServer_PlanLanguagesAndFormStrings(t *testing.T) {
	srv := newTestServer(t, cannedGenerator())

	// Form fields arrive as strings; only English is requested
	body := `{"profile": {"name": "Priya", "age": "28", "monthly_income": 85000, "goal_timeframe": "3",
		"goals": "Buy a car for 5 lakh"}, "languages": ["en"]}`
	resp, err := http.Post(srv.URL+"/api/plan", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out APIPlanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Plans, 1)
	require.NotNil(t, out.Directive)
	require.NotNil(t, out.Directive.Goal)
	assert.Equal(t, 3, out.Directive.Goal.Years)
}

func TestWebServer_PlanValidationError(t *testing.T) {
	srv := newTestServer(t, cannedGenerator())

	profile := validProfile()
	profile.MonthlyIncome = 1000
	resp := postJSON(t, srv.URL+"/api/plan", APIPlanRequest{Profile: *profile, Languages: []Language{Hindi}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var out APIPlanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Success)
	assert.Equal(t, "validation", out.ErrorKind)
	assert.Equal(t, expensesExceedIncome[Hindi], out.Error)
}

func TestWebServer_PlanGenerationError(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", &GenerationError{Failure: FailureUnavailable, Message: "API key not valid"}
	})
	srv := newTestServer(t, gen)

	resp := postJSON(t, srv.URL+"/api/plan", APIPlanRequest{Profile: *validProfile()})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var out APIPlanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "generation", out.ErrorKind)
	assert.Contains(t, out.Error, "API key not valid")
}

func TestWebServer_BadRequests(t *testing.T) {
	srv := newTestServer(t, cannedGenerator())

	resp, err := http.Get(srv.URL + "/api/plan")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/plan", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebServer_Report(t *testing.T) {
	srv := newTestServer(t, cannedGenerator())

	plan := ParsePlan("## Financial Summary\nok")
	profile := validProfile()
	profile.Name = "Priya Sharma"
	resp := postJSON(t, srv.URL+"/api/report", APIReportRequest{Profile: *profile, Language: English, Plan: &plan})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "FinanceBuddyGPT_Plan_Priya_Sharma.pdf")
}
