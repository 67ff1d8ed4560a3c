package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carbonpay/internal/catalog"
	"carbonpay/internal/events"
	catalogrepo "carbonpay/internal/repository/catalog"
	onboardingrepo "carbonpay/internal/repository/onboarding"
	sessionrepo "carbonpay/internal/repository/session"
	onboardingsvc "carbonpay/internal/service/onboarding"
	portfoliosvc "carbonpay/internal/service/portfolio"
	purchasesvc "carbonpay/internal/service/purchase"
	sessionsvc "carbonpay/internal/service/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDeps() Deps {
	cat := catalogrepo.NewStatic(catalog.Default())
	fanout := events.NewFanout(zap.NewNop())
	onboarding := onboardingsvc.New(onboardingrepo.NewMemory(), fanout, zap.NewNop())
	portfolio := portfoliosvc.New(cat, onboarding, portfoliosvc.NewCache(time.Minute), zap.NewNop())
	fanout.Subscribe(portfolio)
	return Deps{
		Catalog:    cat,
		Sessions:   sessionsvc.New(sessionrepo.NewMemory(), "test-secret", time.Hour, zap.NewNop()),
		Onboarding: onboarding,
		Wizards:    onboardingsvc.NewWizards(onboarding, time.Hour),
		Portfolio:  portfolio,
		Purchases:  purchasesvc.NewDialogs(cat, "USD", time.Hour, zap.NewNop()),
	}
}

func testRouter(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(zap.NewNop(), nil, testDeps(), opts)
	require.NoError(t, err)
	return router
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func connect(t *testing.T, router http.Handler, wallet string) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/session", "", map[string]string{"walletAddress": wallet})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestBuildRouter_MissingDeps(t *testing.T) {
	_, err := buildRouter(zap.NewNop(), nil, Deps{}, Options{})
	assert.Error(t, err)
}

func TestBuildRouter_BadRateLimit(t *testing.T) {
	_, err := buildRouter(zap.NewNop(), nil, testDeps(), Options{RateLimit: "lots"})
	assert.Error(t, err)
}

func TestHealthAndReady(t *testing.T) {
	router := testRouter(t, Options{})

	rec := do(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":"memory"`)
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(t, Options{})
	do(t, router, http.MethodGet, "/healthz", "", nil)

	rec := do(t, router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "carbonpay_http_request_duration_seconds")
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router := testRouter(t, Options{})
	paths := []string{"/api/dashboard", "/api/assets", "/api/emissions", "/api/onboarding/status", "/api/purchase", "/api/session"}
	for _, p := range paths {
		rec := do(t, router, http.MethodGet, p, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, p)

		rec = do(t, router, http.MethodGet, p, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, p)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	router := testRouter(t, Options{})
	token := connect(t, router, "0xABC")

	rec := do(t, router, http.MethodGet, "/api/session", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ownerId":"0xabc"`)

	rec = do(t, router, http.MethodDelete, "/api/session", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/dashboard", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConnect_RequiresWallet(t *testing.T) {
	router := testRouter(t, Options{})
	rec := do(t, router, http.MethodPost, "/api/session", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjects(t *testing.T) {
	router := testRouter(t, Options{})

	rec := do(t, router, http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Results []projectView `json:"results"`
		Count   int           `json:"count"`
	}
	decode(t, rec, &list)
	assert.Equal(t, 3, list.Count)
	assert.Equal(t, "$20.00", list.Results[0].PriceDisplay)

	rec = do(t, router, http.MethodGet, "/api/projects/1/details", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"registryId":"VCS/3447"`)
	assert.Contains(t, rec.Body.String(), `"creditsIssuedDisplay":"300,000"`)

	rec = do(t, router, http.MethodGet, "/api/projects/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, router, http.MethodGet, "/api/projects/999/details", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssetsAndEmissions(t *testing.T) {
	router := testRouter(t, Options{})
	token := connect(t, router, "0xabc")

	rec := do(t, router, http.MethodGet, "/api/assets", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var assets portfoliosvc.Assets
	decode(t, rec, &assets)
	assert.Equal(t, 3500, assets.Summary.TotalCredits)

	rec = do(t, router, http.MethodGet, "/api/emissions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var em portfoliosvc.EmissionsOverview
	decode(t, rec, &em)
	assert.Equal(t, 65, em.Summary.OffsetPercentage)
}

func TestExports(t *testing.T) {
	router := testRouter(t, Options{})
	token := connect(t, router, "0xabc")

	rec := do(t, router, http.MethodGet, "/api/assets/export?format=csv", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="carbon-credits.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, 4, strings.Count(rec.Body.String(), "\n"))

	rec = do(t, router, http.MethodGet, "/api/emissions/export?format=pdf", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = do(t, router, http.MethodGet, "/api/emissions/export?format=docx", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	router := testRouter(t, Options{RateLimit: "2-M"})

	for i := 0; i < 2; i++ {
		rec := do(t, router, http.MethodGet, "/api/projects", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, router, http.MethodGet, "/api/projects", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = do(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	router := testRouter(t, Options{CORSOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
