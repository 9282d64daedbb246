package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workerhealth/hid/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:               "development",
		StorageBackend:    config.BackendMemory,
		SessionSigningKey: "test-signing-key",
		SessionTTL:        time.Hour,
		DefaultLanguage:   "en",
		HistoryLimit:      10,
		Timezone:          "UTC",
		CORSOrigins:       []string{"http://localhost:5173"},
	}
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	ctx := context.Background()
	a, err := newApp(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	require.NoError(t, seed(ctx, a, zerolog.Nop()))
	// Seeding twice keeps the existing accounts.
	require.NoError(t, seed(ctx, a, zerolog.Nop()))
	return newEcho(a)
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, phone string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/login", `{"phone":"`+phone+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Role  string `json:"role"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestServer_PublicEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = do(e, http.MethodGet, "/health/db", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"backend":"memory"`)
}

func TestServer_SeededStaffFlow(t *testing.T) {
	e := newTestServer(t)
	adminToken := login(t, e, "111")
	doctorToken := login(t, e, "222")

	rec := do(e, http.MethodPost, "/admin/register_worker", `{"name":"Ravi","phone":"9000","language":"ta"}`, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reg struct {
		HealthID string `json:"health_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	require.True(t, strings.HasPrefix(reg.HealthID, "HID-"))

	rec = do(e, http.MethodPost, "/doctor/add_record",
		`{"health_id":"`+reg.HealthID+`","diagnosis":"fever","next_visit":"2999-01-05"}`, doctorToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	workerToken := login(t, e, "9000")
	rec = do(e, http.MethodGet, "/worker/dashboard", "", workerToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "2999-01-05")
	assert.Contains(t, rec.Body.String(), "உங்கள்")

	rec = do(e, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hids_issued_total 1")
	assert.Contains(t, rec.Body.String(), "records_appended_total 1")
	assert.Contains(t, rec.Body.String(), "notifications_created_total 1")
}

func TestServer_RequiresSession(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodGet, "/worker/dashboard", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/admin/register_worker", `{"name":"X","phone":"1"}`, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoadConfig_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SESSION_SIGNING_KEY", "k")
	_, err := loadConfig()
	assert.Error(t, err)
}
