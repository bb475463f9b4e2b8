package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billminder/internal/auth"
	"github.com/mmynk/billminder/internal/calculator"
	"github.com/mmynk/billminder/internal/clock"
	"github.com/mmynk/billminder/internal/metrics"
	"github.com/mmynk/billminder/internal/models"
	"github.com/mmynk/billminder/internal/service"
	"github.com/mmynk/billminder/internal/storage/memory"
)

type testEnv struct {
	server *httptest.Server
	clock  *clock.Fake
	tokens *auth.TokenManager
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	clk := clock.NewFake(time.Date(2024, 3, 10, 17, 0, 0, 0, time.UTC))
	opts := calculator.DefaultOptions()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	m := metrics.New()

	srv := New(Deps{
		Bills:    service.NewBillService(store, clk, opts, m),
		Payments: service.NewPaymentService(store, clk, opts.Location, m),
		Resolver: auth.NewChainResolver(
			auth.NewPrincipalResolver(""),
			auth.NewBearerResolver(tokens),
		),
		Metrics: m,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{server: ts, clock: clk, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, owner, body string) (int, string) {
	t.Helper()

	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if owner != "" {
		principal, err := auth.EncodePrincipal(auth.ClientPrincipal{UserID: owner})
		require.NoError(t, err)
		req.Header.Set(auth.DefaultPrincipalHeader, principal)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

const electricity = `{
	"id": "elec",
	"name": "Electricity",
	"type": "utility",
	"startDate": "2024-01-08",
	"frequency": {"unit": "month", "interval": 1},
	"autoPay": true,
	"unexpected": "ignored"
}`

func TestHealthAndMetrics(t *testing.T) {
	env := setupTestServer(t)

	code, body := env.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	code, body = env.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "billminder_requests_total")
}

func TestRequiresIdentity(t *testing.T) {
	env := setupTestServer(t)

	for _, path := range []string{"/api/bills", "/api/status", "/api/payments/history"} {
		code, body := env.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, code, path)
		assert.JSONEq(t, `{"error":"Not authenticated"}`, body, path)
	}

	code, _ := env.do(t, http.MethodPost, "/api/payments", "", `{"billId":"x","amount":1}`)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBillLifecycle(t *testing.T) {
	env := setupTestServer(t)

	code, body := env.do(t, http.MethodPost, "/api/bills", "alice", electricity)
	require.Equal(t, http.StatusCreated, code, body)

	var saved models.Bill
	require.NoError(t, json.Unmarshal([]byte(body), &saved))
	assert.Equal(t, "elec", saved.ID)
	assert.Equal(t, "alice", saved.OwnerID)
	assert.True(t, saved.IsActive)
	assert.True(t, saved.AutoPay)

	code, body = env.do(t, http.MethodGet, "/api/bills", "alice", "")
	require.Equal(t, http.StatusOK, code)
	var bills []models.Bill
	require.NoError(t, json.Unmarshal([]byte(body), &bills))
	require.Len(t, bills, 1)

	code, body = env.do(t, http.MethodGet, "/api/bills", "bob", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, body)

	code, body = env.do(t, http.MethodPost, "/api/bills", "bob", electricity)
	assert.Equal(t, http.StatusForbidden, code)
	assert.JSONEq(t, `{"error":"Bill belongs to another user"}`, body)
}

func TestSaveBillValidation(t *testing.T) {
	env := setupTestServer(t)

	code, body := env.do(t, http.MethodPost, "/api/bills", "alice",
		`{"name":"Rent","type":"housing","startDate":"2024-01-01","frequency":{"unit":"month","interval":0}}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"error":"Invalid request","message":"Field 'frequency.interval' must be a positive integer."}`, body)

	code, body = env.do(t, http.MethodPost, "/api/bills", "alice", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "Invalid request")
}

func TestStatusAndPayments(t *testing.T) {
	env := setupTestServer(t)

	code, _ := env.do(t, http.MethodPost, "/api/bills", "alice", electricity)
	require.Equal(t, http.StatusCreated, code)

	code, body := env.do(t, http.MethodGet, "/api/status", "alice", "")
	require.Equal(t, http.StatusOK, code)

	var report models.StatusReport
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	require.Len(t, report.PayImmediately, 1)
	assert.Equal(t, "2024-03-08", report.PayImmediately[0].DueDate)
	assert.Equal(t, 2, *report.PayImmediately[0].DaysOverdue)
	assert.NotNil(t, report.Upcoming)
	assert.NotNil(t, report.Paid)

	code, body = env.do(t, http.MethodPost, "/api/payments", "alice", `{"billId":"elec","amount":"55.25"}`)
	require.Equal(t, http.StatusCreated, code, body)
	var payment models.Payment
	require.NoError(t, json.Unmarshal([]byte(body), &payment))
	assert.Equal(t, "alice", payment.OwnerID)
	assert.Equal(t, 55.25, payment.Amount)

	code, body = env.do(t, http.MethodPost, "/api/payments", "alice", `{"billId":"elec","amount":55.25}`)
	assert.Equal(t, http.StatusConflict, code, body)

	code, body = env.do(t, http.MethodGet, "/api/status", "alice", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	assert.Empty(t, report.PayImmediately)
	require.Len(t, report.Paid, 1)
	assert.Equal(t, 55.25, *report.Paid[0].PaidAmount)

	code, body = env.do(t, http.MethodGet, "/api/payments/history", "alice", "")
	require.Equal(t, http.StatusOK, code)
	var history models.PaymentHistory
	require.NoError(t, json.Unmarshal([]byte(body), &history))
	require.Len(t, history.Months, 1)
	assert.Equal(t, "Mar 2024", history.Months[0].Label)
	assert.Equal(t, "Electricity", history.Months[0].Payments[0].BillName)
}

func TestPaymentValidation(t *testing.T) {
	env := setupTestServer(t)

	code, body := env.do(t, http.MethodPost, "/api/payments", "alice", `{"amount":5}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"error":"billId is required"}`, body)

	code, body = env.do(t, http.MethodPost, "/api/payments", "alice", `{"billId":"elec","amount":-1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"error":"amount must be a non-negative number"}`, body)
}

func TestBearerToken(t *testing.T) {
	env := setupTestServer(t)

	token, err := env.tokens.Generate("carol")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/status", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	env := setupTestServer(t)

	code, body := env.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"Not found"}`, body)
}
