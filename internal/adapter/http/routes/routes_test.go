package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contract_billing/internal/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.DynamoDB.Enabled = false

	h, err := BuildHandlers(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	return NewRouter(h, zap.NewNop())
}

func call(t *testing.T, r http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func TestPing(t *testing.T) {
	code, body := call(t, newTestRouter(t), http.MethodGet, "/v1/ping", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", body["message"])
}

func TestConversionLifecycle(t *testing.T) {
	r := newTestRouter(t)

	code, body := call(t, r, http.MethodPost, "/v1/conversions", map[string]any{
		"quote": map[string]any{
			"id":              "q-100",
			"business_name":   "Acme Bakery",
			"industry":        "Food",
			"features":        []string{"Online ordering", "Menu CMS", "SEO setup"},
			"timeline":        "6-8 weeks",
			"final_price":     "12000",
			"estimated_hours": "120",
			"contact_name":    "Dana Reyes",
			"contact_email":   "dana@acme.test",
		},
		"options": map[string]any{"start_date": "2026-03-02"},
	})
	require.Equal(t, http.StatusCreated, code, "%v", body)

	contract := body["contract"].(map[string]any)
	contractID := contract["id"].(string)
	invoices := body["invoices"].([]any)
	require.Len(t, invoices, 3)
	assert.Equal(t, "12000.00", contract["total_amount"])
	assert.Equal(t, "13050.00", contract["total_invoiced"])

	first := invoices[0].(map[string]any)
	firstID := first["id"].(string)
	assert.Regexp(t, `^INV-\d{4}-0001$`, first["number"])
	assert.Equal(t, "deposit", first["type"])

	code, _ = call(t, r, http.MethodPost, "/v1/contracts/"+contractID+"/milestones/1/invoices", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, inv := call(t, r, http.MethodPatch, "/v1/invoices/"+firstID+"/status", map[string]any{"status": "sent"})
	require.Equal(t, http.StatusOK, code, "%v", inv)

	code, inv = call(t, r, http.MethodPost, "/v1/invoices/"+firstID+"/payments", map[string]any{"amount": first["total_amount"]})
	require.Equal(t, http.StatusOK, code, "%v", inv)
	assert.Equal(t, "paid", inv["status"])
	assert.Equal(t, "0.00", inv["amount_due"])

	code, contract = call(t, r, http.MethodGet, "/v1/contracts/"+contractID, nil)
	require.Equal(t, http.StatusOK, code)
	milestones := contract["payment_structure"].(map[string]any)["milestones"].([]any)
	assert.Equal(t, "paid", milestones[0].(map[string]any)["status"])
	assert.Equal(t, "invoiced", milestones[1].(map[string]any)["status"])

	code, preview := call(t, r, http.MethodGet, "/v1/contracts/"+contractID+"/preview", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "standard", preview["template_id"])

	code, metrics := call(t, r, http.MethodGet, "/v1/reports/metrics", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, metrics["total_count"])
	assert.EqualValues(t, 1, metrics["paid_count"])

	code, aging := call(t, r, http.MethodGet, "/v1/reports/aging", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, aging["buckets"], 5)
}

func TestUnknownContract(t *testing.T) {
	code, body := call(t, newTestRouter(t), http.MethodGet, "/v1/contracts/CON-0000-000000", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "CONTRACT_NOT_FOUND", body["code"])
}
