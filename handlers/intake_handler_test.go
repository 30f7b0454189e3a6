package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/loadlink/intake-backend/models"
	"github.com/loadlink/intake-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, _ string) *models.VerificationVerdict {
	return &models.VerificationVerdict{Valid: true, CheckedAt: time.Now().UTC()}
}

func newTestApp() *fiber.App {
	catalog := services.NewLoadCatalog([]models.CandidateLoad{
		{LoadID: "LD-1001", Origin: "Chicago, IL", Destination: "Dallas, TX", PickupDate: "2025-08-22", EquipmentType: "Dry Van", Rate: 1850},
	})
	svc := services.NewIntakeService(stubVerifier{}, services.NewLoadMatcher(catalog), services.NewMemoryResultStore(24*time.Hour))
	handler := NewIntakeHandler(svc)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/requests", handler.SubmitRequest)
	api.Get("/requests/:request_id", handler.GetResult)
	api.Get("/requests", handler.GetResult)
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

const createBody = `{
	"mc_number": "MC123456",
	"origin": "Chicago, IL",
	"destination": "Dallas, TX",
	"pickup_datetime": "2025-08-22",
	"equipment_type": "Dry Van"
}`

func TestSubmitRequestCreate(t *testing.T) {
	app := newTestApp()

	resp, body := postJSON(t, app, createBody)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["request_id"])

	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, true, summary["mc_valid"])
	assert.Equal(t, float64(1), summary["matches_count"])
	assert.Equal(t, "matched", summary["status"])
}

func TestSubmitRequestValidationFailure(t *testing.T) {
	app := newTestApp()

	resp, body := postJSON(t, app, `{"mc_number":"MC123456","origin":"Chicago, IL","pickup_datetime":"2025-08-22","equipment_type":"Dry Van"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["ok"])

	fields := body["errors"].(map[string]interface{})
	assert.Contains(t, fields, "destination")
}

func TestSubmitRequestInvalidJSON(t *testing.T) {
	app := newTestApp()

	resp, body := postJSON(t, app, `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON", body["error"])
}

func TestSubmitRequestUpdateUnknownID(t *testing.T) {
	app := newTestApp()

	resp, body := postJSON(t, app, `{"request_id":"4f9f7f2e-0000-4000-8000-000000000000","outcome":"accepted"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body["error"])
}

func TestSubmitRequestUpdateWithoutFields(t *testing.T) {
	app := newTestApp()

	_, created := postJSON(t, app, createBody)
	requestID := created["request_id"].(string)

	resp, body := postJSON(t, app, `{"request_id":"`+requestID+`"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No updatable fields provided", body["error"])
}

func TestSubmitThenUpdateThenGet(t *testing.T) {
	app := newTestApp()

	_, created := postJSON(t, app, createBody)
	requestID := created["request_id"].(string)

	resp, body := postJSON(t, app, `{"request_id":"`+requestID+`","outcome":"accepted","rate_offer":1900}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, requestID, body["request_id"])
	assert.NotEmpty(t, body["updated_at"])

	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/"+requestID, nil)
	getResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	getBody := decodeBody(t, getResp)
	result := getBody["result"].(map[string]interface{})
	assert.Equal(t, "accepted", result["outcome"])
	assert.Equal(t, float64(1900), result["rate_offer"])
	assert.Equal(t, "matched", result["status"])

	intake := result["intake"].(map[string]interface{})
	assert.Equal(t, "Chicago, IL", intake["origin"])
}

func TestGetResultByQueryParameter(t *testing.T) {
	app := newTestApp()

	_, created := postJSON(t, app, createBody)
	requestID := created["request_id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests?request_id="+requestID, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetResultMissingID(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Missing request_id", body["error"])
}

func TestGetResultUnknownID(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/4f9f7f2e-0000-4000-8000-000000000000", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
