package banking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carbon-scribe/fueleu-compliance/compliance-backend/internal/export"
)

func newTestRouter(service *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(service, zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandlerBankAndApply(t *testing.T) {
	router := newTestRouter(newTestService(newMemRepository(), surplus("SHIP001", 2025, 5000)))

	w := post(router, "/api/v1/banking/bank", `{"shipId":"SHIP001","year":2025,"amount":1000}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var entry BankEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, 1000.0, entry.AmountGCO2eq)

	w = post(router, "/api/v1/banking/apply", `{"shipId":"SHIP001","year":2025,"amount":300}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result ApplyResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 700.0, result.Available)

	w = get(router, "/api/v1/banking/available?shipId=SHIP001&year=2025")
	require.Equal(t, http.StatusOK, w.Code)

	var balance AvailableBalance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, 700.0, balance.Available)
}

func TestHandlerBankErrors(t *testing.T) {
	router := newTestRouter(newTestService(newMemRepository(), surplus("SHIP001", 2025, -1)))

	tests := []struct {
		name string
		body string
	}{
		{"missing amount", `{"shipId":"SHIP001","year":2025}`},
		{"negative amount", `{"shipId":"SHIP001","year":2025,"amount":-100}`},
		{"zero amount", `{"shipId":"SHIP001","year":2025,"amount":0}`},
		{"deficit ship", `{"shipId":"SHIP001","year":2025,"amount":100}`},
		{"malformed", `{"shipId":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(router, "/api/v1/banking/bank", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestHandlerApplyInsufficient(t *testing.T) {
	router := newTestRouter(newTestService(newMemRepository(), surplus("SHIP001", 2025, 5000)))

	w := post(router, "/api/v1/banking/apply", `{"shipId":"SHIP001","year":2025,"amount":1000}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrInsufficientBanked.Error())
}

func TestHandlerApplyLockBusy(t *testing.T) {
	var log []string
	service := NewService(newMemRepository(), recordingLocker{err: ErrLockNotObtained, log: &log}, new(MockBalanceSource), zap.NewNop())
	router := newTestRouter(service)

	w := post(router, "/api/v1/banking/apply", `{"shipId":"SHIP001","year":2025,"amount":10}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandlerRecords(t *testing.T) {
	router := newTestRouter(newTestService(newMemRepository(), surplus("SHIP001", 2025, 5000)))
	require.Equal(t, http.StatusCreated, post(router, "/api/v1/banking/bank", `{"shipId":"SHIP001","year":2025,"amount":10}`).Code)

	w := get(router, "/api/v1/banking/records?shipId=SHIP001&year=2025")
	require.Equal(t, http.StatusOK, w.Code)

	var records []BankEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 1)

	w = get(router, "/api/v1/banking/records?shipId=SHIP001&year=2030")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = get(router, "/api/v1/banking/records?shipId=SHIP001")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerExportRecords(t *testing.T) {
	router := newTestRouter(newTestService(newMemRepository(), surplus("SHIP001", 2025, 5000)))

	w := get(router, "/api/v1/banking/records/export?shipId=SHIP001&year=2025")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bank-entries-SHIP001-2025.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestHandlerExportRecordsCSV(t *testing.T) {
	router := newTestRouter(newTestService(newMemRepository(), surplus("SHIP001", 2025, 5000)))
	require.Equal(t, http.StatusCreated, post(router, "/api/v1/banking/bank", `{"shipId":"SHIP001","year":2025,"amount":10}`).Code)

	w := get(router, "/api/v1/banking/records/export?shipId=SHIP001&year=2025&format=csv")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentTypeCSV, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bank-entries-SHIP001-2025.csv")
	assert.Contains(t, w.Body.String(), "Entry ID,Ship ID,Year,Amount (gCO2eq),Created At\n1,SHIP001,2025,10,")

	w = get(router, "/api/v1/banking/records/export?shipId=SHIP001&year=2025&format=pdf")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
