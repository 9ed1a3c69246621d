package compliance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(service *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(service, zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestHandlerComputeCB(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("SaveCB", mock.Anything, mock.Anything).Return(nil)
	router := newTestRouter(newTestService(mockRepo, new(MockBankedBalance)))

	body := []byte(`{"shipId":"SHIP001","year":2025,"actualIntensity":92.0,"fuelConsumption":5000}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/compliance/cb", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)

	var cb ComplianceBalance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cb))
	assert.Equal(t, "SHIP001", cb.ShipID)
	assert.Less(t, cb.CBGCO2eq, 0.0)
}

func TestHandlerComputeCBAcceptsZeroIntensity(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("SaveCB", mock.Anything, mock.Anything).Return(nil)
	router := newTestRouter(newTestService(mockRepo, new(MockBankedBalance)))

	body := []byte(`{"shipId":"SHIP001","year":2025,"actualIntensity":0,"fuelConsumption":0}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/compliance/cb", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerComputeCBMissingFields(t *testing.T) {
	router := newTestRouter(newTestService(new(MockRepository), new(MockBankedBalance)))

	body := []byte(`{"shipId":"SHIP001","year":2025}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/compliance/cb", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerGetCB(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindCB", mock.Anything, "SHIP001", 2025).Return(&ComplianceBalance{ShipID: "SHIP001", Year: 2025, CBGCO2eq: 42}, nil)
	mockRepo.On("FindCB", mock.Anything, "SHIP404", 2025).Return(nil, nil)
	router := newTestRouter(newTestService(mockRepo, new(MockBankedBalance)))

	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"found", "/api/v1/compliance/cb?shipId=SHIP001&year=2025", http.StatusOK},
		{"not found", "/api/v1/compliance/cb?shipId=SHIP404&year=2025", http.StatusNotFound},
		{"missing year", "/api/v1/compliance/cb?shipId=SHIP001", http.StatusBadRequest},
		{"missing ship", "/api/v1/compliance/cb?year=2025", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandlerGetAdjustedCB(t *testing.T) {
	mockRepo := new(MockRepository)
	mockBanked := new(MockBankedBalance)
	mockRepo.On("FindCB", mock.Anything, "SHIP001", 2025).Return(&ComplianceBalance{ShipID: "SHIP001", Year: 2025, CBGCO2eq: 100}, nil)
	mockBanked.On("AvailableBanked", mock.Anything, "SHIP001", 2025).Return(50.0, nil)
	router := newTestRouter(newTestService(mockRepo, mockBanked))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/compliance/adjusted-cb?shipId=SHIP001&year=2025", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var adjusted AdjustedComplianceBalance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adjusted))
	assert.Equal(t, 150.0, adjusted.AdjustedCBGCO2eq)
}
