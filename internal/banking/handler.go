package banking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carbon-scribe/fueleu-compliance/compliance-backend/internal/export"
)

// Handler handles HTTP requests for the banking ledger
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new banking handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers banking routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	banking := router.Group("/banking")
	{
		banking.POST("/bank", h.bankSurplus)
		banking.POST("/apply", h.applyBanked)
		banking.GET("/records", h.getRecords)
		banking.GET("/records/export", h.exportRecords)
		banking.GET("/available", h.getAvailable)
	}
}

// bankSurplus handles POST /api/v1/banking/bank
func (h *Handler) bankSurplus(c *gin.Context) {
	var req OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.service.BankSurplus(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, req.ShipID)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// applyBanked handles POST /api/v1/banking/apply
func (h *Handler) applyBanked(c *gin.Context) {
	var req OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ApplyBanked(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, req.ShipID)
		return
	}

	c.JSON(http.StatusOK, result)
}

// getRecords handles GET /api/v1/banking/records
func (h *Handler) getRecords(c *gin.Context) {
	shipID, year, ok := shipYearQuery(c)
	if !ok {
		return
	}

	records, err := h.service.Records(c.Request.Context(), shipID, year)
	if err != nil {
		h.respondError(c, err, shipID)
		return
	}

	c.JSON(http.StatusOK, records)
}

// exportRecords handles GET /api/v1/banking/records/export?format=xlsx|csv
func (h *Handler) exportRecords(c *gin.Context) {
	shipID, year, ok := shipYearQuery(c)
	if !ok {
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.service.ExportRecords(c.Request.Context(), shipID, year, format)
	if err != nil {
		h.respondError(c, err, shipID)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="bank-entries-%s-%d.%s"`, shipID, year, format))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// getAvailable handles GET /api/v1/banking/available
func (h *Handler) getAvailable(c *gin.Context) {
	shipID, year, ok := shipYearQuery(c)
	if !ok {
		return
	}

	available, err := h.service.AvailableBanked(c.Request.Context(), shipID, year)
	if err != nil {
		h.respondError(c, err, shipID)
		return
	}

	c.JSON(http.StatusOK, AvailableBalance{ShipID: shipID, Year: year, Available: available})
}

func (h *Handler) respondError(c *gin.Context, err error, shipID string) {
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInsufficientBanked),
		errors.Is(err, ErrNonPositiveCB):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrLockNotObtained):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Banking request failed", zap.Error(err), zap.String("ship_id", shipID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func shipYearQuery(c *gin.Context) (string, int, bool) {
	shipID := c.Query("shipId")
	year, err := strconv.Atoi(c.Query("year"))
	if shipID == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shipId and year are required"})
		return "", 0, false
	}
	return shipID, year, true
}
