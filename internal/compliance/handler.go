package compliance

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for compliance balances
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new compliance handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers compliance routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	cb := router.Group("/compliance")
	{
		cb.GET("/cb", h.getCB)
		cb.POST("/cb", h.computeCB)
		cb.GET("/adjusted-cb", h.getAdjustedCB)
	}
}

// getCB handles GET /api/v1/compliance/cb
func (h *Handler) getCB(c *gin.Context) {
	shipID, year, ok := shipYearQuery(c)
	if !ok {
		return
	}

	cb, err := h.service.GetCB(c.Request.Context(), shipID, year)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cb)
}

// computeCB handles POST /api/v1/compliance/cb
func (h *Handler) computeCB(c *gin.Context) {
	var req ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cb, err := h.service.ComputeAndSave(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cb)
}

// getAdjustedCB handles GET /api/v1/compliance/adjusted-cb
func (h *Handler) getAdjustedCB(c *gin.Context) {
	shipID, year, ok := shipYearQuery(c)
	if !ok {
		return
	}

	adjusted, err := h.service.GetAdjustedCB(c.Request.Context(), shipID, year)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, adjusted)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("Compliance request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
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
