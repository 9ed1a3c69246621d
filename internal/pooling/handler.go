package pooling

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carbon-scribe/fueleu-compliance/compliance-backend/internal/export"
)

// Handler handles HTTP requests for pools
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new pooling handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers pool routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	pools := router.Group("/pools")
	{
		pools.POST("", h.createPool)
		pools.GET("", h.listPools)
		pools.GET("/:id", h.getPool)
		pools.GET("/:id/export", h.exportPool)
	}
}

// createPool handles POST /api/v1/pools
func (h *Handler) createPool(c *gin.Context) {
	var req CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.CreatePool(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// listPools handles GET /api/v1/pools?year=
func (h *Handler) listPools(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
		return
	}

	pools, err := h.service.ListPools(c.Request.Context(), year)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pools)
}

// getPool handles GET /api/v1/pools/:id
func (h *Handler) getPool(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetPool(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// exportPool handles GET /api/v1/pools/:id/export?format=xlsx|csv
func (h *Handler) exportPool(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.service.ExportPool(c.Request.Context(), id, format)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="pool-%d.%s"`, id, format))
	c.Data(http.StatusOK, format.ContentType(), data)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNegativePoolTotal),
		errors.Is(err, ErrInvalidBalance),
		errors.Is(err, ErrDuplicateMember):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Pool request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func poolID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pool id"})
		return 0, false
	}
	return id, true
}
