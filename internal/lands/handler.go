package lands

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	lands := rg.Group("/lands")
	{
		lands.GET("", h.List)
		lands.GET("/export", h.Export)
		lands.GET("/:land_id", h.Get)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list lands", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list lands"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("land_id"))
	if errors.Is(err, ErrLandNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "land not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to get land", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get land"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) Export(c *gin.Context) {
	format, err := ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), &buf, c.Query("search"), format); err != nil {
		h.logger.Error("Failed to export lands", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export lands"})
		return
	}

	filename := fmt.Sprintf("lands-%s.%s", time.Now().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
