package plots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agri-shield/plot-portal/plot-portal-backend/internal/lams"
	"agri-shield/plot-portal/plot-portal-backend/internal/notifications/websocket"
	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

type Handler struct {
	service Service
	ws      *websocket.Manager
	logger  *zap.Logger
}

func NewHandler(service Service, ws *websocket.Manager, logger *zap.Logger) *Handler {
	return &Handler{service: service, ws: ws, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/plot-sessions")
	{
		sessions.POST("", h.Open)
		sessions.GET("/:id", h.Get)
		sessions.DELETE("/:id", h.Close)

		sessions.PUT("/:id/details", h.UpdateDetails)
		sessions.PUT("/:id/measurements", h.UpdateMeasurements)
		sessions.PUT("/:id/suitability", h.SelectSuitability)
		sessions.PUT("/:id/suitability/:sid/remarks", h.SetRemarks)

		sessions.POST("/:id/coordinates", h.AddCoordinate)
		sessions.PUT("/:id/coordinates/:index", h.UpdateCoordinate)
		sessions.DELETE("/:id/coordinates/:index", h.RemoveCoordinate)
		sessions.POST("/:id/coordinates/:index/locate", h.Locate)

		sessions.POST("/:id/generate", h.Generate)
		sessions.POST("/:id/save", h.Save)
		sessions.PUT("/:id/location-sharing", h.SetLocationSharing)

		sessions.GET("/:id/map.geojson", h.MapGeoJSON)
		sessions.GET("/:id/map.kml", h.MapKML)
		sessions.GET("/:id/plot.pdf", h.PlotSheet)
		sessions.GET("/:id/ws", h.Connect)
	}
}

type suitabilityRequest struct {
	Kind string  `json:"kind" binding:"required"`
	IDs  []int64 `json:"ids"`
}

type remarksRequest struct {
	Remarks string `json:"remarks"`
}

type sharingRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) Open(c *gin.Context) {
	view, err := h.service.Open(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	h.respondView(c)(h.service.Get(id))
}

func (h *Handler) Close(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.service.Close(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UpdateDetails(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req DetailsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.respondView(c)(h.service.UpdateDetails(id, req))
}

func (h *Handler) UpdateMeasurements(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req MeasurementsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.respondView(c)(h.service.UpdateMeasurements(id, req))
}

func (h *Handler) SelectSuitability(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req suitabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is required"})
		return
	}
	kind, err := lams.ParseKind(req.Kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respondView(c)(h.service.SelectSuitability(id, kind, req.IDs))
}

func (h *Handler) SetRemarks(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	sid, err := strconv.ParseInt(c.Param("sid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suitability id"})
		return
	}
	var req remarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.respondView(c)(h.service.SetRemarks(id, sid, req.Remarks))
}

func (h *Handler) AddCoordinate(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	view, err := h.service.AddCoordinate(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) UpdateCoordinate(c *gin.Context) {
	id, index, ok := h.coordinateParams(c)
	if !ok {
		return
	}
	var req CoordinateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.respondView(c)(h.service.UpdateCoordinate(id, index, req))
}

func (h *Handler) RemoveCoordinate(c *gin.Context) {
	id, index, ok := h.coordinateParams(c)
	if !ok {
		return
	}
	h.respondView(c)(h.service.RemoveCoordinate(id, index))
}

func (h *Handler) Locate(c *gin.Context) {
	id, index, ok := h.coordinateParams(c)
	if !ok {
		return
	}
	if err := h.service.RequestLocation(id, index); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "locating"})
}

func (h *Handler) Generate(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	h.respondView(c)(h.service.Generate(c.Request.Context(), id))
}

func (h *Handler) Save(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	result, err := h.service.Save(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) SetLocationSharing(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req sharingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.respondView(c)(h.service.SetLocationSharing(id, req.Enabled))
}

func (h *Handler) MapGeoJSON(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	data, err := h.service.MapGeoJSON(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

func (h *Handler) MapKML(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	data, err := h.service.MapKML(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, kmlContentType, data)
}

func (h *Handler) PlotSheet(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	data, err := h.service.PlotSheet(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="plot.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Connect upgrades to the session websocket: device positions flow in,
// notifications and live location flow out.
func (h *Handler) Connect(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	if _, err := h.service.Get(id); err != nil {
		h.respondError(c, err)
		return
	}

	_, err := h.ws.HandleConnection(c.Writer, c.Request, id, func(sessionID uuid.UUID, p geospatial.Point) {
		h.service.PushPosition(sessionID, p)
	})
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.String("session_id", id.String()), zap.Error(err))
	}
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) coordinateParams(c *gin.Context) (uuid.UUID, int, bool) {
	id, ok := h.sessionID(c)
	if !ok {
		return uuid.Nil, 0, false
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinate index"})
		return uuid.Nil, 0, false
	}
	return id, index, true
}

func (h *Handler) respondView(c *gin.Context) func(*View, error) {
	return func(view *View, err error) {
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var vErr *ValidationError
	var uErr *UpstreamError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Message})
	case errors.As(err, &uErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": uErr.Message})
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionClosed):
		c.JSON(http.StatusNotFound, gin.H{"error": "plot session not found"})
	case errors.Is(err, ErrCoordinateIndex):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrBusy), errors.Is(err, ErrNoPlot):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Plot request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
