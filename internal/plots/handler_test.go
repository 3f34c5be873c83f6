package plots

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agri-shield/plot-portal/plot-portal-backend/internal/httpx"
	"agri-shield/plot-portal/plot-portal-backend/internal/notifications"
	"agri-shield/plot-portal/plot-portal-backend/internal/notifications/websocket"
	"agri-shield/plot-portal/plot-portal-backend/pkg/workflows"
)

func setupRouter(f *fixture, ws *websocket.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(f.svc, ws, zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionPath(id uuid.UUID, suffix string) string {
	return "/api/v1/plot-sessions/" + id.String() + suffix
}

func TestHandler_OpenAndGet(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f, websocket.NewManager(zap.NewNop()))

	w := doJSON(router, http.MethodPost, "/api/v1/plot-sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var view View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, workflows.PhaseEditing, view.Phase)
	assert.Len(t, view.Farmers, 2)

	w = doJSON(router, http.MethodGet, sessionPath(view.ID, ""), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_SessionErrors(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f, websocket.NewManager(zap.NewNop()))

	w := doJSON(router, http.MethodGet, "/api/v1/plot-sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, sessionPath(uuid.New(), ""), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := f.open(t)
	w = doJSON(router, http.MethodPut, sessionPath(id, "/coordinates/x"), CoordinateInput{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, sessionPath(id, "/coordinates/4"), CoordinateInput{Lat: strPtr("1")})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GenerateValidation(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f, websocket.NewManager(zap.NewNop()))
	id := f.open(t)

	w := doJSON(router, http.MethodPost, sessionPath(id, "/generate"), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"Please select a farmer"}`, w.Body.String())
	f.resolver.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestHandler_FormFlow(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f, websocket.NewManager(zap.NewNop()))
	id := f.open(t)

	w := doJSON(router, http.MethodPut, sessionPath(id, "/details"), map[string]interface{}{
		"land_name": "North Field A", "farmer_id": 12, "ownership_type": "owned",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPut, sessionPath(id, "/measurements"), map[string]string{"sw_se": "120", "sw_nw": "80"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPut, sessionPath(id, "/suitability"), map[string]interface{}{"kind": "suitable", "ids": []int64{1}})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPut, sessionPath(id, "/suitability/1/remarks"), map[string]string{"remarks": "flat"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, sessionPath(id, "/coordinates"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodDelete, sessionPath(id, "/coordinates/1"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "North Field A", view.LandName)
	require.NotNil(t, view.FarmerID)
	assert.Equal(t, int64(12), *view.FarmerID)
	assert.Equal(t, "120", view.Measurements.SWSE)
	assert.Equal(t, []int64{1}, view.Suitable)
	assert.Equal(t, "flat", view.Remarks[1])
	assert.Len(t, view.Coordinates, 1)
}

func TestHandler_SuitabilityKind(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f, websocket.NewManager(zap.NewNop()))
	id := f.open(t)

	w := doJSON(router, http.MethodPut, sessionPath(id, "/suitability"), map[string]interface{}{"kind": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, sessionPath(id, "/suitability"), map[string]interface{}{"kind": "not_suitable", "ids": []int64{1}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandler_GenerateAndMaps(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f, websocket.NewManager(zap.NewNop()))
	id := f.open(t)
	f.fillForm(t, id)

	w := doJSON(router, http.MethodGet, sessionPath(id, "/plot.pdf"), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	f.resolver.On("Generate", mock.Anything, mock.Anything).Return(resolverResult(), nil)
	w = doJSON(router, http.MethodPost, sessionPath(id, "/generate"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotNil(t, view.Plot)
	assert.Equal(t, "1.23 acres", view.Plot.Area)

	w = doJSON(router, http.MethodGet, sessionPath(id, "/map.geojson"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))

	w = doJSON(router, http.MethodGet, sessionPath(id, "/map.kml"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, kmlContentType, w.Header().Get("Content-Type"))

	w = doJSON(router, http.MethodGet, sessionPath(id, "/plot.pdf"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestHandler_GenerateUpstreamError(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f, websocket.NewManager(zap.NewNop()))
	id := f.open(t)
	f.fillForm(t, id)
	f.resolver.On("Generate", mock.Anything, mock.Anything).
		Return(nil, &httpx.APIError{StatusCode: 500, Message: ""})

	w := doJSON(router, http.MethodPost, sessionPath(id, "/generate"), nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate plot")
}

func TestHandler_SaveAndClose(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f, websocket.NewManager(zap.NewNop()))
	id := f.open(t)
	f.fillForm(t, id)
	f.generate(t, id)
	f.gateway.On("SubmitLand", mock.Anything, mock.Anything).Return("981", nil)
	f.archiver.On("ArchiveMap", mock.Anything, "981", mock.Anything).Return("lands/981/map.kml", nil)
	f.register.On("Record", mock.Anything, mock.Anything).Return(nil, nil)

	w := doJSON(router, http.MethodPost, sessionPath(id, "/save"), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"land_id":"981"}`, w.Body.String())

	w = doJSON(router, http.MethodDelete, sessionPath(id, ""), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	other := f.open(t)
	w = doJSON(router, http.MethodDelete, sessionPath(other, ""), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandler_LocateAccepted(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(f, websocket.NewManager(zap.NewNop()))
	id := f.open(t)

	w := doJSON(router, http.MethodPost, sessionPath(id, "/coordinates/0/locate"), nil)
	f.svc.wg.Wait()

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, f.notifier.texts(), MsgLocationUnsupported)
}

func TestHandler_WebsocketFeedsLocation(t *testing.T) {
	f := newFixture(t)
	ws := websocket.NewManager(zap.NewNop())
	f.svc.deps.Notifier = ws
	f.svc.opts.LocateTimeout = 2 * time.Second
	router := setupRouter(f, ws)
	srv := httptest.NewServer(router)
	defer srv.Close()
	id := f.open(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + sessionPath(id, "/ws")
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return ws.ConnectionCount(id) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, f.svc.RequestLocation(id, 0))
	require.NoError(t, conn.WriteJSON(notifications.WebSocketMessage{
		Type: notifications.MessagePosition,
		Data: map[string]interface{}{"latitude": 23.8103, "longitude": 90.4125},
	}))

	require.Eventually(t, func() bool {
		view, err := f.svc.Get(id)
		return err == nil && view.Coordinates[0].Lat == "23.810300"
	}, 2*time.Second, 10*time.Millisecond)
}
