package landmap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agri-shield/plot-portal/plot-portal-backend/internal/httpx"
	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

var landArea = []geospatial.Point{
	{Latitude: 23.8100, Longitude: 90.4100},
	{Latitude: 23.8120, Longitude: 90.4110},
	{Latitude: 23.8105, Longitude: 90.4140},
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *GenerateRequest) {
	t.Helper()
	received := &GenerateRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/landmap/generate/", r.URL.Path)
		assert.Equal(t, "Bearer static-token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(received))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, received
}

func newClient(url string) *Client {
	return NewClient(url, "static-token", "https://assets.example/", 2*time.Second, zap.NewNop())
}

func TestGenerateSuccess(t *testing.T) {
	body := `{
		"area": 1.234,
		"data": {
			"plot_coordinate": [
				{"latitude": 23.8101, "longitude": 90.4101},
				{"latitude": 23.8119, "longitude": 90.4111},
				{"latitude": 23.8118, "longitude": 90.4135},
				{"latitude": 23.8104, "longitude": 90.4138}
			],
			"land_area": [{"latitude": 23.81, "longitude": 90.41}],
			"image": "/media/plots/42.png",
			"sw_mark": {"latitude": 23.8100, "longitude": 90.4100},
			"n_mark": null,
			"n_mark_dist": 12.5,
			"e_corner_dist": 40
		}
	}`
	srv, received := newTestServer(t, http.StatusOK, body)

	result, err := newClient(srv.URL).Generate(context.Background(), landArea)
	require.NoError(t, err)

	assert.Equal(t, landArea, received.LandArea)
	assert.Len(t, result.PlotCoordinates, 4)
	assert.Len(t, result.LandArea, 1)
	assert.NotNil(t, result.InnerArea)
	assert.Empty(t, result.InnerArea)
	assert.Equal(t, "/media/plots/42.png", result.ImagePath)
	assert.Equal(t, "https://assets.example/media/plots/42.png", result.ImageURL)
	require.NotNil(t, result.SWMark)
	assert.Nil(t, result.NMark)
	assert.Nil(t, result.Intersection)
	assert.Equal(t, 12.5, *result.NMarkDist)
	assert.Equal(t, 40.0, *result.ECornerDist)
	assert.Nil(t, result.EMarkDist)
	assert.Equal(t, "1.23 acres", FormatArea(result.Area))
}

func TestGenerateNonNumericArea(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"area": "big", "data": {}}`)

	result, err := newClient(srv.URL).Generate(context.Background(), landArea)
	require.NoError(t, err)
	assert.Nil(t, result.Area)
	assert.Equal(t, "N/A", FormatArea(result.Area))
}

func TestGenerateMalformed(t *testing.T) {
	tests := map[string]string{
		"missing data":       `{"area": 1}`,
		"string coordinates": `{"data": {"plot_coordinate": [{"latitude": "23.8", "longitude": "90.4"}]}}`,
		"out of range":       `{"data": {"inner_area": [{"latitude": 123, "longitude": 90.4}]}}`,
		"not json":           `<!doctype html>`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, body)

			_, err := newClient(srv.URL).Generate(context.Background(), landArea)
			assert.ErrorIs(t, err, httpx.ErrMalformedResponse)
		})
	}
}

func TestGenerateAPIError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnprocessableEntity, `{"message": "Polygon needs at least 3 points"}`)

	_, err := newClient(srv.URL).Generate(context.Background(), landArea)

	var apiErr *httpx.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Polygon needs at least 3 points", httpx.UserMessage(err, GenericFailure))
}

func TestGenerateRequiresCoordinates(t *testing.T) {
	_, err := newClient("http://unused").Generate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoCoordinates)
}

func TestAssetURL(t *testing.T) {
	c := newClient("http://unused")
	assert.Equal(t, "", c.AssetURL(""))
	assert.Equal(t, "https://assets.example/a.png", c.AssetURL("a.png"))
	assert.Equal(t, "https://cdn.example/a.png", c.AssetURL("https://cdn.example/a.png"))

	bare := NewClient("http://unused", "", "", time.Second, zap.NewNop())
	assert.Equal(t, "/a.png", bare.AssetURL("/a.png"))
}
