package lams

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
)

func serve(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "tkn", time.Second, zap.NewNop())
}

func TestListFarmers(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ims/farmer-service", r.URL.Path)
		w.Write([]byte(`{"status": "success", "data": [{"user_id": 7, "farmer_name": "Rahim", "mobile_number": "01700000000"}]}`))
	})

	farmers, err := c.ListFarmers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []FarmerProfile{{UserID: 7, FarmerName: "Rahim", MobileNumber: "01700000000"}}, farmers)
}

func TestListFarmersMissingData(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "success"}`))
	})

	_, err := c.ListFarmers(context.Background())
	assert.ErrorIs(t, err, httpx.ErrMalformedResponse)
}

func TestListSuitabilities(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lams/land-suitability-service/", r.URL.Path)
		w.Write([]byte(`{"status": "success", "data": [
			{"id": 1, "name": "Fertile soil", "type": "Suitable"},
			{"id": 2, "name": "Flood prone", "type": "Not Suitable"}
		]}`))
	})

	items, err := c.ListSuitabilities(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, KindSuitable, items[0].Kind())
	assert.Equal(t, KindNotSuitable, items[1].Kind())
}

func TestSubmitLand(t *testing.T) {
	area := 1.23
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/lams/land-info-service/", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "North Field A", body["land_name"])
		assert.Equal(t, 1.23, body["area"])
		assert.Nil(t, body["n_mark_dist"])

		w.Write([]byte(`{"status": "success", "data": {"land_id": 981}}`))
	})

	id, err := c.SubmitLand(context.Background(), &LandSubmission{LandName: "North Field A", Area: &area})
	require.NoError(t, err)
	assert.Equal(t, "981", id)
}

func TestSubmitLandStatusNotSuccess(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "Duplicate land name"}`))
	})

	_, err := c.SubmitLand(context.Background(), &LandSubmission{})

	var apiErr *httpx.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Duplicate land name", apiErr.Message)
}

func TestSubmitLandMissingID(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "success", "data": {}}`))
	})

	_, err := c.SubmitLand(context.Background(), &LandSubmission{})
	assert.ErrorIs(t, err, httpx.ErrMalformedResponse)
}

func TestSubmitLandHTTPFailure(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.SubmitLand(context.Background(), &LandSubmission{})
	assert.Equal(t, GenericFailure, httpx.UserMessage(err, "other"))
}

func TestFlexibleID(t *testing.T) {
	var d submissionData
	require.NoError(t, json.Unmarshal([]byte(`{"land_id": "L-12"}`), &d))
	assert.Equal(t, flexibleID("L-12"), d.LandID)

	require.NoError(t, json.Unmarshal([]byte(`{"land_id": 12}`), &d))
	assert.Equal(t, flexibleID("12"), d.LandID)

	assert.Error(t, json.Unmarshal([]byte(`{"land_id": {}}`), &d))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Suitable ")
	require.NoError(t, err)
	assert.Equal(t, KindSuitable, k)

	_, err = ParseKind("maybe")
	assert.Error(t, err)
}
