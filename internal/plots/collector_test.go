package plots

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

func entries(n int) []CoordinateEntry {
	out := make([]CoordinateEntry, n)
	for i := range out {
		out[i] = CoordinateEntry{ID: uuid.New()}
	}
	return out
}

func TestAddCoordinate_DoesNotModifyInput(t *testing.T) {
	in := entries(1)
	id := uuid.New()

	out := AddCoordinate(in, id)

	assert.Len(t, in, 1)
	require.Len(t, out, 2)
	assert.Equal(t, id, out[1].ID)
	assert.Empty(t, out[1].Lat)
	assert.Empty(t, out[1].Lng)
}

func TestRemoveCoordinate_KeepsLastEntry(t *testing.T) {
	list := entries(3)

	// removing repeatedly never empties the list
	for i := 0; i < 5; i++ {
		list, _ = RemoveCoordinate(list, 0)
		assert.GreaterOrEqual(t, len(list), 1)
	}
	assert.Len(t, list, 1)

	out, ok := RemoveCoordinate(list, 0)
	assert.False(t, ok)
	assert.Equal(t, list, out)
}

func TestRemoveCoordinate_Middle(t *testing.T) {
	list := entries(3)

	out, ok := RemoveCoordinate(list, 1)

	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{list[0].ID, list[2].ID}, []uuid.UUID{out[0].ID, out[1].ID})
	assert.Len(t, list, 3)
}

func TestRemoveCoordinate_OutOfRange(t *testing.T) {
	list := entries(2)

	_, ok := RemoveCoordinate(list, 2)
	assert.False(t, ok)
	_, ok = RemoveCoordinate(list, -1)
	assert.False(t, ok)
}

func TestUpdateCoordinate(t *testing.T) {
	list := entries(2)

	out, ok := UpdateCoordinate(list, 1, FieldLat, "23.8103")
	require.True(t, ok)
	assert.Equal(t, "23.8103", out[1].Lat)
	assert.Equal(t, 1, out[1].Revision)
	assert.Empty(t, list[1].Lat, "input must not change")

	out, ok = UpdateCoordinate(out, 1, FieldLng, "abc")
	require.True(t, ok)
	assert.Equal(t, "abc", out[1].Lng, "values are kept as typed")
	assert.Equal(t, 2, out[1].Revision)

	_, ok = UpdateCoordinate(out, 5, FieldLat, "1")
	assert.False(t, ok)
}

func TestApplyLocation(t *testing.T) {
	list := entries(2)
	p := geospatial.Point{Latitude: 23.8103001, Longitude: 90.4125}

	out, ok := ApplyLocation(list, list[1].ID, 0, p)

	require.True(t, ok)
	assert.Equal(t, "23.810300", out[1].Lat)
	assert.Equal(t, "90.412500", out[1].Lng)
	assert.Equal(t, 1, out[1].Revision)
}

func TestApplyLocation_StaleRevision(t *testing.T) {
	list := entries(1)
	edited, _ := UpdateCoordinate(list, 0, FieldLat, "10")

	out, ok := ApplyLocation(edited, list[0].ID, 0, geospatial.Point{Latitude: 1, Longitude: 1})

	assert.False(t, ok)
	assert.Equal(t, "10", out[0].Lat)
}

func TestApplyLocation_RemovedEntry(t *testing.T) {
	list := entries(2)
	removed := list[1].ID
	list, _ = RemoveCoordinate(list, 1)

	_, ok := ApplyLocation(list, removed, 0, geospatial.Point{Latitude: 1, Longitude: 1})

	assert.False(t, ok)
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		entries []CoordinateEntry
		want    bool
	}{
		{"valid", []CoordinateEntry{{Lat: "23.81", Lng: "90.41"}, {Lat: "-10", Lng: "180"}}, true},
		{"empty field", []CoordinateEntry{{Lat: "23.81", Lng: ""}}, false},
		{"not a number", []CoordinateEntry{{Lat: "north", Lng: "90"}}, false},
		{"latitude out of range", []CoordinateEntry{{Lat: "91", Lng: "90"}}, false},
		{"no entries", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCoordinates(tt.entries))
		})
	}
}
