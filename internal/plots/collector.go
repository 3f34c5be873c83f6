package plots

import (
	"github.com/google/uuid"

	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

// CoordinateField selects which half of a pair an edit targets.
type CoordinateField string

const (
	FieldLat CoordinateField = "lat"
	FieldLng CoordinateField = "lng"
)

// The collector functions never modify their input. The list always keeps at
// least one entry.

// AddCoordinate appends an empty entry.
func AddCoordinate(entries []CoordinateEntry, id uuid.UUID) []CoordinateEntry {
	out := make([]CoordinateEntry, len(entries), len(entries)+1)
	copy(out, entries)
	return append(out, CoordinateEntry{ID: id})
}

// RemoveCoordinate drops the entry at index unless it is the last one.
func RemoveCoordinate(entries []CoordinateEntry, index int) ([]CoordinateEntry, bool) {
	if len(entries) <= 1 || index < 0 || index >= len(entries) {
		return entries, false
	}
	out := make([]CoordinateEntry, 0, len(entries)-1)
	out = append(out, entries[:index]...)
	return append(out, entries[index+1:]...), true
}

// UpdateCoordinate sets one field of one entry. The value is kept as typed.
func UpdateCoordinate(entries []CoordinateEntry, index int, field CoordinateField, value string) ([]CoordinateEntry, bool) {
	if index < 0 || index >= len(entries) {
		return entries, false
	}
	out := make([]CoordinateEntry, len(entries))
	copy(out, entries)

	e := &out[index]
	switch field {
	case FieldLat:
		e.Lat = value
	case FieldLng:
		e.Lng = value
	default:
		return entries, false
	}
	e.Revision++
	return out, true
}

// ApplyLocation writes a device fix into the entry with the given ID, but only
// if that entry still exists at the revision the fix was requested for.
func ApplyLocation(entries []CoordinateEntry, id uuid.UUID, revision int, p geospatial.Point) ([]CoordinateEntry, bool) {
	index := IndexOf(entries, id)
	if index < 0 || entries[index].Revision != revision {
		return entries, false
	}
	out := make([]CoordinateEntry, len(entries))
	copy(out, entries)

	e := &out[index]
	e.Lat = geospatial.FormatDegrees(p.Latitude)
	e.Lng = geospatial.FormatDegrees(p.Longitude)
	e.Revision++
	return out, true
}

// IndexOf finds an entry by ID, -1 when absent.
func IndexOf(entries []CoordinateEntry, id uuid.UUID) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// ValidateCoordinates reports whether every entry is a numeric in-range pair.
func ValidateCoordinates(entries []CoordinateEntry) bool {
	return geospatial.ValidateCoordinates(rawCoordinates(entries))
}

// CoordinatePoints parses every entry.
func CoordinatePoints(entries []CoordinateEntry) ([]geospatial.Point, error) {
	return geospatial.ParseCoordinates(rawCoordinates(entries))
}

func rawCoordinates(entries []CoordinateEntry) []geospatial.Coordinate {
	coords := make([]geospatial.Coordinate, len(entries))
	for i, e := range entries {
		coords[i] = e.Coordinate()
	}
	return coords
}
