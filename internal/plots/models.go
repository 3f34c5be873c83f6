package plots

import (
	"fmt"

	"github.com/google/uuid"

	"agri-shield/plot-portal/plot-portal-backend/internal/lams"
	"agri-shield/plot-portal/plot-portal-backend/internal/landmap"
	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
	"agri-shield/plot-portal/plot-portal-backend/pkg/workflows"
)

// CoordinateEntry is one row of the coordinate list. Revision increases on every
// edit so late device fixes can tell whether the row changed under them.
type CoordinateEntry struct {
	ID       uuid.UUID `json:"id"`
	Lat      string    `json:"lat"`
	Lng      string    `json:"lng"`
	Revision int       `json:"revision"`
}

// Coordinate returns the raw pair as typed.
func (e CoordinateEntry) Coordinate() geospatial.Coordinate {
	return geospatial.Coordinate{Lat: e.Lat, Lng: e.Lng}
}

// Measurements holds the two manual sides as typed and the two derived sides.
type Measurements struct {
	SWSE string `json:"sw_se"`
	SWNW string `json:"sw_nw"`

	// NENW is derived from SWSE, SENE from SWNW.
	NENW *int `json:"ne_nw"`
	SENE *int `json:"se_ne"`
}

// PlotData is the resolved boundary for one parcel. It is replaced wholesale by
// every successful generation.
type PlotData struct {
	LandCoordinates  []geospatial.Point `json:"land_coordinates"`
	PlotCoordinates  []geospatial.Point `json:"plot_coordinates"`
	InnerCoordinates []geospatial.Point `json:"inner_coordinates"`

	SWMark       *geospatial.Point `json:"sw_mark"`
	NCorner      *geospatial.Point `json:"n_corner"`
	ECorner      *geospatial.Point `json:"e_corner"`
	NMark        *geospatial.Point `json:"n_mark"`
	EMark        *geospatial.Point `json:"e_mark"`
	Intersection *geospatial.Point `json:"intersection"`

	NMarkDist   *float64 `json:"n_mark_dist"`
	EMarkDist   *float64 `json:"e_mark_dist"`
	NCornerDist *float64 `json:"n_corner_dist"`
	ECornerDist *float64 `json:"e_corner_dist"`

	ImagePath   string   `json:"image_path"`
	ImageURL    string   `json:"image_url"`
	Area        string   `json:"area"`
	AreaAcres   *float64 `json:"area_acres"`
	Description string   `json:"description"`
}

// NewPlotData converts a resolver result. submitted is the boundary as sent and
// is used when the resolver does not echo it back.
func NewPlotData(res *landmap.Result, submitted []geospatial.Point, landName string) *PlotData {
	land := res.LandArea
	if len(land) == 0 {
		land = append([]geospatial.Point{}, submitted...)
	}

	return &PlotData{
		LandCoordinates:  land,
		PlotCoordinates:  res.PlotCoordinates,
		InnerCoordinates: res.InnerArea,
		SWMark:           res.SWMark,
		NCorner:          res.NCorner,
		ECorner:          res.ECorner,
		NMark:            res.NMark,
		EMark:            res.EMark,
		Intersection:     res.Intersection,
		NMarkDist:        res.NMarkDist,
		EMarkDist:        res.EMarkDist,
		NCornerDist:      res.NCornerDist,
		ECornerDist:      res.ECornerDist,
		ImagePath:        res.ImagePath,
		ImageURL:         res.ImageURL,
		Area:             landmap.FormatArea(res.Area),
		AreaAcres:        res.Area,
		Description:      fmt.Sprintf("%s: %d boundary points, %d plot points", landName, len(land), len(res.PlotCoordinates)),
	}
}

// ReferencePoint is a named landmark with its optional distance.
type ReferencePoint struct {
	Type     string
	Label    string
	Point    geospatial.Point
	Distance *float64
}

// ReferencePoints lists the landmarks that are present, in a fixed order.
func (p *PlotData) ReferencePoints() []ReferencePoint {
	all := []ReferencePoint{
		{Type: lams.PointSWMark, Label: "SW mark"},
		{Type: lams.PointNCorner, Label: "N corner", Distance: p.NCornerDist},
		{Type: lams.PointECorner, Label: "E corner", Distance: p.ECornerDist},
		{Type: lams.PointNMark, Label: "N mark", Distance: p.NMarkDist},
		{Type: lams.PointEMark, Label: "E mark", Distance: p.EMarkDist},
		{Type: lams.PointIntersection, Label: "Intersection"},
	}
	points := []*geospatial.Point{p.SWMark, p.NCorner, p.ECorner, p.NMark, p.EMark, p.Intersection}

	out := make([]ReferencePoint, 0, len(all))
	for i, rp := range all {
		if points[i] == nil {
			continue
		}
		rp.Point = *points[i]
		out = append(out, rp)
	}
	return out
}

// State is everything one plot dialog holds. It only changes through Reduce.
type State struct {
	Phase workflows.Phase `json:"phase"`

	Farmers       []lams.FarmerProfile   `json:"farmers"`
	Suitabilities []lams.LandSuitability `json:"suitabilities"`

	LandName      string `json:"land_name"`
	FarmerID      *int64 `json:"farmer_id"`
	OwnershipType string `json:"ownership_type"`

	Measurements Measurements `json:"measurements"`

	Suitable    []int64          `json:"suitable"`
	NotSuitable []int64          `json:"not_suitable"`
	Remarks     map[int64]string `json:"remarks"`

	Coordinates []CoordinateEntry `json:"coordinates"`

	Plot  *PlotData `json:"plot"`
	Error string    `json:"error,omitempty"`

	ShareLocation bool              `json:"share_location"`
	LiveLocation  *geospatial.Point `json:"live_location"`
}

// NewState returns a fresh dialog with a single empty coordinate row.
func NewState(firstEntry uuid.UUID) State {
	return State{
		Phase:       workflows.PhaseEditing,
		Remarks:     map[int64]string{},
		Coordinates: []CoordinateEntry{{ID: firstEntry}},
	}
}

// FarmerName looks the selected farmer up in the reference list.
func (s State) FarmerName() string {
	if s.FarmerID == nil {
		return ""
	}
	for _, f := range s.Farmers {
		if f.UserID == *s.FarmerID {
			return f.FarmerName
		}
	}
	return ""
}

// SelectedSuitability returns the kind and IDs of the active selection.
func (s State) SelectedSuitability() (lams.SuitabilityKind, []int64) {
	if len(s.NotSuitable) > 0 {
		return lams.KindNotSuitable, s.NotSuitable
	}
	if len(s.Suitable) > 0 {
		return lams.KindSuitable, s.Suitable
	}
	return "", nil
}

// View is a session snapshot as returned by the API.
type View struct {
	ID uuid.UUID `json:"id"`
	State
}

// SaveResult is returned by a successful save.
type SaveResult struct {
	LandID string `json:"land_id"`
}
