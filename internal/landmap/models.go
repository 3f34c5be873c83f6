package landmap

import (
	"encoding/json"
	"fmt"

	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

// GenerateRequest is the body of POST /landmap/generate/
type GenerateRequest struct {
	LandArea []geospatial.Point `json:"land_area"`
}

// Result is the decoded boundary for one land parcel.
type Result struct {
	LandArea        []geospatial.Point
	PlotCoordinates []geospatial.Point
	InnerArea       []geospatial.Point

	ImagePath string
	ImageURL  string

	SWMark       *geospatial.Point
	NCorner      *geospatial.Point
	ECorner      *geospatial.Point
	NMark        *geospatial.Point
	EMark        *geospatial.Point
	Intersection *geospatial.Point

	NMarkDist   *float64
	EMarkDist   *float64
	NCornerDist *float64
	ECornerDist *float64

	// Area in acres, nil when the service did not return a number.
	Area *float64
}

// FormatArea renders the area the way the plot view shows it.
func FormatArea(area *float64) string {
	if area == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f acres", *area)
}

type generateResponse struct {
	Area json.RawMessage `json:"area"`
	Data *generateData   `json:"data"`
}

type generateData struct {
	PlotCoordinate []geospatial.Point `json:"plot_coordinate"`
	LandArea       []geospatial.Point `json:"land_area"`
	InnerArea      []geospatial.Point `json:"inner_area"`
	Image          *string            `json:"image"`

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
}
