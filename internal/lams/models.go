package lams

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FarmerProfile is read-only reference data used for farmer selection.
type FarmerProfile struct {
	UserID       int64  `json:"user_id"`
	FarmerName   string `json:"farmer_name"`
	MobileNumber string `json:"mobile_number"`
}

// SuitabilityKind buckets the taxonomy into the two selection menus.
type SuitabilityKind string

const (
	KindSuitable    SuitabilityKind = "suitable"
	KindNotSuitable SuitabilityKind = "not_suitable"
)

// LandSuitability is one reason code from the taxonomy.
type LandSuitability struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Kind normalises the free-form type label ("Suitable", "Not Suitable", "not_suitable").
func (s LandSuitability) Kind() SuitabilityKind {
	t := strings.ToLower(strings.TrimSpace(s.Type))
	t = strings.NewReplacer("_", " ", "-", " ").Replace(t)
	if t == "suitable" {
		return KindSuitable
	}
	return KindNotSuitable
}

// ParseKind validates a kind coming from a request.
func ParseKind(s string) (SuitabilityKind, error) {
	switch SuitabilityKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSuitable:
		return KindSuitable, nil
	case KindNotSuitable:
		return KindNotSuitable, nil
	}
	return "", fmt.Errorf("unknown suitability kind %q", s)
}

// SuitabilityRemark is one selected reason in a submission.
type SuitabilityRemark struct {
	LandSuitabilityID int64  `json:"land_suitability_id"`
	Remarks           string `json:"remarks"`
}

// Coordinate types tag each flattened polygon vertex.
const (
	CoordinatePlot      = "plot"
	CoordinateInnerArea = "inner_area"
	CoordinateLandArea  = "land_area"
)

// LandCoordinatePoint is one vertex of one of the three polygons.
type LandCoordinatePoint struct {
	CoordinateType string  `json:"coordinate_type"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// Reference point types.
const (
	PointSWMark       = "sw_mark"
	PointNCorner      = "n_corner"
	PointECorner      = "e_corner"
	PointNMark        = "n_mark"
	PointEMark        = "e_mark"
	PointIntersection = "intersection"
)

// LandReferencePoint is one named landmark.
type LandReferencePoint struct {
	PointType string  `json:"point_type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LandSubmission is the payload for POST lams/land-info-service/.
type LandSubmission struct {
	FarmerID        int64               `json:"farmer_id"`
	LandName        string              `json:"land_name"`
	OwnershipType   string              `json:"ownership_type"`
	LandSuitability []SuitabilityRemark `json:"land_suitability"`
	Area            *float64            `json:"area"`
	Image           string              `json:"image"`

	SWSE float64 `json:"sw_se"`
	SENE float64 `json:"se_ne"`
	NENW float64 `json:"ne_nw"`
	NWSW float64 `json:"nw_sw"`

	NMarkDist   *float64 `json:"n_mark_dist"`
	EMarkDist   *float64 `json:"e_mark_dist"`
	NCornerDist *float64 `json:"n_corner_dist"`
	ECornerDist *float64 `json:"e_corner_dist"`

	LandCoordinates    []LandCoordinatePoint `json:"land_coordinates"`
	LandReferencePoint []LandReferencePoint  `json:"land_reference_point"`
}

// envelope is the {status, data} wrapper every lams endpoint uses.
type envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

type submissionData struct {
	LandID flexibleID `json:"land_id"`
}

// flexibleID accepts both numeric and string identifiers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}
