package geospatial

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// SquareMetersPerAcre converts geodesic areas to the unit used across the portal.
const SquareMetersPerAcre = 4046.8564224

var (
	ErrEmptyCoordinate   = errors.New("coordinate is empty")
	ErrLatitudeRange     = errors.New("latitude must be between -90 and 90")
	ErrLongitudeRange    = errors.New("longitude must be between -180 and 180")
	ErrNotEnoughVertices = errors.New("a polygon needs at least 3 vertices")
)

// Coordinate is a user-entered pair of decimal-degree strings. Values stay as typed
// until they are parsed, so precision is never lost on the way in.
type Coordinate struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Point is a parsed WGS84 position.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ParseCoordinate converts a Coordinate into a Point, enforcing the WGS84 ranges.
func ParseCoordinate(c Coordinate) (Point, error) {
	latStr := strings.TrimSpace(c.Lat)
	lngStr := strings.TrimSpace(c.Lng)
	if latStr == "" || lngStr == "" {
		return Point{}, ErrEmptyCoordinate
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude %q: %w", c.Lat, err)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude %q: %w", c.Lng, err)
	}

	p := Point{Latitude: lat, Longitude: lng}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate checks that the point lies inside the WGS84 ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return ErrLatitudeRange
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return ErrLongitudeRange
	}
	return nil
}

// ValidateCoordinates reports whether every coordinate parses and is in range.
// An empty list is not valid.
func ValidateCoordinates(coords []Coordinate) bool {
	if len(coords) == 0 {
		return false
	}
	for _, c := range coords {
		if _, err := ParseCoordinate(c); err != nil {
			return false
		}
	}
	return true
}

// ParseCoordinates parses the whole list, failing on the first bad entry.
func ParseCoordinates(coords []Coordinate) ([]Point, error) {
	points := make([]Point, 0, len(coords))
	for i, c := range coords {
		p, err := ParseCoordinate(c)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		points = append(points, p)
	}
	return points, nil
}

// FormatDegrees renders a degree value with the 6 decimals used for device fixes.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Centroid is the arithmetic mean of the vertices. It is only a good approximation
// for small extents away from the poles and the antimeridian.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Latitude
		sumLng += p.Longitude
	}
	n := float64(len(points))
	return Point{Latitude: sumLat / n, Longitude: sumLng / n}
}

// OrderByCentroidAngle sorts vertices by their angle around the mean centroid,
// which yields a simple ring for convex point sets. Fewer than 3 points are
// returned unchanged. The input slice is never modified.
func OrderByCentroidAngle(points []Point) []Point {
	ordered := make([]Point, len(points))
	copy(ordered, points)
	if len(ordered) < 3 {
		return ordered
	}

	c := Centroid(ordered)
	angle := func(p Point) float64 {
		return math.Atan2(p.Latitude-c.Latitude, p.Longitude-c.Longitude)
	}
	dist := func(p Point) float64 {
		return math.Hypot(p.Latitude-c.Latitude, p.Longitude-c.Longitude)
	}

	// Ties are broken on distance and then raw values so any permutation of the
	// same multiset sorts identically.
	sort.SliceStable(ordered, func(i, j int) bool {
		ai, aj := angle(ordered[i]), angle(ordered[j])
		if ai != aj {
			return ai < aj
		}
		di, dj := dist(ordered[i]), dist(ordered[j])
		if di != dj {
			return di < dj
		}
		if ordered[i].Latitude != ordered[j].Latitude {
			return ordered[i].Latitude < ordered[j].Latitude
		}
		return ordered[i].Longitude < ordered[j].Longitude
	})
	return ordered
}

// ToOrbPoint converts to orb's [lng, lat] order.
func ToOrbPoint(p Point) orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// ToRing builds a closed ring from already ordered vertices.
func ToRing(points []Point) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, ToOrbPoint(p))
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// ToPolygon orders the vertices and returns the resulting polygon.
func ToPolygon(points []Point) (orb.Polygon, error) {
	if len(points) < 3 {
		return nil, ErrNotEnoughVertices
	}
	return orb.Polygon{ToRing(OrderByCentroidAngle(points))}, nil
}

// AreaAcres returns the geodesic area of the ordered polygon in acres.
func AreaAcres(points []Point) (float64, error) {
	poly, err := ToPolygon(points)
	if err != nil {
		return 0, err
	}
	return geo.Area(poly) / SquareMetersPerAcre, nil
}

// Bounds returns the bounding box of the vertices.
func Bounds(points []Point) orb.Bound {
	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		mp = append(mp, ToOrbPoint(p))
	}
	return mp.Bound()
}

// DistanceMeters is the geodesic distance between two points.
func DistanceMeters(a, b Point) float64 {
	return geo.Distance(ToOrbPoint(a), ToOrbPoint(b))
}
