package plots

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-kml/v3"

	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

// Layer keys used in both map formats.
const (
	LayerLand         = "land_area"
	LayerInner        = "inner_area"
	LayerPlot         = "plot"
	LayerCoordinate   = "coordinate"
	LayerReference    = "reference"
	LayerLiveLocation = "live_location"
)

type polygonLayer struct {
	key    string
	name   string
	stroke color.RGBA
	points []geospatial.Point
}

func polygonLayers(p *PlotData) []polygonLayer {
	if p == nil {
		return nil
	}
	return []polygonLayer{
		{key: LayerLand, name: "Land boundary", stroke: color.RGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}, points: p.LandCoordinates},
		{key: LayerInner, name: "Inner area", stroke: color.RGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff}, points: p.InnerCoordinates},
		{key: LayerPlot, name: "Plot", stroke: color.RGBA{R: 0x16, G: 0xa3, B: 0x4a, A: 0xff}, points: p.PlotCoordinates},
	}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Marker is one clickable point on the map.
type Marker struct {
	Layer    string
	Name     string
	Point    geospatial.Point
	Distance *float64
}

// Popup is the text shown when the marker is clicked.
func (m Marker) Popup() string {
	text := fmt.Sprintf("%s\nLat: %s, Lng: %s", m.Name,
		geospatial.FormatDegrees(m.Point.Latitude), geospatial.FormatDegrees(m.Point.Longitude))
	if m.Distance != nil {
		text += fmt.Sprintf("\nDistance: %.2f m", *m.Distance)
	}
	return text
}

// Markers lists every raw coordinate that parses, every reference point, and
// the live location when sharing is on.
func Markers(s State) []Marker {
	var out []Marker
	for i, e := range s.Coordinates {
		p, err := geospatial.ParseCoordinate(e.Coordinate())
		if err != nil {
			continue
		}
		out = append(out, Marker{Layer: LayerCoordinate, Name: fmt.Sprintf("Coordinate %d", i+1), Point: p})
	}
	if s.Plot != nil {
		for _, rp := range s.Plot.ReferencePoints() {
			out = append(out, Marker{Layer: LayerReference, Name: rp.Label, Point: rp.Point, Distance: rp.Distance})
		}
	}
	if s.ShareLocation && s.LiveLocation != nil {
		m := Marker{Layer: LayerLiveLocation, Name: "Your location", Point: *s.LiveLocation}
		// distance to the plot centre
		if s.Plot != nil && len(s.Plot.PlotCoordinates) > 0 {
			d := geospatial.DistanceMeters(m.Point, geospatial.Centroid(s.Plot.PlotCoordinates))
			m.Distance = &d
		}
		out = append(out, m)
	}
	return out
}

// RenderGeoJSON renders the polygons, ordered around their centroids, and the
// markers as a FeatureCollection.
func RenderGeoJSON(s State) ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	for _, l := range polygonLayers(s.Plot) {
		poly, err := geospatial.ToPolygon(l.points)
		if err != nil {
			continue
		}
		f := geojson.NewFeature(poly)
		f.Properties["layer"] = l.key
		f.Properties["name"] = l.name
		f.Properties["stroke"] = hexColor(l.stroke)
		f.Properties["fill"] = hexColor(l.stroke)
		f.Properties["fill-opacity"] = 0.2
		fc.Append(f)
	}

	for _, m := range Markers(s) {
		f := geojson.NewFeature(geospatial.ToOrbPoint(m.Point))
		f.Properties["layer"] = m.Layer
		f.Properties["name"] = m.Name
		f.Properties["popup"] = m.Popup()
		if m.Distance != nil {
			f.Properties["distance"] = *m.Distance
		}
		fc.Append(f)
	}

	return fc.MarshalJSON()
}

func kmlCoordinates(points []geospatial.Point) []kml.Coordinate {
	ring := geospatial.ToRing(points)
	coords := make([]kml.Coordinate, len(ring))
	for i, p := range ring {
		coords[i] = kml.Coordinate{Lon: p.Lon(), Lat: p.Lat()}
	}
	return coords
}

// RenderKML renders the same layers as a KML document.
func RenderKML(s State, title string) ([]byte, error) {
	docElements := []kml.Element{kml.Name(title)}

	var polygons []kml.Element
	for _, l := range polygonLayers(s.Plot) {
		styleID := l.key + "-style"
		fill := l.stroke
		fill.A = 0x33
		docElements = append(docElements, kml.SharedStyle(styleID,
			kml.LineStyle(kml.Color(l.stroke), kml.Width(2)),
			kml.PolyStyle(kml.Color(fill)),
		))

		if len(l.points) < 3 {
			continue
		}
		polygons = append(polygons, kml.Placemark(
			kml.Name(l.name),
			kml.StyleURL("#"+styleID),
			kml.Polygon(
				kml.OuterBoundaryIs(
					kml.LinearRing(
						kml.Coordinates(kmlCoordinates(geospatial.OrderByCentroidAngle(l.points))...),
					),
				),
			),
		))
	}
	if len(polygons) > 0 {
		docElements = append(docElements, kml.Folder(append([]kml.Element{kml.Name("Boundaries")}, polygons...)...))
	}

	var markers []kml.Element
	for _, m := range Markers(s) {
		markers = append(markers, kml.Placemark(
			kml.Name(m.Name),
			kml.Description(m.Popup()),
			kml.Point(
				kml.Coordinates(kml.Coordinate{Lon: m.Point.Longitude, Lat: m.Point.Latitude}),
			),
		))
	}
	if len(markers) > 0 {
		docElements = append(docElements, kml.Folder(append([]kml.Element{kml.Name("Markers")}, markers...)...))
	}

	var buf bytes.Buffer
	if err := kml.KML(kml.Document(docElements...)).WriteIndent(&buf, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to write kml: %w", err)
	}
	return buf.Bytes(), nil
}
