package plots

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"

	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

var ErrNoPlot = errors.New("no plot has been generated")

const (
	sheetFont     = "Arial"
	sheetFontSize = 10

	outlineWidth  = 120.0
	outlineHeight = 90.0
)

// RenderPlotSheet renders a one page summary of a generated plot
func RenderPlotSheet(s State) ([]byte, error) {
	if s.Plot == nil {
		return nil, ErrNoPlot
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(sheetFont, "", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(sheetFont, "B", 16)
	pdf.CellFormat(0, 10, "Land Plot: "+s.LandName, "", 1, "C", false, 0, "")
	pdf.SetFont(sheetFont, "", sheetFontSize-1)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 6, time.Now().Format("2006-01-02 15:04"), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	section := func(title string, rows [][2]string) {
		pdf.Ln(6)
		pdf.SetFont(sheetFont, "B", sheetFontSize+2)
		pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
		for _, r := range rows {
			pdf.SetFont(sheetFont, "B", sheetFontSize)
			pdf.CellFormat(60, 6, r[0]+":", "", 0, "L", false, 0, "")
			pdf.SetFont(sheetFont, "", sheetFontSize)
			pdf.CellFormat(0, 6, r[1], "", 1, "L", false, 0, "")
		}
	}

	details := [][2]string{
		{"Farmer", s.FarmerName()},
		{"Ownership", s.OwnershipType},
		{"Area", s.Plot.Area},
	}
	if acres, err := geospatial.AreaAcres(s.Plot.LandCoordinates); err == nil {
		details = append(details, [2]string{"Boundary area", fmt.Sprintf("%.2f acres", acres)})
	}
	section("Details", details)

	section("Measurements", [][2]string{
		{"SW to SE", s.Measurements.SWSE},
		{"SE to NE", formatDerived(s.Measurements.SENE)},
		{"NE to NW", formatDerived(s.Measurements.NENW)},
		{"NW to SW", s.Measurements.SWNW},
	})

	var refs [][2]string
	for _, rp := range s.Plot.ReferencePoints() {
		value := fmt.Sprintf("%s, %s", geospatial.FormatDegrees(rp.Point.Latitude), geospatial.FormatDegrees(rp.Point.Longitude))
		if rp.Distance != nil {
			value += fmt.Sprintf(" (%.2f m)", *rp.Distance)
		}
		refs = append(refs, [2]string{rp.Label, value})
	}
	if len(refs) > 0 {
		section("Reference points", refs)
	}

	if len(s.Plot.PlotCoordinates) >= 3 {
		pdf.Ln(6)
		pdf.SetFont(sheetFont, "B", sheetFontSize+2)
		pdf.CellFormat(0, 8, "Plot outline", "", 1, "L", false, 0, "")
		x, y := pdf.GetX(), pdf.GetY()
		pdf.SetDrawColor(200, 200, 200)
		pdf.Rect(x, y, outlineWidth, outlineHeight, "D")
		pdf.SetDrawColor(0x16, 0xa3, 0x4a)
		pdf.SetLineWidth(0.6)
		pdf.Polygon(outlinePoints(geospatial.OrderByCentroidAngle(s.Plot.PlotCoordinates), x, y), "D")
		pdf.SetLineWidth(0.2)
		pdf.SetY(y + outlineHeight + 5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render plot sheet: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDerived(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// outlinePoints fits the polygon into the outline box, keeping its aspect ratio.
// Longitudes are scaled by cos(latitude) so the shape is not stretched.
func outlinePoints(points []geospatial.Point, x, y float64) []gofpdf.PointType {
	const pad = 5.0
	b := geospatial.Bounds(points)
	kx := math.Cos(b.Center().Lat() * math.Pi / 180)

	w := (b.Max.Lon() - b.Min.Lon()) * kx
	h := b.Max.Lat() - b.Min.Lat()
	scale := math.Inf(1)
	if w > 0 {
		scale = (outlineWidth - 2*pad) / w
	}
	if h > 0 {
		scale = math.Min(scale, (outlineHeight-2*pad)/h)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}

	out := make([]gofpdf.PointType, len(points))
	for i, p := range points {
		out[i] = gofpdf.PointType{
			X: x + pad + (p.Longitude-b.Min.Lon())*kx*scale,
			Y: y + outlineHeight - pad - (p.Latitude-b.Min.Lat())*scale,
		}
	}
	return out
}
