package plots

import (
	"agri-shield/plot-portal/plot-portal-backend/internal/lams"
	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

// BuildSubmission merges the dialog state with its resolved plot. The state must
// have passed the save checks.
func BuildSubmission(s State) *lams.LandSubmission {
	sub := &lams.LandSubmission{
		LandName:      s.LandName,
		OwnershipType: s.OwnershipType,
	}
	if s.FarmerID != nil {
		sub.FarmerID = *s.FarmerID
	}

	_, ids := s.SelectedSuitability()
	sub.LandSuitability = make([]lams.SuitabilityRemark, 0, len(ids))
	for _, id := range ids {
		sub.LandSuitability = append(sub.LandSuitability, lams.SuitabilityRemark{
			LandSuitabilityID: id,
			Remarks:           s.Remarks[id],
		})
	}

	sub.SWSE, _ = ParseMeasurement(s.Measurements.SWSE)
	sub.NWSW, _ = ParseMeasurement(s.Measurements.SWNW)
	if s.Measurements.NENW != nil {
		sub.NENW = float64(*s.Measurements.NENW)
	}
	if s.Measurements.SENE != nil {
		sub.SENE = float64(*s.Measurements.SENE)
	}

	p := s.Plot
	if p == nil {
		sub.LandCoordinates = []lams.LandCoordinatePoint{}
		sub.LandReferencePoint = []lams.LandReferencePoint{}
		return sub
	}

	sub.Area = p.AreaAcres
	sub.Image = p.ImagePath
	sub.NMarkDist = p.NMarkDist
	sub.EMarkDist = p.EMarkDist
	sub.NCornerDist = p.NCornerDist
	sub.ECornerDist = p.ECornerDist

	sub.LandCoordinates = make([]lams.LandCoordinatePoint, 0,
		len(p.PlotCoordinates)+len(p.InnerCoordinates)+len(p.LandCoordinates))
	sub.LandCoordinates = appendTagged(sub.LandCoordinates, lams.CoordinatePlot, p.PlotCoordinates)
	sub.LandCoordinates = appendTagged(sub.LandCoordinates, lams.CoordinateInnerArea, p.InnerCoordinates)
	sub.LandCoordinates = appendTagged(sub.LandCoordinates, lams.CoordinateLandArea, p.LandCoordinates)

	refs := p.ReferencePoints()
	sub.LandReferencePoint = make([]lams.LandReferencePoint, 0, len(refs))
	for _, rp := range refs {
		sub.LandReferencePoint = append(sub.LandReferencePoint, lams.LandReferencePoint{
			PointType: rp.Type,
			Latitude:  rp.Point.Latitude,
			Longitude: rp.Point.Longitude,
		})
	}
	return sub
}

func appendTagged(dst []lams.LandCoordinatePoint, tag string, points []geospatial.Point) []lams.LandCoordinatePoint {
	for _, p := range points {
		dst = append(dst, lams.LandCoordinatePoint{
			CoordinateType: tag,
			Latitude:       p.Latitude,
			Longitude:      p.Longitude,
		})
	}
	return dst
}
