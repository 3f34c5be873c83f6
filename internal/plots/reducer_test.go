package plots

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-shield/plot-portal/plot-portal-backend/internal/lams"
	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
	"agri-shield/plot-portal/plot-portal-backend/pkg/workflows"
)

func reduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func samplePlot() *PlotData {
	area := 1.23
	return &PlotData{
		LandCoordinates: []geospatial.Point{{Latitude: 23.81, Longitude: 90.41}, {Latitude: 23.82, Longitude: 90.41}, {Latitude: 23.82, Longitude: 90.42}},
		PlotCoordinates: []geospatial.Point{
			{Latitude: 23.811, Longitude: 90.411}, {Latitude: 23.811, Longitude: 90.419},
			{Latitude: 23.819, Longitude: 90.419}, {Latitude: 23.819, Longitude: 90.411},
		},
		Area:      "1.23 acres",
		AreaAcres: &area,
	}
}

func TestReduce_SuitabilityExclusive(t *testing.T) {
	s := NewState(uuid.New())

	s = Reduce(s, SelectSuitability{Kind: lams.KindSuitable, IDs: []int64{1, 3}})
	s = Reduce(s, SetRemarks{SuitabilityID: 1, Remarks: "good drainage"})
	assert.Equal(t, []int64{1, 3}, s.Suitable)
	assert.Empty(t, s.NotSuitable)

	s = Reduce(s, SelectSuitability{Kind: lams.KindNotSuitable, IDs: []int64{7}})
	assert.Empty(t, s.Suitable)
	assert.Equal(t, []int64{7}, s.NotSuitable)
	assert.NotContains(t, s.Remarks, int64(1), "remarks of deselected options are dropped")

	kind, ids := s.SelectedSuitability()
	assert.Equal(t, lams.KindNotSuitable, kind)
	assert.Equal(t, []int64{7}, ids)
}

func TestReduce_EmptySelectionKeepsOtherKind(t *testing.T) {
	s := NewState(uuid.New())
	s = Reduce(s, SelectSuitability{Kind: lams.KindSuitable, IDs: []int64{2}})

	s = Reduce(s, SelectSuitability{Kind: lams.KindNotSuitable, IDs: nil})

	assert.Equal(t, []int64{2}, s.Suitable)
	assert.Empty(t, s.NotSuitable)
}

func TestReduce_RemarksRequireSelection(t *testing.T) {
	s := NewState(uuid.New())

	s = Reduce(s, SetRemarks{SuitabilityID: 4, Remarks: "ignored"})

	assert.Empty(t, s.Remarks)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := NewState(uuid.New())
	before = Reduce(before, SelectSuitability{Kind: lams.KindSuitable, IDs: []int64{1}})
	before = Reduce(before, SetRemarks{SuitabilityID: 1, Remarks: "first"})

	after := reduceAll(before,
		SetRemarks{SuitabilityID: 1, Remarks: "second"},
		UpdateCoordinateField{Index: 0, Field: FieldLat, Value: "23.8"},
		AddCoordinateRow{ID: uuid.New()},
	)

	assert.Equal(t, "first", before.Remarks[1])
	assert.Empty(t, before.Coordinates[0].Lat)
	assert.Len(t, before.Coordinates, 1)

	assert.Equal(t, "second", after.Remarks[1])
	assert.Equal(t, "23.8", after.Coordinates[0].Lat)
	assert.Len(t, after.Coordinates, 2)
}

func TestReduce_Measurements(t *testing.T) {
	derived := 30
	s := NewState(uuid.New())

	s = Reduce(s, SetMeasurement{Side: SideSWSE, Value: "120", Derived: &derived})
	assert.Equal(t, "120", s.Measurements.SWSE)
	require.NotNil(t, s.Measurements.NENW)
	assert.Equal(t, 30, *s.Measurements.NENW)
	assert.Nil(t, s.Measurements.SENE)

	s = Reduce(s, SetMeasurement{Side: SideSWNW, Value: "x"})
	assert.Equal(t, "x", s.Measurements.SWNW)
	assert.Nil(t, s.Measurements.SENE)
}

func TestReduce_GeneratePhases(t *testing.T) {
	s := NewState(uuid.New())

	s = Reduce(s, GenerateStarted{})
	assert.Equal(t, workflows.PhaseGenerating, s.Phase)

	s = Reduce(s, GenerateFailed{Message: "Invalid coordinates"})
	assert.Equal(t, workflows.PhaseEditing, s.Phase)
	assert.Equal(t, "Invalid coordinates", s.Error)
	assert.Nil(t, s.Plot)

	s = reduceAll(s, GenerateStarted{}, GenerateSucceeded{Plot: samplePlot()})
	assert.Equal(t, workflows.PhaseGenerated, s.Phase)
	assert.Empty(t, s.Error)
	require.NotNil(t, s.Plot)

	// a failed regeneration keeps the previous plot
	s = reduceAll(s, GenerateStarted{}, GenerateFailed{Message: "boom"})
	assert.Equal(t, workflows.PhaseGenerated, s.Phase)
	assert.NotNil(t, s.Plot)
	assert.Equal(t, "boom", s.Error)
}

func TestReduce_SaveRequiresGenerated(t *testing.T) {
	s := NewState(uuid.New())

	s = Reduce(s, SaveStarted{})
	assert.Equal(t, workflows.PhaseEditing, s.Phase)

	s = Reduce(s, SaveFailed{Message: "nope"})
	assert.Empty(t, s.Error, "an invalid transition leaves the state alone")

	s = reduceAll(s, GenerateStarted{}, GenerateSucceeded{Plot: samplePlot()}, SaveStarted{})
	assert.Equal(t, workflows.PhaseSaving, s.Phase)

	s = Reduce(s, SaveFailed{Message: "Server error"})
	assert.Equal(t, workflows.PhaseGenerated, s.Phase)
	assert.Equal(t, "Server error", s.Error)
}

func TestReduce_LocationResolvedDropsStale(t *testing.T) {
	s := NewState(uuid.New())
	entry := s.Coordinates[0]

	edited := Reduce(s, UpdateCoordinateField{Index: 0, Field: FieldLat, Value: "1"})
	edited = Reduce(edited, LocationResolved{EntryID: entry.ID, Revision: entry.Revision, Point: geospatial.Point{Latitude: 5, Longitude: 5}})
	assert.Equal(t, "1", edited.Coordinates[0].Lat)

	fresh := Reduce(s, LocationResolved{EntryID: entry.ID, Revision: entry.Revision, Point: geospatial.Point{Latitude: 5, Longitude: 6}})
	assert.Equal(t, "5.000000", fresh.Coordinates[0].Lat)
	assert.Equal(t, "6.000000", fresh.Coordinates[0].Lng)
}

func TestReduce_LocationSharing(t *testing.T) {
	p := geospatial.Point{Latitude: 23.8, Longitude: 90.4}
	s := reduceAll(NewState(uuid.New()), SetLocationSharing{Enabled: true}, LiveLocation{Point: &p})
	require.NotNil(t, s.LiveLocation)

	p.Latitude = 0
	assert.Equal(t, 23.8, s.LiveLocation.Latitude, "the state keeps its own copy")

	s = Reduce(s, SetLocationSharing{Enabled: false})
	assert.False(t, s.ShareLocation)
	assert.Nil(t, s.LiveLocation)
}

func TestReduce_ResetKeepsReferenceData(t *testing.T) {
	farmerID := int64(12)
	farmers := []lams.FarmerProfile{{UserID: 12, FarmerName: "Rahim"}}
	suitabilities := []lams.LandSuitability{{ID: 1, Name: "Flat", Type: "Suitable"}}
	s := reduceAll(NewState(uuid.New()),
		Opened{Farmers: farmers, Suitabilities: suitabilities},
		SetLandName{Name: "North Field A"},
		SelectFarmer{FarmerID: &farmerID},
		SetLocationSharing{Enabled: true},
		AddCoordinateRow{ID: uuid.New()},
		GenerateStarted{}, GenerateSucceeded{Plot: samplePlot()},
	)

	first := uuid.New()
	s = Reduce(s, Reset{FirstEntryID: first})

	assert.Equal(t, workflows.PhaseEditing, s.Phase)
	assert.Equal(t, farmers, s.Farmers)
	assert.Equal(t, suitabilities, s.Suitabilities)
	assert.Empty(t, s.LandName)
	assert.Nil(t, s.FarmerID)
	assert.Nil(t, s.Plot)
	assert.False(t, s.ShareLocation)
	require.Len(t, s.Coordinates, 1)
	assert.Equal(t, first, s.Coordinates[0].ID)
}

func TestReduce_ClosedIgnoresActions(t *testing.T) {
	s := reduceAll(NewState(uuid.New()), Closed{})
	require.Equal(t, workflows.PhaseClosed, s.Phase)

	after := reduceAll(s, SetLandName{Name: "late"}, GenerateStarted{}, Reset{FirstEntryID: uuid.New()})

	assert.Equal(t, s.Phase, after.Phase)
	assert.Empty(t, after.LandName)
}

func TestReduce_SelectFarmerCopiesID(t *testing.T) {
	id := int64(3)
	s := Reduce(NewState(uuid.New()), SelectFarmer{FarmerID: &id})
	id = 99

	require.NotNil(t, s.FarmerID)
	assert.Equal(t, int64(3), *s.FarmerID)

	s = Reduce(s, SelectFarmer{})
	assert.Nil(t, s.FarmerID)
}
