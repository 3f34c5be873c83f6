package plots

import (
	"slices"

	"github.com/google/uuid"

	"agri-shield/plot-portal/plot-portal-backend/internal/lams"
	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
	"agri-shield/plot-portal/plot-portal-backend/pkg/workflows"
)

// Action is a tagged state change. Values that are not deterministic (new IDs,
// derived measurements) are computed before the action is built.
type Action interface {
	Type() string
}

type (
	Opened struct {
		Farmers       []lams.FarmerProfile
		Suitabilities []lams.LandSuitability
		Error         string
	}
	SetLandName struct {
		Name string
	}
	SelectFarmer struct {
		FarmerID *int64
	}
	SetOwnership struct {
		OwnershipType string
	}
	SetMeasurement struct {
		Side    Side
		Value   string
		Derived *int
	}
	SelectSuitability struct {
		Kind lams.SuitabilityKind
		IDs  []int64
	}
	SetRemarks struct {
		SuitabilityID int64
		Remarks       string
	}
	AddCoordinateRow struct {
		ID uuid.UUID
	}
	RemoveCoordinateRow struct {
		Index int
	}
	UpdateCoordinateField struct {
		Index int
		Field CoordinateField
		Value string
	}
	LocationResolved struct {
		EntryID  uuid.UUID
		Revision int
		Point    geospatial.Point
	}
	GenerateStarted   struct{}
	GenerateSucceeded struct {
		Plot *PlotData
	}
	GenerateFailed struct {
		Message string
	}
	SaveStarted   struct{}
	SaveSucceeded struct{}
	SaveFailed    struct {
		Message string
	}
	SetLocationSharing struct {
		Enabled bool
	}
	LiveLocation struct {
		Point *geospatial.Point
	}
	Reset struct {
		FirstEntryID uuid.UUID
	}
	Closed struct{}
)

func (Opened) Type() string                { return "opened" }
func (SetLandName) Type() string           { return "set_land_name" }
func (SelectFarmer) Type() string          { return "select_farmer" }
func (SetOwnership) Type() string          { return "set_ownership" }
func (SetMeasurement) Type() string        { return "set_measurement" }
func (SelectSuitability) Type() string     { return "select_suitability" }
func (SetRemarks) Type() string            { return "set_remarks" }
func (AddCoordinateRow) Type() string      { return "add_coordinate" }
func (RemoveCoordinateRow) Type() string   { return "remove_coordinate" }
func (UpdateCoordinateField) Type() string { return "update_coordinate" }
func (LocationResolved) Type() string      { return "location_resolved" }
func (GenerateStarted) Type() string       { return "generate_started" }
func (GenerateSucceeded) Type() string     { return "generate_succeeded" }
func (GenerateFailed) Type() string        { return "generate_failed" }
func (SaveStarted) Type() string           { return "save_started" }
func (SaveSucceeded) Type() string         { return "save_succeeded" }
func (SaveFailed) Type() string            { return "save_failed" }
func (SetLocationSharing) Type() string    { return "set_location_sharing" }
func (LiveLocation) Type() string          { return "live_location" }
func (Reset) Type() string                 { return "reset" }
func (Closed) Type() string                { return "closed" }

var phases = workflows.NewStateMachine()

func transition(s State, to workflows.Phase) (State, bool) {
	if !phases.CanTransition(s.Phase, to) {
		return s, false
	}
	s.Phase = to
	return s, true
}

// Reduce applies one action. It never mutates the input state: slices and maps
// that change are copied first. A closed state ignores everything.
func Reduce(s State, action Action) State {
	if s.Phase == workflows.PhaseClosed {
		return s
	}

	switch a := action.(type) {
	case Opened:
		s.Farmers = slices.Clone(a.Farmers)
		s.Suitabilities = slices.Clone(a.Suitabilities)
		s.Error = a.Error

	case SetLandName:
		s.LandName = a.Name

	case SelectFarmer:
		if a.FarmerID == nil {
			s.FarmerID = nil
		} else {
			id := *a.FarmerID
			s.FarmerID = &id
		}

	case SetOwnership:
		s.OwnershipType = a.OwnershipType

	case SetMeasurement:
		switch a.Side {
		case SideSWSE:
			s.Measurements.SWSE = a.Value
			s.Measurements.NENW = a.Derived
		case SideSWNW:
			s.Measurements.SWNW = a.Value
			s.Measurements.SENE = a.Derived
		}

	case SelectSuitability:
		ids := slices.Clone(a.IDs)
		switch a.Kind {
		case lams.KindSuitable:
			s.Suitable = ids
			if len(ids) > 0 {
				s.NotSuitable = nil
			}
		case lams.KindNotSuitable:
			s.NotSuitable = ids
			if len(ids) > 0 {
				s.Suitable = nil
			}
		default:
			return s
		}
		s.Remarks = pruneRemarks(s.Remarks, append(slices.Clone(s.Suitable), s.NotSuitable...))

	case SetRemarks:
		if !slices.Contains(s.Suitable, a.SuitabilityID) && !slices.Contains(s.NotSuitable, a.SuitabilityID) {
			return s
		}
		remarks := make(map[int64]string, len(s.Remarks)+1)
		for k, v := range s.Remarks {
			remarks[k] = v
		}
		remarks[a.SuitabilityID] = a.Remarks
		s.Remarks = remarks

	case AddCoordinateRow:
		s.Coordinates = AddCoordinate(s.Coordinates, a.ID)

	case RemoveCoordinateRow:
		s.Coordinates, _ = RemoveCoordinate(s.Coordinates, a.Index)

	case UpdateCoordinateField:
		s.Coordinates, _ = UpdateCoordinate(s.Coordinates, a.Index, a.Field, a.Value)

	case LocationResolved:
		s.Coordinates, _ = ApplyLocation(s.Coordinates, a.EntryID, a.Revision, a.Point)

	case GenerateStarted:
		var ok bool
		if s, ok = transition(s, workflows.PhaseGenerating); ok {
			s.Error = ""
		}

	case GenerateSucceeded:
		var ok bool
		if s, ok = transition(s, workflows.PhaseGenerated); ok {
			s.Plot = a.Plot
			s.Error = ""
		}

	case GenerateFailed:
		// a previous plot survives a failed regeneration
		to := workflows.PhaseEditing
		if s.Plot != nil {
			to = workflows.PhaseGenerated
		}
		var ok bool
		if s, ok = transition(s, to); ok {
			s.Error = a.Message
		}

	case SaveStarted:
		var ok bool
		if s, ok = transition(s, workflows.PhaseSaving); ok {
			s.Error = ""
		}

	case SaveSucceeded:
		s, _ = transition(s, workflows.PhaseGenerated)

	case SaveFailed:
		var ok bool
		if s, ok = transition(s, workflows.PhaseGenerated); ok {
			s.Error = a.Message
		}

	case SetLocationSharing:
		s.ShareLocation = a.Enabled
		if !a.Enabled {
			s.LiveLocation = nil
		}

	case LiveLocation:
		if a.Point == nil {
			s.LiveLocation = nil
		} else {
			p := *a.Point
			s.LiveLocation = &p
		}

	case Reset:
		fresh := NewState(a.FirstEntryID)
		fresh.Farmers = s.Farmers
		fresh.Suitabilities = s.Suitabilities
		return fresh

	case Closed:
		s.Phase = workflows.PhaseClosed
		s.LiveLocation = nil
	}

	return s
}

func pruneRemarks(remarks map[int64]string, keep []int64) map[int64]string {
	out := make(map[int64]string, len(keep))
	for _, id := range keep {
		if r, ok := remarks[id]; ok {
			out[id] = r
		}
	}
	return out
}
