package plots

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agri-shield/plot-portal/plot-portal-backend/internal/httpx"
	"agri-shield/plot-portal/plot-portal-backend/internal/lams"
	"agri-shield/plot-portal/plot-portal-backend/internal/lands"
	"agri-shield/plot-portal/plot-portal-backend/internal/landmap"
	"agri-shield/plot-portal/plot-portal-backend/internal/notifications"
	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
	"agri-shield/plot-portal/plot-portal-backend/pkg/workflows"
)

// User-facing messages.
const (
	MsgLandNameRequired     = "Please enter a land name"
	MsgFarmerRequired       = "Please select a farmer"
	MsgUnknownFarmer        = "The selected farmer does not exist"
	MsgMeasurementsInvalid  = "Please enter valid SW to SE and SW to NW measurements greater than 0"
	MsgCoordinatesInvalid   = "Please enter valid coordinates"
	MsgPlotRequired         = "Please generate the plot first"
	MsgUnknownSuitability   = "Unknown land suitability option"
	MsgRemarksNotSelected   = "Select the land suitability option before adding remarks"
	MsgPlotGenerated        = "Plot generated successfully"
	MsgLandSaved            = "Land information saved successfully"
	MsgLocationCaptured     = "Location captured"
	MsgLocationUnsupported  = "Geolocation is not supported by this device"
	MsgLocationFailed       = "Unable to retrieve your location"
	MsgReferenceDataMissing = "Failed to load farmers or land suitability options"
)

var (
	ErrSessionClosed   = errors.New("plot session is closed")
	ErrBusy            = errors.New("another request is in progress for this plot")
	ErrCoordinateIndex = errors.New("coordinate index out of range")
)

// ValidationError blocks an action before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamError is a failed call to the boundary or lams services. Message is
// what the user sees.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// BoundaryResolver computes plot geometry from a raw boundary.
type BoundaryResolver interface {
	Generate(ctx context.Context, landArea []geospatial.Point) (*landmap.Result, error)
}

// LandsGateway reads reference data and persists submissions.
type LandsGateway interface {
	ListFarmers(ctx context.Context) ([]lams.FarmerProfile, error)
	ListSuitabilities(ctx context.Context) ([]lams.LandSuitability, error)
	SubmitLand(ctx context.Context, submission *lams.LandSubmission) (string, error)
}

// Notifier reaches the clients attached to a session.
type Notifier interface {
	Notify(sessionID uuid.UUID, n notifications.Notification)
	PublishLocation(sessionID uuid.UUID, p geospatial.Point)
	ConnectionCount(sessionID uuid.UUID) int
	CloseSession(sessionID uuid.UUID)
}

// LandRegister keeps the local copy of saved lands.
type LandRegister interface {
	Record(ctx context.Context, input lands.RecordInput) (*lands.LandRecord, error)
}

// MapArchiver stores the map of a saved land and returns its key.
type MapArchiver interface {
	ArchiveMap(ctx context.Context, landID string, kml []byte) (string, error)
}

type Service interface {
	Open(ctx context.Context) (*View, error)
	Get(id uuid.UUID) (*View, error)
	Close(id uuid.UUID) error

	UpdateDetails(id uuid.UUID, input DetailsInput) (*View, error)
	UpdateMeasurements(id uuid.UUID, input MeasurementsInput) (*View, error)
	SelectSuitability(id uuid.UUID, kind lams.SuitabilityKind, ids []int64) (*View, error)
	SetRemarks(id uuid.UUID, suitabilityID int64, remarks string) (*View, error)

	AddCoordinate(id uuid.UUID) (*View, error)
	UpdateCoordinate(id uuid.UUID, index int, input CoordinateInput) (*View, error)
	RemoveCoordinate(id uuid.UUID, index int) (*View, error)
	RequestLocation(id uuid.UUID, index int) error

	Generate(ctx context.Context, id uuid.UUID) (*View, error)
	Save(ctx context.Context, id uuid.UUID) (*SaveResult, error)

	SetLocationSharing(id uuid.UUID, enabled bool) (*View, error)
	PushPosition(id uuid.UUID, p geospatial.Point)

	MapGeoJSON(id uuid.UUID) ([]byte, error)
	MapKML(id uuid.UUID) ([]byte, error)
	PlotSheet(id uuid.UUID) ([]byte, error)

	Sweep(now time.Time) int
	Shutdown()
}

// DetailsInput carries the form fields; nil fields are left as they are.
// A farmer_id of 0 clears the selection.
type DetailsInput struct {
	LandName      *string `json:"land_name"`
	FarmerID      *int64  `json:"farmer_id"`
	OwnershipType *string `json:"ownership_type"`
}

// MeasurementsInput carries the manual sides as typed.
type MeasurementsInput struct {
	SWSE *string `json:"sw_se"`
	SWNW *string `json:"sw_nw"`
}

// CoordinateInput edits one row; nil fields are left as they are.
type CoordinateInput struct {
	Lat *string `json:"lat"`
	Lng *string `json:"lng"`
}

// Options tune session lifetime and geolocation.
type Options struct {
	IdleTimeout   time.Duration
	LocateTimeout time.Duration
	FixMaxAge     time.Duration
}

// Dependencies are the collaborators of the plot service. Register, Archiver
// and Deriver are optional.
type Dependencies struct {
	Resolver BoundaryResolver
	Gateway  LandsGateway
	Notifier Notifier
	Register LandRegister
	Archiver MapArchiver
	Deriver  MeasurementDeriver
}

type plotService struct {
	deps   Dependencies
	opts   Options
	store  *SessionStore
	logger *zap.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewService(deps Dependencies, opts Options, logger *zap.Logger) Service {
	if deps.Deriver == nil {
		deps.Deriver = RandomDeriver{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &plotService{
		deps:   deps,
		opts:   opts,
		store:  NewSessionStore(),
		logger: logger,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *plotService) Open(ctx context.Context) (*View, error) {
	id := uuid.New()
	sess := &session{
		id:         id,
		state:      NewState(uuid.New()),
		lastActive: s.now(),
	}
	sess.feed = NewDeviceFeed(func() bool {
		return s.deps.Notifier.ConnectionCount(id) > 0
	}, s.opts.FixMaxAge)

	opened := Opened{}
	farmers, err := s.deps.Gateway.ListFarmers(ctx)
	if err != nil {
		s.logger.Warn("Failed to load farmers", zap.String("session_id", id.String()), zap.Error(err))
		opened.Error = MsgReferenceDataMissing
	}
	suitabilities, err := s.deps.Gateway.ListSuitabilities(ctx)
	if err != nil {
		s.logger.Warn("Failed to load land suitability", zap.String("session_id", id.String()), zap.Error(err))
		opened.Error = MsgReferenceDataMissing
	}
	opened.Farmers = farmers
	opened.Suitabilities = suitabilities

	sess.apply(opened, s.now())
	s.store.put(sess)

	s.logger.Info("Plot session opened",
		zap.String("session_id", id.String()),
		zap.Int("farmers", len(farmers)),
		zap.Int("suitabilities", len(suitabilities)))

	return sess.view(), nil
}

func (s *plotService) Get(id uuid.UUID) (*View, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (s *plotService) Close(id uuid.UUID) error {
	sess, err := s.store.get(id)
	if err != nil {
		return err
	}
	s.closeSession(sess, "closed by user")
	return nil
}

func (s *plotService) UpdateDetails(id uuid.UUID, input DetailsInput) (*View, error) {
	return s.mutate(id, func(sess *session) error {
		if input.FarmerID != nil && *input.FarmerID != 0 && len(sess.state.Farmers) > 0 {
			known := slices.ContainsFunc(sess.state.Farmers, func(f lams.FarmerProfile) bool {
				return f.UserID == *input.FarmerID
			})
			if !known {
				return &ValidationError{Message: MsgUnknownFarmer}
			}
		}

		if input.LandName != nil {
			s.apply(sess, SetLandName{Name: *input.LandName})
		}
		if input.FarmerID != nil {
			if *input.FarmerID == 0 {
				s.apply(sess, SelectFarmer{})
			} else {
				s.apply(sess, SelectFarmer{FarmerID: input.FarmerID})
			}
		}
		if input.OwnershipType != nil {
			s.apply(sess, SetOwnership{OwnershipType: *input.OwnershipType})
		}
		return nil
	})
}

func (s *plotService) UpdateMeasurements(id uuid.UUID, input MeasurementsInput) (*View, error) {
	return s.mutate(id, func(sess *session) error {
		// derived sides are only redrawn when the manual value changes
		if input.SWSE != nil && *input.SWSE != sess.state.Measurements.SWSE {
			s.apply(sess, SetMeasurement{Side: SideSWSE, Value: *input.SWSE, Derived: deriveSide(s.deps.Deriver, *input.SWSE)})
		}
		if input.SWNW != nil && *input.SWNW != sess.state.Measurements.SWNW {
			s.apply(sess, SetMeasurement{Side: SideSWNW, Value: *input.SWNW, Derived: deriveSide(s.deps.Deriver, *input.SWNW)})
		}
		return nil
	})
}

func (s *plotService) SelectSuitability(id uuid.UUID, kind lams.SuitabilityKind, ids []int64) (*View, error) {
	return s.mutate(id, func(sess *session) error {
		unique := make([]int64, 0, len(ids))
		for _, sid := range ids {
			if !slices.Contains(unique, sid) {
				unique = append(unique, sid)
			}
		}

		if len(sess.state.Suitabilities) > 0 {
			for _, sid := range unique {
				ok := slices.ContainsFunc(sess.state.Suitabilities, func(ls lams.LandSuitability) bool {
					return ls.ID == sid && ls.Kind() == kind
				})
				if !ok {
					return &ValidationError{Message: MsgUnknownSuitability}
				}
			}
		}

		s.apply(sess, SelectSuitability{Kind: kind, IDs: unique})
		return nil
	})
}

func (s *plotService) SetRemarks(id uuid.UUID, suitabilityID int64, remarks string) (*View, error) {
	return s.mutate(id, func(sess *session) error {
		if !slices.Contains(sess.state.Suitable, suitabilityID) && !slices.Contains(sess.state.NotSuitable, suitabilityID) {
			return &ValidationError{Message: MsgRemarksNotSelected}
		}
		s.apply(sess, SetRemarks{SuitabilityID: suitabilityID, Remarks: remarks})
		return nil
	})
}

func (s *plotService) AddCoordinate(id uuid.UUID) (*View, error) {
	return s.mutate(id, func(sess *session) error {
		s.apply(sess, AddCoordinateRow{ID: uuid.New()})
		return nil
	})
}

func (s *plotService) UpdateCoordinate(id uuid.UUID, index int, input CoordinateInput) (*View, error) {
	return s.mutate(id, func(sess *session) error {
		if index < 0 || index >= len(sess.state.Coordinates) {
			return ErrCoordinateIndex
		}
		if input.Lat != nil {
			s.apply(sess, UpdateCoordinateField{Index: index, Field: FieldLat, Value: *input.Lat})
		}
		if input.Lng != nil {
			s.apply(sess, UpdateCoordinateField{Index: index, Field: FieldLng, Value: *input.Lng})
		}
		return nil
	})
}

// RemoveCoordinate keeps the last remaining row.
func (s *plotService) RemoveCoordinate(id uuid.UUID, index int) (*View, error) {
	return s.mutate(id, func(sess *session) error {
		if index < 0 || index >= len(sess.state.Coordinates) {
			return ErrCoordinateIndex
		}
		s.apply(sess, RemoveCoordinateRow{Index: index})
		return nil
	})
}

// RequestLocation asks the device for a fix in the background. The fix only
// lands if the row still exists unchanged when it arrives.
func (s *plotService) RequestLocation(id uuid.UUID, index int) error {
	sess, err := s.store.get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return ErrSessionClosed
	}
	if index < 0 || index >= len(sess.state.Coordinates) {
		sess.mu.Unlock()
		return ErrCoordinateIndex
	}
	entry := sess.state.Coordinates[index]
	sess.lastActive = s.now()
	sess.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(s.ctx, s.opts.LocateTimeout)
		defer cancel()

		p, err := sess.feed.CurrentPosition(ctx)
		if err != nil {
			s.logger.Info("Location request failed",
				zap.String("session_id", id.String()),
				zap.Error(err))
			s.notify(id, notifications.LevelError, locationMessage(err))
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()
		if sess.closed {
			return
		}
		i := IndexOf(sess.state.Coordinates, entry.ID)
		if i < 0 || sess.state.Coordinates[i].Revision != entry.Revision {
			s.logger.Debug("Dropping stale location",
				zap.String("session_id", id.String()),
				zap.String("entry_id", entry.ID.String()))
			return
		}
		s.apply(sess, LocationResolved{EntryID: entry.ID, Revision: entry.Revision, Point: p})
		s.notify(id, notifications.LevelSuccess, fmt.Sprintf("%s for coordinate %d", MsgLocationCaptured, i+1))
	}()

	return nil
}

func locationMessage(err error) string {
	if errors.Is(err, ErrLocationUnsupported) {
		return MsgLocationUnsupported
	}
	return MsgLocationFailed
}

func checkDetails(st State) error {
	if st.FarmerID == nil {
		return &ValidationError{Message: MsgFarmerRequired}
	}
	if strings.TrimSpace(st.LandName) == "" {
		return &ValidationError{Message: MsgLandNameRequired}
	}
	if _, err := ParseMeasurement(st.Measurements.SWSE); err != nil {
		return &ValidationError{Message: MsgMeasurementsInvalid}
	}
	if _, err := ParseMeasurement(st.Measurements.SWNW); err != nil {
		return &ValidationError{Message: MsgMeasurementsInvalid}
	}
	return nil
}

// CheckGenerate returns the first precondition that blocks plot generation.
func CheckGenerate(st State) error {
	if err := checkDetails(st); err != nil {
		return err
	}
	if !ValidateCoordinates(st.Coordinates) {
		return &ValidationError{Message: MsgCoordinatesInvalid}
	}
	return nil
}

// CheckSave returns the first precondition that blocks saving.
func CheckSave(st State) error {
	if err := checkDetails(st); err != nil {
		return err
	}
	if st.Plot == nil {
		return &ValidationError{Message: MsgPlotRequired}
	}
	return nil
}

func (s *plotService) Generate(ctx context.Context, id uuid.UUID) (*View, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if err := CheckGenerate(sess.state); err != nil {
		sess.mu.Unlock()
		s.notifyValidation(id, err)
		return nil, err
	}
	if !phases.CanTransition(sess.state.Phase, workflows.PhaseGenerating) {
		sess.mu.Unlock()
		return nil, ErrBusy
	}
	points, err := CoordinatePoints(sess.state.Coordinates)
	if err != nil {
		sess.mu.Unlock()
		return nil, &ValidationError{Message: MsgCoordinatesInvalid}
	}
	landName := sess.state.LandName
	s.apply(sess, GenerateStarted{})
	sess.mu.Unlock()

	result, err := s.deps.Resolver.Generate(ctx, points)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		s.logger.Info("Discarding plot for closed session", zap.String("session_id", id.String()))
		return nil, ErrSessionClosed
	}

	if err != nil {
		msg := httpx.UserMessage(err, landmap.GenericFailure)
		s.apply(sess, GenerateFailed{Message: msg})
		s.notify(id, notifications.LevelError, msg)
		return nil, &UpstreamError{Message: msg, Err: err}
	}

	s.apply(sess, GenerateSucceeded{Plot: NewPlotData(result, points, landName)})
	s.notify(id, notifications.LevelSuccess, MsgPlotGenerated)
	s.syncTracking(sess)

	return sess.view(), nil
}

func (s *plotService) Save(ctx context.Context, id uuid.UUID) (*SaveResult, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if err := CheckSave(sess.state); err != nil {
		sess.mu.Unlock()
		s.notifyValidation(id, err)
		return nil, err
	}
	if !phases.CanTransition(sess.state.Phase, workflows.PhaseSaving) {
		sess.mu.Unlock()
		return nil, ErrBusy
	}
	snapshot := sess.state
	submission := BuildSubmission(snapshot)
	s.apply(sess, SaveStarted{})
	sess.mu.Unlock()

	landID, err := s.deps.Gateway.SubmitLand(ctx, submission)
	if err != nil {
		msg := httpx.UserMessage(err, lams.GenericFailure)
		sess.mu.Lock()
		if !sess.closed {
			s.apply(sess, SaveFailed{Message: msg})
		}
		sess.mu.Unlock()
		s.notify(id, notifications.LevelError, msg)
		return nil, &UpstreamError{Message: msg, Err: err}
	}

	// the land exists upstream now, so it is recorded even if the session
	// was closed in the meantime
	s.recordLand(ctx, landID, snapshot, submission)

	sess.mu.Lock()
	if !sess.closed {
		s.apply(sess, SaveSucceeded{})
		s.apply(sess, Reset{FirstEntryID: uuid.New()})
	}
	sess.mu.Unlock()

	s.notify(id, notifications.LevelSuccess, MsgLandSaved)
	s.closeSession(sess, "saved")

	return &SaveResult{LandID: landID}, nil
}

func (s *plotService) recordLand(ctx context.Context, landID string, st State, submission *lams.LandSubmission) {
	var archiveKey string
	if s.deps.Archiver != nil {
		doc, err := RenderKML(st, st.LandName)
		if err == nil {
			archiveKey, err = s.deps.Archiver.ArchiveMap(ctx, landID, doc)
		}
		if err != nil {
			s.logger.Warn("Failed to archive land map", zap.String("land_id", landID), zap.Error(err))
		}
	}

	if s.deps.Register == nil {
		return
	}
	kind, _ := st.SelectedSuitability()
	var imageURL string
	if st.Plot != nil {
		imageURL = st.Plot.ImageURL
	}
	_, err := s.deps.Register.Record(ctx, lands.RecordInput{
		LandID:          landID,
		FarmerName:      st.FarmerName(),
		ImageURL:        imageURL,
		SuitabilityKind: kind,
		MapArchiveKey:   archiveKey,
		Submission:      submission,
	})
	if err != nil {
		s.logger.Error("Failed to record saved land", zap.String("land_id", landID), zap.Error(err))
	}
}

func (s *plotService) SetLocationSharing(id uuid.UUID, enabled bool) (*View, error) {
	return s.mutate(id, func(sess *session) error {
		s.apply(sess, SetLocationSharing{Enabled: enabled})
		s.syncTracking(sess)
		return nil
	})
}

// syncTracking holds a tracker exactly while sharing is on and a plot is shown.
// Callers hold sess.mu.
func (s *plotService) syncTracking(sess *session) {
	want := !sess.closed && sess.state.ShareLocation && sess.state.Plot != nil

	switch {
	case want && sess.tracker == nil:
		tracker, err := sess.feed.Watch(func(p geospatial.Point) {
			s.onLiveFix(sess, p)
		})
		if err != nil {
			s.notify(sess.id, notifications.LevelWarning, locationMessage(err))
			s.apply(sess, SetLocationSharing{Enabled: false})
			return
		}
		sess.tracker = tracker
		if p, ok := sess.feed.Latest(); ok {
			s.apply(sess, LiveLocation{Point: &p})
			s.deps.Notifier.PublishLocation(sess.id, p)
		}
		s.logger.Debug("Location tracking started", zap.String("session_id", sess.id.String()))

	case !want && sess.tracker != nil:
		sess.tracker.Close()
		sess.tracker = nil
		s.apply(sess, LiveLocation{})
		s.logger.Debug("Location tracking stopped", zap.String("session_id", sess.id.String()))
	}
}

func (s *plotService) onLiveFix(sess *session, p geospatial.Point) {
	sess.mu.Lock()
	if sess.closed || sess.tracker == nil {
		sess.mu.Unlock()
		return
	}
	s.apply(sess, LiveLocation{Point: &p})
	sess.mu.Unlock()

	s.deps.Notifier.PublishLocation(sess.id, p)
}

func (s *plotService) PushPosition(id uuid.UUID, p geospatial.Point) {
	sess, err := s.store.get(id)
	if err != nil {
		s.logger.Debug("Position for unknown session", zap.String("session_id", id.String()))
		return
	}
	sess.feed.Push(p)
}

func (s *plotService) MapGeoJSON(id uuid.UUID) ([]byte, error) {
	st, err := s.snapshot(id)
	if err != nil {
		return nil, err
	}
	return RenderGeoJSON(st)
}

func (s *plotService) MapKML(id uuid.UUID) ([]byte, error) {
	st, err := s.snapshot(id)
	if err != nil {
		return nil, err
	}
	title := st.LandName
	if title == "" {
		title = "Land plot"
	}
	return RenderKML(st, title)
}

func (s *plotService) PlotSheet(id uuid.UUID) ([]byte, error) {
	st, err := s.snapshot(id)
	if err != nil {
		return nil, err
	}
	return RenderPlotSheet(st)
}

// Sweep closes sessions idle for longer than the idle timeout.
func (s *plotService) Sweep(now time.Time) int {
	swept := 0
	for _, sess := range s.store.all() {
		sess.mu.Lock()
		idle := now.Sub(sess.lastActive) > s.opts.IdleTimeout
		sess.mu.Unlock()
		if idle {
			s.closeSession(sess, "idle")
			swept++
		}
	}
	return swept
}

// Shutdown stops pending location requests and closes every session.
func (s *plotService) Shutdown() {
	s.cancel()
	s.wg.Wait()
	for _, sess := range s.store.all() {
		s.closeSession(sess, "shutdown")
	}
}

func (s *plotService) closeSession(sess *session, reason string) {
	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return
	}
	sess.closed = true
	if sess.tracker != nil {
		sess.tracker.Close()
		sess.tracker = nil
	}
	s.apply(sess, Closed{})
	sess.mu.Unlock()

	s.store.remove(sess.id)
	s.deps.Notifier.CloseSession(sess.id)

	s.logger.Info("Plot session closed",
		zap.String("session_id", sess.id.String()),
		zap.String("reason", reason))
}

func (s *plotService) apply(sess *session, action Action) {
	sess.apply(action, s.now())
	s.logger.Debug("Plot action",
		zap.String("session_id", sess.id.String()),
		zap.String("action", action.Type()),
		zap.String("phase", string(sess.state.Phase)))
}

// mutate runs fn under the session lock and returns the resulting view.
func (s *plotService) mutate(id uuid.UUID, fn func(sess *session) error) (*View, error) {
	sess, err := s.store.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return nil, ErrSessionClosed
	}
	if err := fn(sess); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			s.notify(id, notifications.LevelError, vErr.Message)
		}
		return nil, err
	}
	return sess.view(), nil
}

func (s *plotService) snapshot(id uuid.UUID) (State, error) {
	v, err := s.Get(id)
	if err != nil {
		return State{}, err
	}
	return v.State, nil
}

func (s *plotService) notify(id uuid.UUID, level notifications.Level, message string) {
	s.deps.Notifier.Notify(id, notifications.New(level, message))
}

func (s *plotService) notifyValidation(id uuid.UUID, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		s.notify(id, notifications.LevelError, vErr.Message)
	}
}
