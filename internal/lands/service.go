package lands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// exportLimit caps how many records one export reads.
const exportLimit = 10000

type Service interface {
	Record(ctx context.Context, input RecordInput) (*LandRecord, error)
	Get(ctx context.Context, landID string) (*LandRecord, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Export(ctx context.Context, w io.Writer, search string, format ExportFormat) error
}

type landService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &landService{repo: repo, logger: logger}
}

func (s *landService) Record(ctx context.Context, input RecordInput) (*LandRecord, error) {
	sub := input.Submission
	if sub == nil {
		return nil, fmt.Errorf("record land %s: missing submission", input.LandID)
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission: %w", err)
	}

	ids := make([]int64, 0, len(sub.LandSuitability))
	for _, r := range sub.LandSuitability {
		ids = append(ids, r.LandSuitabilityID)
	}

	record := &LandRecord{
		LandID:          input.LandID,
		FarmerID:        sub.FarmerID,
		FarmerName:      input.FarmerName,
		LandName:        sub.LandName,
		OwnershipType:   sub.OwnershipType,
		AreaAcres:       sub.Area,
		ImageURL:        input.ImageURL,
		SuitabilityKind: string(input.SuitabilityKind),
		SuitabilityIDs:  ids,
		Payload:         datatypes.JSON(payload),
		MapArchiveKey:   input.MapArchiveKey,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Land recorded",
		zap.String("land_id", record.LandID),
		zap.String("land_name", record.LandName))
	return record, nil
}

func (s *landService) Get(ctx context.Context, landID string) (*LandRecord, error) {
	return s.repo.GetByLandID(ctx, landID)
}

func (s *landService) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter = filter.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []LandRecord{}
	}
	return &ListResult{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *landService) Export(ctx context.Context, w io.Writer, search string, format ExportFormat) error {
	filter := ListFilter{Search: search, Page: 1}.Normalize()
	filter.PageSize = exportLimit

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return err
	}
	if total > int64(len(items)) {
		s.logger.Warn("Land export truncated",
			zap.Int64("total", total),
			zap.Int("exported", len(items)))
	}

	switch format {
	case FormatCSV:
		return WriteCSV(w, items)
	default:
		return WriteWorkbook(w, items)
	}
}
