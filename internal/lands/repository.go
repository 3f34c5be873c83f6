package lands

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrLandNotFound = errors.New("land not found")

type Repository interface {
	Create(ctx context.Context, record *LandRecord) error
	GetByLandID(ctx context.Context, landID string) (*LandRecord, error)
	List(ctx context.Context, filter ListFilter) ([]LandRecord, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// AutoMigrate creates or updates the land_records table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&LandRecord{})
}

func (r *gormRepository) Create(ctx context.Context, record *LandRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create land record: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByLandID(ctx context.Context, landID string) (*LandRecord, error) {
	var record LandRecord
	err := r.db.WithContext(ctx).Where("land_id = ?", landID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get land record: %w", err)
	}
	return &record, nil
}

func (r *gormRepository) List(ctx context.Context, filter ListFilter) ([]LandRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&LandRecord{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("land_name ILIKE ? OR farmer_name ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count land records: %w", err)
	}

	var records []LandRecord
	err := query.Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list land records: %w", err)
	}
	return records, total, nil
}
