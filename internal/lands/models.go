package lands

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"agri-shield/plot-portal/plot-portal-backend/internal/lams"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// LandRecord is the local register entry for a land accepted by lams
type LandRecord struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LandID          string         `gorm:"uniqueIndex;not null" json:"land_id"`
	FarmerID        int64          `gorm:"index" json:"farmer_id"`
	FarmerName      string         `json:"farmer_name"`
	LandName        string         `gorm:"not null;index" json:"land_name"`
	OwnershipType   string         `json:"ownership_type"`
	AreaAcres       *float64       `json:"area_acres"`
	ImageURL        string         `json:"image_url"`
	SuitabilityKind string         `json:"suitability_kind"`
	SuitabilityIDs  pq.Int64Array  `gorm:"type:bigint[]" json:"suitability_ids"`
	Payload         datatypes.JSON `json:"payload"` // submitted body
	MapArchiveKey   string         `json:"map_archive_key,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (LandRecord) TableName() string {
	return "land_records"
}

// RecordInput is what the plot dialog hands over after a successful save
type RecordInput struct {
	LandID          string
	FarmerName      string
	ImageURL        string
	SuitabilityKind lams.SuitabilityKind
	MapArchiveKey   string
	Submission      *lams.LandSubmission
}

// ListFilter selects a page of saved lands
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Normalize applies paging defaults and bounds.
func (f ListFilter) Normalize() ListFilter {
	f.Search = strings.TrimSpace(f.Search)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Offset is the row offset of the page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// ListResult is one page of saved lands
type ListResult struct {
	Items    []LandRecord `json:"items"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}
