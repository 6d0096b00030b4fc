package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AnalysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

type AnalysisRecord struct {
	ID                uuid.UUID `gorm:"primaryKey;type:uuid"`
	Filename          *string
	PollutionLevel    string  `gorm:"not null"`
	Confidence        float64 `gorm:"not null"`
	DominantColor     string  `gorm:"not null"`
	AvgHue            int
	AvgSaturation     float64
	AvgBrightness     float64
	ContaminationType string
	Metrics           datatypes.JSON `gorm:"type:jsonb"`
	AnalyzedAt        time.Time      `gorm:"not null"`
	CreatedAt         time.Time
}

func (AnalysisRecord) TableName() string {
	return "analyses"
}

func (r *AnalysisRepository) CreateAnalysis(ctx context.Context, record *AnalysisRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *AnalysisRepository) FindAnalyses(ctx context.Context, level *string, from, to *time.Time, limit, offset int) ([]AnalysisRecord, error) {
	query := r.db.WithContext(ctx).Model(&AnalysisRecord{})

	if level != nil {
		query = query.Where("pollution_level = ?", *level)
	}
	if from != nil {
		query = query.Where("analyzed_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("analyzed_at <= ?", *to)
	}

	query = query.Order("analyzed_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var records []AnalysisRecord
	err := query.Find(&records).Error
	return records, err
}

// GetAnalysis returns the record with the given id, or nil when absent.
func (r *AnalysisRepository) GetAnalysis(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error) {
	var record AnalysisRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *AnalysisRepository) DeleteOldAnalyses(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := r.db.WithContext(ctx).
		Where("analyzed_at < ?", cutoff).
		Delete(&AnalysisRecord{})
	return result.RowsAffected, result.Error
}
