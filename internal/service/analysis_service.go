package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	// Register decoders for the supported upload formats.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"oceaneye-service/internal/classifier"
	"oceaneye-service/internal/domain/analysis"
	"oceaneye-service/internal/repository"
	"oceaneye-service/internal/utils"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNotFound          = errors.New("not found")
)

type AnalysisService struct {
	repo        *repository.AnalysisRepository
	allowedExts []string
	log         zerolog.Logger
}

// NewAnalysisService builds the service. repo may be nil, which disables
// the analysis history.
func NewAnalysisService(repo *repository.AnalysisRepository, allowedExts []string, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{
		repo:        repo,
		allowedExts: allowedExts,
		log:         log,
	}
}

// AnalyzeUpload validates and decodes one uploaded image, classifies it,
// and records the verdict in the history when one is configured. A history
// write failure never fails the analysis.
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, filename string, data []byte) (*analysis.Result, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrInvalidInput)
	}
	if !utils.AllowedExtension(filename, s.allowedExts) {
		return nil, fmt.Errorf("%w: use: %s", ErrUnsupportedFormat, strings.Join(s.allowedExts, ", "))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrInvalidInput, err)
	}

	// Classifier precondition: at least one pixel.
	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrInvalidInput)
	}

	report, darkRatio := classifier.ClassifyWithMetrics(img)

	result := &analysis.Result{
		ID:         uuid.New(),
		Filename:   filename,
		AnalyzedAt: time.Now().UTC(),
		Report:     report,
		DarkRatio:  darkRatio,
	}

	s.log.Info().
		Str("analysis_id", result.ID.String()).
		Str("filename", filename).
		Str("format", format).
		Str("pollution_level", string(report.PollutionLevel)).
		Str("dominant_color", report.DominantColor).
		Int("avg_hue", report.AvgHue).
		Float64("confidence", report.Confidence).
		Msg("classified image")

	if s.repo != nil {
		if err := s.saveAnalysis(ctx, result); err != nil {
			s.log.Error().
				Err(err).
				Str("analysis_id", result.ID.String()).
				Msg("failed to save analysis record")
		}
	}

	return result, nil
}

func (s *AnalysisService) saveAnalysis(ctx context.Context, result *analysis.Result) error {
	metrics, err := json.Marshal(map[string]interface{}{
		"avg_rgb":    result.AvgRGB,
		"dark_ratio": result.DarkRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	record := &repository.AnalysisRecord{
		ID:                result.ID,
		PollutionLevel:    string(result.PollutionLevel),
		Confidence:        result.Confidence,
		DominantColor:     result.DominantColor,
		AvgHue:            result.AvgHue,
		AvgSaturation:     result.AvgSaturation,
		AvgBrightness:     result.AvgBrightness,
		ContaminationType: result.ContaminationType,
		Metrics:           datatypes.JSON(metrics),
		AnalyzedAt:        result.AnalyzedAt,
	}
	if result.Filename != "" {
		record.Filename = &result.Filename
	}

	return s.repo.CreateAnalysis(ctx, record)
}

func (s *AnalysisService) FindAnalyses(ctx context.Context, level *string, from, to *string, limit, offset int) ([]AnalysisInfo, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("%w: analysis history is disabled", ErrNotFound)
	}

	var levelFilter *string
	if level != nil && *level != "" {
		normalized := strings.ToUpper(strings.TrimSpace(*level))
		if !validLevel(normalized) {
			return nil, fmt.Errorf("%w: unknown pollution level %q", ErrInvalidInput, *level)
		}
		levelFilter = &normalized
	}

	var fromTime, toTime *time.Time
	if from != nil && *from != "" {
		t, err := time.Parse(time.RFC3339, *from)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid from time format", ErrInvalidInput)
		}
		fromTime = &t
	}
	if to != nil && *to != "" {
		t, err := time.Parse(time.RFC3339, *to)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid to time format", ErrInvalidInput)
		}
		toTime = &t
	}

	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.repo.FindAnalyses(ctx, levelFilter, fromTime, toTime, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to find analyses: %w", err)
	}

	result := make([]AnalysisInfo, 0, len(records))
	for _, r := range records {
		result = append(result, analysisInfo(r))
	}

	return result, nil
}

// GetAnalysis looks up one stored analysis by its id.
func (s *AnalysisService) GetAnalysis(ctx context.Context, id string) (*AnalysisInfo, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid analysis id %q", ErrInvalidInput, id)
	}
	if s.repo == nil {
		return nil, fmt.Errorf("%w: analysis history is disabled", ErrNotFound)
	}

	record, err := s.repo.GetAnalysis(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: analysis %s", ErrNotFound, id)
	}

	info := analysisInfo(*record)
	return &info, nil
}

func analysisInfo(r repository.AnalysisRecord) AnalysisInfo {
	return AnalysisInfo{
		ID:                r.ID,
		Filename:          r.Filename,
		PollutionLevel:    r.PollutionLevel,
		Confidence:        r.Confidence,
		DominantColor:     r.DominantColor,
		AvgHue:            r.AvgHue,
		AvgSaturation:     r.AvgSaturation,
		AvgBrightness:     r.AvgBrightness,
		ContaminationType: r.ContaminationType,
		AnalyzedAt:        r.AnalyzedAt,
	}
}

// CleanupOldAnalyses deletes history records older than the given number
// of days.
func (s *AnalysisService) CleanupOldAnalyses(ctx context.Context, days int) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	deleted, err := s.repo.DeleteOldAnalyses(ctx, days)
	if err != nil {
		s.log.Error().Err(err).Int("days", days).Msg("failed to cleanup old analyses")
		return 0, err
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted_count", deleted).Int("days", days).Msg("cleaned up old analyses")
	}
	return deleted, nil
}

func validLevel(level string) bool {
	switch analysis.Level(level) {
	case analysis.LevelClean, analysis.LevelMild, analysis.LevelModerate,
		analysis.LevelHigh, analysis.LevelSevere, analysis.LevelCritical:
		return true
	}
	return false
}

type AnalysisInfo struct {
	ID                uuid.UUID `json:"id"`
	Filename          *string   `json:"filename,omitempty"`
	PollutionLevel    string    `json:"pollution_level"`
	Confidence        float64   `json:"confidence"`
	DominantColor     string    `json:"dominant_color"`
	AvgHue            int       `json:"avg_hue"`
	AvgSaturation     float64   `json:"avg_saturation"`
	AvgBrightness     float64   `json:"avg_brightness"`
	ContaminationType string    `json:"contamination_type"`
	AnalyzedAt        time.Time `json:"analyzed_at"`
}
