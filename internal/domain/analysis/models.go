package analysis

import (
	"time"

	"github.com/google/uuid"
)

// Level is the pollution verdict for one image.
type Level string

const (
	LevelClean    Level = "CLEAN"
	LevelMild     Level = "MILD"
	LevelModerate Level = "MODERATE"
	LevelHigh     Level = "HIGH"
	LevelSevere   Level = "SEVERE"
	LevelCritical Level = "CRITICAL"
)

// Report is the full classification verdict for one image. Numeric fields
// always reflect the computed statistics; level, confidence, contamination
// type and the prose strings are fixed per level.
type Report struct {
	PollutionLevel    Level   `json:"pollution_level"`
	Confidence        float64 `json:"confidence"`
	DominantColor     string  `json:"dominant_color"`
	AvgHue            int     `json:"avg_hue"`
	AvgSaturation     float64 `json:"avg_saturation"`
	AvgBrightness     float64 `json:"avg_brightness"`
	ContaminationType string  `json:"contamination_type"`
	Description       string  `json:"description"`
	Recommendation    string  `json:"recommendation"`
	AvgRGB            [3]int  `json:"avg_rgb"`
}

// Result wraps a Report with the server-assigned metadata for one upload.
type Result struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename,omitempty"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Report

	// DarkRatio is recorded in the analysis history; it is not part of
	// the response body.
	DarkRatio float64 `json:"-"`
}
