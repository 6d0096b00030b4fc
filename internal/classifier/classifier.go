// Package classifier turns a decoded ocean-water photograph into a
// pollution verdict using aggregate color statistics and an ordered
// rule table. It is pure and stateless: safe for concurrent use as long
// as each call owns its input image.
package classifier

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"oceaneye-service/internal/domain/analysis"
)

const (
	// sampleSize is the fixed resample grid; cost is O(1) in the source
	// image size after the resize.
	sampleSize = 200

	// validThreshold marks near-pure-black pixels as letterboxing or
	// background rather than water.
	validThreshold = 10

	// darkThreshold is the per-channel cutoff for the dark-pixel ratio.
	darkThreshold = 50
)

// colorStats are the aggregate statistics one verdict is derived from.
type colorStats struct {
	avgR, avgG, avgB int
	hueDeg           int
	saturation       float64
	brightness       float64
	darkRatio        float64
	redDominant      bool
	brownLike        bool
}

type rule struct {
	match func(colorStats) bool
	level analysis.Level
}

// rules is evaluated top to bottom, first match wins. The thresholds are
// arbitrary tuning constants; do not simplify the overlapping conditions.
var rules = []rule{
	{
		level: analysis.LevelCritical,
		match: func(s colorStats) bool {
			return s.darkRatio > 0.35 || (s.brightness < 0.2 && s.saturation > 0.1)
		},
	},
	{
		level: analysis.LevelSevere,
		match: func(s colorStats) bool {
			return s.redDominant || s.hueDeg > 345 || s.hueDeg < 15
		},
	},
	{
		level: analysis.LevelHigh,
		match: func(s colorStats) bool {
			return s.brownLike || (s.hueDeg > 25 && s.hueDeg < 50 && s.saturation > 0.25)
		},
	},
	{
		level: analysis.LevelModerate,
		match: func(s colorStats) bool {
			return s.hueDeg > 55 && s.hueDeg < 100 && s.saturation > 0.3
		},
	},
	{
		level: analysis.LevelMild,
		match: func(s colorStats) bool {
			return s.hueDeg > 100 && s.hueDeg < 160 && s.saturation > 0.2
		},
	},
	{
		level: analysis.LevelClean,
		match: func(colorStats) bool { return true },
	},
}

type levelDetail struct {
	contamination  string
	description    string
	recommendation string
	confidence     float64
}

var levelDetails = map[analysis.Level]levelDetail{
	analysis.LevelCritical: {
		contamination:  "Oil Spill / Chemical Dumping",
		description:    "Critical pollution detected. Extremely dark water indicates oil spill or heavy chemical contamination. Immediate intervention required.",
		recommendation: "Alert Coast Guard & Environmental Agencies Immediately",
		confidence:     0.90,
	},
	analysis.LevelSevere: {
		contamination:  "Red Tide / Toxic Algal Bloom",
		description:    "Severe pollution detected. Red-tinted water indicates harmful algal bloom (Red Tide) — toxic to marine life and humans.",
		recommendation: "Avoid water contact. Notify environmental protection agencies.",
		confidence:     0.87,
	},
	analysis.LevelHigh: {
		contamination:  "Sewage / Industrial Sediment",
		description:    "High pollution detected. Brown/murky water suggests heavy sediment load, sewage discharge, or industrial waste runoff.",
		recommendation: "Conduct water sampling. Report to water authority.",
		confidence:     0.82,
	},
	analysis.LevelModerate: {
		contamination:  "Eutrophication (Nutrient Overload)",
		description:    "Moderate pollution. Yellow-green color indicates eutrophication from agricultural runoff or sewage — reduces oxygen in water.",
		recommendation: "Monitor regularly. Reduce nutrient discharge upstream.",
		confidence:     0.80,
	},
	analysis.LevelMild: {
		contamination:  "Algal Growth / Chlorophyll Increase",
		description:    "Mild pollution detected. Green tint indicates early algal growth caused by excess nutrients. Still manageable.",
		recommendation: "Schedule monitoring. Investigate nearby discharge points.",
		confidence:     0.78,
	},
	analysis.LevelClean: {
		contamination:  "None Detected",
		description:    "Water appears healthy. Clear blue color indicates good water quality with normal oxygen levels and low contamination.",
		recommendation: "Continue regular environmental monitoring.",
		confidence:     0.88,
	},
}

// Classify computes color statistics for img and maps them through the
// rule table into a pollution verdict. Precondition: img is a decoded
// bitmap of at least 1x1 pixels; callers must reject empty images.
func Classify(img image.Image) analysis.Report {
	report, _ := classify(img)
	return report
}

// ClassifyWithMetrics returns the verdict together with the dark-pixel
// ratio, which the analysis history stores alongside the verdict but which
// is not part of the response body.
func ClassifyWithMetrics(img image.Image) (analysis.Report, float64) {
	return classify(img)
}

func classify(img image.Image) (analysis.Report, float64) {
	stats := computeStats(img)

	level := analysis.LevelClean
	for _, r := range rules {
		if r.match(stats) {
			level = r.level
			break
		}
	}
	detail := levelDetails[level]

	return analysis.Report{
		PollutionLevel:    level,
		Confidence:        detail.confidence,
		DominantColor:     fmt.Sprintf("#%02x%02x%02x", stats.avgR, stats.avgG, stats.avgB),
		AvgHue:            stats.hueDeg,
		AvgSaturation:     stats.saturation,
		AvgBrightness:     stats.brightness,
		ContaminationType: detail.contamination,
		Description:       detail.description,
		Recommendation:    detail.recommendation,
		AvgRGB:            [3]int{stats.avgR, stats.avgG, stats.avgB},
	}, stats.darkRatio
}

func computeStats(img image.Image) colorStats {
	// Lanczos keeps hue averaging free of aliasing artifacts; alpha and
	// palette information are dropped by the NRGBA conversion.
	resampled := imaging.Resize(img, sampleSize, sampleSize, imaging.Lanczos)

	var (
		sumR, sumG, sumB int64
		validCount       int64
		darkCount        int64
	)
	total := int64(sampleSize * sampleSize)

	for i := 0; i < len(resampled.Pix); i += 4 {
		r := int64(resampled.Pix[i])
		g := int64(resampled.Pix[i+1])
		b := int64(resampled.Pix[i+2])

		if r > validThreshold || g > validThreshold || b > validThreshold {
			sumR += r
			sumG += g
			sumB += b
			validCount++
		}
		if r < darkThreshold && g < darkThreshold && b < darkThreshold {
			darkCount++
		}
	}

	// A fully black frame has no valid pixels; fall back to averaging
	// everything so the division below stays defined.
	if validCount == 0 {
		for i := 0; i < len(resampled.Pix); i += 4 {
			sumR += int64(resampled.Pix[i])
			sumG += int64(resampled.Pix[i+1])
			sumB += int64(resampled.Pix[i+2])
		}
		validCount = total
	}

	avgR := int(sumR / validCount)
	avgG := int(sumG / validCount)
	avgB := int(sumB / validCount)

	h, s, v := rgbToHSV(avgR, avgG, avgB)

	return colorStats{
		avgR:       avgR,
		avgG:       avgG,
		avgB:       avgB,
		hueDeg:     int(math.Round(h)),
		saturation: round3(s),
		brightness: round3(v),
		darkRatio:  float64(darkCount) / float64(total),
		redDominant: avgR > avgG+40 && avgR > avgB+40,
		brownLike: avgR > 100 && avgG > 60 && avgB < 80 &&
			abs(avgR-avgG) < 80 && avgR > avgB,
	}
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
