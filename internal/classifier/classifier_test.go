package classifier

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"oceaneye-service/internal/domain/analysis"
)

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestClassify_CleanWater(t *testing.T) {
	img := uniformImage(64, 64, color.NRGBA{R: 100, G: 150, B: 200, A: 255})

	report := Classify(img)

	require.Equal(t, analysis.LevelClean, report.PollutionLevel)
	require.Equal(t, 0.88, report.Confidence)
	require.Equal(t, "None Detected", report.ContaminationType)
	require.Equal(t, "#6496c8", report.DominantColor)
	require.Equal(t, [3]int{100, 150, 200}, report.AvgRGB)
	require.Equal(t, 210, report.AvgHue)
	require.Equal(t, 0.5, report.AvgSaturation)
	require.Equal(t, 0.784, report.AvgBrightness)
}

func TestClassify_PureRedIsRedTide(t *testing.T) {
	img := uniformImage(64, 64, color.NRGBA{R: 255, A: 255})

	report := Classify(img)

	require.Equal(t, analysis.LevelSevere, report.PollutionLevel)
	require.Equal(t, 0.87, report.Confidence)
	require.Equal(t, "Red Tide / Toxic Algal Bloom", report.ContaminationType)
	require.Equal(t, 0, report.AvgHue)
}

func TestClassify_AllBlackFallsBackToAllPixels(t *testing.T) {
	img := uniformImage(64, 64, color.NRGBA{A: 255})

	report := Classify(img)

	require.Equal(t, analysis.LevelCritical, report.PollutionLevel)
	require.Equal(t, 0.90, report.Confidence)
	require.Equal(t, "Oil Spill / Chemical Dumping", report.ContaminationType)
	require.Equal(t, [3]int{0, 0, 0}, report.AvgRGB)
	require.Equal(t, "#000000", report.DominantColor)
}

// (140,90,50) satisfies the literal red-dominance formula: 140 > 90+40 and
// 140 > 50+40 both hold, so the verdict is SEVERE, not HIGH, even though the
// color reads as brown.
func TestClassify_RedDominantBrownTone(t *testing.T) {
	img := uniformImage(64, 64, color.NRGBA{R: 140, G: 90, B: 50, A: 255})

	report := Classify(img)

	require.Equal(t, analysis.LevelSevere, report.PollutionLevel)
	require.Equal(t, 0.87, report.Confidence)
}

func TestClassify_BrownSediment(t *testing.T) {
	img := uniformImage(64, 64, color.NRGBA{R: 130, G: 100, B: 60, A: 255})

	report := Classify(img)

	require.Equal(t, analysis.LevelHigh, report.PollutionLevel)
	require.Equal(t, 0.82, report.Confidence)
	require.Equal(t, "Sewage / Industrial Sediment", report.ContaminationType)
}

func TestClassify_Eutrophication(t *testing.T) {
	img := uniformImage(64, 64, color.NRGBA{R: 150, G: 180, B: 90, A: 255})

	report := Classify(img)

	require.Equal(t, analysis.LevelModerate, report.PollutionLevel)
	require.Equal(t, 0.80, report.Confidence)
	require.Equal(t, "Eutrophication (Nutrient Overload)", report.ContaminationType)
}

func TestClassify_AlgalGrowth(t *testing.T) {
	img := uniformImage(64, 64, color.NRGBA{R: 90, G: 170, B: 110, A: 255})

	report := Classify(img)

	require.Equal(t, analysis.LevelMild, report.PollutionLevel)
	require.Equal(t, 0.78, report.Confidence)
	require.Equal(t, "Algal Growth / Chlorophyll Increase", report.ContaminationType)
}

// An image matching both the dark-ratio rule and the red-dominance rule
// must classify as CRITICAL: the rule table is evaluated in priority order.
func TestClassify_DarkRuleWinsOverRed(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 400))
	for y := 0; y < 400; y++ {
		c := color.NRGBA{A: 255}
		if y >= 200 {
			c = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
		}
		for x := 0; x < 400; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	report := Classify(img)

	require.Equal(t, analysis.LevelCritical, report.PollutionLevel)
}

func TestClassify_HexZeroPadded(t *testing.T) {
	img := uniformImage(64, 64, color.NRGBA{R: 5, G: 10, B: 255, A: 255})

	report := Classify(img)

	require.Equal(t, "#050aff", report.DominantColor)
}

func TestClassifyWithMetrics_DarkRatio(t *testing.T) {
	report, darkRatio := ClassifyWithMetrics(uniformImage(64, 64, color.NRGBA{A: 255}))
	require.Equal(t, analysis.LevelCritical, report.PollutionLevel)
	require.Equal(t, 1.0, darkRatio)

	report, darkRatio = ClassifyWithMetrics(uniformImage(64, 64, color.NRGBA{R: 100, G: 150, B: 200, A: 255}))
	require.Equal(t, analysis.LevelClean, report.PollutionLevel)
	require.Equal(t, 0.0, darkRatio)
}

func TestClassifyWithMetrics_MatchesClassify(t *testing.T) {
	img := uniformImage(64, 64, color.NRGBA{R: 140, G: 90, B: 50, A: 255})

	report, _ := ClassifyWithMetrics(img)
	require.Equal(t, Classify(img), report)
}

func TestClassify_Deterministic(t *testing.T) {
	img := uniformImage(64, 64, color.NRGBA{R: 100, G: 150, B: 200, A: 255})

	first := Classify(img)
	second := Classify(img)

	require.Equal(t, first, second)
}

func TestClassify_TotalOverArbitraryColors(t *testing.T) {
	levels := map[analysis.Level]bool{
		analysis.LevelClean:    true,
		analysis.LevelMild:     true,
		analysis.LevelModerate: true,
		analysis.LevelHigh:     true,
		analysis.LevelSevere:   true,
		analysis.LevelCritical: true,
	}

	colors := []color.NRGBA{
		{R: 0, G: 0, B: 0, A: 255},
		{R: 255, G: 255, B: 255, A: 255},
		{R: 11, G: 11, B: 11, A: 255},
		{R: 49, G: 49, B: 49, A: 255},
		{R: 200, G: 180, B: 20, A: 255},
		{R: 20, G: 200, B: 180, A: 255},
		{R: 128, G: 0, B: 128, A: 255},
	}
	for _, c := range colors {
		report := Classify(uniformImage(32, 32, c))
		require.True(t, levels[report.PollutionLevel], "unexpected level %q for %+v", report.PollutionLevel, c)
		require.GreaterOrEqual(t, report.AvgHue, 0)
		require.LessOrEqual(t, report.AvgHue, 360)
	}
}

func TestClassify_RoundsToThreeDecimals(t *testing.T) {
	img := uniformImage(64, 64, color.NRGBA{R: 123, G: 77, B: 201, A: 255})

	report := Classify(img)

	require.InDelta(t, report.AvgSaturation, float64(int(report.AvgSaturation*1000+0.5))/1000, 1e-9)
	require.InDelta(t, report.AvgBrightness, float64(int(report.AvgBrightness*1000+0.5))/1000, 1e-9)
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b int
		h, s, v float64
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 255, 255, 255, 0, 0, 1},
		{"red", 255, 0, 0, 0, 1, 1},
		{"green", 0, 255, 0, 120, 1, 1},
		{"blue", 0, 0, 255, 240, 1, 1},
		{"pale blue", 100, 150, 200, 210, 0.5, 200.0 / 255.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := rgbToHSV(tt.r, tt.g, tt.b)
			require.InDelta(t, tt.h, h, 1e-9)
			require.InDelta(t, tt.s, s, 1e-9)
			require.InDelta(t, tt.v, v, 1e-9)
		})
	}
}
