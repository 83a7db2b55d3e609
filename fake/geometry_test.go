package fake

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestTilesPerSide(t *testing.T) {
	// Reference geometry: 21512 nm tiles at 6% overlap on a 100000 nm stage.
	// Effective tile size is 21512 * 0.94 = 20221.28, so 4 tiles fit per side.
	assert.InDelta(t, 20221.28, EffectiveTileSize(21512, 0.06), 0.01)
	assert.Equal(t, 4, TilesPerSide(100000, 21512, 0.06))

	// Zero overlap packs tiles edge to edge
	assert.Equal(t, 10, TilesPerSide(100000, 10000, 0))

	// Overlap shrinks the pitch, so more tiles fit
	assert.Equal(t, 11, TilesPerSide(100000, 10000, 0.1))
}

func TestFocusScoreClamped(t *testing.T) {
	rng := testRNG(1)

	// Extreme means must still land inside the metric's range
	for i := 0; i < 1000; i++ {
		assert.GreaterOrEqual(t, FocusScore(rng, -100, 0.5), 0.0)
		assert.LessOrEqual(t, FocusScore(rng, 100, 0.5), 24.0)

		score := FocusScore(rng, 21, 0.5)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 24.0)
	}

	// Huge variation must not escape the clamp either
	for i := 0; i < 1000; i++ {
		score := FocusScore(rng, 12, 1000)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 24.0)
	}
}

func TestCalcStagePosition(t *testing.T) {
	rng := testRNG(2)
	tileSize := 21512
	overlap := 0.06
	pitch := EffectiveTileSize(tileSize, overlap)
	maxJitter := float64(tileSize) * 0.01

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			pos := CalcStagePosition(rng, row, col, tileSize, overlap)
			assert.LessOrEqual(t, math.Abs(pos.X-float64(col)*pitch), maxJitter,
				"x jitter out of bounds at (%d,%d)", row, col)
			assert.LessOrEqual(t, math.Abs(pos.Y-float64(row)*pitch), maxJitter,
				"y jitter out of bounds at (%d,%d)", row, col)
		}
	}
}

func TestJitteredROI(t *testing.T) {
	rng := testRNG(3)
	const jitter = 5.0

	for i := 0; i < 100; i++ {
		ap := JitteredROI(rng, 100, 120, 150, 180, jitter)
		assert.InDelta(t, 100, ap.Centroid[0], jitter)
		assert.InDelta(t, 120, ap.Centroid[1], jitter)
		assert.InDelta(t, 150, ap.WidthHeight[0], jitter)
		assert.InDelta(t, 180, ap.WidthHeight[1], jitter)
	}
}

func TestMatcherStats(t *testing.T) {
	rng := testRNG(4)
	m := MatcherStats(rng, 2, 3)

	assert.Equal(t, 2, m.Row)
	assert.Equal(t, 3, m.Col)
	assert.Equal(t, 23, m.Position)
	assert.InDelta(t, 0, m.DX, 5)
	assert.InDelta(t, 0, m.DY, 5)
	assert.GreaterOrEqual(t, m.MatchQuality, 0.5)
	assert.LessOrEqual(t, m.MatchQuality, 1.0)
	assert.GreaterOrEqual(t, m.Distance, 0.0)
	assert.LessOrEqual(t, m.Distance, 10.0)
	for i := 0; i < 4; i++ {
		assert.GreaterOrEqual(t, m.PX[i], 0.0)
		assert.LessOrEqual(t, m.PX[i], 100.0)
	}
}

func TestGeometryDeterministicWithSeed(t *testing.T) {
	a := JitteredROI(testRNG(42), 100, 100, 150, 150, 5)
	b := JitteredROI(testRNG(42), 100, 100, 150, 150, 5)
	require.Equal(t, a, b)

	pa := CalcStagePosition(testRNG(42), 1, 2, 21512, 0.06)
	pb := CalcStagePosition(testRNG(42), 1, 2, 21512, 0.06)
	require.Equal(t, pa, pb)

	ma := MatcherStats(testRNG(42), 0, 1)
	mb := MatcherStats(testRNG(42), 0, 1)
	require.Equal(t, ma, mb)
}

func TestRoiNumber(t *testing.T) {
	assert.Equal(t, 1001, roiNumber(1, 1))
	assert.Equal(t, 1010, roiNumber(1, 10))
	assert.Equal(t, 2003, roiNumber(2, 3))
}
