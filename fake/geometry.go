// Package fake populates a TEMdb instance with synthetic but plausible
// electron-microscopy metadata.
//
// The generator walks the domain hierarchy top-down (specimen → block →
// cutting session → section → ROI → imaging session → acquisition → tile),
// issuing one create call per record and threading identifiers and computed
// geometry downward. All randomness flows through a single seedable PRNG so
// runs are reproducible.
package fake

import (
	"math/rand"

	"github.com/temdb/temdb-go/temdb"
)

const (
	// focus scores live on a 0-24 scale (camera autofocus metric)
	focusScoreMin = 0.0
	focusScoreMax = 24.0

	// aperture jitter applied per section around the cutting session's base rectangle, in µm
	defaultROIJitter = 5.0

	// stage jitter per tile, as a fraction of tile size (stage inaccuracy)
	stageJitterFrac = 0.01
)

// Aperture is an ROI's jittered outline: centroid plus width/height
type Aperture struct {
	Centroid    [2]float64
	WidthHeight [2]float64
}

// JitteredROI perturbs a base aperture rectangle by independent uniform
// offsets in [-jitter, jitter] on each of the four values. One base rectangle
// is drawn per cutting session; each section gets its own draw, so ROI shape
// varies slightly down the section series.
func JitteredROI(rng *rand.Rand, baseX, baseY, baseWidth, baseHeight, jitter float64) Aperture {
	return Aperture{
		Centroid: [2]float64{
			baseX + uniform(rng, -jitter, jitter),
			baseY + uniform(rng, -jitter, jitter),
		},
		WidthHeight: [2]float64{
			baseWidth + uniform(rng, -jitter, jitter),
			baseHeight + uniform(rng, -jitter, jitter),
		},
	}
}

// EffectiveTileSize is the tile pitch after overlap: tileSize * (1 - overlap)
func EffectiveTileSize(tileSize int, overlap float64) float64 {
	return float64(tileSize) * (1 - overlap)
}

// TilesPerSide is how many tiles fit along one stage axis:
// floor(stageSize / effectiveTileSize)
func TilesPerSide(stageSize, tileSize int, overlap float64) int {
	return int(float64(stageSize) / EffectiveTileSize(tileSize, overlap))
}

// CalcStagePosition places a tile at (row, col) on a near-regular raster
// grid with per-tile uniform jitter up to 1% of the tile size on each axis,
// mimicking stage inaccuracy.
func CalcStagePosition(rng *rand.Rand, row, col, tileSize int, overlap float64) temdb.StagePosition {
	pitch := EffectiveTileSize(tileSize, overlap)
	jitter := float64(tileSize) * stageJitterFrac
	return temdb.StagePosition{
		X: float64(col)*pitch + uniform(rng, -jitter, jitter),
		Y: float64(row)*pitch + uniform(rng, -jitter, jitter),
	}
}

// FocusScore draws one Gaussian sample around base and clamps it to the
// focus metric's [0, 24] range. All tiles of one acquisition share a base
// drawn once, so the montage has a common focus baseline with per-tile noise.
func FocusScore(rng *rand.Rand, base, variation float64) float64 {
	score := rng.NormFloat64()*variation + base
	if score < focusScoreMin {
		return focusScoreMin
	}
	if score > focusScoreMax {
		return focusScoreMax
	}
	return score
}

// MatcherStats synthesizes a neighbor-pair alignment record. Values are
// purely randomized, not geometrically consistent with actual tile positions;
// they exercise the matcher schema, nothing more.
func MatcherStats(rng *rand.Rand, row, col int) temdb.Matcher {
	return temdb.Matcher{
		Row:          row,
		Col:          col,
		DX:           uniform(rng, -5, 5),
		DY:           uniform(rng, -5, 5),
		DXSD:         uniform(rng, 0, 2),
		DYSD:         uniform(rng, 0, 2),
		Distance:     uniform(rng, 0, 10),
		Rotation:     uniform(rng, -0.1, 0.1),
		MatchQuality: uniform(rng, 0.5, 1),
		Position:     row*10 + col,
		PX:           correspondence(rng),
		PY:           correspondence(rng),
		QX:           correspondence(rng),
		QY:           correspondence(rng),
	}
}

// correspondence draws a 4-point match coordinate array
func correspondence(rng *rand.Rand) [4]float64 {
	var pts [4]float64
	for i := range pts {
		pts[i] = uniform(rng, 0, 100)
	}
	return pts
}

// uniform draws from [lo, hi)
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// intBetween draws from [lo, hi] inclusive
func intBetween(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}
