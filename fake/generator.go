package fake

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/temdb/temdb-go/errors"
	"github.com/temdb/temdb-go/logger"
	"github.com/temdb/temdb-go/temdb"
)

// compile-time check: the real client drives the generator
var _ API = (*temdb.Client)(nil)

// Params holds the physical and volume parameters of a generation run
type Params struct {
	TileSize                int     // tile size in nm
	Overlap                 float64 // tile overlap as a fraction of tile size
	StageSize               int     // stage extent in nm
	NumBlocks               int
	CuttingSessionsPerBlock int
	SectionsPerSession      int
	ROIsPerImagingSession   int
	Seed                    int64 // 0 means derive from the clock
}

// DefaultParams returns the standard run configuration
func DefaultParams() Params {
	return Params{
		TileSize:                21512,
		Overlap:                 0.06,
		StageSize:               100000,
		NumBlocks:               2,
		CuttingSessionsPerBlock: 1,
		SectionsPerSession:      10,
		ROIsPerImagingSession:   5,
	}
}

// Validate checks the parameters for values the walk cannot work with
func (p Params) Validate() error {
	if p.TileSize <= 0 {
		return errors.Newf("tile size must be positive, got %d", p.TileSize)
	}
	if p.Overlap < 0 || p.Overlap >= 1 {
		return errors.Newf("overlap must be in [0, 1), got %g", p.Overlap)
	}
	if p.StageSize <= 0 {
		return errors.Newf("stage size must be positive, got %d", p.StageSize)
	}
	if p.NumBlocks <= 0 || p.CuttingSessionsPerBlock <= 0 || p.SectionsPerSession <= 0 {
		return errors.New("block, cutting session and section counts must be positive")
	}
	if p.ROIsPerImagingSession <= 0 {
		return errors.Newf("rois per imaging session must be positive, got %d", p.ROIsPerImagingSession)
	}
	if TilesPerSide(p.StageSize, p.TileSize, p.Overlap) < 1 {
		return errors.Newf("effective tile size %.1f exceeds stage size %d, no tiles fit",
			EffectiveTileSize(p.TileSize, p.Overlap), p.StageSize)
	}
	return nil
}

// Summary aggregates the counts of a completed run
type Summary struct {
	Blocks              int
	ROIs                int
	ImagingSessions     int
	TotalTiles          int
	TilesPerAcquisition int
}

// Generator walks the TEMdb hierarchy top-down, creating one record per
// entity. The walk is strictly sequential: every create is awaited before
// the next is issued, so each child references a parent the server has
// already acknowledged.
type Generator struct {
	api     API
	params  Params
	rng     *rand.Rand
	log     *zap.SugaredLogger
	emitter ProgressEmitter
}

// GeneratorOption customizes a Generator
type GeneratorOption func(*Generator)

// WithProgressEmitter attaches a progress emitter (default: none)
func WithProgressEmitter(e ProgressEmitter) GeneratorOption {
	return func(g *Generator) {
		g.emitter = e
	}
}

// WithGeneratorLogger attaches a structured logger (default: silent)
func WithGeneratorLogger(log *zap.SugaredLogger) GeneratorOption {
	return func(g *Generator) {
		g.log = log
	}
}

// NewGenerator creates a generator that writes through api
func NewGenerator(api API, params Params, opts ...GeneratorOption) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid generator parameters")
	}

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Generator{
		api:     api,
		params:  params,
		rng:     rand.New(rand.NewSource(seed)),
		log:     zap.NewNop().Sugar(),
		emitter: NopEmitter{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// roiOnMedia pairs a created ROI with the media its section was cut onto
type roiOnMedia struct {
	roi     *temdb.ROI
	mediaID string
}

// Run executes the full hierarchy walk and returns the aggregate counts.
// The first client error aborts the remainder of the run; records created
// up to that point stay in the remote store.
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	specimen, err := g.createSpecimen(ctx)
	if err != nil {
		return nil, err
	}

	blocks, err := g.createBlocks(ctx, specimen)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Blocks:              len(blocks),
		TilesPerAcquisition: g.tilesPerAcquisition(),
	}

	// Process each block completely before moving to the next
	for _, block := range blocks {
		if err := g.populateBlock(ctx, specimen, block, summary); err != nil {
			return nil, err
		}
	}

	// The nominal total: every imaging session carries a full batch of ROIs
	// and every acquisition a full raster of tiles.
	summary.TotalTiles = summary.ImagingSessions * g.params.ROIsPerImagingSession * summary.TilesPerAcquisition

	g.log.Infow("data generation complete",
		"blocks", summary.Blocks,
		logger.FieldCount, summary.ROIs,
		logger.FieldTotalCount, summary.TotalTiles,
	)
	g.emitter.EmitComplete(*summary)
	return summary, nil
}

// populateBlock creates all cutting sessions, sections and ROIs of one
// block, then batches the block's ROIs into imaging sessions per media id
// and images each batch.
func (g *Generator) populateBlock(ctx context.Context, specimen *temdb.Specimen, block *temdb.Block, summary *Summary) error {
	g.emitter.EmitStage("block", block.BlockID)

	sessionCounters := map[string]int{}
	var blockROIs []roiOnMedia

	for j := 0; j < g.params.CuttingSessionsPerBlock; j++ {
		sessionNumber := j + 1
		cuttingSession, mediaID, err := g.createCuttingSession(ctx, block, sessionNumber)
		if err != nil {
			return err
		}

		// One base aperture rectangle per cutting session; each section's
		// ROI is an independent jittered draw around it.
		baseX := float64(intBetween(g.rng, 50, 150))
		baseY := float64(intBetween(g.rng, 50, 150))
		baseWidth := float64(intBetween(g.rng, 100, 200))
		baseHeight := float64(intBetween(g.rng, 100, 200))

		for k := 0; k < g.params.SectionsPerSession; k++ {
			sectionNumber := k + 1
			section, err := g.createSection(ctx, cuttingSession, sectionNumber, mediaID)
			if err != nil {
				return err
			}

			aperture := JitteredROI(g.rng, baseX, baseY, baseWidth, baseHeight, defaultROIJitter)
			roi, err := g.createROI(ctx, section, roiNumber(sessionNumber, sectionNumber), aperture, block, specimen)
			if err != nil {
				return err
			}
			blockROIs = append(blockROIs, roiOnMedia{roi: roi, mediaID: mediaID})
		}
	}

	// Group the block's ROIs by media id, preserving creation order
	var mediaOrder []string
	roisByMedia := map[string][]*temdb.ROI{}
	for _, rm := range blockROIs {
		if _, seen := roisByMedia[rm.mediaID]; !seen {
			mediaOrder = append(mediaOrder, rm.mediaID)
		}
		roisByMedia[rm.mediaID] = append(roisByMedia[rm.mediaID], rm.roi)
	}

	for _, mediaID := range mediaOrder {
		mediaROIs := roisByMedia[mediaID]
		numSessions := len(mediaROIs) / g.params.ROIsPerImagingSession
		dropped := len(mediaROIs) % g.params.ROIsPerImagingSession

		g.emitter.EmitBatch(block.BlockID, mediaID, len(mediaROIs), numSessions, dropped)
		if dropped > 0 {
			// Trailing ROIs that fill no batch are never imaged. Surfaced
			// loudly rather than silently discarded.
			g.log.Warnw("trailing ROIs fill no imaging session batch",
				logger.FieldMediaID, mediaID,
				logger.FieldCount, dropped,
				logger.FieldBatchSize, g.params.ROIsPerImagingSession,
			)
		}

		for i := 0; i < numSessions; i++ {
			sessionCounters[mediaID]++
			imagingSession, err := g.createImagingSession(ctx, specimen, block, mediaID, sessionCounters[mediaID])
			if err != nil {
				return err
			}

			start := i * g.params.ROIsPerImagingSession
			batch := mediaROIs[start : start+g.params.ROIsPerImagingSession]

			for _, roi := range batch {
				if err := g.api.AddImagingSessionROI(ctx, imagingSession.SessionID, roi.ROIID); err != nil {
					return errors.Wrapf(err, "attaching ROI %d to imaging session %s", roi.ROIID, imagingSession.SessionID)
				}
				g.log.Debugw("attached ROI to imaging session",
					logger.FieldROIID, fmt.Sprintf("%d", roi.ROIID),
					logger.FieldSessionID, imagingSession.SessionID,
				)

				acquisition, err := g.createAcquisition(ctx, imagingSession, roi)
				if err != nil {
					return err
				}
				if err := g.createTiles(ctx, acquisition, mediaID); err != nil {
					return err
				}
			}

			summary.ImagingSessions++
		}
	}

	summary.ROIs += len(blockROIs)
	return nil
}

func (g *Generator) createSpecimen(ctx context.Context) (*temdb.Specimen, error) {
	specimen, err := g.api.CreateSpecimen(ctx, &temdb.Specimen{
		SpecimenID:  fmt.Sprintf("SPEC%d", intBetween(g.rng, 1000, 9999)),
		Description: fmt.Sprintf("Test specimen %d", intBetween(g.rng, 1, 100)),
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating specimen")
	}
	g.log.Infow("created specimen", logger.FieldSpecimenID, specimen.SpecimenID)
	g.emitter.EmitRecord("specimen", specimen.SpecimenID)
	return specimen, nil
}

func (g *Generator) createBlocks(ctx context.Context, specimen *temdb.Specimen) ([]*temdb.Block, error) {
	blocks := make([]*temdb.Block, 0, g.params.NumBlocks)
	for i := 0; i < g.params.NumBlocks; i++ {
		block, err := g.api.CreateBlock(ctx, &temdb.Block{
			BlockID:     fmt.Sprintf("BLK_%s_%03d", specimen.SpecimenID, i+1),
			SpecimenID:  specimen.SpecimenID,
			MicroCTInfo: temdb.MicroCTInfo{Resolution: uniform(g.rng, 0.5, 2.0)},
		})
		if err != nil {
			return nil, errors.Wrap(err, "creating block")
		}
		blocks = append(blocks, block)
		g.log.Infow("created block", logger.FieldBlockID, block.BlockID)
		g.emitter.EmitRecord("block", block.BlockID)
	}
	return blocks, nil
}

func (g *Generator) createCuttingSession(ctx context.Context, block *temdb.Block, sessionNumber int) (*temdb.CuttingSession, string, error) {
	mediaID := fmt.Sprintf("TAPE%s%d", block.BlockID, sessionNumber)
	cuttingSession, err := g.api.CreateCuttingSession(ctx, &temdb.CuttingSession{
		CuttingSessionID: fmt.Sprintf("CUT%s%d", block.BlockID, sessionNumber),
		BlockID:          block.BlockID,
		StartTime:        time.Now().AddDate(0, 0, sessionNumber),
		Operator:         fmt.Sprintf("Operator %d", intBetween(g.rng, 1, 5)),
		SectioningDevice: "Ultra Microtome 3000",
		MediaType:        "tape",
		MediaID:          mediaID,
	})
	if err != nil {
		return nil, "", errors.Wrap(err, "creating cutting session")
	}
	g.log.Infow("created cutting session", logger.FieldSessionID, cuttingSession.CuttingSessionID)
	g.emitter.EmitRecord("cutting session", cuttingSession.CuttingSessionID)
	return cuttingSession, mediaID, nil
}

func (g *Generator) createSection(ctx context.Context, cuttingSession *temdb.CuttingSession, sectionNumber int, mediaID string) (*temdb.Section, error) {
	section, err := g.api.CreateSection(ctx, &temdb.Section{
		SectionID:        fmt.Sprintf("SEC%s%03d", cuttingSession.CuttingSessionID, sectionNumber),
		SectionNumber:    sectionNumber,
		CuttingSessionID: cuttingSession.CuttingSessionID,
		MediaType:        "tape",
		MediaID:          mediaID,
		RelativePosition: sectionNumber,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating section")
	}
	g.log.Infow("created section", logger.FieldSectionID, section.SectionID)
	g.emitter.EmitRecord("section", section.SectionID)
	return section, nil
}

func (g *Generator) createROI(ctx context.Context, section *temdb.Section, roiID int, aperture Aperture, block *temdb.Block, specimen *temdb.Specimen) (*temdb.ROI, error) {
	// ROIs reference the server-assigned _id of specimen and block,
	// not their human-readable ids
	roi, err := g.api.CreateROI(ctx, &temdb.ROI{
		ROIID:               roiID,
		SectionNumber:       section.SectionNumber,
		ApertureCentroid:    aperture.Centroid,
		ApertureWidthHeight: aperture.WidthHeight,
		SpecimenID:          specimen.ID,
		BlockID:             block.ID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating ROI")
	}
	g.log.Infow("created ROI",
		logger.FieldROIID, fmt.Sprintf("%d", roi.ROIID),
		logger.FieldSectionID, section.SectionID,
	)
	g.emitter.EmitRecord("ROI", fmt.Sprintf("%d", roi.ROIID))
	return roi, nil
}

func (g *Generator) createImagingSession(ctx context.Context, specimen *temdb.Specimen, block *temdb.Block, mediaID string, sessionNumber int) (*temdb.ImagingSession, error) {
	now := time.Now()
	// Timestamp plus a random suffix keeps session ids unique across
	// concurrent seeding runs against the same instance
	sessionID := fmt.Sprintf("IMS_%s_%03d_%s_%06d_%06d",
		specimen.SpecimenID, sessionNumber,
		now.Format("20060102_150405"), now.Nanosecond()/1000,
		g.rng.Intn(1000000))

	imagingSession, err := g.api.CreateImagingSession(ctx, &temdb.ImagingSession{
		SessionID:  sessionID,
		SpecimenID: specimen.SpecimenID,
		BlockID:    block.BlockID,
		MediaType:  "tape",
		MediaID:    mediaID,
		StartTime:  now,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating imaging session")
	}
	g.log.Infow("created imaging session", logger.FieldSessionID, imagingSession.SessionID)
	g.emitter.EmitRecord("imaging session", imagingSession.SessionID)
	return imagingSession, nil
}

func (g *Generator) createAcquisition(ctx context.Context, imagingSession *temdb.ImagingSession, roi *temdb.ROI) (*temdb.Acquisition, error) {
	acquisition, err := g.api.CreateAcquisition(ctx, &temdb.Acquisition{
		AcquisitionID:    fmt.Sprintf("ACQ%s%d", imagingSession.SessionID, roi.ROIID),
		ROIID:            roi.ROIID,
		ImagingSessionID: imagingSession.SessionID,
		MontageID:        fmt.Sprintf("MONTAGE%s%d", imagingSession.SessionID, roi.ROIID),
		HardwareSettings: temdb.HardwareSettings{
			ScopeID:      "T1",
			CameraModel:  "MX1276",
			CameraSerial: "1234",
			BitDepth:     10,
			MediaType:    "tape",
		},
		AcquisitionSettings: temdb.AcquisitionSettings{
			Magnification: 2000,
			SpotSize:      5,
			ExposureTime:  120,
			TileSize:      [2]int{g.params.TileSize, g.params.TileSize},
			TileOverlap:   g.params.Overlap,
		},
		CalibrationInfo: temdb.CalibrationInfo{
			PixelSize: 4.0,
			StigAngle: 0,
			LensModel: nil,
		},
		Status:         "planned",
		TiltAngle:      0,
		LensCorrection: true,
		StartTime:      time.Now(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating acquisition")
	}
	g.log.Infow("created acquisition", logger.FieldAcquisitionID, acquisition.AcquisitionID)
	g.emitter.EmitRecord("acquisition", acquisition.AcquisitionID)
	return acquisition, nil
}

// createTiles enumerates the acquisition's raster in row-major order and
// stores one tile per grid cell
func (g *Generator) createTiles(ctx context.Context, acquisition *temdb.Acquisition, mediaID string) error {
	baseFocusScore := uniform(g.rng, 20.5, 21.5)
	tilesPerSide := TilesPerSide(g.params.StageSize, g.params.TileSize, g.params.Overlap)
	totalTiles := tilesPerSide * tilesPerSide

	for k := 0; k < totalTiles; k++ {
		row, col := k/tilesPerSide, k%tilesPerSide

		tile := &temdb.Tile{
			TileID:         fmt.Sprintf("TILE%s%05d", acquisition.AcquisitionID, k+1),
			AcquisitionID:  acquisition.AcquisitionID,
			StagePosition:  CalcStagePosition(g.rng, row, col, g.params.TileSize, g.params.Overlap),
			RasterPosition: temdb.RasterPosition{Row: row, Col: col},
			FocusScore:     FocusScore(g.rng, baseFocusScore, 0.5),
			MinValue:       intBetween(g.rng, 0, 20),
			MaxValue:       intBetween(g.rng, 200, 255),
			MeanValue:      intBetween(g.rng, 100, 200),
			StdValue:       uniform(g.rng, 10, 40),
			ImagePath:      fmt.Sprintf("/path/to/images/%s/%s/%05d.tif", mediaID, acquisition.AcquisitionID, k+1),
			Matcher: []temdb.Matcher{
				MatcherStats(g.rng, row, col),
				MatcherStats(g.rng, row, col+1),
				MatcherStats(g.rng, row+1, col),
				MatcherStats(g.rng, row+1, col+1),
			},
			RasterIndex: k + 1,
		}

		created, err := g.api.AddTile(ctx, acquisition.AcquisitionID, tile)
		if err != nil {
			return errors.Wrapf(err, "adding tile %d/%d to acquisition %s", k+1, totalTiles, acquisition.AcquisitionID)
		}
		g.log.Debugw("created tile", logger.FieldTileID, created.TileID)
	}
	return nil
}

// tilesPerAcquisition is the full raster size of one acquisition
func (g *Generator) tilesPerAcquisition() int {
	side := TilesPerSide(g.params.StageSize, g.params.TileSize, g.params.Overlap)
	return side * side
}

// roiNumber derives the caller-assigned integer ROI id from the cutting
// session and section numbers: session 2, section 10 -> 2010
func roiNumber(sessionNumber, sectionNumber int) int {
	return sessionNumber*1000 + sectionNumber
}
