package temdb

import "time"

// Records in this file mirror the TEMdb REST schema. Identifiers are
// caller-constructed human-readable strings (specimen_id, block_id, ...);
// the server additionally assigns every stored record an opaque _id, which
// some children (ROIs) reference instead of the readable id.

// Specimen is the root of the hierarchy. One per generation run.
type Specimen struct {
	ID          string    `json:"_id,omitempty"`
	SpecimenID  string    `json:"specimen_id"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MicroCTInfo holds microCT scan metadata for a block
type MicroCTInfo struct {
	Resolution float64 `json:"resolution"`
}

// Block is a resin-embedded piece of a specimen
type Block struct {
	ID          string      `json:"_id,omitempty"`
	BlockID     string      `json:"block_id"`
	SpecimenID  string      `json:"specimen_id"`
	MicroCTInfo MicroCTInfo `json:"microCT_info"`
}

// CuttingSession is one physical sectioning event on a block. Sections cut
// together share the media (tape/grid) identified by MediaID.
type CuttingSession struct {
	ID               string    `json:"_id,omitempty"`
	CuttingSessionID string    `json:"cutting_session_id"`
	BlockID          string    `json:"block_id"`
	StartTime        time.Time `json:"start_time"`
	Operator         string    `json:"operator,omitempty"`
	SectioningDevice string    `json:"sectioning_device,omitempty"`
	MediaType        string    `json:"media_type"`
	MediaID          string    `json:"media_id"`
}

// Section is one slice produced by a cutting session, ordered by SectionNumber
type Section struct {
	ID               string `json:"_id,omitempty"`
	SectionID        string `json:"section_id"`
	SectionNumber    int    `json:"section_number"`
	CuttingSessionID string `json:"cutting_session_id"`
	MediaType        string `json:"media_type"`
	MediaID          string `json:"media_id"`
	RelativePosition int    `json:"relative_position"`
}

// ROI is a region of interest on a section selected for imaging.
// SpecimenID and BlockID carry the server-assigned _id values of the owning
// records, not their human-readable ids.
type ROI struct {
	ID                  string     `json:"_id,omitempty"`
	ROIID               int        `json:"roi_id"`
	SectionNumber       int        `json:"section_number"`
	ApertureCentroid    [2]float64 `json:"aperture_centroid"`
	ApertureWidthHeight [2]float64 `json:"aperture_width_height"`
	SpecimenID          string     `json:"specimen_id"`
	BlockID             string     `json:"block_id"`
}

// ImagingSession is one microscope session imaging a batch of ROIs that share
// a media id
type ImagingSession struct {
	ID         string    `json:"_id,omitempty"`
	SessionID  string    `json:"session_id"`
	SpecimenID string    `json:"specimen_id"`
	BlockID    string    `json:"block_id"`
	MediaType  string    `json:"media_type"`
	MediaID    string    `json:"media_id"`
	StartTime  time.Time `json:"start_time"`
}

// HardwareSettings describes the scope/camera used for an acquisition
type HardwareSettings struct {
	ScopeID      string `json:"scope_id"`
	CameraModel  string `json:"camera_model"`
	CameraSerial string `json:"camera_serial"`
	BitDepth     int    `json:"bit_depth"`
	MediaType    string `json:"media_type"`
}

// AcquisitionSettings describes the imaging parameters of an acquisition
type AcquisitionSettings struct {
	Magnification int     `json:"magnification"`
	SpotSize      int     `json:"spot_size"`
	ExposureTime  int     `json:"exposure_time"`
	TileSize      [2]int  `json:"tile_size"`
	TileOverlap   float64 `json:"tile_overlap"`
}

// CalibrationInfo holds the optical calibration of an acquisition
type CalibrationInfo struct {
	PixelSize float64 `json:"pixel_size"`
	StigAngle float64 `json:"stig_angle"`
	LensModel *string `json:"lens_model"`
}

// Acquisition is one imaging run over a single ROI within an imaging session
type Acquisition struct {
	ID                  string              `json:"_id,omitempty"`
	AcquisitionID       string              `json:"acquisition_id"`
	ROIID               int                 `json:"roi_id"`
	ImagingSessionID    string              `json:"imaging_session_id"`
	MontageID           string              `json:"montage_id"`
	HardwareSettings    HardwareSettings    `json:"hardware_settings"`
	AcquisitionSettings AcquisitionSettings `json:"acquisition_settings"`
	CalibrationInfo     CalibrationInfo     `json:"calibration_info"`
	Status              string              `json:"status"`
	TiltAngle           float64             `json:"tilt_angle"`
	LensCorrection      bool                `json:"lens_correction"`
	StartTime           time.Time           `json:"start_time"`
}

// StagePosition is a tile's physical stage coordinate in nm
type StagePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RasterPosition is a tile's (row, col) address within the montage grid
type RasterPosition struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Matcher holds pairwise alignment statistics between neighboring tiles
type Matcher struct {
	Row          int        `json:"row"`
	Col          int        `json:"col"`
	DX           float64    `json:"dX"`
	DY           float64    `json:"dY"`
	DXSD         float64    `json:"dXsd"`
	DYSD         float64    `json:"dYsd"`
	Distance     float64    `json:"distance"`
	Rotation     float64    `json:"rotation"`
	MatchQuality float64    `json:"match_quality"`
	Position     int        `json:"position"`
	PX           [4]float64 `json:"pX"`
	PY           [4]float64 `json:"pY"`
	QX           [4]float64 `json:"qX"`
	QY           [4]float64 `json:"qY"`
}

// Tile is one camera field-of-view image within an acquisition's raster
// montage. RasterIndex is 1-based, row-major.
type Tile struct {
	ID             string         `json:"_id,omitempty"`
	TileID         string         `json:"tile_id"`
	AcquisitionID  string         `json:"acquisition_id"`
	StagePosition  StagePosition  `json:"stage_position"`
	RasterPosition RasterPosition `json:"raster_position"`
	FocusScore     float64        `json:"focus_score"`
	MinValue       int            `json:"min_value"`
	MaxValue       int            `json:"max_value"`
	MeanValue      int            `json:"mean_value"`
	StdValue       float64        `json:"std_value"`
	ImagePath      string         `json:"image_path"`
	Matcher        []Matcher      `json:"matcher"`
	RasterIndex    int            `json:"raster_index"`
}
