package logger

// Standard field names for consistent structured logging across the toolkit.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRequestID = "request_id"
	FieldRunID     = "run_id"

	// Domain identifiers
	FieldSpecimenID    = "specimen_id"
	FieldBlockID       = "block_id"
	FieldSessionID     = "session_id"
	FieldSectionID     = "section_id"
	FieldROIID         = "roi_id"
	FieldAcquisitionID = "acquisition_id"
	FieldTileID        = "tile_id"
	FieldMediaID       = "media_id"

	// Operations
	FieldMethod = "method"
	FieldPath   = "path"
	FieldStatus = "status"

	// Timing
	FieldDurationMS = "duration_ms"

	// Counts and sizes
	FieldCount      = "count"
	FieldBatchSize  = "batch_size"
	FieldTotalCount = "total_count"

	// Errors
	FieldError = "error"
)
