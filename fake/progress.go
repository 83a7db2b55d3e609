package fake

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
)

// ProgressEmitter receives progress events as the generator walks the
// hierarchy.
//
// Implementations:
//   - CLIEmitter: pretty-printed terminal output using pterm
//   - JSONEmitter: structured JSON events on stdout for tooling
//   - NopEmitter: silence (the default, used in tests)
type ProgressEmitter interface {
	// EmitStage announces a new phase of the walk (e.g. entering a block)
	EmitStage(stage string, message string)

	// EmitRecord announces one created record
	EmitRecord(kind string, id string)

	// EmitBatch announces the imaging-session batching result for one
	// media group: how many ROIs it holds, how many sessions that yields,
	// and how many trailing ROIs fall outside any session
	EmitBatch(blockID, mediaID string, rois, sessions, dropped int)

	// EmitComplete announces the final run summary
	EmitComplete(summary Summary)

	// EmitError announces a failure that aborts the run
	EmitError(stage string, err error)
}

// NopEmitter discards all progress events
type NopEmitter struct{}

func (NopEmitter) EmitStage(string, string)              {}
func (NopEmitter) EmitRecord(string, string)             {}
func (NopEmitter) EmitBatch(_, _ string, _, _, _ int)    {}
func (NopEmitter) EmitComplete(Summary)                  {}
func (NopEmitter) EmitError(string, error)               {}

// CLIEmitter outputs pretty-printed progress to the terminal using pterm
type CLIEmitter struct {
	verbosity int
}

// NewCLIEmitter creates a CLI progress emitter. Individual record lines only
// appear at verbosity >= 1; stages, batches and the summary always print.
func NewCLIEmitter(verbosity int) *CLIEmitter {
	return &CLIEmitter{verbosity: verbosity}
}

// EmitStage prints a stage announcement
func (e *CLIEmitter) EmitStage(stage string, message string) {
	pterm.Printf("%s %s: %s\n", pterm.LightCyan("▸"), pterm.LightCyan(stage), message)
}

// EmitRecord prints a created record line at -v and above
func (e *CLIEmitter) EmitRecord(kind string, id string) {
	if e.verbosity >= 1 {
		pterm.Printf("  created %s %s\n", kind, pterm.Green(id))
	}
}

// EmitBatch prints the imaging-session batching result for one media group
func (e *CLIEmitter) EmitBatch(blockID, mediaID string, rois, sessions, dropped int) {
	pterm.Printf("%s block %s media %s: %s ROIs -> %s imaging sessions\n",
		pterm.LightCyan("▸"), blockID, mediaID,
		pterm.Green(fmt.Sprintf("%d", rois)), pterm.Green(fmt.Sprintf("%d", sessions)))
	if dropped > 0 {
		pterm.Warning.Printf("%d trailing ROIs on media %s fill no batch and stay unassigned\n", dropped, mediaID)
	}
}

// EmitComplete prints the final summary
func (e *CLIEmitter) EmitComplete(summary Summary) {
	pterm.Success.Println("Data generation complete")
	pterm.Printf("  blocks:            %d\n", summary.Blocks)
	pterm.Printf("  ROIs:              %d\n", summary.ROIs)
	pterm.Printf("  imaging sessions:  %d\n", summary.ImagingSessions)
	pterm.Printf("  total tiles:       %d (%d per acquisition)\n", summary.TotalTiles, summary.TilesPerAcquisition)
}

// EmitError prints an error
func (e *CLIEmitter) EmitError(stage string, err error) {
	pterm.Error.Printf("Error in %s: %v\n", stage, err)
}

// progressEvent is the wire shape of a JSONEmitter event
type progressEvent struct {
	Type      string                 `json:"type"` // "stage", "record", "batch", "complete", "error"
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// JSONEmitter outputs structured JSON events to stdout
type JSONEmitter struct {
	encoder *json.Encoder
}

// NewJSONEmitter creates a JSON progress emitter
func NewJSONEmitter() *JSONEmitter {
	return &JSONEmitter{encoder: json.NewEncoder(os.Stdout)}
}

func (e *JSONEmitter) emit(eventType string, data map[string]interface{}) {
	e.encoder.Encode(progressEvent{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	})
}

// EmitStage emits a stage event
func (e *JSONEmitter) EmitStage(stage string, message string) {
	e.emit("stage", map[string]interface{}{"stage": stage, "message": message})
}

// EmitRecord emits a created-record event
func (e *JSONEmitter) EmitRecord(kind string, id string) {
	e.emit("record", map[string]interface{}{"kind": kind, "id": id})
}

// EmitBatch emits a batching event for one media group
func (e *JSONEmitter) EmitBatch(blockID, mediaID string, rois, sessions, dropped int) {
	e.emit("batch", map[string]interface{}{
		"block_id": blockID,
		"media_id": mediaID,
		"rois":     rois,
		"sessions": sessions,
		"dropped":  dropped,
	})
}

// EmitComplete emits the final summary
func (e *JSONEmitter) EmitComplete(summary Summary) {
	e.emit("complete", map[string]interface{}{
		"blocks":                summary.Blocks,
		"rois":                  summary.ROIs,
		"imaging_sessions":      summary.ImagingSessions,
		"total_tiles":           summary.TotalTiles,
		"tiles_per_acquisition": summary.TilesPerAcquisition,
	})
}

// EmitError emits an error event
func (e *JSONEmitter) EmitError(stage string, err error) {
	e.emit("error", map[string]interface{}{"stage": stage, "error": err.Error()})
}
