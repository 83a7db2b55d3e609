package fake

import (
	"context"

	"github.com/temdb/temdb-go/temdb"
)

// API is the slice of the TEMdb client the generator needs: one create
// operation per resource plus the two attach operations. *temdb.Client
// satisfies it; tests substitute an in-memory implementation.
type API interface {
	CreateSpecimen(ctx context.Context, s *temdb.Specimen) (*temdb.Specimen, error)
	CreateBlock(ctx context.Context, b *temdb.Block) (*temdb.Block, error)
	CreateCuttingSession(ctx context.Context, cs *temdb.CuttingSession) (*temdb.CuttingSession, error)
	CreateSection(ctx context.Context, s *temdb.Section) (*temdb.Section, error)
	CreateROI(ctx context.Context, r *temdb.ROI) (*temdb.ROI, error)
	CreateImagingSession(ctx context.Context, s *temdb.ImagingSession) (*temdb.ImagingSession, error)
	AddImagingSessionROI(ctx context.Context, sessionID string, roiID int) error
	CreateAcquisition(ctx context.Context, a *temdb.Acquisition) (*temdb.Acquisition, error)
	AddTile(ctx context.Context, acquisitionID string, t *temdb.Tile) (*temdb.Tile, error)
}
