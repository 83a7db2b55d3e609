package temdb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/temdb/temdb-go/errors"
)

// CreateSpecimen stores a new specimen and returns the server's echo of it
func (c *Client) CreateSpecimen(ctx context.Context, s *Specimen) (*Specimen, error) {
	if s.SpecimenID == "" {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "specimen_id is required")
	}
	var created Specimen
	if err := c.post(ctx, "/specimens", s, &created); err != nil {
		return nil, errors.Wrap(err, "failed to create specimen")
	}
	return &created, nil
}

// CreateBlock stores a new block under an existing specimen
func (c *Client) CreateBlock(ctx context.Context, b *Block) (*Block, error) {
	if b.BlockID == "" {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "block_id is required")
	}
	var created Block
	if err := c.post(ctx, "/blocks", b, &created); err != nil {
		return nil, errors.Wrap(err, "failed to create block")
	}
	return &created, nil
}

// CreateCuttingSession stores a new cutting session under an existing block
func (c *Client) CreateCuttingSession(ctx context.Context, cs *CuttingSession) (*CuttingSession, error) {
	if cs.CuttingSessionID == "" {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "cutting_session_id is required")
	}
	var created CuttingSession
	if err := c.post(ctx, "/cutting-sessions", cs, &created); err != nil {
		return nil, errors.Wrap(err, "failed to create cutting session")
	}
	return &created, nil
}

// CreateSection stores a new section under an existing cutting session
func (c *Client) CreateSection(ctx context.Context, s *Section) (*Section, error) {
	if s.SectionID == "" {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "section_id is required")
	}
	var created Section
	if err := c.post(ctx, "/sections", s, &created); err != nil {
		return nil, errors.Wrap(err, "failed to create section")
	}
	return &created, nil
}

// CreateROI stores a new region of interest on a section
func (c *Client) CreateROI(ctx context.Context, r *ROI) (*ROI, error) {
	var created ROI
	if err := c.post(ctx, "/rois", r, &created); err != nil {
		return nil, errors.Wrap(err, "failed to create ROI")
	}
	return &created, nil
}

// CreateImagingSession stores a new imaging session
func (c *Client) CreateImagingSession(ctx context.Context, s *ImagingSession) (*ImagingSession, error) {
	if s.SessionID == "" {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "session_id is required")
	}
	var created ImagingSession
	if err := c.post(ctx, "/imaging-sessions", s, &created); err != nil {
		return nil, errors.Wrap(err, "failed to create imaging session")
	}
	return &created, nil
}

// AddImagingSessionROI attaches an existing ROI to an imaging session
func (c *Client) AddImagingSessionROI(ctx context.Context, sessionID string, roiID int) error {
	if sessionID == "" {
		return errors.Wrap(errors.ErrInvalidRequest, "session_id is required")
	}
	path := fmt.Sprintf("/imaging-sessions/%s/rois", url.PathEscape(sessionID))
	body := map[string]int{"roi_id": roiID}
	if err := c.post(ctx, path, body, nil); err != nil {
		return errors.Wrapf(err, "failed to add ROI %d to imaging session %s", roiID, sessionID)
	}
	return nil
}

// CreateAcquisition stores a new acquisition for an ROI within an imaging session
func (c *Client) CreateAcquisition(ctx context.Context, a *Acquisition) (*Acquisition, error) {
	if a.AcquisitionID == "" {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "acquisition_id is required")
	}
	var created Acquisition
	if err := c.post(ctx, "/acquisitions", a, &created); err != nil {
		return nil, errors.Wrap(err, "failed to create acquisition")
	}
	return &created, nil
}

// AddTile stores one montage tile under an existing acquisition
func (c *Client) AddTile(ctx context.Context, acquisitionID string, t *Tile) (*Tile, error) {
	if acquisitionID == "" {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "acquisition_id is required")
	}
	path := fmt.Sprintf("/acquisitions/%s/tiles", url.PathEscape(acquisitionID))
	var created Tile
	if err := c.post(ctx, path, t, &created); err != nil {
		return nil, errors.Wrapf(err, "failed to add tile to acquisition %s", acquisitionID)
	}
	return &created, nil
}
