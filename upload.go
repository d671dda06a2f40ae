package uplink

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	uperrors "github.com/grassyhq/uplink/errors"
	"github.com/grassyhq/uplink/internal/executor"
	"github.com/grassyhq/uplink/internal/negotiate"
	"github.com/grassyhq/uplink/internal/session"
	"github.com/grassyhq/uplink/internal/transfer"
	"github.com/grassyhq/uplink/internal/validation"
)

// UploadBatch runs the three-phase upload protocol for one batch: it
// negotiates one upload slot per object, transfers all objects in parallel,
// and confirms the batch with the negotiating API.
//
// The phases form a strict happens-before chain; the slot state lives in
// the client's session store only between negotiation and the end of the
// transfer phase and is removed before the call returns, regardless of
// outcome. Any phase failure aborts the remaining phases and surfaces a
// typed error. There is no automatic compensation: objects transferred
// before a confirmation failure stay on the store unconfirmed, and the
// returned ConfirmationError carries the record identifier so the caller
// can reconcile out of band. Re-running the whole batch is always safe; a
// fresh session is negotiated and batches are never deduplicated.
func (c *Client) UploadBatch(ctx context.Context, batch UploadBatch) (*UploadResult, error) {
	if err := validateBatch(batch); err != nil {
		return nil, err
	}

	start := time.Now()

	// Phase 1: negotiate upload slots.
	resp, err := c.api.Negotiate(ctx, c.buildManifest(batch))
	if err != nil {
		return nil, err
	}

	slots := make([]session.Slot, len(resp.Uploads))
	for i, u := range resp.Uploads {
		slots[i] = session.Slot{Filename: u.Filename, URL: u.PresignedURL}
	}
	c.sessions.Put(resp.RecordID, slots)

	c.log.Debug().
		Str("record_id", resp.RecordID).
		Int("objects", len(batch.Objects)).
		Msg("upload slots negotiated")

	// Phase 2: transfer all objects.
	if err := c.transferBatch(ctx, resp.RecordID, batch); err != nil {
		c.log.Debug().Str("record_id", resp.RecordID).Err(err).Msg("batch transfer failed")
		return nil, err
	}

	// Phase 3: confirm. The API's success flag is authoritative.
	conf, err := c.api.Confirm(ctx, resp.RecordID)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(batch.Objects))
	for i, obj := range batch.Objects {
		paths[i] = ObjectPath(batch.OwnerID, conf.RecordID, obj.Filename)
	}

	c.log.Debug().
		Str("record_id", conf.RecordID).
		Dur("duration", time.Since(start)).
		Msg("batch confirmed")

	return &UploadResult{
		RecordID: conf.RecordID,
		Paths:    paths,
		Duration: time.Since(start),
	}, nil
}

// UploadFiles reads the named files through the client's filesystem and
// uploads them as one batch. Object keys are assigned positionally ("1".."N")
// and filenames are the path basenames.
func (c *Client) UploadFiles(ctx context.Context, ownerID string, paths []string) (*UploadResult, error) {
	batch := UploadBatch{OwnerID: ownerID, Objects: make([]ObjectItem, 0, len(paths))}
	for i, path := range paths {
		file, err := c.fs.Open(path)
		if err != nil {
			return nil, uperrors.NewError("uploadFiles", err).WithFilename(path)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, uperrors.NewError("uploadFiles", err).WithFilename(path)
		}

		batch.Objects = append(batch.Objects, ObjectItem{
			Key:      strconv.Itoa(i + 1),
			Filename: filepath.Base(path),
			Data:     data,
		})
	}
	return c.UploadBatch(ctx, batch)
}

// transferBatch fans the batch out across the executor. The session entry
// is removed when the phase ends, success or not, so transfer state never
// leaks across calls.
func (c *Client) transferBatch(ctx context.Context, recordID string, batch UploadBatch) error {
	defer c.sessions.Remove(recordID)

	slots, ok := c.sessions.Get(recordID)
	if !ok {
		return uperrors.NewError("transfer", uperrors.ErrInvalidInput).
			WithRecord(recordID).
			WithMessage("no negotiated slots for record")
	}

	items := make([]executor.Item, len(batch.Objects))
	for i, obj := range batch.Objects {
		items[i] = executor.Item{
			Filename:    obj.Filename,
			ContentType: transfer.DetectImageType(obj.Data),
			Data:        obj.Data,
		}
	}

	return c.exec.Run(ctx, items, slots, func(ctx context.Context, item executor.Item, url string) error {
		headers := http.Header{}
		if item.ContentType != "" {
			headers.Set("Content-Type", item.ContentType)
		}
		err := c.retry.Do(ctx, func(ctx context.Context) error {
			return c.transfer.Put(ctx, url, item.Data, headers)
		})
		if err == nil {
			return nil
		}
		var te *uperrors.TransferError
		if errors.As(err, &te) && te.Filename == "" {
			te.Filename = item.Filename
		}
		return err
	})
}

// buildManifest derives the slot-allocation manifest for a batch. Each call
// carries a fresh session identifier, so identical manifests negotiate
// independent records.
func (c *Client) buildManifest(batch UploadBatch) negotiate.Manifest {
	images := make([]negotiate.ImageInfo, len(batch.Objects))
	for i, obj := range batch.Objects {
		contentType := obj.ContentType
		if contentType == "" {
			contentType = transfer.DetectImageType(obj.Data)
		}
		if contentType == "" {
			contentType = "image/jpeg"
		}
		images[i] = negotiate.ImageInfo{
			Key:         obj.Key,
			Filename:    obj.Filename,
			ContentType: contentType,
		}
	}

	return negotiate.Manifest{
		UserID: batch.OwnerID,
		Metadata: negotiate.Metadata{
			UploadSource: c.uploadSource,
			SessionID:    uuid.NewString(),
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
		},
		Images: images,
	}
}

// validateBatch rejects malformed batches before any network call.
func validateBatch(batch UploadBatch) error {
	if batch.OwnerID == "" {
		return uperrors.NewError("uploadBatch", uperrors.ErrInvalidInput).
			WithMessage("owner id cannot be empty")
	}
	if len(batch.Objects) == 0 {
		return uperrors.NewError("uploadBatch", uperrors.ErrEmptyBatch)
	}

	seen := make(map[string]struct{}, len(batch.Objects))
	for _, obj := range batch.Objects {
		if err := validation.ValidateObjectKey(obj.Filename); err != nil {
			return err
		}
		if err := validation.ValidateContentType(obj.ContentType); err != nil {
			return err
		}
		if _, dup := seen[obj.Filename]; dup {
			return uperrors.NewError("uploadBatch", uperrors.ErrDuplicateFilename).
				WithFilename(obj.Filename)
		}
		seen[obj.Filename] = struct{}{}
	}
	return nil
}
