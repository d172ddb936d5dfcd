package jobs

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"hookreel/backend/internal/metadata"
	"hookreel/backend/internal/storage"
)

// DeleteVideoJob reverses an ingestion: it removes the archive object, every
// object in the stream folder, and finally the metadata record. Artifacts
// that are already gone are tolerated, so re-running a partially failed
// deletion converges. The record is deleted last: a crash mid-teardown leaves
// a visible record marking the cleanup as incomplete, never a silent orphan.
type DeleteVideoJob struct {
	VideoID string

	Store         storage.ArtifactStore
	Videos        metadata.VideoStore
	PublicBaseURL string
	Log           *logrus.Logger
}

// ID returns the identifier the dispatcher logs for this job. Deletion
// normally runs synchronously on the request path, but satisfies the worker
// job contract all the same.
func (j *DeleteVideoJob) ID() string {
	return "delete_" + j.VideoID
}

// Execute performs the teardown. Only a missing record or a metadata-store
// failure surfaces to the caller; individual object deletions are best-effort.
func (j *DeleteVideoJob) Execute() error {
	ctx := context.Background()
	log := j.Log.WithField("video_id", j.VideoID)

	rec, err := j.Videos.Get(ctx, j.VideoID)
	if err != nil {
		return err
	}

	archiveKey := ResolveArchiveKey(rec.DownloadURL, j.PublicBaseURL)
	if archiveKey != "" {
		if err := j.Store.Delete(ctx, archiveKey); err != nil {
			log.WithError(err).WithField("key", archiveKey).Warn("failed to delete archive object")
		} else {
			log.WithField("key", archiveKey).Info("archive object deleted")
		}

		// The stream folder shares the archive key's generated id.
		streamID := ArchiveKeyID(archiveKey)
		keys, err := j.Store.List(ctx, StreamFolder(streamID))
		if err != nil {
			log.WithError(err).Warn("failed to list stream objects")
		}
		for _, key := range keys {
			if err := j.Store.Delete(ctx, key); err != nil {
				log.WithError(err).WithField("key", key).Warn("failed to delete stream object")
			}
		}
		if len(keys) > 0 {
			log.WithField("count", len(keys)).Info("stream objects deleted")
		}
	} else {
		log.Warn("record has no archive locator, skipping object cleanup")
	}

	if err := j.Videos.Delete(ctx, j.VideoID); err != nil {
		return fmt.Errorf("%w: deleting record %s: %v", ErrMetadata, j.VideoID, err)
	}

	log.Info("video deleted")
	return nil
}
