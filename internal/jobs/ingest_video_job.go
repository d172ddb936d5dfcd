package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hookreel/backend/internal/ffmpeg"
	"hookreel/backend/internal/metadata"
	"hookreel/backend/internal/storage"
	"hookreel/backend/models"
)

// Failure classes of the ingestion pipeline. Callers test with errors.Is.
var (
	ErrInput     = errors.New("input error")
	ErrUpload    = errors.New("upload error")
	ErrTranscode = errors.New("transcode error")
	ErrMetadata  = errors.New("metadata error")
)

// UploadMeta carries the validated form fields that accompany an upload.
type UploadMeta struct {
	Title       string
	Category    string
	Description string
	Language    string
	Duration    int
	IsPremium   bool
}

// IngestVideoJob turns one uploaded file into a published video record: the
// source is archived verbatim, transcoded to HLS, the stream set is uploaded,
// and only then is the metadata row written. Any failure leaves no record.
//
// The job owns its source file and scratch directory exclusively; both are
// removed on every exit path. Remote artifacts written before a failure are
// not rolled back; they are logged as orphans for an operator sweep.
type IngestVideoJob struct {
	VideoID          string
	SourcePath       string
	OriginalFilename string
	ContentType      string
	Meta             UploadMeta

	Store      storage.ArtifactStore
	Videos     metadata.VideoStore
	Transcoder ffmpeg.Transcoder

	// ProbeDuration optionally backfills the duration when the caller supplied
	// none. May be nil.
	ProbeDuration func(path string) (time.Duration, error)

	Log *logrus.Logger

	workDir string
}

// NewIngestVideoJob mints the video id that namespaces both artifacts and
// derives the job's scratch directory from it, so concurrent jobs can never
// collide on local paths or object keys.
func NewIngestVideoJob(
	sourcePath, originalFilename, contentType string,
	meta UploadMeta,
	store storage.ArtifactStore,
	videos metadata.VideoStore,
	transcoder ffmpeg.Transcoder,
	log *logrus.Logger,
) *IngestVideoJob {
	videoID := uuid.NewString()
	return &IngestVideoJob{
		VideoID:          videoID,
		SourcePath:       sourcePath,
		OriginalFilename: originalFilename,
		ContentType:      contentType,
		Meta:             meta,
		Store:            store,
		Videos:           videos,
		Transcoder:       transcoder,
		Log:              log,
		workDir:          filepath.Join(filepath.Dir(sourcePath), "stream_"+videoID),
	}
}

// ID returns the identifier the dispatcher logs for this job.
func (j *IngestVideoJob) ID() string {
	return "ingest_" + j.VideoID
}

// Execute runs the pipeline stages strictly in order. It is called exactly
// once, on a dispatcher worker.
func (j *IngestVideoJob) Execute() error {
	defer j.cleanup()

	ctx := context.Background()
	log := j.Log.WithFields(logrus.Fields{"video_id": j.VideoID, "title": j.Meta.Title})
	log.Info("ingestion started")

	if _, err := os.Stat(j.SourcePath); err != nil {
		return fmt.Errorf("%w: source file %s: %v", ErrInput, j.SourcePath, err)
	}

	// Archive first: the durable copy makes a failed transcode recoverable
	// without another client upload.
	archiveKey := ArchiveKey(j.VideoID, j.OriginalFilename)
	contentType := j.ContentType
	if contentType == "" {
		contentType = "video/mp4"
	}
	if err := j.Store.Upload(ctx, archiveKey, j.SourcePath, contentType); err != nil {
		return fmt.Errorf("%w: archive %s: %v", ErrUpload, archiveKey, err)
	}
	log.WithField("archive_key", archiveKey).Info("archive uploaded")

	if err := os.MkdirAll(j.workDir, 0o755); err != nil {
		return fmt.Errorf("%w: scratch dir %s: %v", ErrInput, j.workDir, err)
	}
	manifestPath, err := j.Transcoder.Run(ctx, j.SourcePath, j.workDir)
	if err != nil {
		log.WithField("orphan_key", archiveKey).Warn("transcode failed, archive object orphaned")
		return fmt.Errorf("%w: %v", ErrTranscode, err)
	}

	manifestKey, err := j.uploadStreamSet(ctx, manifestPath, archiveKey, log)
	if err != nil {
		return err
	}

	duration := j.Meta.Duration
	if duration <= 0 && j.ProbeDuration != nil {
		if d, probeErr := j.ProbeDuration(j.SourcePath); probeErr == nil {
			duration = int(d.Seconds())
		} else {
			log.WithError(probeErr).Warn("duration probe failed")
		}
	}

	rec := models.VideoRecord{
		Title:       j.Meta.Title,
		Category:    j.Meta.Category,
		Description: j.Meta.Description,
		Language:    j.Meta.Language,
		Duration:    duration,
		IsPremium:   j.Meta.IsPremium,
		StreamURL:   j.Store.PublicURL(manifestKey),
		DownloadURL: j.Store.PublicURL(archiveKey),
		Views:       0,
		Likes:       0,
		Processed:   true,
		Type:        "video",
	}
	created, err := j.Videos.Create(ctx, rec)
	if err != nil {
		log.WithFields(logrus.Fields{
			"orphan_archive": archiveKey,
			"orphan_stream":  StreamFolder(j.VideoID),
		}).Warn("record creation failed, remote artifacts orphaned")
		return fmt.Errorf("%w: %v", ErrMetadata, err)
	}

	log.WithField("record_id", created.ID).Info("ingestion published")
	return nil
}

// uploadStreamSet pushes every transcoder output into the stream folder,
// segments first. The manifest goes last so readers never see a playlist
// whose segments are not all present yet.
func (j *IngestVideoJob) uploadStreamSet(ctx context.Context, manifestPath, archiveKey string, log *logrus.Entry) (string, error) {
	entries, err := os.ReadDir(j.workDir)
	if err != nil {
		return "", fmt.Errorf("%w: reading transcoder output: %v", ErrInput, err)
	}

	manifestName := filepath.Base(manifestPath)
	segments := 0
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == manifestName {
			continue
		}
		key := StreamKey(j.VideoID, entry.Name())
		localPath := filepath.Join(j.workDir, entry.Name())
		if err := j.Store.Upload(ctx, key, localPath, streamContentType(entry.Name())); err != nil {
			log.WithField("orphan_key", archiveKey).Warn("segment upload failed, partial stream set orphaned")
			return "", fmt.Errorf("%w: segment %s: %v", ErrUpload, key, err)
		}
		segments++
	}

	manifestKey := StreamKey(j.VideoID, manifestName)
	if err := j.Store.Upload(ctx, manifestKey, manifestPath, streamContentType(manifestName)); err != nil {
		log.WithField("orphan_key", archiveKey).Warn("manifest upload failed, partial stream set orphaned")
		return "", fmt.Errorf("%w: manifest %s: %v", ErrUpload, manifestKey, err)
	}

	log.WithFields(logrus.Fields{"segments": segments, "manifest_key": manifestKey}).Info("stream set uploaded")
	return manifestKey, nil
}

// cleanup releases the job's local resources. It runs on every exit path.
func (j *IngestVideoJob) cleanup() {
	if err := os.Remove(j.SourcePath); err != nil && !os.IsNotExist(err) {
		j.Log.WithError(err).WithField("path", j.SourcePath).Warn("failed to remove temp source file")
	}
	if err := os.RemoveAll(j.workDir); err != nil {
		j.Log.WithError(err).WithField("path", j.workDir).Warn("failed to remove scratch directory")
	}
}
