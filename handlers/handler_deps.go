package handlers

import (
	"github.com/sirupsen/logrus"

	"hookreel/backend/config"
	"hookreel/backend/internal/ffmpeg"
	"hookreel/backend/internal/metadata"
	"hookreel/backend/internal/storage"
	"hookreel/backend/internal/worker"
)

// JobDispatcher is the slice of the worker pool the handlers need: hand a job
// off and return immediately.
type JobDispatcher interface {
	Submit(job worker.Job) error
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Log        *logrus.Logger
	Store      storage.ArtifactStore
	Videos     metadata.VideoStore
	Jobs       JobDispatcher
	Transcoder ffmpeg.Transcoder
	Cfg        *config.Config
}

// NewApplicationHandler creates an ApplicationHandler with the given dependencies.
func NewApplicationHandler(
	log *logrus.Logger,
	store storage.ArtifactStore,
	videos metadata.VideoStore,
	jobs JobDispatcher,
	transcoder ffmpeg.Transcoder,
	cfg *config.Config,
) *ApplicationHandler {
	return &ApplicationHandler{
		Log:        log,
		Store:      store,
		Videos:     videos,
		Jobs:       jobs,
		Transcoder: transcoder,
		Cfg:        cfg,
	}
}
