package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hookreel/backend/internal/ffmpeg"
	"hookreel/backend/internal/jobs"
	"hookreel/backend/internal/metadata"
	"hookreel/backend/utils"
)

var validate = validator.New()

// uploadVideoForm captures the multipart form fields of an upload request.
// The form carries the description under "text", a leftover of the mobile
// client's field naming.
type uploadVideoForm struct {
	Title       string `validate:"required"`
	Category    string `validate:"required"`
	Description string `validate:"required"`
	Duration    int    `validate:"gte=0"`
	Language    string
	IsPremium   bool
}

// UpdateVideoRequest defines the editable subset of a video record. Artifact
// references and counters are never writable through the API.
type UpdateVideoRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	IsPremium   bool   `json:"is_premium"`
}

// UploadVideo accepts a multipart upload, spools the file to a local temp
// path, and hands an ingestion job to the dispatcher. The client gets an
// immediate acknowledgment; it never waits on transcoding.
func (h *ApplicationHandler) UploadVideo(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "missing file field")
	}

	duration := 0
	if raw := c.FormValue("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "duration must be an integer")
		}
	}
	isPremium := false
	if raw := c.FormValue("is_premium"); raw != "" {
		isPremium, err = strconv.ParseBool(raw)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "is_premium must be a boolean")
		}
	}

	form := uploadVideoForm{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Category:    strings.TrimSpace(c.FormValue("category")),
		Description: c.FormValue("text"),
		Duration:    duration,
		Language:    c.FormValue("language", "hinglish"),
		IsPremium:   isPremium,
	}
	if err := validate.Struct(form); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			strings.Join(utils.FormatValidationErrors(err), "; "))
	}

	// Spool the upload locally so the client transfer completes before any
	// remote work starts.
	tempPath := filepath.Join(h.Cfg.TempDir,
		fmt.Sprintf("upload_%s_%s", uuid.NewString(), filepath.Base(fileHeader.Filename)))
	if err := c.SaveFile(fileHeader, tempPath); err != nil {
		h.Log.WithError(err).Error("failed to save uploaded file")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to store upload")
	}

	job := jobs.NewIngestVideoJob(
		tempPath,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		jobs.UploadMeta{
			Title:       form.Title,
			Category:    form.Category,
			Description: form.Description,
			Language:    form.Language,
			Duration:    form.Duration,
			IsPremium:   form.IsPremium,
		},
		h.Store,
		h.Videos,
		h.Transcoder,
		h.Log,
	)
	job.ProbeDuration = ffmpeg.ProbeDuration

	if err := h.Jobs.Submit(job); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			h.Log.WithError(removeErr).Warn("failed to remove spooled upload after rejected job")
		}
		h.Log.WithError(err).Error("failed to submit ingestion job")
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "server busy, try again later")
	}

	h.Log.WithFields(map[string]interface{}{
		"video_id": job.VideoID,
		"title":    form.Title,
	}).Info("ingestion job accepted")

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":  "Upload started",
		"status":   "uploading",
		"video_id": job.VideoID,
	})
}

// GetVideos lists every published video, newest first.
func (h *ApplicationHandler) GetVideos(c *fiber.Ctx) error {
	videos, err := h.Videos.ListAll(c.Context())
	if err != nil {
		h.Log.WithError(err).Error("failed to list videos")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to fetch videos")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"videos": videos})
}

// UpdateVideo mutates title, description and the premium flag of a record.
func (h *ApplicationHandler) UpdateVideo(c *fiber.Ctx) error {
	videoID := c.Params("id")

	payload := new(UpdateVideoRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("cannot parse request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			strings.Join(utils.FormatValidationErrors(err), "; "))
	}

	fields := map[string]interface{}{
		"title":       payload.Title,
		"description": payload.Description,
		"is_premium":  payload.IsPremium,
	}
	if err := h.Videos.Update(c.Context(), videoID, fields); err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
		}
		h.Log.WithError(err).WithField("video_id", videoID).Error("failed to update video")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to update video")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Video Updated Successfully"})
}

// DeleteVideo tears a video down: artifacts first, record last. The job runs
// synchronously; object deletes are fast and the client expects a definitive
// answer.
func (h *ApplicationHandler) DeleteVideo(c *fiber.Ctx) error {
	videoID := c.Params("id")

	job := &jobs.DeleteVideoJob{
		VideoID:       videoID,
		Store:         h.Store,
		Videos:        h.Videos,
		PublicBaseURL: h.Cfg.R2PublicBaseURL,
		Log:           h.Log,
	}
	if err := job.Execute(); err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
		}
		h.Log.WithError(err).WithField("video_id", videoID).Error("failed to delete video")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to delete video")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Video Deleted Successfully"})
}

// GetDownloadURL returns a time-limited presigned URL for a video's archive
// copy.
func (h *ApplicationHandler) GetDownloadURL(c *fiber.Ctx) error {
	videoID := c.Params("id")

	rec, err := h.Videos.Get(c.Context(), videoID)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
		}
		h.Log.WithError(err).WithField("video_id", videoID).Error("failed to fetch video")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to fetch video")
	}

	key := jobs.ResolveArchiveKey(rec.DownloadURL, h.Cfg.R2PublicBaseURL)
	if key == "" {
		return utils.RespondWithError(c, fiber.StatusNotFound, "video has no archive copy")
	}

	url, err := h.Store.PresignGet(c.Context(), key, h.Cfg.DownloadURLTTL)
	if err != nil {
		h.Log.WithError(err).WithField("key", key).Error("failed to presign download URL")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to create download link")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"url":        url,
		"expires_in": int(h.Cfg.DownloadURLTTL.Seconds()),
	})
}
