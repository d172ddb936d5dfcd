package metadata

import (
	"context"
	"errors"

	"hookreel/backend/models"
)

// ErrNotFound is returned when a video record does not exist.
var ErrNotFound = errors.New("video record not found")

// VideoStore abstracts the metadata store holding published video records.
// The store assigns IDs and creation timestamps on insert.
type VideoStore interface {
	Create(ctx context.Context, rec models.VideoRecord) (models.VideoRecord, error)
	Get(ctx context.Context, id string) (*models.VideoRecord, error)

	// Update applies a partial mutation; only the provided columns change.
	Update(ctx context.Context, id string, fields map[string]interface{}) error

	Delete(ctx context.Context, id string) error

	// ListAll returns every record, newest first.
	ListAll(ctx context.Context) ([]models.VideoRecord, error)
}
