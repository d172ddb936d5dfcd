package models

import (
	"time"

	"github.com/google/uuid"
)

// VideoRecord represents one published video row in the `videos` table.
// ID and CreatedAt are assigned by the database on insert.
type VideoRecord struct {
	ID          uuid.UUID `json:"id,omitempty"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Duration    int       `json:"duration"` // seconds
	IsPremium   bool      `json:"is_premium"`
	StreamURL   string    `json:"stream_url"`   // public URL of the HLS master playlist
	DownloadURL string    `json:"download_url"` // archive locator: full public URL, or a bare key in older rows
	Views       int       `json:"views"`
	Likes       int       `json:"likes"`
	Processed   bool      `json:"processed"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}
