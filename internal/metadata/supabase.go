package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"hookreel/backend/models"
)

const videosTable = "videos"

// SupabaseStore implements VideoStore against a Supabase Postgres project
// through PostgREST.
type SupabaseStore struct {
	client *supa.Client
}

var _ VideoStore = (*SupabaseStore)(nil)

func NewSupabaseStore(url, serviceKey string) (*SupabaseStore, error) {
	client, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

func (s *SupabaseStore) Create(ctx context.Context, rec models.VideoRecord) (models.VideoRecord, error) {
	// Insert a map without id/created_at so the database assigns both.
	row := map[string]interface{}{
		"title":        rec.Title,
		"category":     rec.Category,
		"description":  rec.Description,
		"language":     rec.Language,
		"duration":     rec.Duration,
		"is_premium":   rec.IsPremium,
		"stream_url":   rec.StreamURL,
		"download_url": rec.DownloadURL,
		"views":        rec.Views,
		"likes":        rec.Likes,
		"processed":    rec.Processed,
		"type":         rec.Type,
	}

	var inserted []models.VideoRecord
	_, err := s.client.From(videosTable).
		Insert(row, false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return models.VideoRecord{}, fmt.Errorf("failed to insert video record: %w", err)
	}
	if len(inserted) == 0 {
		return models.VideoRecord{}, fmt.Errorf("no record returned after inserting %q", rec.Title)
	}
	return inserted[0], nil
}

func (s *SupabaseStore) Get(ctx context.Context, id string) (*models.VideoRecord, error) {
	var rec models.VideoRecord
	_, err := s.client.From(videosTable).
		Select("*", "", false).
		Eq("id", id).
		Single().
		ExecuteTo(&rec)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch video record %s: %w", id, err)
	}
	return &rec, nil
}

func (s *SupabaseStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	_, count, err := s.client.From(videosTable).
		Update(fields, "", "exact").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update video record %s: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SupabaseStore) Delete(ctx context.Context, id string) error {
	_, count, err := s.client.From(videosTable).
		Delete("", "exact").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete video record %s: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SupabaseStore) ListAll(ctx context.Context) ([]models.VideoRecord, error) {
	var videos []models.VideoRecord
	_, err := s.client.From(videosTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&videos)
	if err != nil {
		return nil, fmt.Errorf("failed to list video records: %w", err)
	}
	return videos, nil
}

// isNoRows reports whether err is PostgREST's zero-rows-for-Single error
// (code PGRST116).
func isNoRows(err error) bool {
	return err != nil && strings.Contains(err.Error(), "PGRST116")
}
