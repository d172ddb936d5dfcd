package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hookreel/backend/internal/metadata"
	"hookreel/backend/models"
)

const testPublicBase = "https://cdn.test"

// seedVideo ingests one video through the real pipeline so the deletion tests
// operate on exactly the layout the ingest job produces.
func seedVideo(t *testing.T, store *fakeStore, videos *fakeVideoStore) (recordID, generatedID string) {
	t.Helper()
	job := newTestIngestJob(t, store, videos, &fakeTranscoder{segments: 2})
	require.NoError(t, job.Execute())
	return videos.single(t).ID.String(), job.VideoID
}

func newDeleteJob(videoID string, store *fakeStore, videos *fakeVideoStore) *DeleteVideoJob {
	return &DeleteVideoJob{
		VideoID:       videoID,
		Store:         store,
		Videos:        videos,
		PublicBaseURL: testPublicBase,
		Log:           testLogger(),
	}
}

func TestDeleteRemovesArtifactsAndRecord(t *testing.T) {
	store := newFakeStore()
	videos := newFakeVideoStore()
	recordID, generatedID := seedVideo(t, store, videos)

	require.NoError(t, newDeleteJob(recordID, store, videos).Execute())

	assert.Equal(t, 0, videos.len())
	assert.False(t, store.has(ArchiveKey(generatedID, "clip.mp4")))
	assert.Equal(t, 0, store.count(StreamFolder(generatedID)))
}

func TestDeleteToleratesMissingArchive(t *testing.T) {
	store := newFakeStore()
	videos := newFakeVideoStore()
	recordID, generatedID := seedVideo(t, store, videos)

	// Simulate an operator having removed the archive object by hand.
	require.NoError(t, store.Delete(context.Background(), ArchiveKey(generatedID, "clip.mp4")))

	require.NoError(t, newDeleteJob(recordID, store, videos).Execute())
	assert.Equal(t, 0, videos.len())
	assert.Equal(t, 0, store.count(StreamFolder(generatedID)))
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newFakeStore()
	videos := newFakeVideoStore()
	recordID, _ := seedVideo(t, store, videos)

	require.NoError(t, newDeleteJob(recordID, store, videos).Execute())

	err := newDeleteJob(recordID, store, videos).Execute()
	require.ErrorIs(t, err, metadata.ErrNotFound)
}

func TestDeleteUnknownRecord(t *testing.T) {
	store := newFakeStore()
	videos := newFakeVideoStore()

	err := newDeleteJob("nope", store, videos).Execute()
	require.ErrorIs(t, err, metadata.ErrNotFound)
}

func TestDeleteAcceptsBareKeyLocator(t *testing.T) {
	store := newFakeStore()
	videos := newFakeVideoStore()

	// Rows written by older pipeline revisions stored the bare key instead of
	// the public URL.
	archiveKey := ArchiveKey("legacy-id", "old.mp4")
	require.NoError(t, store.Upload(context.Background(), archiveKey, writeSourceFile(t, "old.mp4"), "video/mp4"))
	require.NoError(t, store.Upload(context.Background(), StreamKey("legacy-id", "master.m3u8"), writeSourceFile(t, "m.m3u8"), "application/vnd.apple.mpegurl"))

	rec, err := videos.Create(context.Background(), models.VideoRecord{
		Title:       "legacy",
		DownloadURL: archiveKey,
		Processed:   true,
	})
	require.NoError(t, err)

	require.NoError(t, newDeleteJob(rec.ID.String(), store, videos).Execute())
	assert.False(t, store.has(archiveKey))
	assert.Equal(t, 0, store.count(StreamFolder("legacy-id")))
	assert.Equal(t, 0, videos.len())
}
