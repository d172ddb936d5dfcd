package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	for _, base := range []string{"https://pub.example.dev", "https://pub.example.dev/"} {
		store, err := NewR2Store(context.Background(), Config{
			AccountID:     "acct",
			AccessKey:     "key",
			SecretKey:     "secret",
			Bucket:        "videos",
			PublicBaseURL: base,
		})
		require.NoError(t, err)

		assert.Equal(t, "https://pub.example.dev/originals/abc.mp4",
			store.PublicURL("originals/abc.mp4"), "base %q", base)
	}
}
