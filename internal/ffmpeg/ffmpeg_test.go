package ffmpeg

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHLSArgs(t *testing.T) {
	args := hlsArgs("/tmp/in.mp4", "/tmp/out", DefaultHLSParams())
	joined := strings.Join(args, " ")

	// Width is fixed, height derived and rounded even: libx264 rejects odd
	// dimensions.
	assert.Contains(t, joined, "scale=1280:-2")

	assert.Contains(t, joined, "-i /tmp/in.mp4")
	assert.Contains(t, joined, "-c:v libx264")
	assert.Contains(t, joined, "-preset veryfast")
	assert.Contains(t, joined, "-b:v 2500k")
	assert.Contains(t, joined, "-c:a aac")
	assert.Contains(t, joined, "-b:a 128k")
	assert.Contains(t, joined, "-f hls")
	assert.Contains(t, joined, "-hls_time 4")
	assert.Contains(t, joined, "-hls_playlist_type vod")
	assert.Contains(t, joined, filepath.Join("/tmp/out", segmentPattern))

	// The playlist path is the final positional argument.
	require.NotEmpty(t, args)
	assert.Equal(t, filepath.Join("/tmp/out", ManifestName), args[len(args)-1])
}

func TestHLSArgsRespectsParams(t *testing.T) {
	args := hlsArgs("in.mp4", "out", HLSParams{
		MaxWidth:       640,
		VideoBitrate:   "800k",
		AudioBitrate:   "64k",
		SegmentSeconds: 6,
		Preset:         "ultrafast",
	})
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "scale=640:-2")
	assert.Contains(t, joined, "-b:v 800k")
	assert.Contains(t, joined, "-b:a 64k")
	assert.Contains(t, joined, "-hls_time 6")
	assert.Contains(t, joined, "-preset ultrafast")
}
