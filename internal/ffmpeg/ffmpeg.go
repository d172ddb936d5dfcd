package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// ManifestName is the fixed name of the HLS master playlist every transcode
// produces. The stream upload path and the published stream URL both end with it.
const ManifestName = "master.m3u8"

const segmentPattern = "segment_%03d.ts"

// HLSParams are the deployment-level transcode settings. They are fixed per
// process, never per request.
type HLSParams struct {
	MaxWidth       int    // output width; height follows the input aspect ratio
	VideoBitrate   string // e.g. "2500k"
	AudioBitrate   string // e.g. "128k"
	SegmentSeconds int
	Preset         string // libx264 speed/quality preset
}

// DefaultHLSParams returns the settings used in production.
func DefaultHLSParams() HLSParams {
	return HLSParams{
		MaxWidth:       1280,
		VideoBitrate:   "2500k",
		AudioBitrate:   "128k",
		SegmentSeconds: 4,
		Preset:         "veryfast",
	}
}

// Transcoder converts one input media file into a segmented HLS stream under
// outputDir and returns the path of the master playlist.
type Transcoder interface {
	Run(ctx context.Context, inputPath, outputDir string) (string, error)
}

// HLSTranscoder runs ffmpeg as a subprocess.
type HLSTranscoder struct {
	params HLSParams
}

var _ Transcoder = (*HLSTranscoder)(nil)

func NewHLSTranscoder(params HLSParams) *HLSTranscoder {
	return &HLSTranscoder{params: params}
}

func (t *HLSTranscoder) Run(ctx context.Context, inputPath, outputDir string) (string, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", hlsArgs(inputPath, outputDir, t.params)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg hls conversion failed: %v\nStderr: %s", err, stderr.String())
	}

	// A zero exit status with no playlist still counts as a failed transcode.
	manifestPath := filepath.Join(outputDir, ManifestName)
	if _, err := os.Stat(manifestPath); err != nil {
		return "", fmt.Errorf("ffmpeg exited cleanly but produced no manifest at %s", manifestPath)
	}

	return manifestPath, nil
}

func hlsArgs(inputPath, outputDir string, p HLSParams) []string {
	// scale=<w>:-2 lets ffmpeg derive the height from the aspect ratio and
	// round it to an even value, which libx264 requires.
	scale := fmt.Sprintf("scale=%d:-2", p.MaxWidth)

	return []string{
		"-y",
		"-i", inputPath,
		"-vf", scale,
		"-c:v", "libx264",
		"-preset", p.Preset,
		"-b:v", p.VideoBitrate,
		"-c:a", "aac",
		"-b:a", p.AudioBitrate,
		"-f", "hls",
		"-hls_time", strconv.Itoa(p.SegmentSeconds),
		"-hls_playlist_type", "vod",
		"-hls_segment_filename", filepath.Join(outputDir, segmentPattern),
		filepath.Join(outputDir, ManifestName),
	}
}

// ffprobeOutput captures the format.duration field of ffprobe's JSON output.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration uses ffprobe to read the duration of a media file.
func ProbeDuration(filePath string) (time.Duration, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %v\nStderr: %s", err, stderr.String())
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("error unmarshalling ffprobe output: %v\nOutput: %s", err, out.String())
	}
	if probe.Format.Duration == "" {
		return 0, fmt.Errorf("could not retrieve duration from ffprobe output\nOutput: %s", out.String())
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing duration string '%s': %v", probe.Format.Duration, err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
