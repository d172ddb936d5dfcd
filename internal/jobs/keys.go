package jobs

import (
	"path"
	"path/filepath"
	"strings"
)

// Object key layout. The generated video id namespaces both artifacts, so the
// stream folder can always be derived back from the archive key.
//
//	originals/<id>.<ext>      archive copy
//	stream/<id>/master.m3u8   HLS manifest
//	stream/<id>/segment_*.ts  HLS segments
const (
	archivePrefix = "originals/"
	streamPrefix  = "stream/"
)

// ArchiveKey builds the archive object key, preserving the upload's original
// extension. Extensionless uploads fall back to .mp4.
func ArchiveKey(videoID, originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	if ext == "" {
		ext = ".mp4"
	}
	return archivePrefix + videoID + ext
}

// StreamKey builds the key of one file inside a video's stream folder.
func StreamKey(videoID, filename string) string {
	return streamPrefix + videoID + "/" + filename
}

// StreamFolder returns the prefix under which a video's whole stream set lives.
func StreamFolder(videoID string) string {
	return streamPrefix + videoID + "/"
}

// ArchiveKeyID recovers the generated video id from an archive key by
// stripping the directory and extension.
func ArchiveKeyID(key string) string {
	base := path.Base(key)
	return strings.TrimSuffix(base, path.Ext(base))
}

// ResolveArchiveKey turns an archive locator into a bare object key. New rows
// store the full public URL; rows written by earlier pipeline revisions store
// the key itself. Only an exact public-base prefix is stripped, never an
// arbitrary substring.
func ResolveArchiveKey(ref, publicBaseURL string) string {
	if publicBaseURL != "" {
		base := strings.TrimSuffix(publicBaseURL, "/") + "/"
		if strings.HasPrefix(ref, base) {
			return strings.TrimPrefix(ref, base)
		}
	}
	return ref
}

// streamContentType maps a transcoder output file to its upload content type.
func streamContentType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".m3u8"):
		return "application/vnd.apple.mpegurl"
	case strings.HasSuffix(filename, ".ts"):
		return "video/mp2t"
	default:
		return "application/octet-stream"
	}
}
