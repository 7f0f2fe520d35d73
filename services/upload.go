package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// AllowedAudioExtensions lists the recording formats accepted for upload.
var AllowedAudioExtensions = []string{".mp3", ".wav", ".m4a"}

// IsAudioFile reports whether the upload looks like a call recording.
// Either an audio MIME type or a known extension is accepted, since
// browsers are inconsistent about MIME types for audio files.
func IsAudioFile(fileHeader *multipart.FileHeader) bool {
	contentType := fileHeader.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "audio/") {
		return true
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, allowed := range AllowedAudioExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ValidateAudioUpload checks that the uploaded file is an accepted
// recording within the size limit (in megabytes).
func ValidateAudioUpload(fileHeader *multipart.FileHeader, maxSizeMB int64) error {
	if fileHeader.Size > maxSizeMB*1024*1024 {
		return fmt.Errorf("file size exceeds maximum allowed size of %dMB", maxSizeMB)
	}

	if !IsAudioFile(fileHeader) {
		return fmt.Errorf("file type not allowed. Accepted formats: MP3, WAV, M4A")
	}

	return nil
}

// SplitAudioURLs parses a multi-line URL input into individual URLs,
// dropping blank lines and surrounding whitespace.
func SplitAudioURLs(input string) []string {
	var urls []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			urls = append(urls, line)
		}
	}
	return urls
}
