package media

import (
	"path/filepath"
	"strings"
)

// MaxUploadBytes is the largest payload the transcription endpoint accepts.
// Recordings above this size are compressed before upload.
const MaxUploadBytes = 24 * 1024 * 1024

var audioMIMETypes = map[string]struct{}{
	"audio/mpeg":   {},
	"audio/mp3":    {},
	"audio/mp4":    {},
	"audio/x-m4a":  {},
	"audio/wav":    {},
	"audio/x-wav":  {},
	"audio/ogg":    {},
	"audio/flac":   {},
	"audio/x-flac": {},
	"audio/webm":   {},
	"audio/aac":    {},
}

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".mp4":  {},
	".wav":  {},
	".ogg":  {},
	".oga":  {},
	".flac": {},
	".webm": {},
	".aac":  {},
}

// IsAudio reports whether a file looks like an audio recording. The MIME
// type wins when present; the extension is the fallback for sources that
// do not report one.
func IsAudio(mimeType, name string) bool {
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	if mime != "" {
		if _, ok := audioMIMETypes[mime]; ok {
			return true
		}
		if strings.HasPrefix(mime, "audio/") {
			return true
		}
	}
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := audioExtensions[ext]
	return ok
}
