// Package media provides audio detection and ffmpeg-based compression
// for recordings that exceed the transcription upload limit.
package media
