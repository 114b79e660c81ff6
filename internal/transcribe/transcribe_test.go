package transcribe

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"voxum/internal/media"
	"voxum/internal/pipeline"
	"voxum/internal/services"
)

type fakeClient struct {
	gotName  string
	gotAudio []byte
	text     string
	err      error
}

func (f *fakeClient) Transcribe(_ context.Context, filename string, audio []byte) (string, error) {
	f.gotName = filename
	f.gotAudio = audio
	return f.text, f.err
}

type fakeCompressor struct {
	called bool
	out    []byte
	err    error
}

func (f *fakeCompressor) Compress(_ context.Context, _ string, _ []byte) ([]byte, error) {
	f.called = true
	return f.out, f.err
}

func TestTranscribeSmallInputSkipsCompression(t *testing.T) {
	client := &fakeClient{text: "hello world"}
	compressor := &fakeCompressor{}
	tr := New(client, compressor, nil)

	text, err := tr.Transcribe(context.Background(), pipeline.Input{
		ID:    "f1",
		Name:  "standup.m4a",
		Audio: []byte("small recording"),
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("unexpected transcript %q", text)
	}
	if compressor.called {
		t.Fatal("compressor should not run for small input")
	}
	if string(client.gotAudio) != "small recording" {
		t.Fatalf("unexpected audio sent %q", client.gotAudio)
	}
}

func TestTranscribeCompressesOversizedInput(t *testing.T) {
	client := &fakeClient{text: "hello"}
	compressor := &fakeCompressor{out: []byte("tiny")}
	tr := New(client, compressor, nil)

	big := bytes.Repeat([]byte("a"), media.MaxUploadBytes+1)
	if _, err := tr.Transcribe(context.Background(), pipeline.Input{ID: "f1", Name: "long.wav", Audio: big}); err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if !compressor.called {
		t.Fatal("expected compression for oversized input")
	}
	if string(client.gotAudio) != "tiny" {
		t.Fatalf("expected compressed audio to be uploaded, got %d bytes", len(client.gotAudio))
	}
}

func TestTranscribeEmptyAudioIsValidationError(t *testing.T) {
	tr := New(&fakeClient{}, &fakeCompressor{}, nil)
	_, err := tr.Transcribe(context.Background(), pipeline.Input{ID: "f1", Name: "empty.mp3"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTranscribeBackendFailureIsExternalServiceError(t *testing.T) {
	tr := New(&fakeClient{err: errors.New("http 500")}, &fakeCompressor{}, nil)
	_, err := tr.Transcribe(context.Background(), pipeline.Input{ID: "f1", Name: "a.mp3", Audio: []byte("x")})
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestTranscribeCompressionFailureIsExternalServiceError(t *testing.T) {
	tr := New(&fakeClient{text: "ok"}, &fakeCompressor{err: errors.New("ffmpeg exploded")}, nil)
	big := bytes.Repeat([]byte("a"), media.MaxUploadBytes+1)
	_, err := tr.Transcribe(context.Background(), pipeline.Input{ID: "f1", Name: "a.wav", Audio: big})
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}
