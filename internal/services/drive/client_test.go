package drive

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func TestListFollowsPagination(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drive/v3/files" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		queries = append(queries, r.URL.Query().Get("q"))
		if r.URL.Query().Get("pageToken") == "" {
			w.Write([]byte(`{"nextPageToken":"page-2","files":[
				{"id":"f1","name":"standup.m4a","mimeType":"audio/mp4","size":"1024","modifiedTime":"2026-08-01T10:00:00Z"}
			]}`))
			return
		}
		w.Write([]byte(`{"files":[
			{"id":"f2","name":"retro.mp3","mimeType":"audio/mpeg","size":"2048","modifiedTime":"2026-08-02T10:00:00Z"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), WithBaseURL(server.URL))
	files, err := client.List(context.Background(), "folder-1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].ID != "f1" || files[1].ID != "f2" {
		t.Fatalf("unexpected ordering %+v", files)
	}
	if files[0].Size != 1024 {
		t.Fatalf("expected string size to decode, got %d", files[0].Size)
	}
	for _, q := range queries {
		if !strings.Contains(q, "'folder-1' in parents") || !strings.Contains(q, "trashed = false") {
			t.Fatalf("unexpected query %q", q)
		}
	}
}

func TestDownloadUsesAltMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drive/v3/files/file-9" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("alt") != "media" {
			t.Errorf("expected alt=media, got %q", r.URL.Query().Get("alt"))
		}
		w.Write([]byte("audio bytes"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), WithBaseURL(server.URL))
	data, err := client.Download(context.Background(), "file-9")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if string(data) != "audio bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestUploadSendsMultipartRelated(t *testing.T) {
	var metadata map[string]any
	var media string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload/drive/v3/files" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("uploadType") != "multipart" {
			t.Errorf("expected uploadType=multipart")
		}
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/related" {
			t.Fatalf("unexpected content type %q (%v)", r.Header.Get("Content-Type"), err)
		}
		reader := multipart.NewReader(r.Body, params["boundary"])
		metaPart, err := reader.NextPart()
		if err != nil {
			t.Fatalf("read metadata part: %v", err)
		}
		if err := json.NewDecoder(metaPart).Decode(&metadata); err != nil {
			t.Fatalf("decode metadata: %v", err)
		}
		mediaPart, err := reader.NextPart()
		if err != nil {
			t.Fatalf("read media part: %v", err)
		}
		content, err := io.ReadAll(mediaPart)
		if err != nil {
			t.Fatalf("read media: %v", err)
		}
		media = string(content)
		w.Write([]byte(`{"id":"uploaded-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), WithBaseURL(server.URL))
	id, err := client.Upload(context.Background(), "folder-1", "standup_summary.txt", "text/plain", []byte("summary text"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if id != "uploaded-1" {
		t.Fatalf("unexpected id %q", id)
	}
	if metadata["name"] != "standup_summary.txt" {
		t.Fatalf("unexpected metadata name %v", metadata["name"])
	}
	parents, ok := metadata["parents"].([]any)
	if !ok || len(parents) != 1 || parents[0] != "folder-1" {
		t.Fatalf("unexpected parents %v", metadata["parents"])
	}
	if media != "summary text" {
		t.Fatalf("unexpected media content %q", media)
	}
}

func TestListSurfacesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"insufficient permissions"}}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), WithBaseURL(server.URL))
	if _, err := client.List(context.Background(), "folder-1"); err == nil {
		t.Fatal("expected error for http 403")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "token.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
	}
	if err := SaveToken(path, token); err != nil {
		t.Fatalf("SaveToken returned error: %v", err)
	}
	loaded, err := LoadToken(path)
	if err != nil {
		t.Fatalf("LoadToken returned error: %v", err)
	}
	if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
		t.Fatalf("unexpected token %+v", loaded)
	}
}

func TestLoadOAuthConfigAcceptsInstalledLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client_secrets.json")
	secrets := `{"installed":{"client_id":"id-1","client_secret":"secret-1"}}`
	writeFile(t, path, secrets)

	cfg, err := LoadOAuthConfig(path)
	if err != nil {
		t.Fatalf("LoadOAuthConfig returned error: %v", err)
	}
	if cfg.ClientID != "id-1" || cfg.ClientSecret != "secret-1" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.Scopes) != 1 || cfg.Scopes[0] != Scope {
		t.Fatalf("unexpected scopes %v", cfg.Scopes)
	}
}

func TestLoadOAuthConfigRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client_secrets.json")
	writeFile(t, path, `{}`)
	if _, err := LoadOAuthConfig(path); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
