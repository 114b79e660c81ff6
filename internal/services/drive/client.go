// Package drive wraps the Google Drive v3 REST API for listing,
// downloading, and uploading files in a watched folder.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://www.googleapis.com"
	defaultHTTPTimeout = 5 * time.Minute
	listPageSize       = 100
)

// File describes a Drive file returned by List.
type File struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MIMEType     string    `json:"mimeType"`
	Size         int64     `json:"size,string"`
	ModifiedTime time.Time `json:"modifiedTime"`
}

// Client wraps the Drive v3 files endpoints. The HTTP client is expected
// to carry OAuth credentials (see NewHTTPClient).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the Drive client.
type Option func(*Client)

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a Drive API client around an authenticated HTTP
// client.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// List returns the non-trashed files inside a folder, oldest first by
// modification time. Pagination is followed until the listing is
// complete.
func (c *Client) List(ctx context.Context, folderID string) ([]File, error) {
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return nil, errors.New("drive list: folder id required")
	}

	var files []File
	pageToken := ""
	for {
		endpoint, err := url.JoinPath(c.baseURL, "/drive/v3/files")
		if err != nil {
			return nil, fmt.Errorf("drive list: build url: %w", err)
		}
		params := url.Values{}
		params.Set("q", fmt.Sprintf("'%s' in parents and trashed = false", folderID))
		params.Set("fields", "nextPageToken, files(id, name, mimeType, size, modifiedTime)")
		params.Set("orderBy", "modifiedTime")
		params.Set("pageSize", fmt.Sprintf("%d", listPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("drive list: request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("drive list: request failed: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("drive list: read body: %w", err)
		}
		if resp.StatusCode >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("drive list: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		var page struct {
			NextPageToken string `json:"nextPageToken"`
			Files         []File `json:"files"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("drive list: decode response: %w", err)
		}
		files = append(files, page.Files...)
		if page.NextPageToken == "" {
			return files, nil
		}
		pageToken = page.NextPageToken
	}
}

// Download fetches a file's content.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return nil, errors.New("drive download: file id required")
	}
	endpoint, err := url.JoinPath(c.baseURL, "/drive/v3/files", fileID)
	if err != nil {
		return nil, fmt.Errorf("drive download: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?alt=media", nil)
	if err != nil {
		return nil, fmt.Errorf("drive download: request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive download: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("drive download: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("drive download: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// Upload creates a new file in the folder and returns its id. The
// content goes up in a single multipart request alongside the metadata.
func (c *Client) Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (string, error) {
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return "", errors.New("drive upload: folder id required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("drive upload: file name required")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	metadata, err := json.Marshal(map[string]any{
		"name":    name,
		"parents": []string{folderID},
	})
	if err != nil {
		return "", fmt.Errorf("drive upload: encode metadata: %w", err)
	}

	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)
	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return "", fmt.Errorf("drive upload: build metadata part: %w", err)
	}
	if _, err := metaPart.Write(metadata); err != nil {
		return "", fmt.Errorf("drive upload: write metadata: %w", err)
	}
	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mimeType)
	mediaPart, err := writer.CreatePart(mediaHeader)
	if err != nil {
		return "", fmt.Errorf("drive upload: build media part: %w", err)
	}
	if _, err := mediaPart.Write(content); err != nil {
		return "", fmt.Errorf("drive upload: write content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("drive upload: finish payload: %w", err)
	}

	endpoint, err := url.JoinPath(c.baseURL, "/upload/drive/v3/files")
	if err != nil {
		return "", fmt.Errorf("drive upload: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?uploadType=multipart", &payload)
	if err != nil {
		return "", fmt.Errorf("drive upload: request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("drive upload: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("drive upload: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("drive upload: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("drive upload: decode response: %w", err)
	}
	return created.ID, nil
}
