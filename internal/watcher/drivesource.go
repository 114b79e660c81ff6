package watcher

import (
	"context"

	"voxum/internal/services/drive"
)

// DriveSource adapts the Drive client to the Source interface, scoped
// to a single watched folder.
type DriveSource struct {
	client   *drive.Client
	folderID string
}

// NewDriveSource constructs a source for one Drive folder.
func NewDriveSource(client *drive.Client, folderID string) *DriveSource {
	return &DriveSource{client: client, folderID: folderID}
}

// List returns the folder's files oldest first.
func (s *DriveSource) List(ctx context.Context) ([]Candidate, error) {
	files, err := s.client.List(ctx, s.folderID)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(files))
	for _, f := range files {
		candidates = append(candidates, Candidate{
			ID:       f.ID,
			Name:     f.Name,
			MIMEType: f.MIMEType,
			Size:     f.Size,
		})
	}
	return candidates, nil
}

// Fetch downloads a candidate's content.
func (s *DriveSource) Fetch(ctx context.Context, c Candidate) ([]byte, error) {
	return s.client.Download(ctx, c.ID)
}
