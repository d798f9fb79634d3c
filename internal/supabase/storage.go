package supabase

import (
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// StorageClient wraps the Supabase storage API for a single audio bucket.
// Clients upload chunk blobs directly using signed URLs; this service only
// mints URLs and deletes objects.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(client *Client) *StorageClient {
	baseURL := strings.TrimRight(client.Config.SupabaseURL, "/")

	return &StorageClient{
		client:  client.Supabase.Storage,
		bucket:  client.Config.StorageBucket,
		baseURL: baseURL,
	}
}

// CreateSignedUploadURL mints a time-limited write URL for objectPath.
// Minting is a pure storage call; repeated requests for the same path are
// safe.
func (s *StorageClient) CreateSignedUploadURL(objectPath string) (string, error) {
	resp, err := s.client.CreateSignedUploadUrl(s.bucket, objectPath)
	if err != nil {
		return "", fmt.Errorf("failed to create signed upload url: %w", err)
	}
	return resp.Url, nil
}

// PublicURL is where the object can be read once uploaded, assuming a
// public bucket.
func (s *StorageClient) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}

func (s *StorageClient) Delete(objectPath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{objectPath})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", objectPath, err)
	}
	return nil
}

// List returns the object paths under prefix.
func (s *StorageClient) List(prefix string) ([]string, error) {
	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}

	paths := make([]string, len(files))
	for i, file := range files {
		paths[i] = file.Name
	}
	return paths, nil
}
