package supabase

import (
	"fmt"
	"strings"
	"time"

	"gallery-backend/internal/retry"

	storage "github.com/supabase-community/storage-go"
)

// ObjectInfo describes one stored object (or folder entry) under a prefix.
type ObjectInfo struct {
	Name      string
	CreatedAt time.Time
	IsFolder  bool
}

type StorageClient struct {
	client         *storage.Client
	bucket         string
	baseURL        string
	retryAttempts  int
	retryBaseDelay time.Duration
}

func NewStorageClient(supabaseURL, serviceKey, bucket string, retryAttempts int, retryBaseDelay time.Duration) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &StorageClient{
		client:         client,
		bucket:         bucket,
		baseURL:        baseURL,
		retryAttempts:  retryAttempts,
		retryBaseDelay: retryBaseDelay,
	}, nil
}

// CreateSignedUploadURL issues a short-lived single-use upload URL for path.
// The storage API returns a bucket-relative URL; the absolute form is what
// the transport PUTs to.
func (s *StorageClient) CreateSignedUploadURL(path string) (string, error) {
	var signedURL string
	err := retry.Do(func() error {
		resp, err := s.client.CreateSignedUploadUrl(s.bucket, path)
		if err != nil {
			return err
		}
		if resp.Url == "" {
			return fmt.Errorf("storage returned an empty signed upload url for %s", path)
		}
		signedURL = s.absoluteURL(resp.Url)
		return nil
	}, s.retryAttempts, s.retryBaseDelay)
	if err != nil {
		return "", fmt.Errorf("failed to create signed upload url: %w", err)
	}
	return signedURL, nil
}

// RemoveObjects deletes the given paths in one batched call. Duplicates and
// empty entries are dropped first; an empty list is a no-op.
func (s *StorageClient) RemoveObjects(paths []string) error {
	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}
	if len(unique) == 0 {
		return nil
	}

	err := retry.Do(func() error {
		_, err := s.client.RemoveFile(s.bucket, unique)
		return err
	}, s.retryAttempts, s.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to remove objects: %w", err)
	}
	return nil
}

// MoveObject renames from to to within the bucket.
func (s *StorageClient) MoveObject(from, to string) error {
	err := retry.Do(func() error {
		_, err := s.client.MoveFile(s.bucket, from, to)
		return err
	}, s.retryAttempts, s.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to move object %s: %w", from, err)
	}
	return nil
}

// ListPrefix returns the entries directly under prefix. Folder entries come
// back without an object id or creation time.
func (s *StorageClient) ListPrefix(prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	err := retry.Do(func() error {
		files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
			Limit: 1000,
		})
		if err != nil {
			return err
		}
		objects = make([]ObjectInfo, 0, len(files))
		for _, file := range files {
			info := ObjectInfo{
				Name:     strings.TrimSuffix(prefix, "/") + "/" + file.Name,
				IsFolder: file.Id == "",
			}
			if file.CreatedAt != "" {
				if created, err := time.Parse(time.RFC3339, file.CreatedAt); err == nil {
					info.CreatedAt = created
				}
			}
			objects = append(objects, info)
		}
		return nil
	}, s.retryAttempts, s.retryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}
	return objects, nil
}

// PublicURL builds the public object URL for display. Display only; the core
// flows never read through it.
func (s *StorageClient) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}

func (s *StorageClient) absoluteURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return s.baseURL + "/storage/v1/" + strings.TrimPrefix(u, "/")
}
