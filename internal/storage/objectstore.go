package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Conversly/support-orchestrator/internal/utils"
)

const defaultUploadTimeout = 2 * time.Minute

// MaxUploadSize bounds a single object payload. Callers enforce it before
// buffering a request body; Upload re-checks it as a backstop.
const MaxUploadSize = 10 * 1024 * 1024 // 10MB

// ObjectStore persists a binary payload and returns a stable public URL.
// The orchestrator never inspects uploaded content; it only threads the
// URL through the prompt context.
type ObjectStore interface {
	Upload(ctx context.Context, name, contentType string, payload []byte) (string, error)
}

// SupabaseStore uploads to a Supabase storage bucket over its REST API.
type SupabaseStore struct {
	baseURL string
	apiKey  string
	bucket  string
	client  *http.Client
	maxSize int64
}

func NewSupabaseStore(baseURL, apiKey, bucket string) *SupabaseStore {
	return &SupabaseStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		bucket:  bucket,
		client:  &http.Client{Timeout: defaultUploadTimeout},
		maxSize: MaxUploadSize,
	}
}

// Enabled reports whether the store has credentials configured.
func (s *SupabaseStore) Enabled() bool {
	return s.baseURL != "" && s.apiKey != ""
}

func (s *SupabaseStore) Upload(ctx context.Context, name, contentType string, payload []byte) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("object storage is not configured")
	}
	if int64(len(payload)) > s.maxSize {
		return "", fmt.Errorf("payload exceeds maximum allowed size: %d bytes", s.maxSize)
	}

	objectPath := fmt.Sprintf("%s/%s", s.bucket, name)
	url := fmt.Sprintf("%s/storage/v1/object/%s", s.baseURL, objectPath)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s", s.baseURL, objectPath)

	utils.Zlog.Info("Object uploaded",
		zap.String("path", objectPath),
		zap.Int("size", len(payload)))

	return publicURL, nil
}
