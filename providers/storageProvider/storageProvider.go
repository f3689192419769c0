package storageprovider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"unilance/providers"
)

type HostedStorageProvider struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewStorageProvider talks to the platform's storage REST surface with the
// service key, which bypasses row-level policies. It must never reach clients.
func NewStorageProvider(cfg providers.PlatformConfig) providers.StorageProvider {
	return &HostedStorageProvider{
		baseURL:    cfg.StorageURL(),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HostedStorageProvider) Upload(ctx context.Context, bucket, objectPath string, r io.Reader, contentType string) error {
	url := fmt.Sprintf("%s/object/%s/%s", s.baseURL, bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, r)
	if err != nil {
		return err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "storage upload")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("storage upload: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (s *HostedStorageProvider) Remove(ctx context.Context, bucket, objectPath string) error {
	url := fmt.Sprintf("%s/object/%s/%s", s.baseURL, bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "storage remove")
	}
	defer resp.Body.Close()

	// Removing an object that is already gone is not an error worth surfacing.
	if resp.StatusCode != http.StatusNotFound && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return errors.Errorf("storage remove: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (s *HostedStorageProvider) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, bucket, objectPath)
}

func (s *HostedStorageProvider) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
}
