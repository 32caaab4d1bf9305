package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"clipforge-backend/internal/models"
)

const (
	imageWidth       = 1080
	imageHeight      = 1920
	imageMaxAttempts = 3
)

// ImageService fetches generated images from a Pollinations-compatible
// endpoint. Individual failures drop the image rather than failing the
// whole batch.
type ImageService struct {
	baseURL    string
	httpClient *http.Client
}

func NewImageService(baseURL string) *ImageService {
	return &ImageService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// FetchBatch fetches one image per prompt, in order. Failed prompts are
// skipped; the returned slice holds only the successes. The dropped
// count lets callers report partial batches.
func (s *ImageService) FetchBatch(ctx context.Context, prompts []string) ([]models.ImageAsset, int) {
	var assets []models.ImageAsset
	dropped := 0

	for i, prompt := range prompts {
		asset, err := s.fetchOne(ctx, prompt)
		if err != nil {
			log.Printf("image %d/%d failed, skipping: %v", i+1, len(prompts), err)
			dropped++
			continue
		}
		assets = append(assets, *asset)
	}

	return assets, dropped
}

func (s *ImageService) fetchOne(ctx context.Context, prompt string) (*models.ImageAsset, error) {
	seed := rand.Intn(1000000)
	imageURL := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&nologo=true&model=flux&seed=%d",
		s.baseURL, url.PathEscape(prompt), imageWidth, imageHeight, seed)

	var lastErr error
	for attempt := 1; attempt <= imageMaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 2 * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("image provider returned status %d", resp.StatusCode)
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if len(data) == 0 {
			lastErr = fmt.Errorf("image provider returned empty body")
			continue
		}

		mimeType := resp.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "image/jpeg"
		}

		return &models.ImageAsset{Data: data, MimeType: mimeType, Prompt: prompt}, nil
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", imageMaxAttempts, lastErr)
}
