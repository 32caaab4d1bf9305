package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/prompt/") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("width") != "1080" || r.URL.Query().Get("height") != "1920" {
			t.Errorf("unexpected dimensions in query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("fake-image-bytes"))
	}))
	defer server.Close()

	svc := NewImageService(server.URL)
	assets, dropped := svc.FetchBatch(context.Background(), []string{"a sunrise", "a city"})

	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if len(assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(assets))
	}
	if assets[0].MimeType != "image/png" {
		t.Errorf("mime type = %q, want image/png", assets[0].MimeType)
	}
	if string(assets[0].Data) != "fake-image-bytes" {
		t.Errorf("unexpected image data %q", assets[0].Data)
	}
	if assets[1].Prompt != "a city" {
		t.Errorf("prompt = %q, want 'a city'", assets[1].Prompt)
	}
}

func TestFetchBatchDropsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// Short deadline so the retry backoff aborts instead of sleeping.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	svc := NewImageService(server.URL)
	assets, dropped := svc.FetchBatch(ctx, []string{"doomed prompt"})

	if len(assets) != 0 {
		t.Errorf("got %d assets, want 0", len(assets))
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
}
