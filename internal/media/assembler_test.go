package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipforge-backend/internal/models"
)

func TestNewAssemblerDefaults(t *testing.T) {
	a := NewAssembler("", "", "/tmp/out")
	if a.ffmpegPath != "ffmpeg" || a.ffprobePath != "ffprobe" {
		t.Errorf("defaults = (%q, %q), want (ffmpeg, ffprobe)", a.ffmpegPath, a.ffprobePath)
	}

	b := NewAssembler("/usr/local/bin/ffmpeg", "/usr/local/bin/ffprobe", "/tmp/out")
	if b.ffmpegPath != "/usr/local/bin/ffmpeg" {
		t.Errorf("explicit ffmpeg path not kept: %q", b.ffmpegPath)
	}
}

func TestWriteImagesSkipsEmptyAssets(t *testing.T) {
	dir := t.TempDir()
	a := NewAssembler("", "", dir)

	images := []models.ImageAsset{
		{Data: []byte("png-bytes"), MimeType: "image/png"},
		{Data: nil, MimeType: "image/jpeg"}, // dropped
		{Data: []byte("jpg-bytes"), MimeType: "image/jpeg"},
	}

	paths := a.writeImages(dir, images)

	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	if filepath.Ext(paths[0]) != ".png" {
		t.Errorf("first image ext = %q, want .png", filepath.Ext(paths[0]))
	}
	if filepath.Ext(paths[1]) != ".jpg" {
		t.Errorf("second image ext = %q, want .jpg", filepath.Ext(paths[1]))
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("failed to read written image: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("written data = %q", data)
	}
}

func TestExtForMime(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", ".png"},
		{"image/webp", ".webp"},
		{"image/jpeg", ".jpg"},
		{"", ".jpg"},
		{"application/octet-stream", ".jpg"},
	}

	for _, tt := range tests {
		if got := extForMime(tt.mime); got != tt.want {
			t.Errorf("extForMime(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestTailTruncatesLongOutput(t *testing.T) {
	short := "brief error"
	if got := tail(short); got != short {
		t.Errorf("tail(short) = %q", got)
	}

	long := strings.Repeat("x", 2000) + "END"
	got := tail(long)
	if !strings.HasPrefix(got, "...") {
		t.Errorf("truncated output should start with ellipsis: %q", got[:10])
	}
	if !strings.HasSuffix(got, "END") {
		t.Error("truncated output should keep the tail end")
	}
	if len(got) > 515 {
		t.Errorf("truncated length = %d", len(got))
	}
}

func TestAssembleRejectsEmptyAudio(t *testing.T) {
	a := NewAssembler("", "", t.TempDir())
	ctx := context.Background()

	if _, err := a.Assemble(ctx, nil, nil); err == nil {
		t.Error("expected error for nil audio")
	}
	if _, err := a.Assemble(ctx, nil, &models.AudioTrack{}); err == nil {
		t.Error("expected error for empty audio data")
	}
}
