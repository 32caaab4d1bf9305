package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"clipforge-backend/internal/models"
)

const (
	frameWidth  = 1080
	frameHeight = 1920
	frameRate   = 30
	maxZoom     = 1.08
)

// Assembler turns a batch of still images plus a narration track into a
// vertical MP4 using ffmpeg. Narration drives the timeline: each image
// gets an equal slice of the audio duration with a Ken Burns zoom.
type Assembler struct {
	ffmpegPath  string
	ffprobePath string
	outputDir   string
}

type Result struct {
	OutputPath    string
	Duration      float64
	SegmentCount  int
	DroppedImages int
}

func NewAssembler(ffmpegPath, ffprobePath, outputDir string) *Assembler {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Assembler{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		outputDir:   outputDir,
	}
}

// Assemble renders the final video. Images that fail to render are
// dropped and the remaining segments stretched to keep the video in
// sync with the narration. With no usable images a black placeholder
// carries the audio. Audio problems are fatal.
func (a *Assembler) Assemble(ctx context.Context, images []models.ImageAsset, audio *models.AudioTrack) (*Result, error) {
	if audio == nil || len(audio.Data) == 0 {
		return nil, fmt.Errorf("audio track is empty")
	}

	workDir, err := os.MkdirTemp("", "clipforge-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	audioPath := filepath.Join(workDir, "narration.mp3")
	if err := os.WriteFile(audioPath, audio.Data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write narration: %w", err)
	}

	duration, err := a.probeDuration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("ffprobe narration: %w", err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("narration has zero duration")
	}

	imagePaths := a.writeImages(workDir, images)
	dropped := len(images) - len(imagePaths)

	var segments []string
	for len(imagePaths) > 0 {
		perSegment := duration / float64(len(imagePaths))

		var survivors []string
		segments = segments[:0]
		failed := 0
		for i, imgPath := range imagePaths {
			segPath := filepath.Join(workDir, fmt.Sprintf("seg_%03d.mp4", i))
			if err := a.renderSegment(ctx, imgPath, segPath, perSegment); err != nil {
				log.Printf("segment %d failed, dropping image: %v", i, err)
				failed++
				continue
			}
			survivors = append(survivors, imgPath)
			segments = append(segments, segPath)
		}

		if failed == 0 {
			break
		}

		// Re-render with fewer images so segments still cover the
		// full narration.
		dropped += failed
		imagePaths = survivors
		segments = nil
	}

	var silentPath string
	if len(segments) == 0 {
		silentPath = filepath.Join(workDir, "placeholder.mp4")
		if err := a.renderPlaceholder(ctx, silentPath, duration); err != nil {
			return nil, fmt.Errorf("placeholder render: %w", err)
		}
	} else {
		silentPath = filepath.Join(workDir, "silent.mp4")
		if err := a.concatSegments(ctx, workDir, segments, silentPath); err != nil {
			return nil, fmt.Errorf("concat segments: %w", err)
		}
	}

	if err := os.MkdirAll(a.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	// Fresh name per attempt so a retried render never clobbers a file
	// already being served.
	outputPath := filepath.Join(a.outputDir, uuid.NewString()+".mp4")
	if err := a.mux(ctx, silentPath, audioPath, outputPath); err != nil {
		return nil, fmt.Errorf("mux: %w", err)
	}

	return &Result{
		OutputPath:    outputPath,
		Duration:      duration,
		SegmentCount:  len(segments),
		DroppedImages: dropped,
	}, nil
}

// writeImages persists image bytes to disk, skipping empty assets.
func (a *Assembler) writeImages(workDir string, images []models.ImageAsset) []string {
	var paths []string
	for i, img := range images {
		if len(img.Data) == 0 {
			continue
		}
		path := filepath.Join(workDir, fmt.Sprintf("img_%03d%s", i, extForMime(img.MimeType)))
		if err := os.WriteFile(path, img.Data, 0644); err != nil {
			log.Printf("failed to write image %d: %v", i, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func (a *Assembler) probeDuration(ctx context.Context, path string) (float64, error) {
	out, err := exec.CommandContext(ctx, a.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, err
	}

	var dur float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur); err != nil {
		return 0, fmt.Errorf("unparseable duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return dur, nil
}

// renderSegment renders one image into a Ken Burns zoom clip.
func (a *Assembler) renderSegment(ctx context.Context, imgPath, outPath string, duration float64) error {
	totalFrames := int(duration * frameRate)
	if totalFrames < 1 {
		totalFrames = 1
	}
	zoomStep := (maxZoom - 1.0) / float64(totalFrames)

	// Upscale before zoompan to avoid jitter on subpixel pans.
	zoomFilter := fmt.Sprintf(
		"scale=%d:%d,zoompan=z='min(zoom+%.6f,%.3f)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:fps=%d,scale=%d:%d",
		frameWidth*4, frameHeight*4, zoomStep, maxZoom, totalFrames, frameRate, frameWidth, frameHeight,
	)

	cmd := exec.CommandContext(ctx, a.ffmpegPath, "-y",
		"-loop", "1",
		"-i", imgPath,
		"-vf", zoomFilter,
		"-t", fmt.Sprintf("%.3f", duration),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		outPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg segment: %w, output: %s", err, tail(string(output)))
	}
	return nil
}

// renderPlaceholder produces a black clip the length of the narration.
func (a *Assembler) renderPlaceholder(ctx context.Context, outPath string, duration float64) error {
	cmd := exec.CommandContext(ctx, a.ffmpegPath, "-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=black:s=%dx%d:d=%.3f", frameWidth, frameHeight, duration),
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", frameRate),
		"-an",
		outPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg placeholder: %w, output: %s", err, tail(string(output)))
	}
	return nil
}

// concatSegments joins segment clips with the concat demuxer.
func (a *Assembler) concatSegments(ctx context.Context, workDir string, segments []string, outPath string) error {
	var lines []string
	for _, seg := range segments {
		abs, err := filepath.Abs(seg)
		if err != nil {
			abs = seg
		}
		lines = append(lines, fmt.Sprintf("file '%s'", abs))
	}

	listFile := filepath.Join(workDir, "concat.txt")
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}

	cmd := exec.CommandContext(ctx, a.ffmpegPath, "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		outPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat: %w, output: %s", err, tail(string(output)))
	}
	return nil
}

// mux combines the silent video with the narration track.
func (a *Assembler) mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	cmd := exec.CommandContext(ctx, a.ffmpegPath, "-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart",
		outPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg mux: %w, output: %s", err, tail(string(output)))
	}
	return nil
}

func extForMime(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// tail keeps ffmpeg error output readable in logs.
func tail(s string) string {
	const max = 512
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
