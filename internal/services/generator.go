package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"clipforge-backend/internal/media"
	"clipforge-backend/internal/models"
	"clipforge-backend/internal/repository"
)

// VideoService runs the full generation pipeline: reference resolution,
// script writing, scoring, image and narration synthesis, and final
// assembly. Generation is synchronous; progress goes out over pub/sub
// so websocket clients can follow along.
type VideoService struct {
	videoRepo      *repository.VideoRepo
	gemini         *GeminiService
	reference      *ReferenceService
	images         *ImageService
	tts            *TTSService
	learning       *LearningService
	assembler      *media.Assembler
	pubsub         *redis.Client
	imagesPerVideo int
}

func NewVideoService(
	videoRepo *repository.VideoRepo,
	gemini *GeminiService,
	reference *ReferenceService,
	images *ImageService,
	tts *TTSService,
	learning *LearningService,
	assembler *media.Assembler,
	pubsub *redis.Client,
	imagesPerVideo int,
) *VideoService {
	return &VideoService{
		videoRepo:      videoRepo,
		gemini:         gemini,
		reference:      reference,
		images:         images,
		tts:            tts,
		learning:       learning,
		assembler:      assembler,
		pubsub:         pubsub,
		imagesPerVideo: imagesPerVideo,
	}
}

// Generate runs the pipeline end to end and persists the result.
func (s *VideoService) Generate(ctx context.Context, req *models.GenerateVideoRequest) (*models.GenerateVideoResponse, error) {
	if req.Niche == "" {
		return nil, NewValidationError(map[string]string{"niche": "niche is required"})
	}

	// ID up front: progress events reference it before the row exists.
	videoID := uuid.New()
	start := time.Now()

	reference := ""
	if req.InspirationURL != "" {
		s.publishStatus(ctx, videoID, 1, "Resolving reference", 90)
		reference = s.reference.Resolve(ctx, req.InspirationURL)
	}

	s.publishStatus(ctx, videoID, 2, "Writing script", 75)
	script, degraded, err := s.gemini.GenerateScript(ctx, req.Niche, req.Tone, reference)
	if err != nil {
		s.publishError(ctx, videoID, "SCRIPT_FAILED", err.Error())
		return nil, err
	}

	viralityScore := s.gemini.ScoreVirality(ctx, script)

	s.publishStatus(ctx, videoID, 3, "Generating images", 60)
	prompts := s.gemini.ImagePrompts(ctx, script, s.imagesPerVideo)
	imageAssets, imagesDropped := s.images.FetchBatch(ctx, prompts)

	s.publishStatus(ctx, videoID, 4, "Synthesizing narration", 40)
	audio, err := s.tts.Synthesize(ctx, script.Script, req.Voice)
	if err != nil {
		s.publishError(ctx, videoID, "TTS_FAILED", err.Error())
		return nil, err
	}

	s.publishStatus(ctx, videoID, 5, "Assembling video", 20)
	result, err := s.assembler.Assemble(ctx, imageAssets, audio)
	if err != nil {
		mediaErr := &MediaError{Stage: "assemble", Err: err}
		s.publishError(ctx, videoID, "ASSEMBLY_FAILED", mediaErr.Error())
		return nil, mediaErr
	}
	imagesDropped += result.DroppedImages

	video := &models.Video{
		ID:             videoID,
		Title:          script.Title,
		Niche:          req.Niche,
		Script:         *script,
		ScriptDegraded: degraded,
		ViralityScore:  viralityScore,
		VideoPath:      result.OutputPath,
		VideoURL:       downloadURL(videoID),
		Status:         "completed",
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to persist video: %w", err)
	}

	suggestions, err := s.learning.SuggestImprovements(ctx, script, viralityScore, req.Niche)
	if err != nil {
		log.Printf("suggestions unavailable for %s: %v", videoID, err)
		suggestions = nil
	}

	s.publishCompleted(ctx, videoID, video.VideoURL)
	log.Printf("generated video %s (niche=%s, %.1fs of media, %d segments, %d images dropped) in %s",
		videoID, req.Niche, result.Duration, result.SegmentCount, imagesDropped, time.Since(start).Round(time.Second))

	return &models.GenerateVideoResponse{
		VideoID:        videoID,
		Script:         *script,
		ScriptDegraded: degraded,
		ViralityScore:  viralityScore,
		VideoURL:       video.VideoURL,
		ImagesDropped:  imagesDropped,
		Suggestions:    suggestions,
	}, nil
}

// Get returns a stored video or a NotFoundError.
func (s *VideoService) Get(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, &NotFoundError{Resource: "video"}
	}
	return video, nil
}

func (s *VideoService) List(ctx context.Context, niche string, limit int) ([]*models.Video, error) {
	return s.videoRepo.List(ctx, niche, limit)
}

// Delete removes both the database row and the rendered file. A missing
// file is not an error; the row is authoritative.
func (s *VideoService) Delete(ctx context.Context, id uuid.UUID) error {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if video == nil {
		return &NotFoundError{Resource: "video"}
	}

	deleted, err := s.videoRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{Resource: "video"}
	}

	if video.VideoPath != "" {
		if err := os.Remove(video.VideoPath); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove video file %s: %v", video.VideoPath, err)
		}
	}

	return nil
}

func downloadURL(id uuid.UUID) string {
	return fmt.Sprintf("/api/v1/videos/%s/download", id)
}

func (s *VideoService) publishStatus(ctx context.Context, videoID uuid.UUID, step int, stepName string, etaSeconds int) {
	s.publish(ctx, videoID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			VideoID:                   videoID,
			Step:                      step,
			StepName:                  stepName,
			EstimatedSecondsRemaining: etaSeconds,
		},
	})
}

func (s *VideoService) publishCompleted(ctx context.Context, videoID uuid.UUID, videoURL string) {
	s.publish(ctx, videoID, models.WSMessage{
		Type:    "completed",
		Payload: models.CompletedEvent{VideoID: videoID, VideoURL: videoURL},
	})
}

func (s *VideoService) publishError(ctx context.Context, videoID uuid.UUID, code, message string) {
	s.publish(ctx, videoID, models.WSMessage{
		Type:    "error",
		Payload: models.ErrorEvent{VideoID: videoID, ErrorCode: code, ErrorMessage: message},
	})
}

func (s *VideoService) publish(ctx context.Context, videoID uuid.UUID, msg models.WSMessage) {
	if s.pubsub == nil {
		return
	}
	data, _ := json.Marshal(msg)
	s.pubsub.Publish(ctx, fmt.Sprintf("generation:%s", videoID), string(data))
}
