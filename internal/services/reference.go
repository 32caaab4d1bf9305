package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
)

// ReferenceService resolves an inspiration URL into text the script
// writer can draw from. YouTube links go through captions first, then
// audio transcription; anything else degrades to the raw URL string.
type ReferenceService struct {
	httpClient    *http.Client
	transcriptAPI *ytapi.YouTubeTranscriptApi
	ytClient      *yt.Client
	gemini        *GeminiService
}

func NewReferenceService(gemini *GeminiService) *ReferenceService {
	return &ReferenceService{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
		ytClient:      &yt.Client{},
		gemini:        gemini,
	}
}

// Resolve returns reference text for the URL. A failure at every tier is
// not fatal: the raw URL is returned so generation proceeds without
// reference material.
func (s *ReferenceService) Resolve(ctx context.Context, rawURL string) string {
	videoID, ok := extractYouTubeID(rawURL)
	if !ok {
		return rawURL
	}

	if text, err := s.transcriptText(videoID); err == nil {
		return text
	} else {
		log.Printf("transcript lookup failed for %s: %v", videoID, err)
	}

	if text, err := s.transcribeViaAudio(ctx, rawURL); err == nil {
		return text
	} else {
		log.Printf("audio transcription failed for %s: %v", videoID, err)
	}

	return rawURL
}

// transcriptText fetches captions, trying the transcript API first and
// the timedtext endpoint second.
func (s *ReferenceService) transcriptText(videoID string) (string, error) {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, []string{"en", "en-US", "en-GB"})
	if err != nil {
		// Fallback: request any available language
		transcript, err = s.transcriptAPI.GetTranscript(videoID, nil)
		if err != nil {
			legacy, legacyErr := s.timedTextTranscript(videoID)
			if legacyErr == nil {
				return legacy, nil
			}
			return "", fmt.Errorf("no subtitles via transcript API (%v), timedtext fallback failed (%v)", err, legacyErr)
		}
	}

	if len(transcript.Entries) == 0 {
		return "", fmt.Errorf("subtitle track is empty")
	}

	var fullText strings.Builder
	for _, entry := range transcript.Entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		fullText.WriteString(text)
		fullText.WriteString(" ")
	}

	cleaned := strings.TrimSpace(fullText.String())
	if cleaned == "" {
		return "", fmt.Errorf("subtitle text resolved to empty content")
	}

	return cleaned, nil
}

func (s *ReferenceService) timedTextTranscript(videoID string) (string, error) {
	pageURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
	req, _ := http.NewRequest("GET", pageURL, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch YouTube page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read YouTube page: %w", err)
	}

	captionURL, err := extractCaptionURL(string(body))
	if err != nil {
		return "", err
	}

	captionResp, err := s.httpClient.Get(captionURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch captions: %w", err)
	}
	defer captionResp.Body.Close()

	captionBody, err := io.ReadAll(captionResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read captions: %w", err)
	}

	transcript, err := parseCaptionsXML(captionBody)
	if err != nil {
		return "", fmt.Errorf("failed to parse captions XML: %w", err)
	}

	return transcript, nil
}

// transcribeViaAudio downloads the audio stream and runs it through
// Gemini transcription.
func (s *ReferenceService) transcribeViaAudio(ctx context.Context, videoURL string) (string, error) {
	video, err := s.ytClient.GetVideo(videoURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch YouTube video metadata: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return "", fmt.Errorf("no audio formats available")
	}

	best := formats[0]
	for _, f := range formats {
		if f.Bitrate > best.Bitrate {
			best = f
		}
	}

	stream, _, err := s.ytClient.GetStream(video, &best)
	if err != nil {
		return "", fmt.Errorf("failed to open audio stream: %w", err)
	}
	defer stream.Close()

	const maxAudioBytes = 100 * 1024 * 1024 // 100MB safety cap
	limited := io.LimitReader(stream, maxAudioBytes+1)
	audioBytes, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("failed to read audio stream: %w", err)
	}
	if len(audioBytes) > maxAudioBytes {
		return "", fmt.Errorf("audio stream exceeds %d MB limit", maxAudioBytes/(1024*1024))
	}

	mimeType := strings.TrimSpace(strings.Split(best.MimeType, ";")[0])
	if mimeType == "" {
		mimeType = "audio/mp4"
	}

	return s.gemini.TranscribeAudio(ctx, audioBytes, mimeType)
}

// extractYouTubeID recognizes watch, youtu.be, and shorts URLs.
func extractYouTubeID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			return v, true
		}
		if strings.HasPrefix(u.Path, "/shorts/") {
			id := strings.TrimPrefix(u.Path, "/shorts/")
			if id = strings.Split(id, "/")[0]; id != "" {
				return id, true
			}
		}
	case "youtu.be":
		id := strings.TrimPrefix(u.Path, "/")
		if id = strings.Split(id, "/")[0]; id != "" {
			return id, true
		}
	}

	return "", false
}

type timedTextXML struct {
	XMLName xml.Name  `xml:"transcript"`
	Texts   []textXML `xml:"text"`
}

type textXML struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

func extractCaptionURL(pageHTML string) (string, error) {
	re := regexp.MustCompile(`"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	matches := re.FindStringSubmatch(pageHTML)
	if len(matches) < 2 {
		re2 := regexp.MustCompile(`"playerCaptionsTracklistRenderer"\s*:\s*\{(?:.*?,)?\s*"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
		matches = re2.FindStringSubmatch(pageHTML)
		if len(matches) < 2 {
			return "", fmt.Errorf("no captions available for this video")
		}
	}

	tracksJSON := matches[1]
	reURL := regexp.MustCompile(`"baseUrl"\s*:\s*"(.*?)"`)
	urlMatches := reURL.FindStringSubmatch(tracksJSON)
	if len(urlMatches) < 2 {
		return "", fmt.Errorf("caption track found but baseUrl missing")
	}

	u := urlMatches[1]
	u = strings.ReplaceAll(u, `\u0026`, "&")
	u = strings.ReplaceAll(u, `\/`, "/")

	return u, nil
}

func parseCaptionsXML(data []byte) (string, error) {
	var tt timedTextXML
	if err := xml.Unmarshal(data, &tt); err != nil {
		return "", err
	}

	var parts []string
	for _, t := range tt.Texts {
		text := html.UnescapeString(t.Text)
		text = strings.TrimSpace(text)
		if text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("captions XML empty")
	}

	return strings.Join(parts, " "), nil
}
