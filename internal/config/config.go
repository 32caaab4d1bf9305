package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Auth
	JWTSecret    string
	AdminKeyHash string

	// Gemini AI
	GeminiAPIKey         string
	GeminiConcurrentReqs int

	// OpenAI text-to-speech
	OpenAIAPIKey string
	TTSVoice     string
	TTSSpeed     float64

	// Image provider
	ImageProviderURL string
	ImagesPerVideo   int

	// Rendering
	OutputDir   string
	FFmpegPath  string
	FFprobePath string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		DatabaseURL:          mustGetEnv("DATABASE_URL"),
		RedisURL:             mustGetEnv("REDIS_URL"),
		JWTSecret:            mustGetEnv("JWT_SECRET"),
		AdminKeyHash:         mustGetEnv("ADMIN_API_KEY_HASH"),
		GeminiAPIKey:         mustGetEnv("GEMINI_API_KEY"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		OpenAIAPIKey:         mustGetEnv("OPENAI_API_KEY"),
		TTSVoice:             getEnvOrDefault("TTS_VOICE", "nova"),
		TTSSpeed:             getEnvAsFloatOrDefault("TTS_SPEED", 1.1),
		ImageProviderURL:     getEnvOrDefault("IMAGE_PROVIDER_URL", "https://image.pollinations.ai"),
		ImagesPerVideo:       getEnvAsIntOrDefault("IMAGES_PER_VIDEO", 5),
		OutputDir:            getEnvOrDefault("OUTPUT_DIR", "./generated_videos"),
		FFmpegPath:           getEnvOrDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:          getEnvOrDefault("FFPROBE_PATH", "ffprobe"),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}
