package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type Config struct {
	ProjectID string
	Region    string
	LogLevel  string
	Port      string

	GeminiAPIKey       string
	GeminiAPIKeySecret string
	Models             Models
	GoogleSearch       bool
	VisualsEnabled     bool
	ThinkingBudget     int32
	VideoPollInterval  time.Duration

	KMSKeyName     string
	MediaBucket    string
	HistoryBackend string
	HistoryLimit   int
	MongoURI       string
	MongoDatabase  string
	PebblePath     string

	RedisAddr       string
	ExplainCacheTTL time.Duration
	AITTL           time.Duration

	CORSOrigins   []string
	RateRPS       float64
	RateBurst     int
	MaxUploadSize int64
	AuthDisabled  bool
}

// Models holds the hosted model used for each operation.
type Models struct {
	Eval       string
	Image      string
	Video      string
	Transcribe string
	TTS        string
	Chat       string
	Explain    string
}

const (
	HistoryFirestore = "firestore"
	HistoryMongo     = "mongo"
	HistoryPebble    = "pebble"
)

func New() *Config {
	return &Config{
		ProjectID: os.Getenv("PROJECTID"),
		Region:    getEnvOrDefault("REGION", "us-central1"),
		LogLevel:  os.Getenv("LOGLEVEL"),
		Port:      getEnvOrDefault("PORT", "8080"),

		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiAPIKeySecret: os.Getenv("GEMINI_API_KEY_SECRET"),
		Models: Models{
			Eval:       getEnvOrDefault("EVAL_MODEL", "gemini-3-pro-preview"),
			Image:      getEnvOrDefault("IMAGE_MODEL", "gemini-3-pro-image-preview"),
			Video:      getEnvOrDefault("VIDEO_MODEL", "veo-3.1-fast-generate-preview"),
			Transcribe: getEnvOrDefault("TRANSCRIBE_MODEL", "gemini-3-flash-preview"),
			TTS:        getEnvOrDefault("TTS_MODEL", "gemini-2.5-flash-preview-tts"),
			Chat:       getEnvOrDefault("CHAT_MODEL", "gemini-3-pro-preview"),
			Explain:    getEnvOrDefault("EXPLAIN_MODEL", "gemini-2.5-flash-lite-latest"),
		},
		GoogleSearch:      parseBoolEnv("GOOGLE_SEARCH_ENABLED", true),
		VisualsEnabled:    parseBoolEnv("VISUALS_ENABLED", true),
		ThinkingBudget:    int32(parseIntEnv("THINKING_BUDGET", 32768)),
		VideoPollInterval: parseDurationEnv("VIDEO_POLL_INTERVAL", 5*time.Second),

		KMSKeyName:     os.Getenv("KMSKEYNAME"),
		MediaBucket:    os.Getenv("MEDIA_BUCKET"),
		HistoryBackend: strings.ToLower(getEnvOrDefault("HISTORY_BACKEND", HistoryFirestore)),
		HistoryLimit:   parseIntEnv("HISTORY_LIMIT", 50),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDatabase:  getEnvOrDefault("MONGO_DATABASE", "decido"),
		PebblePath:     getEnvOrDefault("PEBBLE_PATH", "data/history"),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		ExplainCacheTTL: parseDurationEnv("EXPLAIN_CACHE_TTL", 24*time.Hour),
		AITTL:           parseDurationEnv("AITTL", 7*24*time.Hour),

		CORSOrigins:   parseListEnv("CORS_ORIGINS", []string{"*"}),
		RateRPS:       parseFloatEnv("RATE_RPS", 5),
		RateBurst:     parseIntEnv("RATE_BURST", 10),
		MaxUploadSize: parseBytesEnv("MAX_UPLOAD_SIZE", 32<<20),
		AuthDisabled:  parseBoolEnv("AUTH_DISABLED", false),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func parseIntEnv(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseFloatEnv(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// parseBytesEnv accepts humanized sizes such as "32MB" or "10MiB".
func parseBytesEnv(key string, fallback int64) int64 {
	v, err := humanize.ParseBytes(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v == 0 {
		return fallback
	}
	return int64(v)
}

func parseListEnv(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
