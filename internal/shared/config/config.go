package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string

	KnowledgePath string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	ClassifierMode      string // mock or remote
	ClassifierURL       string
	ConfidenceThreshold float64
	MaxImageSizeMB      int

	AlertRadiusKm      float64
	AlertDedupeHours   int
	AlertQueueURL      string
	OverpassURLs       []string
	StoreSearchRadiusM int

	OpenAIAPIKey    string
	OpenAIChatModel string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost,http://localhost:3000,http://127.0.0.1,http://127.0.0.1:3000")),
		DatabaseURL:     dbURL,

		KnowledgePath: getEnv("KNOWLEDGE_PATH", ""),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		ClassifierMode:      normalizeClassifierMode(getEnv("CLASSIFIER_MODE", "mock")),
		ClassifierURL:       getEnv("CLASSIFIER_URL", ""),
		ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 0.5),
		MaxImageSizeMB:      getEnvInt("MAX_IMAGE_SIZE_MB", 10),

		AlertRadiusKm:      getEnvFloat("ALERT_RADIUS_KM", 10),
		AlertDedupeHours:   getEnvInt("ALERT_DEDUPE_HOURS", 6),
		AlertQueueURL:      getEnv("AK_SQS_QUEUE_URL", ""),
		OverpassURLs:       splitAndTrim(getEnv("OVERPASS_URLS", "https://overpass-api.de/api/interpreter,https://overpass.kumi.systems/api/interpreter,https://overpass.nchc.org.tw/api/interpreter")),
		StoreSearchRadiusM: getEnvInt("STORE_SEARCH_RADIUS_M", 5000),

		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIChatModel: getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeClassifierMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "remote":
		return "remote"
	default:
		return "mock"
	}
}
