package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultBucket = "capstonestorage1"

type Config struct {
	Port           string
	Environment    string   // ENV: production, development, etc.
	LogMode        string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)

	// Identity provider
	FirebaseProjectID   string
	FirebaseClientEmail string
	FirebasePrivateKey  string

	// Blob storage
	StorageBucket     string
	SurveyBucket      string
	StorageEmulator   string
	GoogleCredentials string // path or inline JSON

	MongoURI      string
	MongoDatabase string
	RedisURI      string // optional; rate limiting is off when empty
	PostgresURI   string // optional; login audit is off when empty

	DrugStoreDataDir string

	RateLimitWindow      time.Duration
	RateLimitMaxRequests int
	TrustProxy           bool // key rate limits on X-Forwarded-For
	AllowedHost          string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", ""), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	// The mobile client calls from arbitrary origins, same as cors() with no options.
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	bucket := getEnv("FIREBASE_STORAGE_BUCKET", defaultBucket)
	googleCreds := getEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""))

	return &Config{
		Port:                 getEnv("PORT", "3000"),
		Environment:          env,
		LogMode:              getEnv("LOG_MODE", env),
		AllowedOrigins:       allowedOrigins,
		FirebaseProjectID:    getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseClientEmail:  getEnv("FIREBASE_CLIENT_EMAIL", ""),
		FirebasePrivateKey:   unescapeNewlines(getEnv("FIREBASE_PRIVATE_KEY", "")),
		StorageBucket:        bucket,
		SurveyBucket:         getEnv("SURVEY_BUCKET", bucket),
		StorageEmulator:      strings.TrimRight(getEnv("STORAGE_EMULATOR_HOST", ""), "/"),
		GoogleCredentials:    strings.TrimSpace(googleCreds),
		MongoURI:             getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/mindcare")),
		MongoDatabase:        getEnv("MONGODB_DATABASE", ""),
		RedisURI:             getEnv("REDIS_URI", ""),
		PostgresURI:          getEnv("POSTGRES_URI", ""),
		DrugStoreDataDir:     getEnv("DRUGSTORE_DATA_DIR", "data"),
		RateLimitWindow:      getDuration("RATE_LIMIT_WINDOW", 120*time.Second),
		RateLimitMaxRequests: getInt("RATE_LIMIT_MAX_REQUESTS", 100),
		TrustProxy:           getBool("TRUST_PROXY", false),
		AllowedHost:          strings.TrimSpace(getEnv("ALLOWED_HOST", "")),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// HasFirebaseServiceAccount reports whether the three FIREBASE_* credential
// variables are all present.
func (c *Config) HasFirebaseServiceAccount() bool {
	return c.FirebaseProjectID != "" && c.FirebaseClientEmail != "" && c.FirebasePrivateKey != ""
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// unescapeNewlines turns the literal "\n" sequences dotenv files carry in PEM keys
// back into newlines.
func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
