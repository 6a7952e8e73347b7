package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port     string
	LogLevel string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Sources  SourcesConfig

	DetailsCacheTTL   time.Duration
	EnrichConcurrency int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
}

type SourcesConfig struct {
	TMDBBaseURL        string
	TMDBAPIKey         string
	TMDBReadToken      string
	AniListURL         string
	OpenLibraryBaseURL string
	SteamSpyBaseURL    string
	HTTPTimeout        time.Duration
	UserAgent          string
}

// Load reads configuration from the environment. Callers load .env files first.
func Load() Config {
	return Config{
		Port:     GetEnv("PORT", "8080"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "5432"),
			User:     GetEnv("DB_USER", ""),
			Password: GetEnv("DB_PASS", ""),
			Name:     GetEnv("DB_NAME", "mediascope"),
		},
		Redis: RedisConfig{
			Host:     GetEnv("R_HOST", "redis"),
			Port:     GetEnv("R_PORT", "6379"),
			Password: GetEnv("R_PASS", ""),
		},
		Auth: AuthConfig{
			JWTSecret: GetEnv("AUTH_JWT_SECRET", ""),
			JWTIssuer: GetEnv("AUTH_JWT_ISSUER", ""),
		},
		Sources: SourcesConfig{
			TMDBBaseURL:        GetEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			TMDBAPIKey:         GetEnv("TMDB_API_KEY", ""),
			TMDBReadToken:      GetEnv("TMDB_READ_TOKEN", ""),
			AniListURL:         GetEnv("ANILIST_URL", "https://graphql.anilist.co"),
			OpenLibraryBaseURL: GetEnv("OPENLIBRARY_BASE_URL", "https://openlibrary.org"),
			SteamSpyBaseURL:    GetEnv("STEAMSPY_BASE_URL", "https://steamspy.com/api.php"),
			HTTPTimeout:        GetDuration("HTTP_TIMEOUT", 15*time.Second),
			UserAgent:          GetEnv("USER_AGENT", "MediaScope/1.0"),
		},
		DetailsCacheTTL:   GetDuration("DETAILS_CACHE_TTL", time.Hour),
		EnrichConcurrency: GetInt("ENRICH_CONCURRENCY", 6),
	}
}

// GetEnv retrieves values from environment files based on the key it matches,
// returns a string (value) if not empty
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func GetDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
