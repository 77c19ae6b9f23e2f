package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	// HTTP server
	ServerAddr string

	// Catalog backend selection: "rest" queries the hosted catalog API directly,
	// "mysql" queries the locally mirrored audio_nfts table.
	CatalogBackend string

	// Hosted catalog (Supabase PostgREST) settings.
	SupabaseURL     string
	SupabaseAnonKey string
	CatalogTable    string
	CatalogRPS      int // request rate limit against the hosted API

	// IPFS gateway settings. Every media reference leaving the catalog layer is
	// rewritten to an http(s) URL under this gateway.
	IPFSGateway          string
	ThumbnailPlaceholder string

	// MySQL mirror
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Playlist store: "file" persists to PlaylistStorePath, "redis" persists to
	// a single Redis key.
	PlaylistStoreBackend string
	PlaylistStorePath    string

	// MinIO media cache. Disabled when the endpoint is empty; /media/{cid}
	// then proxies the gateway without caching.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	// Logging
	LogLevel string
	LogFile  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		CatalogBackend:  getEnv("CATALOG_BACKEND", "rest"),
		SupabaseURL:     getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		CatalogTable:    getEnv("CATALOG_TABLE", "audio_nfts"),
		CatalogRPS:      getEnvInt("CATALOG_RPS", 10),

		IPFSGateway:          getEnv("IPFS_GATEWAY", "https://ipfs.io/ipfs/"),
		ThumbnailPlaceholder: getEnv("THUMBNAIL_PLACEHOLDER", "https://via.placeholder.com/150"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "tzmusic"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		PlaylistStoreBackend: getEnv("PLAYLIST_STORE", "file"),
		PlaylistStorePath:    getEnv("PLAYLIST_STORE_PATH", "data/playlists.json"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "tzmusic-media"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", true),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}
