package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	StoreBackend            string
	FirebaseCredentialsPath string
	FirebaseBucket          string
	PostgresUrl             string
	MongoURI                string
	MongoDatabase           string
	RedisAddr               string
	RedisPassword           string
	RankingCacheTTL         time.Duration
	AuthMode                string
	JWTSecret               string
	MediaBackend            string
	MediaDir                string
	MediaBaseURL            string
	ReconcileInterval       time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	port := getEnv("PORT", "8080")
	return &Config{
		Port:                    port,
		Env:                     getEnv("ENV", "development"),
		StoreBackend:            getEnv("STORE_BACKEND", "persistent"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseBucket:          getEnv("FIREBASE_BUCKET", ""),
		PostgresUrl:             getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "academind"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		RankingCacheTTL:         getDuration("RANKING_CACHE_TTL", time.Minute),
		AuthMode:                getEnv("AUTH_MODE", "jwt"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		MediaBackend:            getEnv("MEDIA_BACKEND", "disk"),
		MediaDir:                getEnv("MEDIA_DIR", "public/images"),
		MediaBaseURL:            getEnv("MEDIA_BASE_URL", "http://localhost:"+port+"/media"),
		ReconcileInterval:       getDuration("RECONCILE_INTERVAL", 0),
	}
}

// UsesMemoryStore reports whether the in-process repositories are selected.
func (c *Config) UsesMemoryStore() bool {
	return c.StoreBackend == "memory"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// plain integers are taken as seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Ignoring invalid duration %s=%q, using %s", key, value, defaultValue)
	return defaultValue
}
