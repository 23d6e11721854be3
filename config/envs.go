package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP     string // Host IP for the server
	RESTPort   int    // Port for the REST API
	GinMode    string // Mode for the Gin framework (e.g., release, debug, test)
	DBHost     string // Hostname or IP address for the database
	DBPort     int    // Port number for the database
	DBUser     string // Username for the database
	DBPassword string // Password for the database
	DBName     string // Name of the database
	RedisHost  string // Hostname or IP address for redis
	RedisPort  int    // Port number for redis
	RedisPass  string // Password for redis, empty when unauthenticated
	JWTSecret  string // Secret key for JWT signing
	JWTIssuer  string // Issuer claim for JWTs

	CacheTTLSeconds  int // Lifetime of cached labyrinth lookups
	WorkerBatch      int // Jobs taken from the queue per poll
	WorkerIntervalMS int // Delay between queue polls

	LabyrinthMaxDimension int // Largest width or length accepted from clients
	LabyrinthMaxAttempts  int // Retry ceiling for one generation
	LabyrinthSpeculative  int // Parallel generators for unseeded requests
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:     mustGetEnv("HOST_IP"),
		RESTPort:   mustGetEnvAsInt("REST_PORT"),
		GinMode:    getEnvWithDefault("GIN_MODE", "release"),
		DBHost:     mustGetEnv("DB_HOST"),
		DBPort:     mustGetEnvAsInt("DB_PORT"),
		DBUser:     mustGetEnv("DB_USER"),
		DBPassword: mustGetEnv("DB_PASS"),
		DBName:     mustGetEnv("DB_NAME"),
		RedisHost:  mustGetEnv("REDIS_HOST"),
		RedisPort:  mustGetEnvAsInt("REDIS_PORT"),
		RedisPass:  getEnvWithDefault("REDIS_PASS", ""),
		JWTSecret:  mustGetEnv("JWT_SECRET"),
		JWTIssuer:  mustGetEnv("JWT_ISSUER"),

		CacheTTLSeconds:  getEnvAsIntWithDefault("CACHE_TTL_SECONDS", 3600),
		WorkerBatch:      getEnvAsIntWithDefault("WORKER_BATCH", 4),
		WorkerIntervalMS: getEnvAsIntWithDefault("WORKER_INTERVAL_MS", 500),

		LabyrinthMaxDimension: getEnvAsIntWithDefault("LABYRINTH_MAX_DIMENSION", 256),
		LabyrinthMaxAttempts:  getEnvAsIntWithDefault("LABYRINTH_MAX_ATTEMPTS", 100),
		LabyrinthSpeculative:  getEnvAsIntWithDefault("LABYRINTH_SPECULATIVE", 1),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault is getEnvWithDefault for integers. Unparsable values are fatal.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
