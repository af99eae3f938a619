// Package config centralises all environment / flag configuration for the API.
// It should be imported only by `cmd/server` (and test code). Business-logic
// layers receive an already-built Config instance via dependency-injection.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple—prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port string

	// Data stores
	MongoURI string
	DBName   string
	Storage  string // "mongo" (default) or "memory" for local development

	// Summarizer selection
	Summarizer  string // "vertex" (default), "openai", or "dummy"
	ProjectID   string
	Location    string
	GeminiModel string
	OpenAIKey   string
	OpenAIModel string

	// Summaries
	DefaultLang string

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load parses the environment (and an optional .env file) into Config.
// It panics on missing critical variables so mis-configurations fail fast.
func Load() Config {
	// godotenv.Load() is a no-op if .env doesn't exist—safe in production.
	_ = godotenv.Load()

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		Storage:      getEnv("STORAGE", "mongo"),
		Summarizer:   getEnv("SUMMARIZER", "vertex"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash-lite-001"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		DefaultLang:  getEnv("DEFAULT_LANG", "ja"),
		ReadTimeout:  getDuration("READ_TIMEOUT_SEC", 5),
		WriteTimeout: getDuration("WRITE_TIMEOUT_SEC", 30),
	}

	if cfg.Storage == "mongo" {
		cfg.MongoURI = must("MONGODB_URI")
		cfg.DBName = getEnv("MONGODB_DB", "pullstory")
	}
	if cfg.Summarizer == "vertex" {
		cfg.ProjectID = must("GCP_PROJECT_ID")
		cfg.Location = must("GCP_LOCATION")
	}
	if cfg.Summarizer == "openai" && cfg.OpenAIKey == "" {
		log.Fatalf("env var OPENAI_API_KEY is required when SUMMARIZER=openai")
	}

	return cfg
}

// must fetches a required env var or terminates the program.
func must(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("env var %s is required", key)
	}
	return val
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			return time.Duration(sec) * time.Second
		}
		log.Printf("invalid %s=%q; using default %ds", key, v, defaultSec)
	}
	return time.Duration(defaultSec) * time.Second
}
