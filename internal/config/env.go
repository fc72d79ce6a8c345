package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultDataDir = ".partsim"
	DefaultAddr    = ":8080"
	DefaultFPS     = 60
)

// Env holds the host settings read from the process environment.
type Env struct {
	DataDir string
	Addr    string
	FPS     int
	// Origins allowed to call the server; empty allows any.
	Origins []string
}

// LoadEnv loads .env (or the given files) when present and reads the
// PARTSIM_* variables. Variables already set in the environment win.
func LoadEnv(files ...string) *Env {
	godotenv.Load(files...)

	return &Env{
		DataDir: getEnv("PARTSIM_DATA", DefaultDataDir),
		Addr:    getEnv("PARTSIM_ADDR", DefaultAddr),
		FPS:     getEnvInt("PARTSIM_FPS", DefaultFPS),
		Origins: getEnvList("PARTSIM_ORIGINS"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
