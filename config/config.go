package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadEnv sync.Once

// Config returns a required environment variable, loading .env on first use.
// Missing required variables are fatal.
func Config(envVar string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "No .env file loaded: %v\n", err)
		}
	})

	envVarValue := os.Getenv(envVar)
	if envVarValue == "" {
		fmt.Fprintf(os.Stderr, "%s not set\n", envVar)
		os.Exit(1)
	}

	return envVarValue
}

// Optional returns an environment variable or the given fallback when unset.
func Optional(envVar, fallback string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "No .env file loaded: %v\n", err)
		}
	})

	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}
