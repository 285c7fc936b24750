package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnv loads .env and then .env.<APP_ENV> over it. Missing files are not
// an error: secrets may come from the real environment instead. Returns the
// files that were loaded.
func loadEnv(dir string) []string {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	var loaded []string
	base := filepath.Join(dir, ".env")
	if err := godotenv.Load(base); err == nil {
		loaded = append(loaded, base)
	}

	overlay := filepath.Join(dir, fmt.Sprintf(".env.%s", appEnv))
	if err := godotenv.Overload(overlay); err == nil {
		loaded = append(loaded, overlay)
	}
	return loaded
}
