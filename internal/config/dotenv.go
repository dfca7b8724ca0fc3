package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFileName is the name of the environment variables file.
const EnvFileName = ".env"

// LoadDotEnv loads environment variables from .taktwerk/.env if it exists.
// godotenv.Load never overrides variables already set in the environment,
// so system env vars take priority over .env values.
// Returns nil if the file doesn't exist; an error only if it exists but
// cannot be parsed.
func LoadDotEnv(baseDir string) error {
	envPath := filepath.Join(baseDir, Dir, EnvFileName)

	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return nil
	}

	return godotenv.Load(envPath)
}

// LoadDotEnvFromCwd loads .env from the current working directory's
// .taktwerk/.env.
func LoadDotEnvFromCwd() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	return LoadDotEnv(cwd)
}
