package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const tokenEnvVar = "GITHUB_TOKEN"

// ResolveToken returns the GitHub token for this run: the process
// environment wins, then .env.local, then .env next to relctl.toml
// (falling back to the working directory when no config file exists).
// An empty result means tag-only mode, not an error.
func ResolveToken(cfg *Config) string {
	if tok := strings.TrimSpace(os.Getenv(tokenEnvVar)); tok != "" {
		return tok
	}

	baseDir := cfg.ConfigDir()
	if baseDir == "" {
		baseDir, _ = os.Getwd()
	}

	// .env.local overrides .env, matching dotenv convention.
	for _, name := range []string{".env.local", ".env"} {
		values, err := godotenv.Read(filepath.Join(baseDir, name))
		if err != nil {
			continue
		}
		if tok := strings.TrimSpace(values[tokenEnvVar]); tok != "" {
			return tok
		}
	}
	return ""
}
