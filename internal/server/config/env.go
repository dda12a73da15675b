package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment variable read by the server.
const EnvPrefix = "CAMPJOURNAL_"

// dotenvFiles are loaded, if present, before the environment is read.
// Variables already set in the process environment win.
var dotenvFiles = []string{".env"}

// parseEnv overlays CAMPJOURNAL_* variables. Unset variables leave the
// current values untouched.
func parseEnv(config *Config) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
