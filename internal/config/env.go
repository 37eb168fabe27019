package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	// EnvConfig names a config file to load when -config is not given.
	EnvConfig = "PAGESRV_CONFIG"
	// EnvListen overrides Listen after the config file is loaded.
	EnvListen = "PAGESRV_LISTEN"
)

// LoadDotEnv loads variables from a .env file into the process environment.
// A missing file is not an error. Variables already set are left alone.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Resolve picks the config file (flag value first, then PAGESRV_CONFIG),
// loads it and applies PAGESRV_LISTEN.
func Resolve(flagPath string) (*Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if listen := os.Getenv(EnvListen); listen != "" {
		cfg.SetListen(listen)
	}
	return cfg, nil
}
