package config

import (
	"errors"
	"os"
)

type ServerEnv = string

var (
	DevEnv     ServerEnv = "dev"
	StagingEnv ServerEnv = "staging"
	ProdEnv    ServerEnv = "prod"
)

type GeneralConfig struct {
	Env         string
	LogLevel    string
	MetricsAddr string
}

func (gc *GeneralConfig) Load() error {
	gc.Env = getEnvOrDefault("ENV", "dev")
	gc.LogLevel = getEnvOrDefault("LOG_LEVEL", "INFO")
	gc.MetricsAddr = getEnvOrDefault("METRICS_ADDR", ":9090")
	return gc.Validate()
}

func (gc *GeneralConfig) Validate() error {
	if gc.Env == "" {
		return errors.New("invalid general config")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
