// Package config layers settings: .env file < process environment < flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"

	"qcrules/internal/clibase"
)

// Environment variables read by every tool.
const (
	EnvPolicy   = "QCRULES_POLICY"
	EnvLogLevel = "QCRULES_LOG_LEVEL"
)

// DefaultDotenv is read from the working directory when present.
const DefaultDotenv = ".env"

// DefaultLogLevel applies when no layer sets one.
const DefaultLogLevel = "info"

// Lookup reads one environment variable; os.LookupEnv in production.
type Lookup func(key string) (string, bool)

// Settings are the resolved values. *Source names the layer each came
// from: "flag", "env", ".env" or "default".
type Settings struct {
	PolicyPath   string
	PolicySource string
	LogLevel     string
	LevelSource  string
}

// Resolve merges the layers. A missing dotenv file is not an error; the
// file is only read, never exported into the process environment.
func Resolve(c clibase.Common, env Lookup, dotenv string) (Settings, error) {
	file := map[string]string{}
	if dotenv != "" {
		m, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			file = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Settings{}, fmt.Errorf("read %s: %w", dotenv, err)
		}
	}
	if env == nil {
		env = func(string) (string, bool) { return "", false }
	}

	var s Settings
	s.PolicyPath, s.PolicySource = pick(c.PolicyPath, EnvPolicy, env, file, "")
	s.LogLevel, s.LevelSource = pick(c.LogLevel, EnvLogLevel, env, file, DefaultLogLevel)
	s.LogLevel = strings.ToLower(s.LogLevel)
	if s.LevelSource != "flag" {
		if err := clibase.Validate(&clibase.Common{LogLevel: s.LogLevel}); err != nil {
			return Settings{}, fmt.Errorf("%s from %s: %w", EnvLogLevel, s.LevelSource, err)
		}
	}
	return s, nil
}

func pick(flagVal, key string, env Lookup, file map[string]string, def string) (string, string) {
	if v := strings.TrimSpace(flagVal); v != "" {
		return v, "flag"
	}
	if v, ok := env(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), "env"
	}
	if v := strings.TrimSpace(file[key]); v != "" {
		return v, DefaultDotenv
	}
	return def, "default"
}
