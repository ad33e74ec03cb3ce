package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcrules/internal/clibase"
)

func envOf(m map[string]string) Lookup {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func dotenvFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestResolve_Defaults(t *testing.T) {
	s, err := Resolve(clibase.Common{}, nil, filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, Settings{PolicyPath: "", PolicySource: "default", LogLevel: "info", LevelSource: "default"}, s)
}

func TestResolve_Precedence(t *testing.T) {
	dot := dotenvFile(t, "QCRULES_POLICY=file.yaml\nQCRULES_LOG_LEVEL=debug\n")

	s, err := Resolve(clibase.Common{}, nil, dot)
	require.NoError(t, err)
	assert.Equal(t, "file.yaml", s.PolicyPath)
	assert.Equal(t, ".env", s.PolicySource)
	assert.Equal(t, "debug", s.LogLevel)

	s, err = Resolve(clibase.Common{}, envOf(map[string]string{EnvPolicy: "env.yaml", EnvLogLevel: "WARN"}), dot)
	require.NoError(t, err)
	assert.Equal(t, "env.yaml", s.PolicyPath)
	assert.Equal(t, "env", s.PolicySource)
	assert.Equal(t, "warn", s.LogLevel)

	s, err = Resolve(clibase.Common{PolicyPath: "flag.yaml", LogLevel: "error"}, envOf(map[string]string{EnvPolicy: "env.yaml"}), dot)
	require.NoError(t, err)
	assert.Equal(t, "flag.yaml", s.PolicyPath)
	assert.Equal(t, "flag", s.PolicySource)
	assert.Equal(t, "error", s.LogLevel)
}

func TestResolve_BadEnvLevel(t *testing.T) {
	_, err := Resolve(clibase.Common{}, envOf(map[string]string{EnvLogLevel: "chatty"}), "")
	assert.ErrorContains(t, err, "QCRULES_LOG_LEVEL from env")
}

func TestResolve_UnreadableDotenv(t *testing.T) {
	_, err := Resolve(clibase.Common{}, nil, t.TempDir())
	assert.Error(t, err, "a directory is not a dotenv file")
}
