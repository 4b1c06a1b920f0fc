package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWithOptionsWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := SetupWithOptions(Options{Service: "airdropd", Env: "test", Output: &buf})
	defer closer.Close()

	logger.Info("distributed", "holder", "drop1xyz")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "distributed", line["message"])
	require.Equal(t, "INFO", line["severity"])
	require.Equal(t, "airdropd", line["service"])
	require.Equal(t, "test", line["env"])
	require.Contains(t, line, "timestamp")
}

func TestSetupWithOptionsRotatedFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "airdropd.log")
	logger, closer := SetupWithOptions(Options{
		Service: "airdropd",
		Output:  &buf,
		File:    &FileOptions{Path: path, MaxSizeMB: 1},
	})
	logger.Warn("treasury low")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "treasury low")
	require.Contains(t, buf.String(), "treasury low")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestRedactDSN(t *testing.T) {
	require.Equal(t,
		"postgres://drop:[REDACTED]@db:5432/owners?sslmode=disable",
		RedactDSN("postgres://drop:secret@db:5432/owners?sslmode=disable"))
	require.Equal(t,
		"host=db user=drop password=[REDACTED] dbname=owners",
		RedactDSN("host=db user=drop password=secret dbname=owners"))
	require.Equal(t, "file:owners.db", RedactDSN("file:owners.db"))
	require.Equal(t, "", RedactDSN(""))
}
