package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"nftdrop/config"
	"nftdrop/crypto"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenDirectoryStatic(t *testing.T) {
	holder := [20]byte{0x01}
	path := filepath.Join(t.TempDir(), "owners.yaml")
	fixture := fmt.Sprintf("collections:\n  genesis-collection:\n    %s: [\"3\"]\n", crypto.HolderAddress(holder).String())
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	dir, closeFn, err := openDirectory(config.Ownership{Driver: config.DriverStatic, Fixture: path}, discardLogger())
	require.NoError(t, err)
	defer closeFn()
	owned, err := dir.OwnedAssets(context.Background(), "genesis-collection", holder)
	require.NoError(t, err)
	require.Equal(t, []string{"3"}, owned)
}

func TestOpenDirectorySQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dir, closeFn, err := openDirectory(config.Ownership{Driver: config.DriverSQLite, DSN: dsn}, discardLogger())
	require.NoError(t, err)
	defer closeFn()
	owned, err := dir.OwnedAssets(context.Background(), "genesis-collection", [20]byte{0x02})
	require.NoError(t, err)
	require.Empty(t, owned)
}

func TestOpenDirectoryUnknownDriver(t *testing.T) {
	_, _, err := openDirectory(config.Ownership{Driver: "redis"}, discardLogger())
	require.Error(t, err)
}

func TestLoggingOptions(t *testing.T) {
	cfg := config.Default()
	opts := loggingOptions(cfg)
	require.Nil(t, opts.File)
	require.Equal(t, "airdropd", opts.Service)

	cfg.Logging.File = filepath.Join(t.TempDir(), "airdropd.log")
	opts = loggingOptions(cfg)
	require.NotNil(t, opts.File)
	require.Equal(t, cfg.Logging.MaxBackups, opts.File.MaxBackups)
}

func TestRunAssignSQLite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "airdropd.toml")
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Ownership.DSN = "file:" + filepath.Join(dir, "owners.db")
	contents := fmt.Sprintf("ListenAddress = %q\nDataDir = %q\n\n[Ownership]\nDriver = \"sqlite\"\nDSN = %q\n",
		cfg.ListenAddress, cfg.DataDir, cfg.Ownership.DSN)
	require.NoError(t, os.WriteFile(cfgPath, []byte(contents), 0o600))

	holder := [20]byte{0x05}
	address := crypto.HolderAddress(holder).String()
	var out bytes.Buffer
	require.NoError(t, runAssign([]string{"--config", cfgPath, "--holder", address, "11", "12"}, &out))
	require.Contains(t, out.String(), "assigned genesis-collection/12")

	directory, closeFn, err := openDirectory(config.Ownership{Driver: config.DriverSQLite, DSN: cfg.Ownership.DSN}, discardLogger())
	require.NoError(t, err)
	defer closeFn()
	owned, err := directory.OwnedAssets(context.Background(), "genesis-collection", holder)
	require.NoError(t, err)
	require.Equal(t, []string{"11", "12"}, owned)

	require.Error(t, runAssign([]string{"--config", cfgPath, "--holder", address}, &out))
	require.Error(t, runAssign([]string{"--config", cfgPath, "--holder", "bad", "1"}, &out))
}
