package commands

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"user-directory/config"
	"user-directory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "name": "Leanne Graham", "email": "Sincere@april.biz", "address": {"city": "Gwenborough"}}]`))
	}))
	t.Cleanup(srv.Close)

	return &config.Config{
		DBPath:          filepath.Join(t.TempDir(), "cli.db"),
		UsersURL:        srv.URL,
		FetchTimeout:    time.Second,
		SyncInterval:    time.Minute,
		SyncMaxInterval: time.Minute,
		ProbeInterval:   time.Second,
		Locale:          "en",
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cmd := NewRootCommand(cfg, logger)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", cfg.DBPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCommands_AddListDelete(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, cfg, "add", "--name", "Jane", "--email", "jane@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "added Jane <jane@x.com>")

	out, err = run(t, cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "jane@x.com")
	assert.Contains(t, out, models.DefaultCity)

	_, err = run(t, cfg, "add", "--name", "Other", "--email", "JANE@x.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)

	out, err = run(t, cfg, "delete", "Jane@X.com")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	_, err = run(t, cfg, "delete", "jane@x.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCommands_Sync(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, cfg, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 users, 1 total")
	assert.Contains(t, out, "Sincere@april.biz")

	out, err = run(t, cfg, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 0 users, 1 total")
}

func TestCommands_EachTreeKeepsItsOwnDatabase(t *testing.T) {
	cfgA, cfgB := testConfig(t), testConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Build both trees before running either
	cmdA := NewRootCommand(cfgA, logger)
	cmdB := NewRootCommand(cfgB, logger)

	var outA, outB bytes.Buffer
	cmdA.SetOut(&outA)
	cmdA.SetArgs([]string{"add", "--name", "Jane", "--email", "jane@x.com"})
	require.NoError(t, cmdA.Execute())

	cmdB.SetOut(&outB)
	cmdB.SetArgs([]string{"list"})
	require.NoError(t, cmdB.Execute())
	assert.NotContains(t, outB.String(), "jane@x.com")

	out, err := run(t, cfgA, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "jane@x.com")
}
