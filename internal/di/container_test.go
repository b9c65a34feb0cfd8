package di

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey/mailguard/internal/adapters/render"
	"github.com/mikey/mailguard/internal/config"
	"github.com/mikey/mailguard/internal/core"
	"github.com/mikey/mailguard/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBuildContainer(t *testing.T) {
	opts := Options{
		ConfigFile: writeConfig(t, "session:\n  type: memory\nlogging:\n  level: error\n"),
		Server:     "http://127.0.0.1:9",
		Output:     "html",
		Out:        &bytes.Buffer{},
	}

	container, err := BuildContainer(context.Background(), opts)
	require.NoError(t, err)

	err = container.Invoke(func(
		cfg *config.Config,
		view core.View,
		presenter ports.Presenter,
		auth *core.AuthController,
		detector *core.DetectorController,
		session *core.Session,
		server ports.Server,
	) {
		assert.Equal(t, "http://127.0.0.1:9", cfg.GetString("api.base_url"))

		_, ok := presenter.(*render.HTMLRenderer)
		assert.True(t, ok)
		assert.Same(t, presenter, view)

		// The controllers share one session
		assert.Same(t, session, auth.Session())
		assert.NotNil(t, detector)
		assert.NotNil(t, server)
	})
	require.NoError(t, err)
}

func TestBuildContainer_UnsupportedOutput(t *testing.T) {
	opts := Options{
		ConfigFile: writeConfig(t, "session:\n  type: memory\n"),
		Output:     "pdf",
	}

	container, err := BuildContainer(context.Background(), opts)
	require.NoError(t, err)

	err = container.Invoke(func(p ports.Presenter) {})
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	applyOverrides(cfg, Options{Verbose: true, JSONLog: true, PreviewAddress: "127.0.0.1:9999"})

	assert.Equal(t, "debug", cfg.GetString("logging.level"))
	assert.Equal(t, "json", cfg.GetString("logging.format"))
	assert.Equal(t, "127.0.0.1:9999", cfg.GetString("preview.listen_address"))
	assert.Equal(t, "terminal", cfg.GetString("output.format"))
}
