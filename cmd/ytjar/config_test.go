package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/ytjar/internal/config"
)

func TestPrintConfigErrors(t *testing.T) {
	var buf bytes.Buffer
	printConfigErrors(&buf, &config.Error{
		Missing: []string{"COOKIE_DIR"},
		Errors:  []string{"cookies.store: required"},
	})

	assert.Equal(t, "Missing environment variables:\n  - COOKIE_DIR\n\n"+
		"Validation errors:\n  - cookies.store: required\n\n", buf.String())
}

func TestPrintConfigSummary(t *testing.T) {
	cfg := testConfig()
	cfg.History.Disabled = true
	cfg.Log.Level = "info"

	var buf bytes.Buffer
	printConfigSummary(&buf, cfg)
	out := buf.String()

	assert.Contains(t, out, "Cookies:   chrome store /p/Cookies")
	assert.Contains(t, out, "Proxy:     socks5://127.0.0.1:1080")
	assert.Contains(t, out, "Options:   group by uploader\n")
	assert.Contains(t, out, "yt-dlp:    yt-dlp (from PATH)")
	assert.Contains(t, out, "History:   disabled")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytjar", "config.toml")

	cmd := &cobra.Command{}
	cmd.Flags().Bool("force", false, "")
	require.NoError(t, runConfigInit(cmd, []string{path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[cookies]")

	err = runConfigInit(cmd, []string{path})
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, cmd.Flags().Set("force", "true"))
	assert.NoError(t, runConfigInit(cmd, []string{path}))
}
