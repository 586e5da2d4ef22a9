package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	workdir := t.TempDir()
	t.Setenv("CRM_SYSTEM_WORKDIR", workdir)

	cfg := LoadConfig(filepath.Join(workdir, "does-not-exist.yml"))
	assert.Equal(t, "alxcrm", cfg.System.Appid)
	assert.Equal(t, 8000, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "@every 5m", cfg.Jobs.Heartbeat)
	assert.Equal(t, "@daily", cfg.Jobs.Report)

	// loading never mutates the shared defaults
	assert.Equal(t, "/var/alxcrm", DefaultAppConfig.System.Workdir)

	assert.DirExists(t, filepath.Join(workdir, "data"))
	assert.DirExists(t, filepath.Join(workdir, "logs"))
}

func TestLoadConfigFromFile(t *testing.T) {
	workdir := t.TempDir()
	t.Setenv("CRM_SYSTEM_WORKDIR", workdir)

	cfile := filepath.Join(workdir, "alxcrm.yml")
	require.NoError(t, os.WriteFile(cfile, []byte(`
web:
  port: 9100
  username: operator
database:
  type: sqlite
  name: crmtest
jobs:
  low_stock: "@every 1h"
`), 0o644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, 9100, cfg.Web.Port)
	assert.Equal(t, "operator", cfg.Web.Username)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "crmtest", cfg.Database.Name)
	assert.Equal(t, "@every 1h", cfg.Jobs.LowStock)
	// untouched keys keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Web.Host)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	workdir := t.TempDir()
	t.Setenv("CRM_SYSTEM_WORKDIR", workdir)
	t.Setenv("CRM_WEB_PORT", "9200")
	t.Setenv("CRM_DB_TYPE", "sqlite")
	t.Setenv("CRM_SYSTEM_DEBUG", "true")

	cfg := LoadConfig(filepath.Join(workdir, "does-not-exist.yml"))
	assert.Equal(t, 9200, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.True(t, cfg.System.Debug)
	assert.Equal(t, workdir, cfg.System.Workdir)
}
