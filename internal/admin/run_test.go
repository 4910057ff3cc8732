package admin

import (
	"path/filepath"
	"testing"

	"restaurant-pos/internal/admin/app/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	p, err := parseParams([]string{"--port", "4001", "--config-path", "x.yaml"})
	require.NoError(t, err)
	assert.Equal(t, 4001, p.adminParams.Port)
	assert.Equal(t, "x.yaml", p.configPath)

	_, err = parseParams([]string{"--help"})
	assert.ErrorIs(t, err, core.ErrHelp)

	_, err = parseParams([]string{"--bogus"})
	assert.ErrorIs(t, err, core.ErrParseCmd)
}

func TestValidateParams(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yaml")

	p := &params{adminParams: &core.AdminParams{Port: 3001}, configPath: missing}
	require.NoError(t, validateParams(p))
	assert.NotNil(t, p.cfg)

	p = &params{adminParams: &core.AdminParams{Port: 70000}, configPath: missing}
	assert.Error(t, validateParams(p))
}
