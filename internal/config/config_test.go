package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adapter-generator/internal/match"
	"adapter-generator/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileEnvFlags(t *testing.T) {
	path := writeFile(t, "gen.yaml", `
model: shapes.yaml
output: ./out
naming: snake
log:
  level: debug
  file:
    filename: gen.log
`)

	t.Setenv("ADAPTERGEN_OUTPUT", "./from-env")
	t.Setenv("ADAPTERGEN_LOG_FORMAT", "json")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse([]string{"--naming", "camel", "--log-level", "warn"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "shapes.yaml", cfg.Model)
	assert.Equal(t, "./from-env", cfg.Output, "env overrides file")
	assert.Equal(t, "camel", cfg.Naming, "flags override file")
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "gen.log", cfg.Log.File.Filename)
	assert.True(t, cfg.Comments)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "gen.json", `{"packages": ["./shop"], "package": "example.com/wire", "comments": false}`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"./shop"}, cfg.Packages)
	assert.Equal(t, "example.com/wire", cfg.Package)
	assert.False(t, cfg.Comments)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{name: "no input", modify: func(*Config) {}, want: ErrNoInput},
		{name: "both inputs", modify: func(c *Config) {
			c.Model = "m.yaml"
			c.Packages = []string{"./x"}
		}, want: ErrAmbiguousInput},
		{name: "packages without import path", modify: func(c *Config) {
			c.Packages = []string{"./x"}
		}, want: ErrNoPackage},
		{name: "bad naming", modify: func(c *Config) {
			c.Model = "m.yaml"
			c.Naming = "kebab"
		}, want: match.ErrUnknownNamingStyle},
		{name: "bad policy", modify: func(c *Config) {
			c.Model = "m.yaml"
			c.Unknown = "ignore"
		}, want: model.ErrUnknownEnumValue},
		{name: "ok", modify: func(c *Config) { c.Model = "m.yaml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnknownPolicy(t *testing.T) {
	cfg := Default()
	cfg.Unknown = "skip"

	p, err := cfg.UnknownPolicy()
	require.NoError(t, err)
	assert.Equal(t, model.UnknownSkip, p)

	style, err := cfg.NamingStyle()
	require.NoError(t, err)
	assert.Equal(t, match.NamingGo, style)
}
