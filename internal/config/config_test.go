package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betterhelper/docsite/internal/basepath"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, basepath.EnvVar, envOutDir, envConcurrency, envPreviewAddr)

	cfg, err := Load(afero.NewMemMapFs(), "/proj", "")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.BasePath)
	assert.Equal(t, "src/app.tsx", cfg.Export.EntryKey)
	assert.Equal(t, 4, cfg.Export.Concurrency)
	assert.Equal(t, filepath.Join("/proj", "dist", "pages"), cfg.OutDir())
	assert.Equal(t, filepath.Join("/proj", "dist", "client", ".vite", "manifest.json"), cfg.ManifestPath())
	assert.Equal(t, filepath.Join("/proj", "dist", "client", "assets"), cfg.AssetsDir())
	assert.Equal(t, 150*time.Millisecond, cfg.Preview.Debounce)
}

func TestLoadFileThenEnv(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/proj/docsite.yaml", []byte(`
base_path: /from-file/
paths:
  out_dir: public
export:
  concurrency: 2
  minify_inline_scripts: true
preview:
  debounce: 300ms
`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/proj/.env", []byte("PAGES_BASE_PATH=from-dotenv\nDOCSITE_CONCURRENCY=8\n"), 0o644))

	unsetEnv(t, basepath.EnvVar, envOutDir, envConcurrency)

	t.Run("dotenv overrides file", func(t *testing.T) {
		cfg, err := Load(fsys, "/proj", "")
		require.NoError(t, err)
		assert.Equal(t, "from-dotenv", cfg.BasePath)
		assert.Equal(t, 8, cfg.Export.Concurrency)
		assert.True(t, cfg.Export.MinifyInlineScripts)
		assert.Equal(t, 300*time.Millisecond, cfg.Preview.Debounce)
		assert.Equal(t, filepath.Join("/proj", "public"), cfg.OutDir())
	})

	t.Run("environment overrides dotenv", func(t *testing.T) {
		t.Setenv(basepath.EnvVar, "/from-env/")
		cfg, err := Load(fsys, "/proj", "")
		require.NoError(t, err)
		assert.Equal(t, "/from-env/", cfg.BasePath)
	})
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/proj", "/proj/custom.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"bad yaml":         "paths: [",
		"zero concurrency": "export:\n  concurrency: -1\n",
		"empty entry":      "export:\n  entry_key: \"\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			unsetEnv(t, envConcurrency)
			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, "/proj/docsite.yaml", []byte(body), 0o644))
			_, err := Load(fsys, "/proj", "")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsNonNumericConcurrency(t *testing.T) {
	t.Setenv("DOCSITE_CONCURRENCY", "many")
	_, err := Load(afero.NewMemMapFs(), "/proj", "")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestExportOptions(t *testing.T) {
	cfg := Default()
	cfg.Root = "/proj"
	cfg.BasePath = "p"

	opts := cfg.ExportOptions()
	assert.Equal(t, "/proj", opts.Root)
	assert.Equal(t, filepath.Join("/proj", "index.html"), opts.TemplatePath)
	assert.Equal(t, "p", opts.BasePath)
}

func TestViteBuildOptions(t *testing.T) {
	cfg := Default()
	cfg.Root = "/proj"

	opts := cfg.ViteBuildOptions()
	assert.Equal(t, "npx", opts.PackageManagerCmd)
	assert.Equal(t, "/proj", opts.Dir)
	assert.Equal(t, filepath.Join("/proj", "dist", "client"), opts.OutDir)
}
