package pubgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(afero.NewMemMapFs(), DefaultConfigFile)
	require.NoError(t, err)

	require.Equal(t, "https://id-blog.github.io", cfg.URL)
	require.Equal(t, "Infectious Disease News", cfg.Name)
	require.Equal(t, "Latest infectious disease news and updates", cfg.Description)
	require.Equal(t, DefaultPageSize, cfg.PageSize)
	require.Equal(t, DefaultRelatedCount, cfg.RelatedCount)
	require.Equal(t, "docs", cfg.OutputDir)
	require.Equal(t, ContentDirs{
		Root:  filepath.Join("src", "content"),
		Posts: filepath.Join("src", "content", "posts"),
	}, cfg.Dirs())
	require.Equal(t, "Disease Reporter", cfg.Defaults.Author)
}

func TestLoadConfigJSON(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"site.config.json": `{
  "siteUrl": "https://news.example.org///",
  "siteName": "Outbreak Watch",
  "pageSize": 10,
  "outputDir": "public",
  "defaults": {"author": "Desk"}
}`,
	})

	cfg, err := LoadConfig(fsys, "site.config.json")
	require.NoError(t, err)
	require.Equal(t, "https://news.example.org", cfg.URL)
	require.Equal(t, "Outbreak Watch", cfg.Name)
	require.Equal(t, "Latest infectious disease news and updates", cfg.Description)
	require.Equal(t, 10, cfg.PageSize)
	require.Equal(t, "public", cfg.OutputDir)
	require.Equal(t, "Desk", cfg.Defaults.Author)
	require.Equal(t, "General", cfg.Defaults.Category)
}

func TestLoadConfigYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"site.yaml": "siteName: Yaml Site\nallowHtml: true\ncontentDir: content\npostsSubdir: articles\n",
	})

	cfg, err := LoadConfig(fsys, "site.yaml")
	require.NoError(t, err)
	require.Equal(t, "Yaml Site", cfg.Name)
	require.True(t, cfg.AllowHTML)
	require.Equal(t, ContentDirs{Root: "content", Posts: filepath.Join("content", "articles")}, cfg.Dirs())
}

func TestLoadConfigInvalid(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"site.config.json": `{"siteName": [`})
	_, err := LoadConfig(fsys, "site.config.json")
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SITE_NAME=From Dotenv\nSITE_DESCRIPTION=Dotenv description\n"), 0o644))

	t.Setenv("SITE_URL", "https://env.example.org/")
	t.Setenv("SITE_DESCRIPTION", "Process wins")
	t.Setenv("PUBGEN_PAGE_SIZE", "4")
	t.Setenv("SITE_NAME", "")
	os.Unsetenv("SITE_NAME")

	cfg := SiteConfig{}
	cfg.setDefaults()
	require.NoError(t, cfg.ApplyEnv(envFile))

	require.Equal(t, "https://env.example.org", cfg.URL)
	require.Equal(t, "From Dotenv", cfg.Name)
	require.Equal(t, "Process wins", cfg.Description)
	require.Equal(t, 4, cfg.PageSize)
}

func TestApplyEnvMissingFileAndBadPageSize(t *testing.T) {
	t.Setenv("PUBGEN_PAGE_SIZE", "lots")
	cfg := SiteConfig{}
	err := cfg.ApplyEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorContains(t, err, "PUBGEN_PAGE_SIZE")
}
