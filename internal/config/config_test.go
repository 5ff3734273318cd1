package config

import (
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apidocfm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, DefaultRoot, cfg.Root)
	require.Equal(t, DefaultProduct, cfg.Product)
	require.Equal(t, 10, cfg.OrderSpacing)
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
	require.Empty(t, cfg.Source())

	table, err := cfg.Table()
	require.NoError(t, err)
	require.Equal(t, []string{"classes", "members", "methods", "types"}, table.Folders())
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("APIDOCFM_TEST_ROOT", "site/api")
	path := writeConfig(t, "version: \"1\"\nroot: ${APIDOCFM_TEST_ROOT}\nproduct: Acme\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "site/api", cfg.Root)
	require.Equal(t, "Acme", cfg.Product)
	require.Equal(t, path, cfg.Source())
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, DefaultRoot, cfg.Root)
}

func TestParse_Categories(t *testing.T) {
	cfg, err := Parse([]byte(`
order_spacing: 100
categories:
  - folder: classes
    title: API Classes
    badge: Class
  - folder: events
    title: API Events
    badge: Event
    base_order: 500
`))
	require.NoError(t, err)

	table, err := cfg.Table()
	require.NoError(t, err)
	d, ok := table.Lookup("events")
	require.True(t, ok)
	require.Equal(t, 500, d.BaseOrder)
	c, _ := table.Lookup("classes")
	require.Equal(t, 100, c.BaseOrder)
	require.Equal(t, 400, table.Capacity("classes"))
}

func TestParse_NormalizesLogging(t *testing.T) {
	cfg, err := Parse([]byte("logging:\n  level: DEBUG\n  format: Json\n"))
	require.NoError(t, err)
	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)

	cfg, err = Parse([]byte("logging:\n  level: loud\n  format: xml\n"))
	require.NoError(t, err)
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"wrong version", "version: \"2\"\n"},
		{"negative spacing", "order_spacing: -5\n"},
		{"unknown key", "roots: x\n"},
		{"not yaml", "root: [unclosed\n"},
		{"missing badge", "categories:\n  - folder: classes\n    title: API Classes\n"},
		{"nested folder", "categories:\n  - folder: a/b\n    title: T\n    badge: B\n"},
		{"duplicate folder", "categories:\n  - {folder: a, title: A, badge: A}\n  - {folder: a, title: B, badge: B}\n"},
		{"decreasing base order", "categories:\n  - {folder: a, title: A, badge: A, base_order: 50}\n  - {folder: b, title: B, badge: B, base_order: 20}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)
		})
	}
}

func TestInit_WritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apidocfm.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Categories, 4)

	table, err := cfg.Table()
	require.NoError(t, err)
	d, _ := table.Lookup("types")
	require.Equal(t, 40, d.BaseOrder)
	require.Equal(t, "Type", d.Badge)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	path := writeConfig(t, "root: keep\n")

	err := Init(path, false)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	b, _ := os.ReadFile(path)
	require.Equal(t, "root: keep\n", string(b))

	require.NoError(t, Init(path, true))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultRoot, cfg.Root)
}

func TestLogLevel_SlogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.SlogLevel().String())
	require.Equal(t, "WARN", NormalizeLogLevel("warning").SlogLevel().String())
	require.Equal(t, "ERROR", LogLevelError.SlogLevel().String())
	require.Equal(t, "INFO", LogLevel("").SlogLevel().String())
}
