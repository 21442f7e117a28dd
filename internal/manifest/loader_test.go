package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	loader := NewLoader()

	cfg, err := loader.Load("/nonexistent/path/manifest.yaml")

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoader_Load_ValidYAML(t *testing.T) {
	loader := NewLoader()

	yamlContent := `
sources:
  - input: https://github.com/org/service
  - input: ./tools/cli
    output: cli.txt
options:
  output_dir: ./bundles
  continue_on_error: true
  concurrency: 2
`

	tmpDir := t.TempDir()
	manifestPath := filepath.Join(tmpDir, "batch.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(yamlContent), 0644))

	cfg, err := loader.Load(manifestPath)

	require.NoError(t, err)
	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "https://github.com/org/service", cfg.Sources[0].Input)
	assert.Equal(t, filepath.Join("bundles", "service.txt"), cfg.Sources[0].Output)
	assert.Equal(t, "./tools/cli", cfg.Sources[1].Input)
	assert.Equal(t, "cli.txt", cfg.Sources[1].Output)
	assert.True(t, cfg.Options.ContinueOnError)
	assert.Equal(t, 2, cfg.Options.Concurrency)
}

func TestLoader_Load_ValidJSON(t *testing.T) {
	loader := NewLoader()

	jsonContent := `{
		"sources": [
			{"input": "https://github.com/org/repo.git"},
			{"input": "/src/app", "output": "app.txt"}
		],
		"options": {"concurrency": 4}
	}`

	tmpDir := t.TempDir()
	manifestPath := filepath.Join(tmpDir, "batch.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(jsonContent), 0644))

	cfg, err := loader.Load(manifestPath)

	require.NoError(t, err)
	assert.Equal(t, "repo.txt", cfg.Sources[0].Output)
	assert.Equal(t, "app.txt", cfg.Sources[1].Output)
	assert.Equal(t, 4, cfg.Options.Concurrency)
	assert.Equal(t, ".", cfg.Options.OutputDir)
	assert.False(t, cfg.Options.ContinueOnError)
}

func TestLoader_LoadFromBytes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		ext     string
		wantErr error
	}{
		{"invalid yaml", "sources: [", ".yaml", ErrInvalidFormat},
		{"invalid json", "{", ".json", ErrInvalidFormat},
		{"unsupported extension", "sources: []", ".toml", ErrUnsupportedExt},
		{"no sources", "sources: []", ".yml", ErrNoSources},
		{"empty input", "sources:\n  - input: \"  \"\n", ".yaml", ErrEmptyInput},
		{"duplicate explicit outputs", "sources:\n  - input: a\n    output: x.txt\n  - input: b\n    output: ./x.txt\n", ".yaml", ErrDuplicateOutput},
		{"duplicate derived outputs", "sources:\n  - input: /one/app\n  - input: /two/app\n", ".yaml", ErrDuplicateOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewLoader().LoadFromBytes([]byte(tt.data), tt.ext)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoader_LoadFromBytes_UppercaseExtension(t *testing.T) {
	cfg, err := NewLoader().LoadFromBytes([]byte("sources:\n  - input: ./x\n"), ".YAML")
	require.NoError(t, err)
	assert.Equal(t, "x.txt", cfg.Sources[0].Output)
}
