package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"linkage": "complete",
		"cut_count": 4,
		"verbose": true,
		"num_jobs": 50
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "complete", cfg.Linkage)
	assert.Equal(t, 4, cfg.CutCount)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 50, cfg.NumJobs)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "{not json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty is valid", Config{}, ""},
		{"valid linkage", Config{Linkage: "single"}, ""},
		{"unknown linkage", Config{Linkage: "ward"}, "oneof"},
		{"negative threshold", Config{CutThreshold: -0.5}, "min"},
		{"too many jobs", Config{NumJobs: 901}, "max"},
		{"bad search URL", Config{SearchURL: "not a url"}, "url"},
		{
			"count and threshold exclusive",
			Config{CutCount: 3, CutThreshold: 0.5},
			"mutually exclusive",
		},
		{
			"listings sources exclusive",
			Config{Listings: "a.json", ListingsCSV: "b.csv"},
			"mutually exclusive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateMissingFile(t *testing.T) {
	cfg := Config{Listings: filepath.Join(t.TempDir(), "missing.json")}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Linkage: "single", Verbose: true}
	defaults := Config{
		Linkage:  "average",
		CutCount: 5,
		OutDir:   "out",
		Strict:   true,
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "single", merged.Linkage, "explicit value wins")
	assert.Equal(t, 5, merged.CutCount)
	assert.Equal(t, "out", merged.OutDir)
	assert.True(t, merged.Verbose)
	assert.True(t, merged.Strict)
}
