package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapgantt/internal/cli/config"
	"github.com/leapstack-labs/leapgantt/internal/loader"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string)
		args      []string
		wantErr   string
		wantFiles []string
	}{
		{
			name:      "empty directory",
			wantFiles: []string{"leapgantt.yaml", "plan.csv", ".gitignore"},
		},
		{
			name: "existing config without force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "leapgantt.yaml"), []byte("x: 1\n"), 0600))
			},
			wantErr: "already exists",
		},
		{
			name: "existing config with force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "leapgantt.yaml"), []byte("x: 1\n"), 0600))
			},
			args:      []string{"--force"},
			wantFiles: []string{"leapgantt.yaml", "plan.csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.ResetConfig()
			dir := t.TempDir()
			if tt.setupDir != nil {
				tt.setupDir(t, dir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(append([]string{dir}, tt.args...))

			err := cmd.Execute()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, f := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(dir, f))
			}
			assert.Contains(t, buf.String(), "initialized")
		})
	}
}

func TestInit_CreatesLoadableProject(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	dir := filepath.Join(t.TempDir(), "project")

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{dir})
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(filepath.Join(dir, "leapgantt.yaml"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(content, &raw))
	assert.Equal(t, ".leapgantt/uploads.db", raw["state_path"])

	cfg, err := config.LoadConfig(filepath.Join(dir, "leapgantt.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".leapgantt", "uploads.db"), cfg.StatePath)
	assert.Equal(t, "Project schedule", cfg.GetUIConfig().Title)
	assert.Equal(t, config.DefaultUploadTTL, cfg.GetUIConfig().UploadTTL)

	f, err := os.Open(filepath.Join(dir, "plan.csv"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := loader.Load(f, loader.Options{})
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}
