package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/moviescope/internal/cli/config"
	"github.com/leapstack-labs/moviescope/internal/cli/output"
	clitestutil "github.com/leapstack-labs/moviescope/internal/cli/testutil"
	"github.com/leapstack-labs/moviescope/internal/dataset"
)

// useProject switches into a fresh project holding the sample movies and loads
// its configuration. A non-empty cfgContent is written as moviescope.yaml.
func useProject(t *testing.T, cfgContent string) string {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	dir := clitestutil.SetupTestProject(t)
	t.Chdir(dir)
	if cfgContent != "" {
		clitestutil.WriteProjectConfig(t, dir, cfgContent)
	}
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	return dir
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestColumnsCommand_Markdown(t *testing.T) {
	useProject(t, "")

	out, err := execute(t, NewColumnsCommand())
	require.NoError(t, err)

	clitestutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "# Dataset")
	assert.Contains(t, out, "_data/data.csv: 12 rows_")
	assert.Contains(t, out, "| release_date")
	assert.Contains(t, out, "Columns of the above dataset are release_date, title, popularity, vote_count, vote_average, budget.")
	assert.NotContains(t, out, "| id ")
}

func TestColumnsCommand_JSON(t *testing.T) {
	useProject(t, "output: json\n")

	out, err := execute(t, NewColumnsCommand())
	require.NoError(t, err)

	var got ColumnsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 12, got.Rows)
	require.Len(t, got.Columns, 6)
	assert.Equal(t, "release_date", got.Columns[0].Name)
	assert.Equal(t, "Release Date", got.Columns[0].Label)
	assert.Equal(t, "date", got.Columns[0].Kind)
	assert.Equal(t, "numeric", got.Columns[2].Kind)
}

func TestColumnsCommand_MissingFile(t *testing.T) {
	useProject(t, "data_path: missing.csv\n")

	_, err := execute(t, NewColumnsCommand())
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrDataLoad)
}

func topTitles(t *testing.T, out string) []string {
	t.Helper()
	var got TopOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	titles := make([]string, len(got.Rows))
	for i, row := range got.Rows {
		titles[i], _ = row["title"].(string)
	}
	return titles
}

func TestTopCommand(t *testing.T) {
	tests := []struct {
		name    string
		cfg     string
		args    []string
		want    []string
		wantLen int
	}{
		{
			name:    "default ranks by popularity",
			cfg:     "output: json\n",
			wantLen: 10,
			want:    []string{"Batman v Superman", "Avatar", "Pirates of the Caribbean"},
		},
		{
			name:    "by vote count with limit",
			cfg:     "output: json\n",
			args:    []string{"--by", "vote_count", "--limit", "3"},
			wantLen: 3,
			want:    []string{"Avatar", "The Dark Knight Rises", "Batman v Superman"},
		},
		{
			name:    "limit from config",
			cfg:     "output: json\ndataset:\n  top_n: 2\n",
			wantLen: 2,
			want:    []string{"Batman v Superman", "Avatar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useProject(t, tt.cfg)

			out, err := execute(t, NewTopCommand(), tt.args...)
			require.NoError(t, err)

			titles := topTitles(t, out)
			assert.Len(t, titles, tt.wantLen)
			assert.Equal(t, tt.want, titles[:len(tt.want)])
		})
	}
}

func TestTopCommand_TextColumn(t *testing.T) {
	useProject(t, "")

	_, err := execute(t, NewTopCommand(), "--by", "title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a numeric column")
}

func TestTopCommand_Markdown(t *testing.T) {
	useProject(t, "")

	out, err := execute(t, NewTopCommand(), "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "# Top 1 by Popularity")
	assert.Contains(t, out, "Batman v Superman")
	assert.Contains(t, out, "2016-03-23")
}

func TestRenderCommand_HTML(t *testing.T) {
	useProject(t, "")

	out, err := execute(t, NewRenderCommand())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `id="dashboard"`)
	assert.Contains(t, out, "Data Science App")
	assert.Contains(t, out, `id="chart-popularity"`)
	assert.NotContains(t, out, "/reload")
}

func TestRenderCommand_MarkdownToFile(t *testing.T) {
	dir := useProject(t, "")
	path := filepath.Join(dir, "dashboard.md")

	out, err := execute(t, NewRenderCommand(), "--format", "markdown", "--out", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(content)
	assert.Contains(t, md, "Data Science App")
	assert.Contains(t, md, "Raw Data in DataFrame")
	assert.Contains(t, md, "Avatar")
	assert.NotContains(t, md, "<main")
}

func TestRenderCommand_Errors(t *testing.T) {
	t.Run("unknown format", func(t *testing.T) {
		useProject(t, "")
		_, err := execute(t, NewRenderCommand(), "--format", "pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown format "pdf"`)
	})

	t.Run("missing popularity", func(t *testing.T) {
		dir := useProject(t, "")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "data.csv"),
			[]byte("id,release_date,title,vote_count\n1,2020-01-01,A,5\n"), 0600))

		_, err := execute(t, NewRenderCommand())
		require.Error(t, err)
		assert.ErrorIs(t, err, dataset.ErrDataLoad)
	})
}

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T, dir string)
		args     []string
		wantErr  bool
		wantFile string
	}{
		{
			name:     "init empty directory",
			wantFile: "moviescope.yaml",
		},
		{
			name: "init existing config without force",
			setupDir: func(t *testing.T, dir string) {
				clitestutil.WriteProjectConfig(t, dir, "existing")
			},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(t *testing.T, dir string) {
				clitestutil.WriteProjectConfig(t, dir, "existing")
			},
			args:     []string{"--force"},
			wantFile: "moviescope.yaml",
		},
		{
			name:     "init new directory",
			args:     []string{"nested/app"},
			wantFile: "nested/app/moviescope.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.ResetConfig()
			t.Cleanup(config.ResetConfig)
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)
			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			out, err := execute(t, NewInitCommand(), tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "already exists")
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "moviescope configured!")

			path := filepath.Join(tmpDir, tt.wantFile)
			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(content), "# CSV file shown by the dashboard")
			assert.Contains(t, string(content), "shutdown_timeout: 5s")
		})
	}
}

func TestDefaultConfigYAML_LoadsAsDefaults(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	content, err := defaultConfigYAML()
	require.NoError(t, err)
	path := clitestutil.WriteProjectConfig(t, t.TempDir(), string(content))

	cfg, err := config.LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestServeConfig(t *testing.T) {
	t.Run("config values", func(t *testing.T) {
		useProject(t, "ui:\n  port: 9100\n  session_secret: fixed\n  shutdown_timeout: 1s\n")
		cmd := NewServeCommand()
		opts := &ServeOptions{}

		got := serveConfig(cmd, opts, NewCommandContext(cmd))
		assert.Equal(t, 9100, got.Port)
		assert.Equal(t, "fixed", got.SessionSecret)
		assert.Equal(t, time.Second, got.ShutdownTimeout)
		assert.Equal(t, "data/data.csv", got.DataPath)
		assert.False(t, got.Dev)
		assert.NotNil(t, got.Cache)
		assert.Equal(t, 10, got.Options.TopN)
	})

	t.Run("flags override config", func(t *testing.T) {
		useProject(t, "ui:\n  dev: true\n")
		cmd := NewServeCommand()
		opts := &ServeOptions{}
		require.NoError(t, cmd.Flags().Parse([]string{"--port", "3000", "--dev=false"}))
		opts.Port, _ = cmd.Flags().GetInt("port")

		got := serveConfig(cmd, opts, NewCommandContext(cmd))
		assert.Equal(t, 3000, got.Port)
		assert.False(t, got.Dev)
		assert.NotEmpty(t, got.SessionSecret)
	})
}

func TestSessionSecret(t *testing.T) {
	assert.Equal(t, "configured", sessionSecret("configured"))

	a, b := sessionSecret(""), sessionSecret("")
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestNewCommandContext_UsesContextValues(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	dir := clitestutil.SetupTestProject(t)
	t.Chdir(t.TempDir())

	cfg := config.Defaults()
	cfg.DataPath = filepath.Join(dir, "data", "data.csv")
	tr := clitestutil.NewTestRenderer(output.ModeJSON, false)
	ctx := output.WithRenderer(config.WithConfig(context.Background(), cfg), tr.Renderer)

	cmd := NewColumnsCommand()
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(ctx))

	var got ColumnsOutput
	require.NoError(t, json.Unmarshal([]byte(tr.Output()), &got))
	assert.Equal(t, cfg.DataPath, got.Path)
	assert.Equal(t, 12, got.Rows)
	assert.Empty(t, tr.ErrOut.String())
}
