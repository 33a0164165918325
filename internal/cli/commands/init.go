package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/moviescope/internal/cli/config"
	"github.com/leapstack-labs/moviescope/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a moviescope.yaml with the default settings",
		Long: `Write a moviescope.yaml configuration file holding every setting at its
default value, ready to edit.`,
		Example: `  # Initialize in current directory
  moviescope init

  # Initialize in a new directory
  moviescope init my-dashboard

  # Force overwrite existing config
  moviescope init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd).Renderer, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.DefaultConfigFile)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.DefaultConfigFile)
	}

	content, err := defaultConfigYAML()
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, output.StatusSuccess, "")
	r.Println("")
	r.Success("moviescope configured!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Put the movie metadata file at " + config.Defaults().DataPath)
	r.Println("  2. Run 'moviescope columns' to check how it loads")
	r.Println("  3. Run 'moviescope serve' to open the dashboard")

	return nil
}

// configField is one key of the generated config file.
type configField struct {
	key     string
	value   any
	comment string
}

// defaultConfigYAML encodes the default configuration as a commented document.
func defaultConfigYAML() ([]byte, error) {
	cfg := config.Defaults()

	root, err := mappingNode([]configField{
		{"data_path", cfg.DataPath, "CSV file shown by the dashboard"},
		{"verbose", cfg.Verbose, ""},
		{"output", cfg.OutputFormat, "auto, text, markdown or json"},
	})
	if err != nil {
		return nil, err
	}
	ds, err := mappingNode([]configField{
		{"drop_columns", cfg.Dataset.DropColumns, "Columns removed after loading"},
		{"date_columns", cfg.Dataset.DateColumns, "Columns parsed as dates"},
		{"top_n", cfg.Dataset.TopN, "Rows ranked by popularity in the metric charts"},
	})
	if err != nil {
		return nil, err
	}
	ui, err := mappingNode([]configField{
		{"port", cfg.UI.Port, ""},
		{"auto_open", cfg.UI.AutoOpen, "Open a browser when the server starts"},
		{"dev", cfg.UI.Dev, "Mount the hot reload routes"},
		{"page_size", cfg.UI.PageSize, "Dataset rows per table page"},
		{"session_secret", cfg.UI.SessionSecret, "Random per process when empty"},
		{"shutdown_timeout", cfg.UI.ShutdownTimeout.String(), ""},
	})
	if err != nil {
		return nil, err
	}
	addNode(root, "dataset", ds, "")
	addNode(root, "ui", ui, "")

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mappingNode(fields []configField) (*yaml.Node, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		var value yaml.Node
		if err := value.Encode(f.value); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.key, err)
		}
		addNode(mapping, f.key, &value, f.comment)
	}
	return mapping, nil
}

func addNode(mapping *yaml.Node, key string, value *yaml.Node, comment string) {
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key, HeadComment: comment}
	mapping.Content = append(mapping.Content, keyNode, value)
}
