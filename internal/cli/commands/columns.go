package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/moviescope/internal/cli/output"
	dashview "github.com/leapstack-labs/moviescope/internal/dashboard"
	"github.com/leapstack-labs/moviescope/internal/dataset"
)

// ColumnInfo is the JSON shape of one loaded column.
type ColumnInfo struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Kind       string `json:"kind"`
	SourceType string `json:"source_type"`
}

// ColumnsOutput is the JSON output of the columns command.
type ColumnsOutput struct {
	Path    string       `json:"path"`
	Rows    int          `json:"rows"`
	Columns []ColumnInfo `json:"columns"`
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the columns of the loaded dataset",
		Long: `Load the configured file the same way the dashboard does and list the
resulting columns with their kinds.`,
		Example: `  moviescope columns
  moviescope columns --data movies.csv -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx := NewCommandContext(cmd)
			ds, err := cctx.LoadDataset(cmd.Context())
			if err != nil {
				return err
			}
			return renderColumns(cctx.Renderer, cctx.Cfg.DataPath, ds)
		},
	}
}

func renderColumns(r *output.Renderer, path string, ds *dataset.Dataset) error {
	columns := make([]ColumnInfo, 0, len(ds.Columns()))
	for _, c := range ds.Columns() {
		columns = append(columns, ColumnInfo{
			Name:       c.Name,
			Label:      dashview.HumanizeColumn(c.Name),
			Kind:       c.Kind.String(),
			SourceType: c.SourceType,
		})
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(ColumnsOutput{Path: path, Rows: ds.Len(), Columns: columns})
	}

	r.Header(1, dashview.DatasetHeader)
	r.Muted(fmt.Sprintf("%s: %d rows", path, ds.Len()))
	r.Println("")

	rows := make([][]string, len(columns))
	for i, c := range columns {
		rows[i] = []string{strconv.Itoa(i + 1), c.Name, c.Label, c.Kind, c.SourceType}
	}
	r.Table([]string{"#", "Column", "Label", "Kind", "Source Type"}, rows)
	r.Println(dashview.ColumnListing(ds.ColumnNames()))
	return nil
}
