package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/moviescope/internal/cli/output"
	dashview "github.com/leapstack-labs/moviescope/internal/dashboard"
	"github.com/leapstack-labs/moviescope/internal/dataset"
)

// TopOptions holds options for the top command.
type TopOptions struct {
	By    string
	Limit int
}

// TopOutput is the JSON output of the top command.
type TopOutput struct {
	By   string           `json:"by"`
	Rows []map[string]any `json:"rows"`
}

// NewTopCommand creates the top command.
func NewTopCommand() *cobra.Command {
	opts := &TopOptions{}

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the highest ranked movies",
		Long: `Print the rows with the largest values of a numeric column, largest first.
This is the subset the dashboard's metric charts plot.`,
		Example: `  # Top 10 by popularity
  moviescope top

  # Top 3 by vote count
  moviescope top --by vote_count --limit 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx := NewCommandContext(cmd)
			if !cmd.Flags().Changed("limit") {
				opts.Limit = cctx.Cfg.Dataset.TopN
			}
			ds, err := cctx.LoadDataset(cmd.Context())
			if err != nil {
				return err
			}
			top, err := dataset.TopN(ds, opts.By, opts.Limit)
			if err != nil {
				return err
			}
			return renderTop(cctx.Renderer, opts.By, top)
		},
	}

	cmd.Flags().StringVar(&opts.By, "by", dataset.ColumnPopularity, "Numeric column to rank by")
	cmd.Flags().IntVar(&opts.Limit, "limit", dataset.DefaultTopN, "Number of rows (default: dataset.top_n)")

	return cmd
}

func renderTop(r *output.Renderer, by string, top *dataset.Dataset) error {
	names := top.ColumnNames()

	if r.EffectiveMode() == output.ModeJSON {
		rows := make([]map[string]any, top.Len())
		for i := range top.Len() {
			row := make(map[string]any, len(names))
			for _, name := range names {
				row[name] = top.Value(i, name)
			}
			rows[i] = row
		}
		return r.JSON(TopOutput{By: by, Rows: rows})
	}

	r.Header(1, fmt.Sprintf("Top %d by %s", top.Len(), dashview.HumanizeColumn(by)))

	headers := append([]string{"#"}, names...)
	rows := make([][]string, top.Len())
	for i := range top.Len() {
		row := []string{fmt.Sprint(i + 1)}
		for _, name := range names {
			row = append(row, dataset.FormatValue(top.Value(i, name)))
		}
		rows[i] = row
	}
	r.Table(headers, rows)
	return nil
}
