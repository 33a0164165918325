package dashboard

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Static page text.
const (
	PageTitle         = "Data Visualization App"
	PageIcon          = "⚗️"
	Heading           = "Data Science App"
	LoadingText       = "Loading Data..."
	DatasetHeader     = "Dataset"
	DatasetNote       = "Raw Data in DataFrame"
	ColumnsNote       = "Column information of the dataset."
	VisualizationHead = "Data Visualization"
	BivariateTab      = "Bivariate"
	TrivariateTab     = "Trivariate"
)

// Radio group labels of the explorer tabs.
var (
	BivariateAxisLabels  = []string{"1st Column", "2nd Column"}
	TrivariateAxisLabels = []string{"1st Column for 3d Plot", "2nd Column for 3d Plot", "3rd Column for 3d Plot"}
)

// HumanizeColumn turns a column name like vote_count into "Vote Count".
func HumanizeColumn(name string) string {
	// Casers are stateful and cannot be shared between goroutines.
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// SelectorLabel is the label of the chart kind select box for metric.
func SelectorLabel(metric string) string {
	return "Select Chart Type For " + HumanizeColumn(metric)
}

// ColumnListing is the sentence listing the dataset's columns.
func ColumnListing(names []string) string {
	return "Columns of the above dataset are " + strings.Join(names, ", ") + "."
}
