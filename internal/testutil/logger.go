// Package testutil provides helpers shared by package tests.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// MoviesCSV is a small movie metadata file with every required column.
const MoviesCSV = `id,release_date,title,popularity,vote_count,vote_average,budget
1,2009-12-10,Avatar,150.4,11800,7.2,237000000
2,2007-05-19,Pirates of the Caribbean,139.1,4500,6.9,300000000
3,2015-10-26,Spectre,107.4,4466,6.3,245000000
4,2012-07-16,The Dark Knight Rises,112.3,9106,7.6,250000000
5,2012-03-07,John Carter,43.9,2124,6.1,260000000
6,2007-05-01,Spider-Man 3,115.7,3576,5.9,258000000
7,2010-11-24,Tangled,48.7,3330,7.4,260000000
8,2015-04-22,Avengers: Age of Ultron,134.3,6767,7.3,280000000
9,2009-07-07,Harry Potter and the Half-Blood Prince,98.9,5293,7.4,250000000
10,2016-03-23,Batman v Superman,155.8,7004,5.7,250000000
11,2006-06-28,Superman Returns,57.9,1400,5.4,270000000
12,2008-10-30,Quantum of Solace,107.9,2965,6.1,200000000
`

// WriteFile writes content to name inside a fresh temp directory and returns
// the full path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
