package output

import (
	"bytes"
	"context"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Header(1, "Columns")
	r.Header(2, "Numeric")
	r.Success("done")
	r.Muted("note")
	r.StatusLine("moviescope.yaml", StatusSuccess, "written")
	r.Warning("careful")

	got := out.String()
	assert.Contains(t, got, "# Columns\n")
	assert.Contains(t, got, "## Numeric\n")
	assert.Contains(t, got, "**done**")
	assert.Contains(t, got, "_note_")
	assert.Contains(t, got, "- `moviescope.yaml` success (written)")
	assert.Equal(t, "Warning: careful\n", errOut.String())
}

func TestRenderer_TextWithoutTTYHasNoANSI(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)

	r.Header(1, "Columns")
	r.Success("done")
	r.StatusLine("a", StatusFailed, "")
	r.Error("boom")

	assert.False(t, ansiPattern.MatchString(out.String()), "unexpected ANSI codes in %q", out.String())
	assert.Contains(t, out.String(), "Columns")
	assert.Contains(t, out.String(), "✓ done")
	assert.Contains(t, out.String(), "✗ a")
	assert.Contains(t, errOut.String(), "✗ boom")
}

func TestRenderer_JSONSuppressesMessages(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)

	r.Header(1, "Columns")
	r.Success("done")
	r.Muted("note")
	r.StatusLine("a", StatusSuccess, "")
	require.NoError(t, r.JSON(map[string]int{"rows": 3}))

	assert.Equal(t, "{\n  \"rows\": 3\n}\n", out.String())
}

func TestRenderer_Table(t *testing.T) {
	headers := []string{"name", "kind"}
	rows := [][]string{{"title", "text"}, {"popularity", "number"}}

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table(headers, rows)
		got := out.String()
		assert.Contains(t, got, "popularity")
		assert.Contains(t, got, "│")
	})

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table(headers, rows)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 4)
		for _, line := range lines {
			assert.True(t, strings.HasPrefix(line, "|"), "line %q", line)
		}
		assert.Contains(t, lines[3], "popularity")
	})
}

func TestRenderer_Writers(t *testing.T) {
	r := NewRendererWithTTY(os.Stdout, os.Stderr, false, ModeText)
	assert.Same(t, os.Stdout, r.Writer())
	assert.Same(t, os.Stderr, r.ErrWriter())
	assert.Equal(t, ModeText, r.Mode())
}

func TestWithRenderer(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, false, ModeJSON)
	got, ok := FromContext(WithRenderer(context.Background(), r))
	require.True(t, ok)
	assert.Same(t, r, got)
}
