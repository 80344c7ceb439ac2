package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	SetNoColor(true)
}

func TestVisualLen(t *testing.T) {
	assert.Equal(t, 0, visualLen(""))
	assert.Equal(t, 5, visualLen("hello"))
	assert.Equal(t, 5, visualLen("\x1b[1;34mhello\x1b[0m"))
	assert.Equal(t, 3, visualLen("─ab"))
}

func TestTable_Render(t *testing.T) {
	tbl := NewTable("Metric", "Samples").AlignRight(1)
	tbl.AddRow("weight", "3")
	tbl.AddRow("heart-rate", "1,200")

	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Metric      Samples", lines[0])
	assert.Equal(t, strings.Repeat("─", 10)+"  "+strings.Repeat("─", 7), lines[1])
	assert.Equal(t, "weight            3", lines[2])
	assert.Equal(t, "heart-rate    1,200", lines[3])
}

func TestTable_RowShapes(t *testing.T) {
	tbl := NewTable("A", "B")
	tbl.AddRow("only")
	tbl.AddRow("x", "y", "ignored")

	out := tbl.String()
	assert.NotContains(t, out, "ignored")
	assert.Contains(t, out, "only")
}

func TestTable_NoHeaders(t *testing.T) {
	assert.Equal(t, "", NewTable().Render())
}

func TestSetNoColor(t *testing.T) {
	assert.Equal(t, "plain", StyleHeader.Render("plain"))
}
