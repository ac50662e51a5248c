package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Title:   "Weekly Hall Pass Report",
		Headers: []string{"Student Name", "Student ID", "Weekly Report"},
		Rows: [][]string{
			{"Alice Johnson", "111", "M:5 T:0 W:7 T:0 F:0"},
			{"Bob Smith", "222", "M:0 T:11 W:0 T:0 F:0"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Student Name,Student ID,Weekly Report\nAlice Johnson,111,M:5 T:0 W:7 T:0 F:0\nBob Smith,222,M:0 T:11 W:0 T:0 F:0\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	data := Dataset{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"only one cell"}},
	}

	_, err := NewCSVExporter().Render(data)
	assert.Error(t, err)
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := Dataset{
		Title:   "Weekly Hall Pass Report",
		Headers: []string{"Student Name", "Student ID"},
		Rows:    [][]string{{"Alice Johnson", "111"}},
	}

	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Equal(t, "%PDF", string(out[:4]))
}
