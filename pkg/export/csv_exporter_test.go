package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRoundTrip(t *testing.T) {
	exporter := NewCSVExporter()
	dataset := Dataset{
		Headers: []string{"Date", "Period", "Substitute"},
		Rows: []map[string]string{
			{"Date": "2026-03-02", "Period": "P1", "Substitute": "Teacher One"},
			{"Date": "2026-03-02", "Period": "P2", "Substitute": "Teacher, Two"},
		},
	}

	payload, err := exporter.Render(dataset)
	require.NoError(t, err)

	parsed, err := exporter.Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, dataset.Headers, parsed.Headers)
	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, "Teacher, Two", parsed.Rows[1]["Substitute"])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}

func TestCSVExporterMissingColumnsRenderEmpty(t *testing.T) {
	exporter := NewCSVExporter()
	payload, err := exporter.Render(Dataset{
		Headers: []string{"A", "B"},
		Rows:    []map[string]string{{"A": "1"}},
	})
	require.NoError(t, err)

	parsed, err := exporter.Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, "1", parsed.Rows[0]["A"])
	assert.Equal(t, "", parsed.Rows[0]["B"])
}
