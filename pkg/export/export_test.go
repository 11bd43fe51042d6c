package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Assigned Assets",
		Headers: []string{"Product", "Employee", "Status"},
		Rows: []map[string]string{
			{"Product": "Laptop", "Employee": "a@corp.com", "Status": "Assigned"},
			{"Product": "Chair, ergonomic", "Employee": "b@corp.com", "Status": "Returned"},
		},
	}
}

func TestRenderCSV(t *testing.T) {
	payload, err := Render(sampleDataset(), FormatCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Product", "Employee", "Status"}, records[0])
	assert.Equal(t, "Chair, ergonomic", records[2][0])
}

func TestRenderCSVColumnOrderFollowsHeaders(t *testing.T) {
	data := Dataset{
		Headers: []string{"B", "A"},
		Rows:    []map[string]string{{"A": "second", "B": "first"}},
	}
	payload, err := Render(data, FormatCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, records[1])
}

func TestRenderCSVRequiresHeaders(t *testing.T) {
	_, err := Render(Dataset{}, FormatCSV)
	assert.Error(t, err)
}

func TestRenderPDF(t *testing.T) {
	payload, err := Render(sampleDataset(), FormatPDF)
	require.NoError(t, err)
	require.NotEmpty(t, payload)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestFormatContentType(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}

func TestFormatValid(t *testing.T) {
	assert.True(t, FormatCSV.Valid())
	assert.True(t, FormatPDF.Valid())
	assert.False(t, Format("xlsx").Valid())
}
