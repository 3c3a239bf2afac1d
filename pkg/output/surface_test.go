package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/iwvelando/mortgage-analytics/internal/analytics"
	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []analytics.SurfacePoint {
	return []analytics.SurfacePoint{
		{Label: "A", Price: 200000, Rent: 1000, Cashflow: 100},
		{Label: "B", Price: 200000, Rent: 1000, Cashflow: -50},
		{Label: "A", Price: 200000, Rent: 1010, Cashflow: 300},
		{Label: "B", Price: 200000, Rent: 1010, Cashflow: -20},
	}
}

func TestSummarizeSurface(t *testing.T) {
	summaries := SummarizeSurface(samplePoints())
	require.Len(t, summaries, 2)

	a := summaries[0]
	assert.Equal(t, "A", a.Scenario)
	assert.Equal(t, 2, a.Points)
	assert.Equal(t, 100.0, a.MinCashflow)
	assert.Equal(t, 300.0, a.MaxCashflow)
	assert.Equal(t, 200.0, a.MeanCashflow)
	assert.Equal(t, 1010.0, a.BestRent)

	b := summaries[1]
	assert.Equal(t, "B", b.Scenario)
	assert.Equal(t, -50.0, b.MinCashflow)
	assert.Equal(t, -20.0, b.MaxCashflow)

	assert.Empty(t, SummarizeSurface(nil))
}

func TestSurfacePrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SurfacePrettyFormat(&buf, samplePoints()))
	out := buf.String()

	assert.Contains(t, out, "Cash-flow surface: 4 points")
	assert.Contains(t, out, "A | 2 | £100.00 | £200.00 | £300.00 | £200,000 | £1,010")
}

func TestSurfaceCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SurfaceCsvFormat(&buf, samplePoints()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, SurfaceColumns, records[0])
	assert.Equal(t, []string{"B", "200000.00", "1000.00", "-50.00"}, records[2])
}

func TestSurfaceJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SurfaceJSONFormat(&buf, nil))

	var decoded []analytics.SurfacePoint
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestWriteSurface(t *testing.T) {
	for _, format := range []string{
		constants.OutputFormatPretty,
		constants.OutputFormatCSV,
		constants.OutputFormatJSON,
		constants.OutputFormatPDF,
	} {
		var buf bytes.Buffer
		require.NoError(t, WriteSurface(&buf, format, samplePoints()), format)
		assert.NotZero(t, buf.Len(), format)
	}

	var buf bytes.Buffer
	assert.Error(t, WriteSurface(&buf, "yaml", samplePoints()))
}
