package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-analytics/internal/analytics"
	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"github.com/iwvelando/mortgage-analytics/pkg/scenario"
	"github.com/iwvelando/mortgage-analytics/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows(t *testing.T) []analytics.Row {
	t.Helper()
	rows, err := analytics.ComputeAnalytics(testutil.SampleInput(), []scenario.Scenario{
		scenario.New(true, true, false),
		scenario.New(false, false, false),
	})
	require.NoError(t, err)
	return rows
}

func TestDisplayRoundsAndOrders(t *testing.T) {
	display := Display(sampleRows(t))
	require.Len(t, display, 2)

	values := display[0].Values()
	require.Len(t, values, len(Columns))
	assert.Equal(t, []string{
		"Buy To Let Interest Only Private Purchase",
		"300000.00",
		"75000.00",
		"225000.00",
		"4.50",
		"10125.00",
		"843.75",
		"0.00",
		"1177.08",
		"1800.00",
		"0.60",
		"1466.67",
		"417.92",
		"205.00",
	}, values)

	assert.Equal(t, "0.00", display[1].Values()[9], "residential rent is zeroed")
	assert.Equal(t, "4.90", display[1].Values()[4])
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrettyFormat(&buf, sampleRows(t)))
	out := buf.String()

	assert.Contains(t, out, "--- Buy To Let Interest Only Private Purchase ---")
	assert.Contains(t, out, "--- Residential Capital Repayment Private Purchase ---")
	assert.Contains(t, out, "Mortgage Payment: £1,177.08")
	assert.Contains(t, out, "Cashflow: £205.00 (11% of rent)")
	assert.Contains(t, out, "Price: £300,000.00")
	assert.Contains(t, out, "Interest Rate: 4.50%")
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CsvFormat(&buf, sampleRows(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "Buy To Let Interest Only Private Purchase", records[1][0])
	assert.Equal(t, "205.00", records[1][13])
	assert.Equal(t, "-1896.04", records[2][13])
}

func TestCsvFormatEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CsvFormat(&buf, nil))
	assert.Equal(t, strings.Join(Columns, ",")+"\n", buf.String())
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONFormat(&buf, sampleRows(t)))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Buy To Let Interest Only Private Purchase", decoded[0]["scenario"])
	assert.Equal(t, 205.0, decoded[0]["cashflow"])
	assert.Equal(t, 4.5, decoded[0]["interest_rate_pct"])
}

func TestAmountLeavesDecimalQuotingAlone(t *testing.T) {
	assert.False(t, decimal.MarshalJSONWithoutQuotes)

	plain, err := json.Marshal(decimal.RequireFromString("1.50"))
	require.NoError(t, err)
	assert.Equal(t, `"1.5"`, string(plain), "other decimal users keep quoted strings")

	encoded, err := json.Marshal(Display(sampleRows(t))[:1])
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"cashflow":205`)

	var decoded []DisplayRow
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, "205.00", decoded[0].Cashflow.StringFixed(2))
	assert.Equal(t, "1177.08", decoded[0].MonthlyMortgagePayment.StringFixed(2))
}

func TestPDFFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDFFormat(&buf, sampleRows(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWrite(t *testing.T) {
	rows := sampleRows(t)
	for _, format := range []string{
		constants.OutputFormatPretty,
		constants.OutputFormatCSV,
		constants.OutputFormatJSON,
		constants.OutputFormatPDF,
	} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, format, rows), format)
		assert.NotZero(t, buf.Len(), format)
	}

	var buf bytes.Buffer
	assert.Error(t, Write(&buf, "xlsx", rows))
}
