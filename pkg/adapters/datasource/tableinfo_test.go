package datasource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTableInfoFull(t *testing.T) {
	columns := []Column{
		{Name: "customer_id", DataType: "text", IsNullable: false, IsPrimary: true},
		{Name: "customer_city", DataType: "text", IsNullable: true},
	}
	comments := []ColumnComment{
		{Column: "customer_id", Comment: "key to the orders dataset"},
		{Column: "customer_city", Comment: ""},
	}
	samples := &SampleRows{
		Columns: []string{"customer_id", "customer_city"},
		Rows: [][]string{
			{"abc", "franca"},
			{"def", "sao paulo"},
		},
	}

	info := RenderTableInfo("customers", columns, comments, samples)

	want := "CREATE TABLE customers (\n" +
		"\tcustomer_id TEXT NOT NULL, \n" +
		"\tcustomer_city TEXT\n" +
		")\n\n" +
		"/*\nColumn Comments: {'customer_id': 'key to the orders dataset'}\n*/\n\n" +
		"/*\n2 rows from customers table:\ncustomer_id\tcustomer_city\nabc\tfranca\ndef\tsao paulo\n*/"
	assert.Equal(t, want, info)
}

func TestRenderTableInfoDDLOnly(t *testing.T) {
	info := RenderTableInfo("t", []Column{{Name: "id", DataType: "bigint"}}, nil, nil)
	assert.Equal(t, "CREATE TABLE t (\n\tid BIGINT NOT NULL\n)", info)
	assert.NotContains(t, info, "/*")
}

func TestRenderTableInfoSkipsEmptyCommentBlock(t *testing.T) {
	// All-empty comments collapse to no block at all.
	info := RenderTableInfo("t",
		[]Column{{Name: "id", DataType: "bigint", IsNullable: true}},
		[]ColumnComment{{Column: "id", Comment: ""}},
		nil)
	assert.NotContains(t, info, "Column Comments:")
}

func TestRenderTableInfoTruncatesWideValues(t *testing.T) {
	samples := &SampleRows{
		Columns: []string{"payload"},
		Rows:    [][]string{{strings.Repeat("x", 500)}},
	}
	info := RenderTableInfo("t", []Column{{Name: "payload", DataType: "text", IsNullable: true}}, nil, samples)

	require.Contains(t, info, "1 rows from t table:")
	assert.Contains(t, info, strings.Repeat("x", maxSampleValueLen))
	assert.NotContains(t, info, strings.Repeat("x", maxSampleValueLen+1))
}

func TestRenderTableInfoEscapesQuotesInComments(t *testing.T) {
	info := RenderTableInfo("t",
		[]Column{{Name: "id", DataType: "text", IsNullable: true}},
		[]ColumnComment{{Column: "id", Comment: "customer's key"}},
		nil)
	assert.Contains(t, info, `'id': 'customer\'s key'`)
}
