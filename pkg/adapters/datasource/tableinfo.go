package datasource

import (
	"fmt"
	"strings"
)

// maxSampleValueLen caps rendered sample values so one wide cell cannot
// dominate a chunk.
const maxSampleValueLen = 100

// ColumnComment pairs a column name with its comment, in ordinal order.
type ColumnComment struct {
	Column  string
	Comment string
}

// SampleRows holds a table's sample rows already rendered as strings.
type SampleRows struct {
	Columns []string
	Rows    [][]string
}

// RenderTableInfo renders the raw table info text consumed by the chunking
// pipeline: CREATE TABLE DDL, then an optional column-comment block, then an
// optional sample-row block, each comment block delimited by /* ... */ so
// block detection can separate them again.
func RenderTableInfo(table string, columns []Column, comments []ColumnComment, samples *SampleRows) string {
	var b strings.Builder
	b.WriteString(renderDDL(table, columns))

	if block := renderColumnComments(comments); block != "" {
		b.WriteString("\n\n/*\n")
		b.WriteString(block)
		b.WriteString("\n*/")
	}

	if samples != nil && len(samples.Rows) > 0 {
		b.WriteString("\n\n/*\n")
		b.WriteString(renderSampleRows(table, samples))
		b.WriteString("\n*/")
	}

	return b.String()
}

func renderDDL(table string, columns []Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", table)
	for i, col := range columns {
		fmt.Fprintf(&b, "\t%s %s", col.Name, strings.ToUpper(col.DataType))
		if !col.IsNullable {
			b.WriteString(" NOT NULL")
		}
		if i < len(columns)-1 {
			b.WriteString(", ")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

func renderColumnComments(comments []ColumnComment) string {
	var pairs []string
	for _, c := range comments {
		if c.Comment == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("'%s': '%s'", escapeQuotes(c.Column), escapeQuotes(c.Comment)))
	}
	if len(pairs) == 0 {
		return ""
	}
	return fmt.Sprintf("Column Comments: {%s}", strings.Join(pairs, ", "))
}

func renderSampleRows(table string, samples *SampleRows) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d rows from %s table:\n", len(samples.Rows), table)
	b.WriteString(strings.Join(samples.Columns, "\t"))
	for _, row := range samples.Rows {
		b.WriteString("\n")
		truncated := make([]string, len(row))
		for i, v := range row {
			truncated[i] = truncate(v, maxSampleValueLen)
		}
		b.WriteString(strings.Join(truncated, "\t"))
	}
	return b.String()
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
