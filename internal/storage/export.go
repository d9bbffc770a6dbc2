// ABOUTME: Export of tabular query results for downstream analysis tools.
// ABOUTME: Supports JSON, YAML, CSV, Markdown and aligned plain-text output.
package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names an export encoding.
type Format string

const (
	FormatText     Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML, FormatCSV, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format: %s (use table, json, yaml, csv, or markdown)", s)
}

// ContentType is the MIME type of the encoding.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv"
	case FormatMarkdown:
		return "text/markdown"
	}
	return "text/plain"
}

// Write encodes t to w in format f.
func (t *Table) Write(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return t.WriteJSON(w)
	case FormatYAML:
		return t.WriteYAML(w)
	case FormatCSV:
		return t.WriteCSV(w)
	case FormatMarkdown:
		return t.WriteMarkdown(w)
	case FormatText:
		return t.WriteText(w)
	}
	return fmt.Errorf("unknown format: %s", f)
}

// WriteJSON writes an object holding the column list and the rows. Row keys
// follow the column order, and an empty table keeps its columns.
func (t *Table) WriteJSON(w io.Writer) error {
	var buf bytes.Buffer
	columns, err := json.Marshal(t.Columns)
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}
	buf.WriteString("{\n  \"columns\": ")
	buf.Write(columns)
	buf.WriteString(",\n  \"rows\": [")
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    {")
		for j, c := range t.Columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			key, err := json.Marshal(c)
			if err != nil {
				return fmt.Errorf("encode column %s: %w", c, err)
			}
			val, err := json.Marshal(row[c])
			if err != nil {
				return fmt.Errorf("encode column %s: %w", c, err)
			}
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(val)
		}
		buf.WriteString("}")
	}
	if len(t.Rows) > 0 {
		buf.WriteString("\n  ")
	}
	buf.WriteString("]\n}\n")
	_, err = w.Write(buf.Bytes())
	return err
}

// WriteYAML writes the table as a YAML document with the column list and
// one mapping per row, keys in column order.
func (t *Table) WriteYAML(w io.Writer) error {
	rows := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range t.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, c := range t.Columns {
			var v yaml.Node
			if err := v.Encode(row[c]); err != nil {
				return fmt.Errorf("encode column %s: %w", c, err)
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: c},
				&v)
		}
		rows.Content = append(rows.Content, m)
	}

	var columns yaml.Node
	if err := columns.Encode(t.Columns); err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "columns"}, &columns,
		{Kind: yaml.ScalarNode, Value: "rows"}, rows,
	}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// WriteCSV writes a header line followed by one record per row. NULL is
// written as an empty field.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			record[i] = formatValue(row[c])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMarkdown writes a Markdown table.
func (t *Table) WriteMarkdown(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("| " + strings.Join(t.Columns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(t.Columns)) + "\n")
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cells[i] = strings.ReplaceAll(formatValue(row[c]), "|", `\|`)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteText writes space-aligned columns for terminals.
func (t *Table) WriteText(w io.Writer) error {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = len(c)
	}
	cells := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells[r] = make([]string, len(t.Columns))
		for i, c := range t.Columns {
			s := formatValue(row[c])
			if s == "" {
				s = "-"
			}
			cells[r][i] = s
			if len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}

	var sb strings.Builder
	writeLine := func(values []string) {
		for i, v := range values {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(v)
			if i < len(values)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-len(v)))
			}
		}
		sb.WriteString("\n")
	}
	writeLine(t.Columns)
	for _, line := range cells {
		writeLine(line)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
