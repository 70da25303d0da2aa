package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/qbique/internal/domain/model"
)

// Table is the tabular rendering of a command result.
type Table struct {
	Headers []string
	Rows    [][]string
}

// KeyValues builds a two-column table from ordered key/value pairs.
func KeyValues(pairs ...string) Table {
	t := Table{Headers: []string{"KEY", "VALUE"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		t.Rows = append(t.Rows, []string{pairs[i], pairs[i+1]})
	}
	return t
}

// Formatter renders command results to stdout and status lines to stderr.
type Formatter struct {
	Format model.OutputFormat
	Out    io.Writer
	Err    io.Writer
}

// Render writes data in the configured format. table is only called for
// table output.
func (f *Formatter) Render(data any, table func() Table) error {
	switch f.Format {
	case model.OutputJSON:
		return writeJSON(f.Out, normalizeNilSlice(data))
	case model.OutputYAML:
		return writeYAML(f.Out, normalizeNilSlice(data))
	default:
		return writeTable(f.Out, table())
	}
}

// Success prints a confirmation line to stderr.
func (f *Formatter) Success(format string, args ...any) {
	fmt.Fprintf(f.Err, "✓ "+format+"\n", args...)
}

// Info prints a neutral status line to stderr.
func (f *Formatter) Info(format string, args ...any) {
	fmt.Fprintf(f.Err, format+"\n", args...)
}

// Warn prints a warning line to stderr.
func (f *Formatter) Warn(format string, args ...any) {
	fmt.Fprintf(f.Err, "warning: "+format+"\n", args...)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// writeYAML renders v through its JSON form so field names and order follow
// the json tags.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("convert to yaml: %w", err)
	}
	resetStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// resetStyle drops the flow and quoting styles inherited from JSON input.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

func writeTable(w io.Writer, t Table) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// normalizeNilSlice turns a nil slice into an empty one so JSON output is
// [] rather than null.
func normalizeNilSlice(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return reflect.MakeSlice(rv.Type(), 0, 0).Interface()
	}
	return v
}
