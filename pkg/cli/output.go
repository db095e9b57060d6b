package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output.
	FormatCSV OutputFormat = "csv"
	// FormatJUnit names JUnit XML output. NewFormatter has no JUnit
	// formatter and returns the text formatter for it.
	FormatJUnit OutputFormat = "junit"
)

// Formatter formats command output.
type Formatter interface {
	Format(data interface{}) ([]byte, error)
	FormatTo(w io.Writer, data interface{}) error
}

// TextFormatter formats output as plain text.
type TextFormatter struct{}

// Format converts data to text format.
func (f *TextFormatter) Format(data interface{}) ([]byte, error) {
	return []byte(fmt.Sprintf("%v\n", data)), nil
}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format converts data to JSON format.
func (f *JSONFormatter) Format(data interface{}) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// CSVFormatter formats output as CSV.
type CSVFormatter struct {
	Headers []string
}

// Format converts data to CSV format.
func (f *CSVFormatter) Format(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.FormatTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatTo writes data to writer in CSV format. data must be a slice (or
// pointer to a slice) of structs; exported fields become columns, named
// by their json tag when present. f.Headers overrides the derived
// column names.
func (f *CSVFormatter) FormatTo(w io.Writer, data interface{}) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return fmt.Errorf("csv formatter: data must be a slice, got %s", rv.Kind())
	}

	headers := f.Headers
	if len(headers) == 0 && rv.Type().Elem().Kind() == reflect.Struct {
		headers = csvHeaders(rv.Type().Elem())
	}
	if len(headers) > 0 {
		if err := csvWriter.Write(headers); err != nil {
			return err
		}
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		for elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		if err := csvWriter.Write(csvRow(elem)); err != nil {
			return err
		}
	}
	return csvWriter.Error()
}

// csvHeaders derives column names from a struct type's exported fields,
// preferring each field's json tag name over its Go identifier.
func csvHeaders(t reflect.Type) []string {
	headers := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		headers = append(headers, csvFieldName(field))
	}
	return headers
}

func csvFieldName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

// csvRow renders one struct value's exported fields as strings.
func csvRow(v reflect.Value) []string {
	if v.Kind() != reflect.Struct {
		return []string{fmt.Sprint(v.Interface())}
	}
	t := v.Type()
	row := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		row = append(row, fmt.Sprint(v.Field(i).Interface()))
	}
	return row
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{}
	}
}
