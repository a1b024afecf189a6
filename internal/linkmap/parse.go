package linkmap

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a mapping table.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

var utf8BOM = []byte("\ufeff")

// FormatFor infers the table format from a location's extension. Anything that is
// not YAML is read as CSV, which is what the upstream sync tooling publishes.
func FormatFor(location string) Format {
	loc := location
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		loc = loc[:i]
	}
	switch strings.ToLower(path.Ext(loc)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

// Parse decodes a mapping table in the given format.
func Parse(data []byte, format Format) (*LinkMap, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var (
		m   *LinkMap
		err error
	)
	switch format {
	case FormatCSV:
		m, err = ParseCSV(bytes.NewReader(data))
	case FormatYAML:
		m, err = ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if m.Len() == 0 {
		return nil, ErrEmptyMap
	}
	return m, nil
}

// ParseCSV reads a headerless two-column table. Later rows overwrite earlier rows
// with the same fragment. Blank lines are skipped.
func ParseCSV(r io.Reader) (*LinkMap, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	m := New()
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if len(record) != 2 {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d", ErrMalformedRow, line, len(record))
		}
		m.Set(record[0], record[1])
	}
	return m, nil
}

// ParseYAML reads a flat mapping of fragment to id, keeping document order.
func ParseYAML(data []byte) (*LinkMap, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	m := New()
	if len(doc.Content) == 0 {
		return m, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse yaml: line %d: expected a mapping of fragment to id", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d is not a scalar pair", ErrMalformedRow, key.Line)
		}
		m.Set(key.Value, value.Value)
	}
	return m, nil
}
