// Package tooling loads the tool catalog and resolves drill groups to tools.
package tooling

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"edgedrill/pkg/drill"
)

// Tool is one catalog row. Optional numeric columns are nil when blank.
type Tool struct {
	Number            int             `yaml:"tool_number"`
	Type              string          `yaml:"tool_type"`
	Direction         drill.Direction `yaml:"tool_direction"`
	Diameter          float64         `yaml:"diameter"`
	InSpindle         bool            `yaml:"in_spindle"`
	Description       string          `yaml:"description,omitempty"`
	Length            *float64        `yaml:"tool_length,omitempty"`
	MaxWorkingLength  *float64        `yaml:"max_working_length,omitempty"`
	HolderZOffset     *float64        `yaml:"tool_holder_z_offset,omitempty"`
	RotationDirection string          `yaml:"rotation_direction,omitempty"`
	Notes             string          `yaml:"notes,omitempty"`
}

// Catalog is a source of tools. Every call returns the catalog as it is now.
type Catalog interface {
	Tools() ([]Tool, error)
}

// FileCatalog reads a CSV file on every call.
type FileCatalog struct {
	Path string
}

func (c FileCatalog) Tools() ([]Tool, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCatalog(f)
}

// StaticCatalog is an in-memory catalog.
type StaticCatalog []Tool

func (c StaticCatalog) Tools() ([]Tool, error) {
	return append([]Tool(nil), c...), nil
}

var requiredColumns = []string{"tool_number", "tool_direction", "diameter"}

// ReadCatalog parses a tool catalog. Columns are located by header name and
// may appear in any order. Rows whose required columns do not parse are
// dropped.
func ReadCatalog(r io.Reader) ([]Tool, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("tool catalog is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading tool catalog header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("tool catalog is missing column %q", name)
		}
	}

	var tools []Tool
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tool catalog: %w", err)
		}
		row := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		tool, ok := parseTool(row)
		if ok {
			tools = append(tools, tool)
		}
	}
	return tools, nil
}

func parseTool(row func(string) string) (Tool, bool) {
	number, err := strconv.Atoi(row("tool_number"))
	if err != nil {
		return Tool{}, false
	}
	code, err := strconv.Atoi(row("tool_direction"))
	if err != nil {
		return Tool{}, false
	}
	diameter, err := strconv.ParseFloat(row("diameter"), 64)
	if err != nil {
		return Tool{}, false
	}
	return Tool{
		Number:            number,
		Type:              row("tool_type"),
		Direction:         drill.Direction(code),
		Diameter:          diameter,
		InSpindle:         row("in_spindle") == "1",
		Description:       row("description"),
		Length:            optionalFloat(row("tool_length")),
		MaxWorkingLength:  optionalFloat(row("max_working_length")),
		HolderZOffset:     optionalFloat(row("tool_holder_z_offset")),
		RotationDirection: row("rotation_direction"),
		Notes:             row("notes"),
	}, true
}

// optionalFloat is nil for blank cells and 0 for cells that are not numbers.
func optionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f = 0
	}
	return &f
}
