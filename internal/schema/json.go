package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonSchema mirrors the on-disk schema file shape of spec.md §6.
type jsonSchema struct {
	Name       string       `json:"name"`
	Version    int          `json:"version"`
	Columns    []jsonColumn `json:"columns"`
	Terminator bool         `json:"terminator"`
}

type jsonColumn struct {
	Name       string `json:"name"`
	Offset     int    `json:"offset"`
	Length     int    `json:"length"`
	Dtype      string `json:"dtype"`
	Alignment  string `json:"alignment"`
	PadSymbol  string `json:"pad_symbol"`
	IsNullable *bool  `json:"is_nullable"`
}

// Load reads and validates a Schema from a JSON file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a Schema from raw JSON bytes.
func Parse(data []byte) (*Schema, error) {
	var raw jsonSchema
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode schema json: %w", err)
	}
	if len(raw.Columns) == 0 {
		return nil, newError(Gap, "schema %q declares no columns", raw.Name)
	}

	s := &Schema{
		Name:       raw.Name,
		Version:    raw.Version,
		Columns:    make([]Column, len(raw.Columns)),
		Terminator: raw.Terminator,
	}

	for i, jc := range raw.Columns {
		dtype, err := resolveDtype(jc.Dtype)
		if err != nil {
			return nil, err
		}
		alignment, err := resolveAlignment(jc.Alignment)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", jc.Name, err)
		}
		symbol, err := resolveSymbol(jc.PadSymbol)
		if err != nil {
			return nil, err
		}
		if jc.IsNullable == nil {
			return nil, fmt.Errorf("column %q: is_nullable is required", jc.Name)
		}

		s.Columns[i] = Column{
			Name:       jc.Name,
			Offset:     jc.Offset,
			Length:     jc.Length,
			Dtype:      dtype,
			Alignment:  alignment,
			PadSymbol:  symbol,
			IsNullable: *jc.IsNullable,
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
