package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/etnz/apt-sources/sources"
)

// Output formats.
const (
	formatDeb822 = "deb822"
	formatJSON   = "json"
	formatYAML   = "yaml"
)

// encode renders conversion results in the requested format.
func encode(results []sources.Result, format string) ([]byte, error) {
	switch format {
	case formatDeb822, "":
		out := sources.Join(results)
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		return []byte(out), nil
	case formatJSON:
		b, err := json.MarshalIndent(toDTO(results), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case formatYAML:
		return yaml.Marshal(toDTO(results))
	}
	return nil, fmt.Errorf("unknown format %q, expected %s, %s or %s", format, formatDeb822, formatJSON, formatYAML)
}

// Internal DTOs for structured output.
type fieldDTO struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type entryDTO struct {
	Type       string     `json:"type" yaml:"type"`
	URI        string     `json:"uri" yaml:"uri"`
	Suite      string     `json:"suite" yaml:"suite"`
	Components string     `json:"components" yaml:"components"`
	Fields     []fieldDTO `json:"fields" yaml:"fields"`
}

type resultDTO struct {
	Kind  string    `json:"kind" yaml:"kind"`
	Line  string    `json:"line" yaml:"line"`
	Entry *entryDTO `json:"entry,omitempty" yaml:"entry,omitempty"`
	Text  string    `json:"text" yaml:"text"`
}

// toDTO maps business objects to DTOs.
func toDTO(results []sources.Result) []resultDTO {
	dtos := make([]resultDTO, len(results))
	for i, r := range results {
		dtos[i] = resultDTO{
			Kind: r.Kind.String(),
			Line: r.Line,
			Text: r.Text,
		}
		if r.Entry == nil {
			continue
		}
		e := &entryDTO{
			Type:       string(r.Entry.Type),
			URI:        r.Entry.URI,
			Suite:      r.Entry.Suite,
			Components: r.Entry.Components,
		}
		for _, f := range r.Fields {
			e.Fields = append(e.Fields, fieldDTO{Name: string(f.Name), Value: f.Value})
		}
		dtos[i].Entry = e
	}
	return dtos
}
