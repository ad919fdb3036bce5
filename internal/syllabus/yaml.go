package syllabus

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a catalog file of the form:
//
//	courses:
//	  - code: CS301
//	    name: Operating Systems
//	    units: [...]
func LoadYAML(path string) (*StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes catalog YAML.
func ParseYAML(data []byte) (*StaticCatalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	c, err := NewStatic(f.Courses)
	if err != nil {
		return nil, err
	}

	slog.Info("syllabus catalog loaded", "source", "yaml", "courses", c.Len())
	return c, nil
}
