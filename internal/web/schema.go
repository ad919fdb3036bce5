package web

import (
	"embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

type schemas struct {
	plan   *gojsonschema.Schema
	export *gojsonschema.Schema
}

func loadSchemas() (*schemas, error) {
	plan, err := compileSchema("schemas/plan_request.json")
	if err != nil {
		return nil, err
	}
	exp, err := compileSchema("schemas/export_request.json")
	if err != nil {
		return nil, err
	}
	return &schemas{plan: plan, export: exp}, nil
}

func compileSchema(name string) (*gojsonschema.Schema, error) {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}
	return s, nil
}

// validate checks body against s and returns one message per violation.
func validate(s *gojsonschema.Schema, body []byte) ([]string, error) {
	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	var problems []string
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return problems, nil
}
