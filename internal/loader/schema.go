package loader

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const (
	stagesSchema  = "schemas/stages.schema.json"
	targetsSchema = "schemas/targets.schema.json"
)

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

func compileSchemas() {
	compiled = make(map[string]*jsonschema.Schema)
	for _, name := range []string{stagesSchema, targetsSchema} {
		source, err := fs.ReadFile(schemaFS, name)
		if err != nil {
			compileErr = fmt.Errorf("reading embedded schema %s: %w", name, err)
			return
		}
		schema, err := jsonschema.CompileString(name, string(source))
		if err != nil {
			compileErr = fmt.Errorf("compiling embedded schema %s: %w", name, err)
			return
		}
		compiled[name] = schema
	}
}

// validate checks a generic JSON-compatible document against the named
// embedded schema.
func validate(name string, doc any) error {
	compileOnce.Do(compileSchemas)
	if compileErr != nil {
		return compileErr
	}
	if err := compiled[name].Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
