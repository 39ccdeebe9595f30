package vizserver

import (
	"embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// compileSchema compiles one of the embedded message schemas: request, grid,
// step or path.
func compileSchema(name string) (*jsonschema.Schema, error) {
	file := name + ".schema.json"
	raw, err := schemaFS.ReadFile("schemas/" + file)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", name, err)
	}
	schema, err := jsonschema.CompileString(file, string(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	return schema, nil
}
