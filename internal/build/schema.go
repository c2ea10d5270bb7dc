package build

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// SchemaJSON emits the JSON Schema for the Build document, for use by
// external storage collaborators that persist builds.
func SchemaJSON() ([]byte, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	schema := reflector.ReflectFromType(reflect.TypeOf(Build{}))
	if schema == nil {
		return nil, fmt.Errorf("reflect build schema")
	}
	schema.Title = "Spriteforge Build"
	schema.Description = "Validated layer stack ready for composition."

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal build schema: %w", err)
	}
	return append(data, '\n'), nil
}
