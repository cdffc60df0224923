// internal/forms/registry.go
package forms

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Definition is the declarative description of one application form: its
// field list, the structural JSON schema generated from it, and an optional
// refinement pass.
type Definition struct {
	Type   string
	Fields []Field
	Refine RefineFunc

	schema *gojsonschema.Schema
}

// Registry holds the form definitions registered per application type.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry builds a registry with every built-in form registered.
func NewRegistry() (*Registry, error) {
	r := &Registry{defs: make(map[string]*Definition)}

	builtins := []*Definition{
		preliminaryUnifiedDefinition(),
		preliminaryPersonalDefinition(),
		preliminaryEducationDefinition(),
		preliminaryBusinessDefinition(),
		finalApplicationDefinition(),
	}
	for _, def := range builtins {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register compiles the structural schema for def and adds it to the registry.
func (r *Registry) Register(def *Definition) error {
	if def.Type == "" {
		return fmt.Errorf("form definition missing type")
	}
	if _, exists := r.defs[def.Type]; exists {
		return fmt.Errorf("form definition %q already registered", def.Type)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(buildJSONSchema(def.Fields)))
	if err != nil {
		return fmt.Errorf("compile schema for %q: %w", def.Type, err)
	}
	def.schema = schema

	r.defs[def.Type] = def
	return nil
}

// Get returns the definition registered for formType.
func (r *Registry) Get(formType string) (*Definition, bool) {
	def, ok := r.defs[formType]
	return def, ok
}

// buildJSONSchema generates the structural validator document from the field
// list. Requiredness and conditional rules are enforced separately so every
// violation can be collected; the generated schema checks value shapes only.
func buildJSONSchema(fields []Field) map[string]interface{} {
	props := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		switch f.Type {
		case FieldNumber:
			// Numbers may arrive as JSON numbers or numeric strings;
			// coercion happens in the rules pass.
			props[f.Name] = map[string]interface{}{"type": []string{"number", "string"}}
		case FieldCheckbox:
			props[f.Name] = map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			}
		default:
			props[f.Name] = map[string]interface{}{"type": "string"}
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		// The stored payload is verbatim, including fields added after
		// validation (computed totals, repeating rows).
		"additionalProperties": true,
	}
}
