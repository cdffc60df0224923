// internal/forms/fields.go
package forms

// FieldType enumerates the input kinds a form definition may declare.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
	FieldDate     FieldType = "date"
	FieldNumber   FieldType = "number"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldFile     FieldType = "file"
)

// Condition ties a rule to another field's value in the same payload.
// The condition is met when that field's value equals Value, or, for
// checkbox fields, when the selected set contains Value.
type Condition struct {
	Field string
	Value string
}

// Field is one declarative entry in a form definition.
type Field struct {
	Name  string
	Label string
	Type  FieldType
	// Required marks the field unconditionally mandatory.
	Required bool
	// ConditionalRequired makes the field mandatory only while the
	// condition holds, even if Required is false.
	ConditionalRequired *Condition
	// ConditionalShow hides the field (and suspends all of its rules)
	// while the condition does not hold.
	ConditionalShow *Condition
}

// ValidationError is a single field-level violation. All violations are
// collected before reporting; validation never short-circuits.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validation error codes.
const (
	CodeMissingRequired = "MISSING_REQUIRED"
	CodeInvalidType     = "INVALID_TYPE"
	CodeInvalidFormat   = "INVALID_FORMAT"
	CodeInvalidValue    = "INVALID_VALUE"
)

// RefineFunc is a post-validation pass over the already-type-checked
// payload, used for business-type cross-field rules. It may normalize
// values in place.
type RefineFunc func(payload map[string]interface{}) []ValidationError
