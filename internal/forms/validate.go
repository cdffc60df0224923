// internal/forms/validate.go
package forms

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// Validate checks payload against the definition and returns either a
// normalized payload or every field-level violation found. The three passes
// run in order: structural shape check, per-field requiredness and type
// rules, then the definition's refinement pass.
func (d *Definition) Validate(payload map[string]interface{}) (map[string]interface{}, []ValidationError) {
	var verrs []ValidationError

	normalized := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		normalized[k] = v
	}

	// Pass 1: structural shape check against the generated schema.
	result, err := d.schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return nil, []ValidationError{{
			Field:   "",
			Code:    CodeInvalidType,
			Message: "payload must be a JSON object",
		}}
	}
	structuralBad := make(map[string]bool)
	for _, desc := range result.Errors() {
		field := desc.Field()
		structuralBad[field] = true
		verrs = append(verrs, ValidationError{
			Field:   field,
			Code:    CodeInvalidType,
			Message: desc.Description(),
		})
	}

	// Pass 2: requiredness and per-type rules, conditionals resolved
	// against sibling values in the same payload.
	for _, f := range d.Fields {
		if f.ConditionalShow != nil && !conditionMet(payload, *f.ConditionalShow) {
			continue
		}
		if structuralBad[f.Name] {
			continue
		}

		required := f.Required
		if !required && f.ConditionalRequired != nil && conditionMet(payload, *f.ConditionalRequired) {
			required = true
		}

		raw, present := payload[f.Name]
		if !present || isEmpty(f.Type, raw) {
			if required {
				verrs = append(verrs, ValidationError{
					Field:   f.Name,
					Code:    CodeMissingRequired,
					Message: fmt.Sprintf("%s is required", f.Label),
				})
			}
			continue
		}

		if verr := checkFieldValue(f, raw, normalized); verr != nil {
			verrs = append(verrs, *verr)
		}
	}

	// Pass 3: business-type cross-field refinement.
	if d.Refine != nil {
		verrs = append(verrs, d.Refine(normalized)...)
	}

	if len(verrs) > 0 {
		return nil, verrs
	}
	return normalized, nil
}

// checkFieldValue applies the per-type value rule for a present, non-empty
// value and writes coerced values into normalized.
func checkFieldValue(f Field, raw interface{}, normalized map[string]interface{}) *ValidationError {
	switch f.Type {
	case FieldEmail:
		s, _ := raw.(string)
		if !emailRegex.MatchString(strings.TrimSpace(s)) {
			return &ValidationError{
				Field:   f.Name,
				Code:    CodeInvalidFormat,
				Message: "Please enter a valid email address",
			}
		}

	case FieldNumber:
		n, ok := coerceNumber(raw)
		if !ok || n <= 0 {
			return &ValidationError{
				Field:   f.Name,
				Code:    CodeInvalidValue,
				Message: "Must be a positive number",
			}
		}
		normalized[f.Name] = n

	case FieldFile:
		s, _ := raw.(string)
		u, err := url.ParseRequestURI(strings.TrimSpace(s))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return &ValidationError{
				Field:   f.Name,
				Code:    CodeInvalidFormat,
				Message: "Please upload a valid file",
			}
		}
	}
	return nil
}

// conditionMet resolves a conditional rule against the trigger field's
// current value: scalar equality, or set membership for checkbox values.
func conditionMet(payload map[string]interface{}, cond Condition) bool {
	raw, ok := payload[cond.Field]
	if !ok {
		return false
	}
	switch v := raw.(type) {
	case string:
		return v == cond.Value
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == cond.Value {
				return true
			}
		}
	case []string:
		for _, s := range v {
			if s == cond.Value {
				return true
			}
		}
	}
	return false
}

// isEmpty reports whether a present value counts as unanswered for its type.
func isEmpty(t FieldType, raw interface{}) bool {
	switch t {
	case FieldCheckbox:
		switch v := raw.(type) {
		case []interface{}:
			return len(v) == 0
		case []string:
			return len(v) == 0
		}
		return true
	case FieldNumber:
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s) == ""
		}
		return raw == nil
	default:
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s) == ""
		}
		return raw == nil
	}
}

// coerceNumber accepts JSON numbers and numeric strings.
func coerceNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// stringValue returns the trimmed string at key, or "" when absent or not a
// string. Used by refinement passes.
func stringValue(payload map[string]interface{}, key string) string {
	if s, ok := payload[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
