// internal/forms/preliminary.go
package forms

import "fmt"

// Display labels shown on the unified preliminary form's type selector.
// They are remapped to internal values before storage.
const (
	labelPersonal  = "Preliminary Application for a small, short-term, Personal/Emergency loan"
	labelEducation = "Preliminary Application for an Educational loan via Iana"
	labelBusiness  = "Preliminary Application for a Business or Institutional loan via Iana Independence or Iana Community"
)

// applicationTypeMap remaps the user-facing selector labels to the internal
// discriminator values used in storage and routing.
var applicationTypeMap = map[string]string{
	labelPersonal:  "personal",
	labelEducation: "education",
	labelBusiness:  "business",
}

// preliminaryBaseFields are common to every preliminary variant.
func preliminaryBaseFields() []Field {
	return []Field{
		{Name: "first_name", Label: "First Name", Type: FieldText, Required: true},
		{Name: "middle_name", Label: "Middle Name", Type: FieldText},
		{Name: "last_name", Label: "Last Name", Type: FieldText, Required: true},
		{Name: "email", Label: "Email", Type: FieldEmail},
		{Name: "phone", Label: "Phone Number", Type: FieldTel, Required: true},
		{Name: "address", Label: "Address", Type: FieldTextarea, Required: true},
		{Name: "date_of_birth", Label: "Date of Birth", Type: FieldDate, Required: true},
		{Name: "amount_requested", Label: "Amount Requested", Type: FieldNumber, Required: true},
		{Name: "repayment_period", Label: "Repayment Period (months)", Type: FieldNumber, Required: true},
		{Name: "how_did_you_hear", Label: "How did you hear about Iana Financial?", Type: FieldSelect},
	}
}

type narrativeField struct {
	name  string
	label string
}

var personalNarrativeFields = []narrativeField{
	{"loan_required_reason", "Why is this loan required?"},
	{"underlying_circumstances", "What do you feel are the underlying circumstances for your situation?"},
	{"avoid_similar_situation", "How do you plan to avoid a similar situation in future?"},
	{"unable_to_meet_repayment", "What would you do if you were unable to meet the terms of your repayment plan?"},
}

var educationNarrativeFields = []narrativeField{
	{"current_or_planned_institution", "Current or Planned Institution"},
	{"area_of_study", "Area of Study"},
	{"date_of_graduation", "Date of Graduation"},
	{"current_student_loan_amount", "Current Student Loan Amount"},
	{"student_loans_expected_upon_graduation", "Amount of Student Loans Expected upon Graduation"},
	{"loan_purpose", "What is the purpose of this loan?"},
	{"how_loan_will_benefit_you", "How will this loan benefit you?"},
	{"loan_will_benefit_others", "Will this loan benefit others?"},
	{"why_not_conventional_student_loans", "Why have you chosen not to use conventional student loans?"},
	{"unable_to_meet_repayment_education", "What would you do if you were unable to meet the terms of your repayment plan?"},
	{"decide_to_pursue_program", "How and why did you decide to pursue this program of study?"},
	{"ethical_challenges_field_of_study", "Every field of study poses ethical challenges..."},
	{"vision_for_accomplishment", "What is your vision for what you will accomplish through your field of study?"},
	{"books_enjoy_reading", "What types of books do you enjoy reading?"},
}

var businessNarrativeFields = []narrativeField{
	{"loan_purpose_business", "What is the purpose of this loan?"},
	{"how_loan_will_benefit_you_business", "How will this loan benefit you?"},
	{"loan_will_benefit_others_business", "Will this loan benefit others?"},
	{"decide_to_pursue_initiative", "How and why did you decide to pursue this initiative?"},
	{"business_project_plan", "Do you have a business/project plan that you would be willing to share with IANA?"},
}

func narrativeAsFields(list []narrativeField, required bool, show *Condition) []Field {
	out := make([]Field, 0, len(list))
	for _, n := range list {
		out = append(out, Field{
			Name:            n.name,
			Label:           n.label,
			Type:            FieldTextarea,
			Required:        required,
			ConditionalShow: show,
		})
	}
	return out
}

// preliminaryUnifiedDefinition is the single form carrying all three
// preliminary variants behind an application_type discriminator. The
// variant-specific sections are hidden until their selector label is chosen
// and their mandatory-field set is enforced by the refinement pass after the
// label-to-internal-value remap.
func preliminaryUnifiedDefinition() *Definition {
	fields := []Field{
		{Name: "application_type", Label: "Application Type", Type: FieldRadio, Required: true},
	}
	fields = append(fields, preliminaryBaseFields()...)
	fields = append(fields, narrativeAsFields(personalNarrativeFields, false, &Condition{Field: "application_type", Value: labelPersonal})...)
	fields = append(fields, narrativeAsFields(educationNarrativeFields, false, &Condition{Field: "application_type", Value: labelEducation})...)
	fields = append(fields, narrativeAsFields(businessNarrativeFields, false, &Condition{Field: "application_type", Value: labelBusiness})...)

	return &Definition{
		Type:   "preliminary",
		Fields: fields,
		Refine: refinePreliminaryUnified,
	}
}

// refinePreliminaryUnified remaps the selector label to its internal value
// and enforces the variant's mandatory-field set against the remapped value.
func refinePreliminaryUnified(payload map[string]interface{}) []ValidationError {
	applicationType := stringValue(payload, "application_type")
	if mapped, ok := applicationTypeMap[applicationType]; ok {
		applicationType = mapped
		payload["application_type"] = mapped
	}

	var list []narrativeField
	switch applicationType {
	case "personal":
		list = personalNarrativeFields
	case "education":
		list = educationNarrativeFields
	case "business":
		list = businessNarrativeFields
	default:
		if applicationType == "" {
			return nil // already reported as missing
		}
		return []ValidationError{{
			Field:   "application_type",
			Code:    CodeInvalidValue,
			Message: "Unknown application type",
		}}
	}

	var verrs []ValidationError
	for _, n := range list {
		if stringValue(payload, n.name) == "" {
			verrs = append(verrs, ValidationError{
				Field:   n.name,
				Code:    CodeMissingRequired,
				Message: fmt.Sprintf("%s is required", n.label),
			})
		}
	}
	return verrs
}

func preliminaryPersonalDefinition() *Definition {
	fields := preliminaryBaseFields()
	fields = append(fields, narrativeAsFields(personalNarrativeFields, true, nil)...)
	return &Definition{Type: "preliminary-personal", Fields: fields}
}

func preliminaryEducationDefinition() *Definition {
	fields := preliminaryBaseFields()
	fields = append(fields, narrativeAsFields(educationNarrativeFields, true, nil)...)
	return &Definition{Type: "preliminary-education", Fields: fields}
}

func preliminaryBusinessDefinition() *Definition {
	fields := preliminaryBaseFields()
	fields = append(fields, narrativeAsFields(businessNarrativeFields, true, nil)...)
	return &Definition{Type: "preliminary-business", Fields: fields}
}
