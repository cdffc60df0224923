// internal/forms/final.go
package forms

// finalApplicationDefinition is the full loan application. Guarantor and
// reference contact blocks are optional; response links are provisioned at
// submission time for whichever contacts are populated. Document uploads are
// staged through the upload endpoint first, so file fields carry URLs here.
func finalApplicationDefinition() *Definition {
	employed := &Condition{Field: "employment_status", Value: "Employed"}

	fields := []Field{
		{Name: "first_name", Label: "First Name", Type: FieldText, Required: true},
		{Name: "middle_name", Label: "Middle Name", Type: FieldText},
		{Name: "last_name", Label: "Last Name", Type: FieldText, Required: true},
		{Name: "email", Label: "Email", Type: FieldEmail},
		{Name: "phone", Label: "Phone Number", Type: FieldTel, Required: true},
		{Name: "street_address", Label: "Street Address", Type: FieldText, Required: true},
		{Name: "city", Label: "City", Type: FieldText, Required: true},
		{Name: "province", Label: "Province", Type: FieldText, Required: true},
		{Name: "postal_code", Label: "Postal Code", Type: FieldText, Required: true},
		{Name: "date_of_birth", Label: "Date of Birth", Type: FieldDate, Required: true},
		{Name: "marital_status", Label: "Marital Status", Type: FieldSelect, Required: true},
		{Name: "household_size", Label: "Household Size", Type: FieldNumber, Required: true},

		{Name: "employment_status", Label: "Employment Status", Type: FieldRadio, Required: true},
		{Name: "employer_name", Label: "Employer Name", Type: FieldText, ConditionalRequired: employed},
		{Name: "monthly_income", Label: "Monthly Income", Type: FieldNumber, ConditionalRequired: employed},

		{Name: "amount_requested", Label: "Amount Requested", Type: FieldNumber, Required: true},
		{Name: "loan_purpose", Label: "What is the purpose of this loan?", Type: FieldTextarea, Required: true},
		{Name: "repayment_period", Label: "Repayment Period (months)", Type: FieldNumber, Required: true},
		{Name: "proposed_monthly_payment", Label: "Proposed Monthly Payment", Type: FieldNumber, Required: true},
		{Name: "existing_debts", Label: "Existing Debts", Type: FieldTextarea},

		{Name: "guarantor_name", Label: "Guarantor Name", Type: FieldText},
		{Name: "guarantor_email", Label: "Guarantor Email", Type: FieldEmail},
		{Name: "guarantor_phone", Label: "Guarantor Phone", Type: FieldTel},

		{Name: "reference1_name", Label: "Reference 1 Name", Type: FieldText},
		{Name: "reference1_email", Label: "Reference 1 Email", Type: FieldEmail},
		{Name: "reference2_name", Label: "Reference 2 Name", Type: FieldText},
		{Name: "reference2_email", Label: "Reference 2 Email", Type: FieldEmail},
		{Name: "reference3_name", Label: "Reference 3 Name", Type: FieldText},
		{Name: "reference3_email", Label: "Reference 3 Email", Type: FieldEmail},

		{Name: "government_id", Label: "Government-issued ID", Type: FieldFile, Required: true},
		{Name: "proof_of_income", Label: "Proof of Income", Type: FieldFile, ConditionalRequired: employed},
		{Name: "bank_statement", Label: "Bank Statement", Type: FieldFile, Required: true},

		{Name: "declaration", Label: "Declaration", Type: FieldCheckbox, Required: true},
	}

	return &Definition{
		Type:   "final",
		Fields: fields,
		Refine: refineFinalApplication,
	}
}

// refineFinalApplication checks the repeating credit-card rows, which live
// outside the flat field list. Rows are optional; a row that carries an
// amount must carry a parsable one.
func refineFinalApplication(payload map[string]interface{}) []ValidationError {
	rows, ok := payload["credit_cards"].([]interface{})
	if !ok {
		return nil
	}

	var verrs []ValidationError
	for _, raw := range rows {
		row, ok := raw.(map[string]interface{})
		if !ok {
			verrs = append(verrs, ValidationError{
				Field:   "credit_cards",
				Code:    CodeInvalidType,
				Message: "Credit card entries must be objects",
			})
			continue
		}
		for _, key := range []string{"amount_owing", "monthly_payment"} {
			val, present := row[key]
			if !present || val == "" || val == nil {
				continue
			}
			if _, ok := coerceNumber(val); !ok {
				verrs = append(verrs, ValidationError{
					Field:   "credit_cards",
					Code:    CodeInvalidValue,
					Message: "Credit card amounts must be numeric",
				})
			}
		}
	}
	return verrs
}
