// internal/workflows/respond/questions.go
package respond

import "iana-intake/internal/models"

// Question is one prompt shown to an invitee on the response form.
type Question struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var guarantorQuestions = []Question{
	{Key: "q1", Label: "What is your full name and occupation?"},
	{Key: "q2", Label: "How long have you known the applicant and in what capacity? i.e. Describe your relationship to the applicant."},
	{Key: "q3", Label: "What has your experience been with the applicant in terms of character and conduct? Please elaborate and provide examples."},
	{Key: "q4", Label: "Specifically, how reliable, competent, and trustworthy is the applicant?"},
	{Key: "q5", Label: "How well does the applicant communicate?"},
	{Key: "q6", Label: "Have you agreed to be the applicant's guarantor and if so, why?"},
	{Key: "q7", Label: "Do you understand and agree that, should the applicant, God-forbid, default on this loan, you will be responsible to pay off the balance owing on the loan?"},
	{Key: "q8", Label: "What is your ability to pay off this loan in case the applicant defaults? Please provide relevant documentation indicating your annual salary, assets, and liabilities e.g. pay stubs, bank statements, credit card statements, and any relevant documentation for assets and liabilities."},
	{Key: "q9", Label: "If you agree to be guarantor, please provide your full name, phone number, and address for use in the contract as well as a copy of government issued identification."},
}

var referenceQuestions = []Question{
	{Key: "q1", Label: "What is your full name and occupation?"},
	{Key: "q2", Label: "How long have you known the applicant and in what capacity? i.e. Describe your relationship to the applicant."},
	{Key: "q3", Label: "What has your experience been with the applicant in terms of character and conduct? Please elaborate and provide examples."},
	{Key: "q4", Label: "Specifically, how reliable, competent, and trustworthy is the applicant?"},
	{Key: "q5", Label: "How well does the applicant communicate?"},
	{Key: "q6", Label: "Would you personally lend the applicant money? Please explain."},
	{Key: "q7", Label: "Would you please provide your phone number and address in case we need to reach you?"},
}

// QuestionsForRole returns the prompt set for a response role.
func QuestionsForRole(role models.LinkRole) []Question {
	switch role {
	case models.RoleGuarantor:
		return guarantorQuestions
	case models.RoleReference:
		return referenceQuestions
	default:
		return nil
	}
}
