package core

// prompts.go holds the fixed text sent to the model on every query.

import "fmt"

const (
	// SystemInstruction fixes the assistant's role.  The urgency rule is the
	// only safety behaviour the service relies on the model for.
	SystemInstruction = "You are an expert medical directory assistant. Your goal is to help users find the correct medical specialist based on their description of health issues. " +
		"Provide professional, accurate (but non-diagnostic) information. " +
		"Always include an urgency warning if symptoms sound life-threatening (e.g., chest pain, difficulty breathing)."

	// promptTemplate wraps the user's text.  %q keeps embedded quotes from
	// closing the quoted block early.
	promptTemplate = "Analyze the following symptoms or medical inquiry and identify the most appropriate medical specialist. " +
		"Provide a detailed explanation of why they are the right fit. Symptoms/Inquiry: %q"

	// FailureMessage is the single user-facing message for any analysis failure.
	FailureMessage = "Failed to analyze symptoms. Please try again with more detail."

	// Disclaimer is shown in the footer and on the about page.
	Disclaimer = "DRSpecialist is an AI-powered educational tool. It is NOT a substitute for professional medical advice, diagnosis, or treatment. " +
		"Always seek the advice of your physician or other qualified health provider with any questions you may have regarding a medical condition. " +
		"If you are experiencing a medical emergency, call your local emergency services immediately."
)

// BuildPrompt embeds the user's description in the query template.
func BuildPrompt(input string) string {
	return fmt.Sprintf(promptTemplate, input)
}
