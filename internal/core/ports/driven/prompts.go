package driven

// PromptStore provides access to generation prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer instructs the generator to answer from retrieved context.
	// Placeholders: {{query}} and {{context}}.
	PromptAnswer = "answer"

	// PromptAnswerSystem is the system instruction sent with PromptAnswer.
	PromptAnswerSystem = "answer_system"
)
