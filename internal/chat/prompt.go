package chat

import "strings"

// Template placeholders.
const (
	DataPlaceholder     = "{{data}}"
	QuestionPlaceholder = "{{question}}"
)

// DefaultPromptTemplate frames the health document and the user's question.
const DefaultPromptTemplate = `Here is my health data from the last 18 months:

{{data}}

Using only this data, answer my question in a friendly, concise way. If the data does not cover the question, say so and suggest what I could track instead.

Question: {{question}}`

// BuildPrompt substitutes data and question into tmpl. Substitution is a
// single pass, so placeholders inside the inserted text are left alone.
func BuildPrompt(tmpl, data, question string) string {
	if tmpl == "" {
		tmpl = DefaultPromptTemplate
	}
	return strings.NewReplacer(
		DataPlaceholder, data,
		QuestionPlaceholder, question,
	).Replace(tmpl)
}
