package coach

import (
	"strings"
)

const systemPrompt = `You are an expert Engineering Focus Coach. Your goal is to help a developer enter a flow state to solve a GitHub issue.`

const instructions = `INSTRUCTIONS:
1. Analyze the issue.
2. Break it down into a clear, actionable, non-technical step-by-step plan.
3. Define 3 to 5 success criteria describing what done looks like.
4. Write a summary of exactly two sentences.
5. Estimate the time needed as a whole number of minutes between 30 and 120.
6. Do NOT generate code. Avoid complex jargon. Focus on the what, the why and the high-level how.

OUTPUT FORMAT:
JSON compliant with the schema.`

// BuildPrompt renders the user prompt for one issue.
func BuildPrompt(in IssueSummary) string {
	var b strings.Builder
	b.WriteString("ISSUE TITLE: ")
	b.WriteString(strings.TrimSpace(in.Title))
	b.WriteString("\nISSUE CONTEXT: ")
	body := strings.TrimSpace(in.Body)
	if body == "" {
		body = "(no description provided)"
	}
	b.WriteString(body)
	if in.URL != "" {
		b.WriteString("\nISSUE URL: ")
		b.WriteString(in.URL)
	}
	b.WriteString("\n\n")
	b.WriteString(instructions)
	return b.String()
}
