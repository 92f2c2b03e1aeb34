package llm

import (
	"fmt"
	"strings"
)

// BuildChatPrompt flattens the conversation into a single prompt. History
// turns come before the current question; retrieved document context, when
// present, is injected between the instructions and the transcript.
func BuildChatPrompt(req Request) string {
	var b strings.Builder

	b.WriteString(`You are a helpful assistant. Answer the user's question directly and concisely.

Rules:
1. Answer in plain prose, use markdown only when it improves readability
2. If document context is provided, ground your answer in it and say when it does not cover the question
3. Do not invent citations or file names
`)

	if req.Context != "" {
		b.WriteString("\nDocument context:\n")
		b.WriteString(req.Context)
		b.WriteString("\n")
	}

	if len(req.History) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, turn := range req.History {
			fmt.Fprintf(&b, "%s: %s\n", capitalize(turn.Role), turn.Content)
		}
	}

	b.WriteString("\nUser: ")
	b.WriteString(req.Question)
	b.WriteString("\nAssistant:")

	return b.String()
}

// BuildTitlePrompt asks for a short session title
func BuildTitlePrompt(question string) string {
	return fmt.Sprintf(`Generate a short title (at most 6 words) summarizing this question. Respond with the title only, no quotes, no punctuation at the end.

Question: %s

Title:`, question)
}

// CleanTitle normalizes an LLM-generated title to a single trimmed line
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	if i := strings.IndexByte(title, '\n'); i != -1 {
		title = title[:i]
	}
	title = strings.Trim(title, `"'`)
	title = strings.TrimRight(title, ".")

	const maxTitleLen = 80
	if len(title) > maxTitleLen {
		title = strings.TrimSpace(title[:maxTitleLen])
	}
	return strings.TrimSpace(title)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-32) + s[1:]
	}
	return s
}
