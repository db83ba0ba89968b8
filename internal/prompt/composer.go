// Package prompt assembles the grounding prompt given to the language model.
// Composition is pure and deterministic: identical inputs produce a
// byte-identical prompt.
package prompt

import "strings"

// DocumentSectionLabel heads the section holding retrieved document chunks.
const DocumentSectionLabel = "Document Information"

// WebSectionLabel heads the section holding formatted web search results.
const WebSectionLabel = "Web Search Results"

// SectionMarker delimits the body of each context section.
const SectionMarker = "==="

const systemInstructions = `These are very important instructions: You are "Ragie AI", a professional but friendly AI chatbot assisting the user. Your task is to answer the user based on the information provided below. Answer informally, directly, and concisely, including all relevant details. Use Markdown for formatting (e.g., **bold**, *italic*, lists, etc.) and $$ for LaTeX where appropriate. Organize your answer into sections if needed. Do not include raw IDs or sensitive information.`

const insufficientContextInstruction = `If the context is missing or insufficient, please indicate that the available information might be incomplete. END SYSTEM INSTRUCTIONS`

// Compose merges retrieved document chunks and web result lines into a single
// grounding prompt. A section is included only when its source yielded
// something; with no context at all the prompt carries the instruction text
// alone, without section markers.
func Compose(chunks, webResults []string) string {
	var sections []string
	if len(chunks) > 0 {
		sections = append(sections, section(DocumentSectionLabel, chunks))
	}
	if len(webResults) > 0 {
		sections = append(sections, section(WebSectionLabel, webResults))
	}
	contextInfo := strings.Join(sections, "\n\n")

	var sb strings.Builder
	sb.WriteString(systemInstructions)
	sb.WriteString("\n\nHere is the context available for you:\n")
	sb.WriteString(contextInfo)
	sb.WriteString("\n\n")
	sb.WriteString(insufficientContextInstruction)
	return sb.String()
}

func section(label string, parts []string) string {
	return label + ":\n" + SectionMarker + "\n" + strings.Join(parts, "\n\n") + "\n" + SectionMarker
}
