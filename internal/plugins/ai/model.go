// Package ai provides AI-assisted writing tools backed by the Gemini API:
// full draft generation from a prompt, and summarization of existing
// content. Both are admin-only conveniences; nothing in the public read path
// depends on this package.
package ai

// GeneratedPost is a complete draft produced from a prompt. The fields map
// directly onto a post create request.
type GeneratedPost struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
}

// GenerateRequest holds the prompt submitted to POST /ai/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// SummarizeRequest holds the input for POST /ai/summarize. MaxLength is
// optional; the service applies its default when it is zero.
type SummarizeRequest struct {
	Content   string `json:"content"`
	MaxLength int    `json:"maxLength"`
}

// SummarizeResponse carries the generated summary.
type SummarizeResponse struct {
	Summary string `json:"summary"`
}
