package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/kunospw/b-log/internal/apperror"
	"github.com/kunospw/b-log/internal/config"
)

// defaultBaseURL is the Gemini REST endpoint prefix.
const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// defaultSummaryLength is the summary character budget when the caller
// doesn't specify one.
const defaultSummaryLength = 200

// generatePrompt instructs the model to answer with a bare JSON draft.
const generatePrompt = `You are a helpful blog post generator. Generate a complete blog post based on the user's prompt.
Return your response as a JSON object with the following structure:
{
  "title": "A catchy and engaging blog post title",
  "content": "The full blog post content (at least 300 words, well-formatted with paragraphs)",
  "excerpt": "A short 1-2 sentence summary of the post (max 150 characters)",
  "tags": ["tag1", "tag2", "tag3", "tag4"]
}

Make sure the content is well-written, informative, and engaging. The tags should be relevant to the topic.
Only return the JSON object, no additional text or markdown formatting.`

// AIService defines the contract for AI-assisted writing tools.
type AIService interface {
	// Generate produces a complete draft from a free-form prompt.
	Generate(ctx context.Context, prompt string) (*GeneratedPost, error)

	// Summarize condenses existing content to roughly maxLength characters.
	Summarize(ctx context.Context, content string, maxLength int) (string, error)
}

// geminiService implements AIService against the Gemini REST API.
type geminiService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiService creates a Gemini-backed AI service. With an empty API key
// the service still constructs, but every call reports that AI features are
// not configured.
func NewGeminiService(cfg config.AIConfig) AIService {
	return &geminiService{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Generate produces a complete draft from a free-form prompt.
func (s *geminiService) Generate(ctx context.Context, prompt string) (*GeneratedPost, error) {
	if s.apiKey == "" {
		return nil, apperror.NewInternalMessage("AI features are not configured. Set GEMINI_API_KEY to enable them.")
	}

	text, err := s.generateContent(ctx, generatePrompt+"\n\nUser prompt: "+prompt)
	if err != nil {
		return nil, err
	}

	// Models often wrap JSON answers in a markdown code fence despite being
	// told not to.
	jsonText := stripCodeFence(text)

	var generated GeneratedPost
	if err := json.Unmarshal([]byte(jsonText), &generated); err != nil {
		slog.Error("unparsable generation response",
			slog.String("model", s.model),
			slog.Any("error", err),
		)
		return nil, apperror.NewInternalMessage("Failed to parse AI response. Please try again with a different prompt.")
	}

	// Backfill anything the model left out.
	if generated.Title == "" {
		generated.Title = "Untitled Post"
	}
	if generated.Excerpt == "" && generated.Content != "" {
		generated.Excerpt = truncateAtRune(generated.Content, 150) + "..."
	}
	if generated.Tags == nil {
		generated.Tags = []string{}
	}

	return &generated, nil
}

// Summarize condenses existing content to roughly maxLength characters.
func (s *geminiService) Summarize(ctx context.Context, content string, maxLength int) (string, error) {
	if s.apiKey == "" {
		return "", apperror.NewInternalMessage("AI features are not configured. Set GEMINI_API_KEY to enable them.")
	}
	if strings.TrimSpace(content) == "" {
		return "", apperror.NewBadRequest("content cannot be empty")
	}
	if maxLength <= 0 {
		maxLength = defaultSummaryLength
	}

	prompt := fmt.Sprintf(`Summarize the following blog post content in a concise and engaging way.
The summary should be approximately %d characters or less, written as 2-3 sentences that capture the main points and key insights.

Blog post content:
%s

Provide only the summary text, no additional formatting, labels, or markdown.`, maxLength, content)

	text, err := s.generateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(text)
	if len(summary) > maxLength {
		if maxLength < 4 {
			// No room for an ellipsis; a tiny limit must still not slice
			// out of range.
			summary = truncateAtRune(summary, maxLength)
		} else {
			summary = truncateAtRune(summary, maxLength-3) + "..."
		}
	}

	return summary, nil
}

// --- Gemini wire format ---

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// generateContent sends one prompt to the model and returns the first
// candidate's text.
func (s *geminiService) generateContent(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("marshaling request: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperror.NewBadGateway("AI service is unreachable. Please try again.")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperror.NewBadGateway("AI service returned an unreadable response.")
	}

	if resp.StatusCode != http.StatusOK {
		return "", s.classifyAPIError(resp.StatusCode, respBody)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", apperror.NewBadGateway("AI service returned an unreadable response.")
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", apperror.NewBadGateway("AI service returned no content. Please try again.")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// classifyAPIError maps upstream failures to the messages the editor shows.
func (s *geminiService) classifyAPIError(status int, body []byte) error {
	slog.Error("Gemini API error",
		slog.Int("status", status),
		slog.String("model", s.model),
		slog.String("body", string(body)),
	)

	text := string(body)
	switch {
	case status == http.StatusNotFound || strings.Contains(text, "not found"):
		return apperror.NewBadGateway("Model not found. Please check your API key and model availability.")
	case strings.Contains(text, "API key"):
		return apperror.NewBadGateway("Invalid API key. Please check your GEMINI_API_KEY.")
	default:
		return apperror.NewBadGateway("AI request failed. Please try again.")
	}
}

// truncateAtRune cuts s to at most n bytes without splitting a multi-byte
// rune.
func truncateAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// stripCodeFence removes a wrapping markdown code fence (``` or ```json)
// from a model response.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.ReplaceAll(trimmed, "```json\n", "")
	trimmed = strings.ReplaceAll(trimmed, "```json", "")
	trimmed = strings.ReplaceAll(trimmed, "```\n", "")
	trimmed = strings.ReplaceAll(trimmed, "```", "")
	return strings.TrimSpace(trimmed)
}
