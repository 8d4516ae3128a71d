// Package sanitize provides HTML sanitization for post content.
// Post bodies are Markdown, and Markdown permits embedded raw HTML, so
// everything an author (or the AI generator) submits is run through
// bluemonday before storage to strip script tags, event handlers, and
// javascript: URLs while preserving safe formatting.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy for sanitizing post content.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		// Markdown renderers emit class attributes on code blocks for
		// syntax highlighting (e.g. class="language-go").
		policy.AllowAttrs("class").OnElements("code", "pre")

		// Allow images with standard attributes so Markdown image syntax
		// that passes through as HTML keeps working.
		policy.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	})
	return policy
}

// Content sanitizes post body text by stripping dangerous embedded HTML
// (script, iframe, event handlers, javascript: URLs) while leaving the
// Markdown text and its safe inline HTML intact.
//
// This MUST be called on all author-provided and AI-generated content
// before storing it in the database.
func Content(input string) string {
	if input == "" {
		return ""
	}
	return getPolicy().Sanitize(input)
}
