package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/kunospw/b-log/internal/apperror"
)

// fakeGemini starts a test server that answers every generateContent call
// with the given status and candidate text.
func fakeGemini(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(text))
			return
		}
		resp := geminiResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content geminiContent `json:"content"`
		}{Content: geminiContent{Parts: []geminiPart{{Text: text}}}})
		json.NewEncoder(w).Encode(resp)
	}))
}

// serviceFor points a gemini service at the fake server.
func serviceFor(srv *httptest.Server) *geminiService {
	return &geminiService{
		apiKey:  "test-key",
		model:   "gemini-2.0-flash",
		baseURL: srv.URL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGenerate_ParsesFencedJSON(t *testing.T) {
	draft := "```json\n" + `{"title":"Hello","content":"Body text.","excerpt":"Short.","tags":["go","web"]}` + "\n```"
	srv := fakeGemini(t, http.StatusOK, draft)
	defer srv.Close()

	got, err := serviceFor(srv).Generate(context.Background(), "write about go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Hello" || got.Content != "Body text." || got.Excerpt != "Short." {
		t.Errorf("unexpected draft: %+v", got)
	}
	if len(got.Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", got.Tags)
	}
}

func TestGenerate_BackfillsMissingFields(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, `{"content":"Some body text for the post."}`)
	defer srv.Close()

	got, err := serviceFor(srv).Generate(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Untitled Post" {
		t.Errorf("expected default title, got %q", got.Title)
	}
	if !strings.HasSuffix(got.Excerpt, "...") {
		t.Errorf("expected derived excerpt, got %q", got.Excerpt)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("expected empty tag slice, got %v", got.Tags)
	}
}

func TestGenerate_ExcerptBackfillKeepsRunesIntact(t *testing.T) {
	content := strings.Repeat("é", 120)
	srv := fakeGemini(t, http.StatusOK, `{"content":"`+content+`"}`)
	defer srv.Close()

	got, err := serviceFor(srv).Generate(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !utf8.ValidString(got.Excerpt) {
		t.Errorf("excerpt truncation split a rune: %q", got.Excerpt)
	}
	if !strings.HasSuffix(got.Excerpt, "...") {
		t.Errorf("expected trailing ellipsis, got %q", got.Excerpt)
	}
}

func TestGenerate_UnparsableResponse(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, "Sure! Here is your blog post: it was a dark and stormy night...")
	defer srv.Close()

	_, err := serviceFor(srv).Generate(context.Background(), "anything")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 500 {
		t.Fatalf("expected 500, got %v", err)
	}
	if !strings.Contains(appErr.Message, "parse") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestGenerate_ModelNotFound(t *testing.T) {
	srv := fakeGemini(t, http.StatusNotFound, `{"error":{"message":"model not found"}}`)
	defer srv.Close()

	_, err := serviceFor(srv).Generate(context.Background(), "anything")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 502 {
		t.Fatalf("expected 502, got %v", err)
	}
	if !strings.Contains(appErr.Message, "Model not found") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestGenerate_InvalidAPIKey(t *testing.T) {
	srv := fakeGemini(t, http.StatusBadRequest, `{"error":{"message":"API key not valid"}}`)
	defer srv.Close()

	_, err := serviceFor(srv).Generate(context.Background(), "anything")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 502 {
		t.Fatalf("expected 502, got %v", err)
	}
	if !strings.Contains(appErr.Message, "API key") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestGenerate_MissingKeyFailsWithoutCall(t *testing.T) {
	svc := &geminiService{client: http.DefaultClient}

	_, err := svc.Generate(context.Background(), "anything")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %v", err)
	}
	if !strings.Contains(appErr.Message, "not configured") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestSummarize_RejectsBlankContent(t *testing.T) {
	svc := &geminiService{apiKey: "test-key", client: http.DefaultClient}

	_, err := svc.Summarize(context.Background(), "   ", 200)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestSummarize_TruncatesLongSummaries(t *testing.T) {
	long := strings.Repeat("word ", 100)
	srv := fakeGemini(t, http.StatusOK, long)
	defer srv.Close()

	got, err := serviceFor(srv).Summarize(context.Background(), "some content", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 50 {
		t.Errorf("expected exactly 50 chars, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected trailing ellipsis, got %q", got)
	}
}

func TestSummarize_TinyMaxLengthDoesNotPanic(t *testing.T) {
	long := strings.Repeat("word ", 40)
	srv := fakeGemini(t, http.StatusOK, long)
	defer srv.Close()

	// A limit too small to hold the ellipsis must degrade, not crash.
	got, err := serviceFor(srv).Summarize(context.Background(), "some content", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) > 2 {
		t.Errorf("expected at most 2 chars, got %d (%q)", len(got), got)
	}
}

func TestSummarize_TruncationKeepsRunesIntact(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, strings.Repeat("é", 100))
	defer srv.Close()

	got, err := serviceFor(srv).Summarize(context.Background(), "some content", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) > 50 {
		t.Errorf("expected at most 50 bytes, got %d", len(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected trailing ellipsis, got %q", got)
	}
}

func TestSummarize_ShortSummaryUntouched(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, "  A tidy summary.  ")
	defer srv.Close()

	got, err := serviceFor(srv).Summarize(context.Background(), "some content", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A tidy summary." {
		t.Errorf("expected trimmed summary, got %q", got)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
