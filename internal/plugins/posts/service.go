package posts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kunospw/b-log/internal/apperror"
	"github.com/kunospw/b-log/internal/sanitize"
)

// PostService defines the business logic contract for posts. Handlers call
// these methods -- they never touch the repository directly.
//
// Failure policy, deliberately asymmetric: reads degrade (a public page
// must never hard-crash on a storage blip), create propagates its cause so
// the author can react, and update/delete degrade to a generic retry
// message with the cause logged server-side only.
type PostService interface {
	// ListAll returns the full collection, newest first. On storage
	// failure it logs and returns an empty slice -- callers cannot
	// distinguish "no posts" from "store unavailable".
	ListAll(ctx context.Context) []Post

	// GetByID returns the post or a not-found error. Storage failures are
	// also reported as not found.
	GetByID(ctx context.Context, id string) (*Post, error)

	// Create validates and persists a new post. Failures propagate.
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)

	// Update applies a partial edit. Failures degrade to a generic error.
	Update(ctx context.Context, id string, req UpdatePostRequest) (*Post, error)

	// Delete removes a post, reporting success as a boolean and
	// swallowing any error as false.
	Delete(ctx context.Context, id string) bool
}

// postService implements PostService.
type postService struct {
	repo PostRepository
}

// NewPostService creates a new post service.
func NewPostService(repo PostRepository) PostService {
	return &postService{repo: repo}
}

// ListAll returns every post ordered created-at descending.
func (s *postService) ListAll(ctx context.Context) []Post {
	posts, err := s.repo.List(ctx)
	if err != nil {
		slog.Error("listing posts failed, serving empty collection",
			slog.Any("error", err),
		)
		return []Post{}
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts
}

// GetByID retrieves a single post. A storage failure is indistinguishable
// from a missing post by contract; the real cause is logged.
func (s *postService) GetByID(ctx context.Context, id string) (*Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			slog.Error("fetching post failed",
				slog.String("post_id", id),
				slog.Any("error", err),
			)
		}
		return nil, apperror.NewNotFound("post not found")
	}
	return post, nil
}

// Create validates and persists a new post. This is the one write whose
// failure must reach the author intact -- silent loss of a freshly written
// draft is unacceptable.
func (s *postService) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.NewBadRequest("title is required")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.NewBadRequest("content is required")
	}

	// Markdown bodies may embed raw HTML; strip anything dangerous before
	// it reaches the database.
	content = sanitize.Content(content)

	excerpt := strings.TrimSpace(req.Excerpt)
	if excerpt == "" {
		excerpt = deriveExcerpt(content)
	} else if len(excerpt) > excerptLimit {
		excerpt = truncateAtRune(excerpt, excerptLimit)
	}

	post := &Post{
		ID:       uuid.NewString(),
		Title:    title,
		Content:  content,
		Excerpt:  excerpt,
		ImageURL: req.ImageURL,
		Tags:     NormalizeTags(req.Tags),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, apperror.NewInternal(err)
	}

	// Re-read so the response carries the store-assigned timestamps.
	created, err := s.repo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	slog.Info("post created",
		slog.String("post_id", created.ID),
		slog.String("title", created.Title),
	)
	return created, nil
}

// Update merges the provided fields into the stored post. Nil fields are
// dropped from the merge -- they mean "no change", not "clear". The store
// refreshes updated_at; id and created_at are untouched.
func (s *postService) Update(ctx context.Context, id string, req UpdatePostRequest) (*Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, s.genericUpdateFailure(id, err)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.NewBadRequest("title cannot be empty")
		}
		post.Title = title
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, apperror.NewBadRequest("content cannot be empty")
		}
		post.Content = sanitize.Content(content)
	}
	if req.Excerpt != nil {
		excerpt := strings.TrimSpace(*req.Excerpt)
		if excerpt == "" {
			excerpt = deriveExcerpt(post.Content)
		} else if len(excerpt) > excerptLimit {
			excerpt = truncateAtRune(excerpt, excerptLimit)
		}
		post.Excerpt = excerpt
	}
	if req.ImageURL != nil {
		post.ImageURL = req.ImageURL
	}
	if req.Tags != nil {
		post.Tags = NormalizeTags(*req.Tags)
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, s.genericUpdateFailure(id, err)
	}

	updated, err := s.repo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, s.genericUpdateFailure(id, err)
	}
	return updated, nil
}

// genericUpdateFailure logs the real cause and returns the degraded
// client-facing error the edit flow shows as a retry toast.
func (s *postService) genericUpdateFailure(id string, err error) error {
	slog.Error("updating post failed",
		slog.String("post_id", id),
		slog.Any("error", err),
	)
	return apperror.NewInternalMessage("Failed to update post. Please try again.")
}

// Delete removes a post. Any failure is logged and reported as false.
func (s *postService) Delete(ctx context.Context, id string) bool {
	if err := s.repo.Delete(ctx, id); err != nil {
		slog.Error("deleting post failed",
			slog.String("post_id", id),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

// deriveExcerpt builds an excerpt from the opening of the content when the
// author didn't supply one.
func deriveExcerpt(content string) string {
	trimmed := strings.Join(strings.Fields(content), " ")
	if len(trimmed) <= excerptLimit {
		return trimmed
	}
	return strings.TrimSpace(truncateAtRune(trimmed, excerptLimit-3)) + "..."
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
