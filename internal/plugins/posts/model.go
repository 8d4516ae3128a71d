// Package posts implements the blog post content plugin for b-log: the
// persisted Post entity, its repository, and the query pipeline that decides
// which posts a reader sees for a given search text, tag filter, and page.
//
// Reads are public and degrade to empty results on storage failure so the
// reading experience never hard-crashes. Writes are admin-only; create
// surfaces its failure to the author, while update and delete degrade to a
// generic retry message.
package posts

import "time"

// PageSize is the fixed number of posts shown per page on the listing.
const PageSize = 9

// excerptLimit caps stored excerpts, whether author-supplied or derived.
const excerptLimit = 150

// Post represents a single published blog entry.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"` // Markdown body.
	Excerpt   string    `json:"excerpt"`
	ImageURL  *string   `json:"imageUrl,omitempty"` // nil = no cover image.
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// QueryState is the view state of the post listing, reconstructed from URL
// query parameters on every request. It is never stored server-side: the
// URL is the single source of truth.
type QueryState struct {
	// SearchText is the free-text query (`q` parameter).
	SearchText string

	// ActiveTag is the exact tag filter (`tag` parameter), empty when unset.
	ActiveTag string

	// Page is the 1-based page number (`page` parameter).
	Page int
}

// --- Request DTOs (bound from HTTP requests) ---

// CreatePostRequest holds the data submitted when creating a new post.
type CreatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Excerpt  string   `json:"excerpt"`
	ImageURL *string  `json:"imageUrl,omitempty"`
	Tags     []string `json:"tags"`
}

// UpdatePostRequest holds the data submitted when editing a post. Pointer
// fields distinguish "not provided, leave unchanged" (nil) from an explicit
// new value; absent fields are dropped from the merge, never written as null.
type UpdatePostRequest struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Excerpt  *string   `json:"excerpt,omitempty"`
	ImageURL *string   `json:"imageUrl,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}
