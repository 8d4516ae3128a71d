package posts

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kunospw/b-log/internal/apperror"
	"github.com/kunospw/b-log/internal/paginate"
)

// Handler handles HTTP requests for post operations. Handlers are thin:
// bind request, call service, render response. No business logic lives here.
type Handler struct {
	service PostService
}

// NewHandler creates a new post handler backed by the given service.
func NewHandler(service PostService) *Handler {
	return &Handler{service: service}
}

// PageLink is one pagination control entry with its prebuilt URL.
type PageLink struct {
	Page     int    `json:"page,omitempty"`
	Ellipsis bool   `json:"ellipsis,omitempty"`
	URL      string `json:"url,omitempty"`
	Current  bool   `json:"current,omitempty"`
}

// ListResponse is the JSON payload for the post listing endpoint: the
// visible page of results plus everything the pagination control needs.
type ListResponse struct {
	Posts        []Post     `json:"posts"`
	Page         int        `json:"page"`
	TotalPages   int        `json:"totalPages"`
	TotalResults int        `json:"totalResults"`
	HasPrev      bool       `json:"hasPrev"`
	HasNext      bool       `json:"hasNext"`
	PrevURL      string     `json:"prevUrl,omitempty"`
	NextURL      string     `json:"nextUrl,omitempty"`
	Pages        []PageLink `json:"pages"`
}

// List returns the posts matching the current query state
// (GET /api/v1/posts?q=&tag=&page=).
//
// The URL parameters are the single source of view state: each request
// re-derives the result set from a fresh snapshot of the collection, then
// the paginator cuts the visible slice. There is no per-session query
// state and no caching between requests.
func (h *Handler) List(c echo.Context) error {
	qs := QueryState{
		SearchText: c.QueryParam("q"),
		ActiveTag:  c.QueryParam("tag"),
		Page:       paginate.ParsePage(c.QueryParam("page")),
	}

	snapshot := h.service.ListAll(c.Request().Context())
	results := ResolveQuery(snapshot, qs)

	totalPages := paginate.TotalPages(len(results), PageSize)
	visible := paginate.Slice(results, qs.Page, PageSize)
	if visible == nil {
		visible = []Post{}
	}

	base := c.Request().URL.Path
	params := c.Request().URL.Query()

	resp := ListResponse{
		Posts:        visible,
		Page:         qs.Page,
		TotalPages:   totalPages,
		TotalResults: len(results),
		HasPrev:      paginate.HasPrev(qs.Page),
		HasNext:      paginate.HasNext(qs.Page, totalPages),
		Pages:        []PageLink{},
	}
	if resp.HasPrev {
		resp.PrevURL = paginate.PageURL(base, params, qs.Page-1)
	}
	if resp.HasNext {
		resp.NextURL = paginate.PageURL(base, params, qs.Page+1)
	}
	for _, item := range paginate.Window(qs.Page, totalPages) {
		link := PageLink{Page: item.Page, Ellipsis: item.Ellipsis}
		if !item.Ellipsis {
			link.URL = paginate.PageURL(base, params, item.Page)
			link.Current = item.Page == qs.Page
		}
		resp.Pages = append(resp.Pages, link)
	}

	return c.JSON(http.StatusOK, resp)
}

// Get returns a single post (GET /api/v1/posts/:id).
func (h *Handler) Get(c echo.Context) error {
	post, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Tags returns the tag vocabulary: every distinct tag across the
// collection, sorted ascending (GET /api/v1/tags).
func (h *Handler) Tags(c echo.Context) error {
	snapshot := h.service.ListAll(c.Request().Context())
	tags := TagVocabulary(snapshot)
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, tags)
}

// Create adds a new post (POST /api/v1/posts). Admin only.
func (h *Handler) Create(c echo.Context) error {
	var req CreatePostRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	post, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// Update edits an existing post (PUT /api/v1/posts/:id). Admin only.
func (h *Handler) Update(c echo.Context) error {
	var req UpdatePostRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	post, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete removes a post (DELETE /api/v1/posts/:id). Admin only.
func (h *Handler) Delete(c echo.Context) error {
	if ok := h.service.Delete(c.Request().Context(), c.Param("id")); !ok {
		return apperror.NewInternalMessage("Failed to delete post. Please try again.")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
