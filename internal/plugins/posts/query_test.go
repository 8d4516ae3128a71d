package posts

import (
	"reflect"
	"testing"
	"time"
)

// fixture returns a small collection in repository order (newest first).
func fixture() []Post {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []Post{
		{
			ID:        "p3",
			Title:     "Channels in Practice",
			Content:   "Select statements and the scheduler underneath.",
			Excerpt:   "Channel patterns.",
			Tags:      []string{"go", "concurrency"},
			CreatedAt: t0.Add(48 * time.Hour),
		},
		{
			ID:        "p2",
			Title:     "Rust Intro",
			Content:   "Ownership and borrowing from first principles.",
			Excerpt:   "A gentle start.",
			Tags:      []string{"rust"},
			CreatedAt: t0.Add(24 * time.Hour),
		},
		{
			ID:        "p1",
			Title:     "Go Basics",
			Content:   "Slices, maps, and structs.",
			Excerpt:   "Getting started with Go.",
			Tags:      []string{"go", "tutorial"},
			CreatedAt: t0,
		},
	}
}

func ids(posts []Post) []string {
	var out []string
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestByTag(t *testing.T) {
	posts := fixture()

	t.Run("case-insensitive exact match", func(t *testing.T) {
		got := ByTag(posts, "GO")
		if want := []string{"p3", "p1"}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("expected %v, got %v", want, ids(got))
		}
	})

	t.Run("not a substring match", func(t *testing.T) {
		// "g" is a substring of "go" but not an exact tag.
		if got := ByTag(posts, "g"); len(got) != 0 {
			t.Errorf("expected no matches for partial tag, got %v", ids(got))
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once := ByTag(posts, "go")
		twice := ByTag(once, "go")
		if !reflect.DeepEqual(ids(once), ids(twice)) {
			t.Errorf("filtering twice changed the set: %v vs %v", ids(once), ids(twice))
		}
	})

	t.Run("preserves repository order", func(t *testing.T) {
		got := ByTag(posts, "go")
		for i := 1; i < len(got); i++ {
			if got[i].CreatedAt.After(got[i-1].CreatedAt) {
				t.Errorf("order broken at index %d", i)
			}
		}
	})
}

func TestSearchFilter(t *testing.T) {
	posts := fixture()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title substring", "intro", []string{"p2"}},
		{"content substring", "borrowing", []string{"p2"}},
		{"excerpt substring", "gentle", []string{"p2"}},
		{"tag substring", "tutor", []string{"p1"}},
		{"case insensitive", "CHANNELS", []string{"p3"}},
		{"no match", "kubernetes", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchFilter(posts, tt.query)
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("SearchFilter(%q) = %v, want %v", tt.query, ids(got), tt.want)
			}
		})
	}
}

func TestResolveQuery(t *testing.T) {
	posts := fixture()

	t.Run("tag plus text narrows the tag subset", func(t *testing.T) {
		// Two posts are tagged "go"; only one mentions the scheduler.
		got := ResolveQuery(posts, QueryState{ActiveTag: "go", SearchText: "scheduler"})
		if want := []string{"p3"}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("expected %v, got %v", want, ids(got))
		}
	})

	t.Run("text outside the tag subset matches nothing", func(t *testing.T) {
		// "borrowing" appears only in the rust post, which the tag excludes.
		got := ResolveQuery(posts, QueryState{ActiveTag: "go", SearchText: "borrowing"})
		if len(got) != 0 {
			t.Errorf("expected no results, got %v", ids(got))
		}
	})

	t.Run("tag alone", func(t *testing.T) {
		got := ResolveQuery(posts, QueryState{ActiveTag: "rust"})
		if want := []string{"p2"}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("expected %v, got %v", want, ids(got))
		}
	})

	t.Run("text alone searches the full collection", func(t *testing.T) {
		got := ResolveQuery(posts, QueryState{SearchText: "intro"})
		if want := []string{"p2"}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("expected %v, got %v", want, ids(got))
		}
	})

	t.Run("blank text yields the unfiltered set", func(t *testing.T) {
		for _, blank := range []string{"", "   ", "\t"} {
			got := ResolveQuery(posts, QueryState{SearchText: blank})
			if len(got) != len(posts) {
				t.Errorf("blank query %q: expected %d posts, got %d", blank, len(posts), len(got))
			}
		}
	})

	t.Run("blank text with tag keeps the full tag subset", func(t *testing.T) {
		got := ResolveQuery(posts, QueryState{ActiveTag: "go", SearchText: "  "})
		if want := []string{"p3", "p1"}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("expected %v, got %v", want, ids(got))
		}
	})
}

// TestEndToEndScenario covers the two-post walkthrough: tag filter, title
// search, and the unfiltered newest-first listing.
func TestEndToEndScenario(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	// Repository order: newest first.
	posts := []Post{
		{ID: "b", Title: "Rust Intro", Tags: []string{"rust"}, CreatedAt: t2},
		{ID: "a", Title: "Go Basics", Tags: []string{"go", "tutorial"}, CreatedAt: t1},
	}

	if got := ResolveQuery(posts, QueryState{ActiveTag: "go"}); !reflect.DeepEqual(ids(got), []string{"a"}) {
		t.Errorf("tag=go: expected [a], got %v", ids(got))
	}
	if got := ResolveQuery(posts, QueryState{SearchText: "intro"}); !reflect.DeepEqual(ids(got), []string{"b"}) {
		t.Errorf("q=intro: expected [b], got %v", ids(got))
	}
	if got := ResolveQuery(posts, QueryState{}); !reflect.DeepEqual(ids(got), []string{"b", "a"}) {
		t.Errorf("no params: expected [b a], got %v", ids(got))
	}
}

func TestTagVocabulary(t *testing.T) {
	posts := fixture()

	got := TagVocabulary(posts)
	want := []string{"concurrency", "go", "rust", "tutorial"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	t.Run("no duplicates for shared tags", func(t *testing.T) {
		seen := make(map[string]int)
		for _, tag := range got {
			seen[tag]++
		}
		for tag, n := range seen {
			if n > 1 {
				t.Errorf("tag %q appears %d times", tag, n)
			}
		}
	})

	t.Run("empty collection", func(t *testing.T) {
		if got := TagVocabulary(nil); len(got) != 0 {
			t.Errorf("expected empty vocabulary, got %v", got)
		}
	})
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" go ", "", "   ", "web dev", "\ttools\n"})
	want := []string{"go", "web dev", "tools"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
