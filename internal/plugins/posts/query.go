package posts

import (
	"sort"
	"strings"
)

// This file is the query engine: pure functions that derive the exact
// ordered subset of posts matching a query state, plus the tag vocabulary.
// Every function takes a snapshot of the collection as input and holds no
// state of its own, so results depend only on the arguments.

// ByTag returns the posts whose tag set contains tag, compared
// case-insensitively as an exact match (not a substring). The input order
// (createdAt descending from the repository) is preserved.
func ByTag(posts []Post, tag string) []Post {
	lowered := strings.ToLower(tag)

	var matched []Post
	for _, p := range posts {
		for _, t := range p.Tags {
			if strings.ToLower(t) == lowered {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched
}

// SearchFilter returns the posts where text is a case-insensitive substring
// of the title, content, excerpt, or any tag. Order is preserved.
//
// Blank text matches every post here; treating blank as "no filter" is the
// caller's branching decision in ResolveQuery, never this primitive's.
func SearchFilter(posts []Post, text string) []Post {
	lowered := strings.ToLower(text)

	var matched []Post
	for _, p := range posts {
		if matchesText(p, lowered) {
			matched = append(matched, p)
		}
	}
	return matched
}

// matchesText is the four-field substring test shared by free-text search
// and the tag-restricted refinement. The query must already be lowercased.
func matchesText(p Post, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(p.Title), loweredQuery) ||
		strings.Contains(strings.ToLower(p.Content), loweredQuery) ||
		strings.Contains(strings.ToLower(p.Excerpt), loweredQuery) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), loweredQuery) {
			return true
		}
	}
	return false
}

// ResolveQuery applies the combination rule to a snapshot of the full
// collection. Precedence is fixed:
//
//  1. An active tag restricts first; non-blank search text then narrows
//     the tag-restricted set in memory with the same four-field test.
//  2. With no tag, non-blank search text filters the full collection.
//  3. Otherwise the full collection passes through untouched.
func ResolveQuery(posts []Post, qs QueryState) []Post {
	searching := strings.TrimSpace(qs.SearchText) != ""

	switch {
	case qs.ActiveTag != "":
		results := ByTag(posts, qs.ActiveTag)
		if searching {
			results = SearchFilter(results, qs.SearchText)
		}
		return results
	case searching:
		return SearchFilter(posts, qs.SearchText)
	default:
		return posts
	}
}

// TagVocabulary returns the distinct tags across the given posts, sorted
// ascending. It is recomputed from the full collection on every call; no
// incremental index is maintained.
func TagVocabulary(posts []Post) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, p := range posts {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// NormalizeTags trims whitespace from each tag and drops the blanks,
// preserving the author's ordering of what remains.
func NormalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
