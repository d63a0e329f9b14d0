// Package pagectx resolves which paper a chat session is about.
package pagectx

import (
	"net/url"
	"strings"
)

// DefaultPaperID is used when the page context names no paper.
const DefaultPaperID = "PRP01"

// QueryParam is the query parameter carrying the paper id.
const QueryParam = "paperId"

// FromURL extracts the paper id from a page URL or a bare query string.
// It returns "" when the parameter is absent or the input does not parse.
func FromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	query := raw
	if i := strings.IndexByte(query, '?'); i >= 0 {
		query = query[i+1:]
	}
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(values.Get(QueryParam))
}

// Resolve returns the first non-blank candidate, or DefaultPaperID.
func Resolve(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return DefaultPaperID
}
