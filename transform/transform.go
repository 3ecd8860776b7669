// Package transform turns fetched bytes into the values pages render:
// typed lists from JSON, post headers from text files and cards from
// OpenGraph metadata.
package transform

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/segv/websegment/fetch"
)

// PostEntry is one row of /posts.json.
type PostEntry struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Filename string `json:"filename"`
}

// PinnedRepo is one repository returned by the pinned-repo aggregator.
type PinnedRepo struct {
	Author string `json:"author"`
	Name   string `json:"name"`
}

// FullName is "owner/repo".
func (p PinnedRepo) FullName() string {
	return p.Author + "/" + p.Name
}

// StarredRepo is the subset of a GitHub starred-repository record we show.
type StarredRepo struct {
	FullName    string `json:"full_name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
}

// DecodeList parses a JSON array into items, keeping their order. A JSON
// null is an empty list. Malformed input is a *fetch.ParseError naming what.
func DecodeList[T any](what string, data []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &fetch.ParseError{What: what, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// PostMeta is the header of a post file.
type PostMeta struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// UnknownDate stands in for a post file with a single line.
const UnknownDate = "Unknown Date"

// SplitPost separates a post file into its header and Markdown body. The
// first line is the title and the second the date; both are trimmed.
func SplitPost(text string) (PostMeta, string, error) {
	if text == "" {
		return PostMeta{}, "", &fetch.ParseError{What: "post", Err: ErrEmptyPost}
	}
	title, rest, _ := strings.Cut(text, "\n")
	meta := PostMeta{Title: strings.TrimSpace(title), Date: UnknownDate}
	if rest == "" {
		return meta, "", nil
	}
	date, body, _ := strings.Cut(rest, "\n")
	meta.Date = strings.TrimSpace(date)
	return meta, body, nil
}

// ErrEmptyPost is the cause of the ParseError for a zero-length post file.
// The text is shown to readers as is.
var ErrEmptyPost = errors.New("Post file is empty.") //nolint:staticcheck
