package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/segv/websegment/fetch"
)

func TestDecodeListKeepsOrder(t *testing.T) {
	data := []byte(`[
		{"title": "Second", "date": "2024-02-01", "filename": "b.md"},
		{"title": "First", "date": "2024-01-01", "filename": "a.md"}
	]`)
	got, err := DecodeList[PostEntry]("posts.json", data)
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	if len(got) != 2 || got[0].Filename != "b.md" || got[1].Title != "First" {
		t.Errorf("DecodeList = %+v", got)
	}
}

func TestDecodeListNullIsEmpty(t *testing.T) {
	got, err := DecodeList[string]("index.list", []byte("null"))
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("DecodeList(null) = %#v, want empty non-nil", got)
	}
}

func TestDecodeListMalformed(t *testing.T) {
	_, err := DecodeList[PinnedRepo]("pinned repositories", []byte(`{"author":`))
	var pe *fetch.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *fetch.ParseError", err)
	}
	if pe.What != "pinned repositories" {
		t.Errorf("What = %q", pe.What)
	}
	if st := fetch.Outcome(err, true); st.Stage != fetch.Failed {
		t.Errorf("Outcome = %v, want failed even for lists", st)
	}
}

func TestSplitPost(t *testing.T) {
	tests := []struct {
		name  string
		input string
		meta  PostMeta
		body  string
	}{
		{"full", "Hello\n2024-05-01\n# Hi\nworld", PostMeta{"Hello", "2024-05-01"}, "# Hi\nworld"},
		{"trimmed", "  Hello \r\n 2024 \r\nbody", PostMeta{"Hello", "2024"}, "body"},
		{"title only", "Hello", PostMeta{"Hello", UnknownDate}, ""},
		{"title and newline", "Hello\n", PostMeta{"Hello", UnknownDate}, ""},
		{"no body", "Hello\nToday", PostMeta{"Hello", "Today"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, err := SplitPost(tt.input)
			if err != nil {
				t.Fatalf("SplitPost: %v", err)
			}
			if meta != tt.meta || body != tt.body {
				t.Errorf("SplitPost(%q) = %+v, %q; want %+v, %q", tt.input, meta, body, tt.meta, tt.body)
			}
		})
	}
}

func TestSplitPostEmpty(t *testing.T) {
	_, _, err := SplitPost("")
	if !errors.Is(err, ErrEmptyPost) {
		t.Fatalf("err = %v, want ErrEmptyPost", err)
	}
	if got := fetch.Outcome(err, false); got != fetch.Error("Post file is empty.") {
		t.Errorf("Outcome = %v", got)
	}
}

const projectPage = `<!doctype html>
<html><head>
<meta property="og:title" content="websegment">
<meta property="og:image" content="/social.png">
<meta property="og:url" content="https://example.com/canonical">
</head><body></body></html>`

func TestScrapeOpenGraph(t *testing.T) {
	og, err := ScrapeOpenGraph("https://example.com/segv/websegment", strings.NewReader(projectPage))
	if err != nil {
		t.Fatalf("ScrapeOpenGraph: %v", err)
	}
	want := OpenGraph{
		Title: "websegment",
		Image: "https://example.com/social.png",
		URL:   "https://example.com/canonical",
	}
	if og != want {
		t.Errorf("ScrapeOpenGraph = %+v, want %+v", og, want)
	}
}

func TestScrapeOpenGraphFallbacks(t *testing.T) {
	page := `<html><head><meta property="og:image" content="https://img.example/x.png"></head></html>`
	og, err := ScrapeOpenGraph("https://github.com/segv/websegment/", strings.NewReader(page))
	if err != nil {
		t.Fatalf("ScrapeOpenGraph: %v", err)
	}
	if og.Title != "segv/websegment" {
		t.Errorf("Title = %q, want owner/repo", og.Title)
	}
	if og.URL != "https://github.com/segv/websegment/" {
		t.Errorf("URL = %q, want the page url", og.URL)
	}
}

func TestScrapeOpenGraphMissingImage(t *testing.T) {
	page := `<html><head><meta property="og:title" content="x"></head></html>`
	_, err := ScrapeOpenGraph("https://example.com/p", strings.NewReader(page))
	var pe *fetch.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *fetch.ParseError", err)
	}
	if !strings.Contains(err.Error(), "og:image") {
		t.Errorf("err = %q, want it to mention og:image", err)
	}
}
