package route

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		path string
		want Route
		ok   bool
	}{
		{"/", Route{Name: Home}, true},
		{"", Route{Name: Home}, true},
		{"/projects", Route{Name: Projects}, true},
		{"/projects/", Route{Name: Projects}, true},
		{"/posts?tag=go", Route{Name: Posts}, true},
		{"/links#mail", Route{Name: Links}, true},
		{"/404", Route{Name: NotFound}, true},
		{"/404.html", Route{Name: NotFound}, true},
		{"/post/hello.md", Route{Name: Post, Param: "hello.md"}, true},
		{"/post/hello%20world.md", Route{Name: Post, Param: "hello world.md"}, true},
		{"/text/notes.txt", Route{Name: Text, Param: "notes.txt"}, true},
		{"/file/readme.md", Route{Name: File, Param: "readme.md"}, true},
		{"/post/", Route{}, false},
		{"/post/..", Route{}, false},
		{"/post/a/b", Route{}, false},
		{"/post/a%2Fb", Route{}, false},
		{"/nope", Route{}, false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.path)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Parse(%q) = %+v, %v; want %+v, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPathRoundTrip(t *testing.T) {
	routes := []Route{
		{Name: Home},
		{Name: Projects},
		{Name: Posts},
		{Name: Links},
		{Name: Post, Param: "a b.md"},
		{Name: Text, Param: "notes.txt"},
		{Name: File, Param: "x.md"},
	}
	for _, r := range routes {
		got, ok := Parse(r.Path())
		if !ok || got != r {
			t.Errorf("Parse(%q) = %+v, %v; want %+v", r.Path(), got, ok, r)
		}
	}
}

func TestResolveUnknownIsNotFound(t *testing.T) {
	if got := Resolve("/does/not/exist"); got.Name != NotFound {
		t.Errorf("Resolve = %+v, want NotFound", got)
	}
	if got := (Route{Name: NotFound}).Path(); got != "/404" {
		t.Errorf("NotFound path = %q, want /404", got)
	}
}

func TestTitle(t *testing.T) {
	tests := map[Name]string{
		Home:     "Home",
		Projects: "Projects",
		Posts:    "Posts",
		NotFound: "Not Found",
	}
	for name, want := range tests {
		if got := (Route{Name: name}).Title(); got != want {
			t.Errorf("Title(%v) = %q, want %q", name, got, want)
		}
	}
}
