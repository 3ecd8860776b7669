package page

import (
	"errors"
	"fmt"

	"github.com/segv/websegment/content"
	"github.com/segv/websegment/transform"
)

// PostData is a post with its header split off and its body rendered.
type PostData struct {
	Meta transform.PostMeta `json:"meta"`
	Body string             `json:"body"`
}

// Project is one gallery entry. Repo is "owner/repo" for repository
// sources; the card image for those is derived at render time.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Image       string `json:"image,omitempty"`
	Repo        string `json:"repo,omitempty"`
}

// Stores are the content stores pages complete into, one per content type.
type Stores struct {
	Posts    *content.Store[[]transform.PostEntry]
	Post     *content.Store[PostData]
	Files    *content.Store[string]
	Texts    *content.Store[string]
	Projects *content.Store[[]Project]
}

// NewStores creates the stores, loading mirrored entries when mirror is
// non-nil.
func NewStores(mirror content.Mirror) (*Stores, error) {
	var (
		s   Stores
		err error
	)
	if s.Posts, err = content.NewStore[[]transform.PostEntry]("posts", mirror); err != nil {
		return nil, fmt.Errorf("websegment: stores: %w", err)
	}
	if s.Post, err = content.NewStore[PostData]("post", mirror); err != nil {
		return nil, fmt.Errorf("websegment: stores: %w", err)
	}
	if s.Files, err = content.NewStore[string]("files", mirror); err != nil {
		return nil, fmt.Errorf("websegment: stores: %w", err)
	}
	if s.Texts, err = content.NewStore[string]("texts", mirror); err != nil {
		return nil, fmt.Errorf("websegment: stores: %w", err)
	}
	if s.Projects, err = content.NewStore[[]Project]("projects", mirror); err != nil {
		return nil, fmt.Errorf("websegment: stores: %w", err)
	}
	return &s, nil
}

// Namespaces lists the store names, for purging a mirror.
func Namespaces() []string {
	return []string{"posts", "post", "files", "texts", "projects"}
}

// Purge empties every store so the next visit of each page fetches again.
// Mounted pages keep what they already show.
func (s *Stores) Purge() error {
	return errors.Join(
		s.Posts.Clear(),
		s.Post.Clear(),
		s.Files.Clear(),
		s.Texts.Clear(),
		s.Projects.Clear(),
	)
}
