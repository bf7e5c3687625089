// Package post defines the blog post documents served by search.
package post

import (
	"encoding/json"
	"errors"
	"strings"
)

// EmbeddingKeyPrefix is the candidate ID prefix for embedding records.
// Stripping it from a candidate ID yields the post ID.
const EmbeddingKeyPrefix = "embedding::"

// Document is opaque post content keyed by ID. Search returns Content untouched.
type Document struct {
	ID      string
	Content json.RawMessage
}

// MarshalJSON encodes the document as its raw content.
func (d Document) MarshalJSON() ([]byte, error) {
	if len(d.Content) == 0 {
		return []byte("null"), nil
	}
	return d.Content, nil
}

// Post is a blog post as accepted by the indexer.
type Post struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Body  string          `json:"body"`
	Extra json.RawMessage `json:"-"`
}

// ErrEmptyPost signals a post with neither title nor body.
var ErrEmptyPost = errors.New("post has no title or body")

// Validate checks that the post has something to embed.
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" && strings.TrimSpace(p.Body) == "" {
		return ErrEmptyPost
	}
	return nil
}

// EmbeddingText is the text embedded for a post.
func (p *Post) EmbeddingText() string {
	switch {
	case p.Title == "":
		return p.Body
	case p.Body == "":
		return p.Title
	default:
		return p.Title + "\n\n" + p.Body
	}
}

// Content renders the stored JSON for the post. Unknown input fields kept in Extra survive
// the round trip; id, title and body always reflect the struct values.
func (p *Post) Content() (json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(p.Extra) > 0 {
		if err := json.Unmarshal(p.Extra, &fields); err != nil {
			return nil, err
		}
	}
	for k, v := range map[string]string{"id": p.ID, "title": p.Title, "body": p.Body} {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes a post and keeps the full object in Extra.
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	var tmp plain
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*p = Post(tmp)
	p.Extra = append(json.RawMessage(nil), data...)
	return nil
}

// CandidateID returns the embedding record ID for a post ID.
func CandidateID(postID string) string {
	return EmbeddingKeyPrefix + postID
}

// IDFromCandidate strips the embedding prefix from a candidate ID.
func IDFromCandidate(candidateID string) string {
	return strings.TrimPrefix(candidateID, EmbeddingKeyPrefix)
}
