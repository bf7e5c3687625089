// Package post stores blog post content as Redis JSON documents.
package post

import (
	"context"
	"encoding/json"
	"fmt"

	dompost "github.com/kailas-cloud/blogsearch/internal/domain/post"
)

// store is the consumer interface for post documents (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// Repo reads and writes post documents under a key prefix.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a post repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + "post:" + id
}

// GetMany resolves ids in one round-trip. Documents keep ids order;
// ids without a document are returned separately.
func (r *Repo) GetMany(ctx context.Context, ids []string) ([]dompost.Document, []string, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}

	raw, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, nil, fmt.Errorf("get posts: %w", err)
	}

	docs := make([]dompost.Document, 0, len(ids))
	var missing []string
	for i, data := range raw {
		if data == nil {
			missing = append(missing, ids[i])
			continue
		}
		docs = append(docs, dompost.Document{ID: ids[i], Content: json.RawMessage(data)})
	}
	return docs, missing, nil
}

// Put stores a post document.
func (r *Repo) Put(ctx context.Context, p *dompost.Post) error {
	content, err := p.Content()
	if err != nil {
		return fmt.Errorf("render post %s: %w", p.ID, err)
	}
	if err := r.store.JSONSet(ctx, r.key(p.ID), "$", content); err != nil {
		return fmt.Errorf("store post %s: %w", p.ID, err)
	}
	return nil
}
