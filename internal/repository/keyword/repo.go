// Package keyword serves substring search and post content from SQL.
package keyword

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/blogsearch/internal/domain/post"
	"github.com/kailas-cloud/blogsearch/internal/domain/rank"
)

// store is the consumer interface over *sqldb.DB (ISP).
type store interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// Repo reads and writes the posts table.
type Repo struct {
	db store
}

// New creates a keyword repository.
func New(db store) *Repo {
	return &Repo{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps term for a substring LIKE match with wildcards escaped.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Match returns up to limit posts whose title or body contains query, ordered by id.
// Every hit scores 1; keyword matching carries no relevance ranking.
func (r *Repo) Match(ctx context.Context, query string, limit int) ([]rank.Result, error) {
	pattern := likePattern(query)
	q := r.db.Rebind(`SELECT id FROM posts
		WHERE title LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\'
		ORDER BY id
		LIMIT ?`)

	rows, err := r.db.QueryContext(ctx, q, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword match: %w", err)
	}
	defer rows.Close()

	var out []rank.Result
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out = append(out, rank.NewResult(id, 1))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// GetMany returns documents in ids order plus the ids that have no row.
func (r *Repo) GetMany(ctx context.Context, ids []string) ([]post.Document, []string, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		r.db.Rebind("SELECT id, content FROM posts WHERE id IN ("+placeholders+")"), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("get posts: %w", err)
	}
	defer rows.Close()

	found := make(map[string]json.RawMessage, len(ids))
	for rows.Next() {
		var (
			id      string
			content []byte
		)
		if err := rows.Scan(&id, &content); err != nil {
			return nil, nil, fmt.Errorf("scan post: %w", err)
		}
		found[id] = json.RawMessage(content)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}

	docs := make([]post.Document, 0, len(found))
	var missing []string
	for _, id := range ids {
		content, ok := found[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		docs = append(docs, post.Document{ID: id, Content: content})
	}
	return docs, missing, nil
}

// Upsert inserts or replaces a post row.
func (r *Repo) Upsert(ctx context.Context, p *post.Post) error {
	content, err := p.Content()
	if err != nil {
		return fmt.Errorf("render post %s: %w", p.ID, err)
	}

	q := r.db.Rebind(`INSERT INTO posts (id, title, body, content) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title, body = excluded.body, content = excluded.content`)
	if _, err := r.db.ExecContext(ctx, q, p.ID, p.Title, p.Body, string(content)); err != nil {
		return fmt.Errorf("upsert post %s: %w", p.ID, err)
	}
	return nil
}
