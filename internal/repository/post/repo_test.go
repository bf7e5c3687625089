package post

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/blogsearch/internal/db"
	dompost "github.com/kailas-cloud/blogsearch/internal/domain/post"
)

func TestGetMany(t *testing.T) {
	repo, ms := newTestRepo(t)

	var keys []string
	ms.jsonGetMultiFn = func(_ context.Context, in []string) ([][]byte, error) {
		keys = in
		return [][]byte{[]byte(`{"id":"b"}`), nil, []byte(`{"id":"a"}`)}, nil
	}

	docs, missing, err := repo.GetMany(context.Background(), []string{"b", "gone", "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(keys, []string{"test:post:b", "test:post:gone", "test:post:a"}) {
		t.Errorf("keys = %v", keys)
	}
	if len(docs) != 2 || docs[0].ID != "b" || docs[1].ID != "a" {
		t.Fatalf("docs = %+v", docs)
	}
	if string(docs[1].Content) != `{"id":"a"}` {
		t.Errorf("content = %s", docs[1].Content)
	}
	if !slices.Equal(missing, []string{"gone"}) {
		t.Errorf("missing = %v", missing)
	}
}

func TestGetMany_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.jsonGetMultiFn = func(_ context.Context, _ []string) ([][]byte, error) {
		t.Fatal("store must not be called")
		return nil, nil
	}

	docs, missing, err := repo.GetMany(context.Background(), nil)
	if err != nil || docs != nil || missing != nil {
		t.Errorf("got %v, %v, %v", docs, missing, err)
	}
}

func TestGetMany_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.jsonGetMultiFn = func(_ context.Context, _ []string) ([][]byte, error) {
		return nil, &db.Error{Op: db.OpJSONGet, Err: errors.New("timeout")}
	}

	_, _, err := repo.GetMany(context.Background(), []string{"a"})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestPut(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey, gotPath string
	var gotData []byte
	ms.jsonSetFn = func(_ context.Context, key, path string, data []byte) error {
		gotKey, gotPath, gotData = key, path, data
		return nil
	}

	p := &dompost.Post{ID: "42", Title: "Hello", Body: "World"}
	if err := repo.Put(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "test:post:42" || gotPath != "$" {
		t.Errorf("key = %q path = %q", gotKey, gotPath)
	}

	var m map[string]string
	if err := json.Unmarshal(gotData, &m); err != nil {
		t.Fatalf("stored data is not JSON: %v", err)
	}
	if m["id"] != "42" || m["title"] != "Hello" || m["body"] != "World" {
		t.Errorf("stored = %v", m)
	}
}
