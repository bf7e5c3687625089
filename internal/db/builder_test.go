package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_EmbeddingIndex(t *testing.T) {
	idx, err := NewIndex("blogsearch:embeddings:idx").
		Prefix("blogsearch:embedding::").
		Tag("post_id").
		VectorHNSW("vector", 3072, DistanceCosine, 0, 0).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "post_id" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want post_id TAG", idx.Fields[0])
	}
	f := idx.Fields[1]
	if f.VectorAlgo != VectorHNSW || f.VectorDim != 3072 || f.VectorDistance != DistanceCosine {
		t.Errorf("field[1] = %+v", f)
	}
}

func TestIndexBuilder_BuildErrors(t *testing.T) {
	tests := []struct {
		name string
		b    *IndexBuilder
		want string
	}{
		{"empty name", NewIndex("").Tag("a"), "name is required"},
		{"bad name", NewIndex("has space").Tag("a"), "invalid characters"},
		{"no fields", NewIndex("idx"), "at least one field"},
		{"duplicate", NewIndex("idx").Tag("a").Tag("a"), "duplicate"},
		{"zero dim", NewIndex("idx").VectorHNSW("v", 0, DistanceCosine, 0, 0), "positive DIM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Build() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx, err := NewIndex("idx").Prefix("p:").Tag("t").VectorHNSW("v", 4, DistanceCosine, 16, 200).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "FT.CREATE idx ON HASH PREFIX 1 p: SCHEMA t TAG v VECTOR HNSW DIM 4"
	if got := idx.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"a", "blog:idx", "a_b-c", "X9"}
	invalid := []string{"", "a b", "a.b", "a*"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := ErrKeyNotFound
	err := &Error{Op: OpGet, Err: inner}
	if err.Error() != "GET: db: key not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Unwrap() != inner {
		t.Error("Unwrap should return inner error")
	}
}
