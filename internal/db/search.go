package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName string
	// Field is the vector field name; defaults to "vector".
	Field        string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit. Score is cosine similarity (1 - distance).
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
