package domain

// KeyPrefix is the default namespace for every key this service reads or writes.
const KeyPrefix = "blogsearch:"

// Defaults mirroring the embedding model the blog corpus was indexed with.
const (
	DefaultEmbeddingModel = "text-embedding-3-large"
	DefaultDimensions     = 3072
	DefaultResultLimit    = 10
	DefaultNumCandidates  = 100
)
