// Package vectorstore provides embedded vector storage for the
// conversation archive, backed by chromem-go.
//
// chromem-go is a pure-Go embeddable vector database: no external
// service, no CGO, persistence to gob files on disk. Embeddings are
// generated up front in batch via the Embedder interface so chromem
// never calls out to the embedding API itself.
package vectorstore
