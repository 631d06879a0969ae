// Package corpus defines the enumerable document source searched by the
// lexical strategy and synchronized into the vector index by the indexer.
//
// Two implementations are provided: Static, an in-memory corpus, and the
// files sub-package, which serves a directory tree of text documents.
package corpus
