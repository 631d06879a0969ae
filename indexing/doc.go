// Package indexing keeps a vector index in step with a document corpus.
//
// An Indexer embeds new and changed documents in batches, retrying failed
// embedding calls with exponential backoff, and removes index entries whose
// documents are gone. Documents are matched to entries by core.IDFromPath
// and change is detected with core.ContentHash. A Watcher re-runs the sync
// when files under a directory change.
package indexing
