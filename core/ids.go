package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// IDFromPath derives a stable result identity from a document path.
// The same path always maps to the same ID, both for lexical hits and for
// the vector-index entry the indexer writes for that document, which is
// what lets the hybrid combiner merge them.
func IDFromPath(p string) string {
	return digest(p, 16)
}

// ContentHash returns a hex blake2b-256 digest of content, used to detect
// documents whose text changed since they were last indexed.
func ContentHash(content string) string {
	return digest(content, 32)
}

func digest(text string, size int) string {
	h, _ := blake2b.New(size, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
