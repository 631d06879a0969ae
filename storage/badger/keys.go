package badger

// Key prefixes for different data types
const (
	vectorEntryPrefix = "vecent:"
	vectorDimKey      = "vecmeta:dim"
	savedSearchPrefix = "savsrch:"
	historyKey        = "srchhist"
)

// makeVectorEntryKey generates a key for a vector entry by ID.
func makeVectorEntryKey(id string) []byte {
	return []byte(vectorEntryPrefix + id)
}

// makeSavedSearchKey generates a key for a saved search by ID.
func makeSavedSearchKey(id string) []byte {
	return []byte(savedSearchPrefix + id)
}

// idFromKey strips prefix from key.
func idFromKey(key []byte, prefix string) string {
	return string(key[len(prefix):])
}
