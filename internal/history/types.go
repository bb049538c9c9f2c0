package history

// CommitRecord is one parsed commit with per-file and aggregate line deltas.
// Records are immutable once the parser flushes them.
type CommitRecord struct {
	Hash    string       `json:"hash"`
	Date    string       `json:"date"` // ISO calendar day, "YYYY-MM-DD"
	Message string       `json:"message"`
	Files   []FileChange `json:"files"`

	// Aggregates equal the sum of per-file deltas (binary sentinel counts as 0)
	Added   int `json:"added"`
	Deleted int `json:"deleted"`
}

// FileChange is a single numstat entry. Binary files report no line
// counts ("-" in the stat line); they are recorded with zero deltas and
// Binary set so the entry itself is not lost.
type FileChange struct {
	Path    string `json:"path"`
	Added   int    `json:"added"`
	Deleted int    `json:"deleted"`
	Binary  bool   `json:"binary,omitempty"`
}

// TotalLines returns added + deleted for the commit
func (c CommitRecord) TotalLines() int {
	return c.Added + c.Deleted
}
