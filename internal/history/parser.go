package history

import (
	"regexp"
	"strconv"
	"strings"
)

// Header line shape: hash|YYYY-MM-DD|subject. The fixed-width zero-padded
// date is a hard precondition: first/last-date tracking downstream compares
// dates lexicographically, which only works while they stay "YYYY-MM-DD".
// Headers with any other date shape are treated as malformed and skipped.
var headerDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseResult is the output of a single parse pass.
type ParseResult struct {
	Commits []CommitRecord

	// SkippedLines counts lines matching neither the header nor the stat
	// grammar. Malformed input is not an error, but the count is surfaced
	// for diagnostics.
	SkippedLines int
}

// Parse folds an ordered raw line stream into commit records, preserving
// input order. State is an explicit (results, pending) pair: a header line
// flushes the pending record before starting a new one, and the final
// record is flushed unconditionally after the stream ends. Relying on the
// next header to flush is the classic way to silently drop the last
// commit, so the final flush is not optional.
func Parse(lines []string) ParseResult {
	var (
		commits []CommitRecord
		pending *CommitRecord
		skipped int
	)

	flush := func() {
		if pending != nil {
			commits = append(commits, *pending)
			pending = nil
		}
	}

	for _, line := range lines {
		// git log separates commits with blank lines; not part of either
		// grammar but not diagnostic noise either
		if strings.TrimSpace(line) == "" {
			continue
		}

		if rec, ok := parseHeader(line); ok {
			flush()
			pending = &rec
			continue
		}

		if fc, ok := parseStat(line); ok {
			if pending == nil {
				// Stat line before any header has nothing to attach to
				skipped++
				continue
			}
			pending.Files = append(pending.Files, fc)
			pending.Added += fc.Added
			pending.Deleted += fc.Deleted
			continue
		}

		skipped++
	}

	// Unconditional final flush
	flush()

	return ParseResult{Commits: commits, SkippedLines: skipped}
}

// parseHeader parses "hash|date|subject". The subject keeps any further
// pipe characters verbatim.
func parseHeader(line string) (CommitRecord, bool) {
	parts := strings.SplitN(line, "|", 3)
	if len(parts) != 3 {
		return CommitRecord{}, false
	}

	hash := strings.TrimSpace(parts[0])
	date := strings.TrimSpace(parts[1])
	if hash == "" || strings.ContainsAny(hash, " \t") {
		return CommitRecord{}, false
	}
	if !headerDateRe.MatchString(date) {
		return CommitRecord{}, false
	}

	return CommitRecord{
		Hash:    hash,
		Date:    date,
		Message: parts[2],
	}, true
}

// parseStat parses a numstat line "added\tdeleted\tpath". Both counts may
// be the "-" sentinel for binary files; the entry is still recorded, with
// zero contribution to the aggregates.
func parseStat(line string) (FileChange, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 {
		return FileChange{}, false
	}

	added, addedOK, addedBinary := parseCount(parts[0])
	deleted, deletedOK, deletedBinary := parseCount(parts[1])
	if !addedOK || !deletedOK {
		return FileChange{}, false
	}

	path := strings.TrimSpace(parts[2])
	if path == "" {
		return FileChange{}, false
	}

	return FileChange{
		Path:    path,
		Added:   added,
		Deleted: deleted,
		Binary:  addedBinary || deletedBinary,
	}, true
}

func parseCount(s string) (n int, ok bool, binary bool) {
	s = strings.TrimSpace(s)
	if s == "-" {
		return 0, true, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false, false
	}
	return v, true, false
}
