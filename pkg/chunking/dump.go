package chunking

import "strings"

// SplitDump splits a whole-database schema dump into per-table segments on
// CREATE TABLE boundaries. Each returned segment starts with its own CREATE
// TABLE statement and carries any comment blocks that follow it, trimmed of
// surrounding whitespace. Text before the first statement is returned as its
// own segment.
func SplitDump(dump string) []string {
	const marker = "CREATE TABLE"

	var boundaries []int
	for offset := 0; ; {
		i := strings.Index(dump[offset:], marker)
		if i < 0 {
			break
		}
		boundaries = append(boundaries, offset+i)
		offset += i + len(marker)
	}

	var tables []string
	appendSegment := func(segment string) {
		if trimmed := strings.TrimSpace(segment); trimmed != "" {
			tables = append(tables, trimmed)
		}
	}

	if len(boundaries) == 0 {
		appendSegment(dump)
		return tables
	}

	appendSegment(dump[:boundaries[0]])
	for i, start := range boundaries {
		end := len(dump)
		if i+1 < len(boundaries) {
			end = boundaries[i+1]
		}
		appendSegment(dump[start:end])
	}
	return tables
}
