// Package chunking turns a table's raw schema text into an ordered sequence
// of bounded-size, semantically labeled chunks suitable for embedding and
// retrieval. Splitting is purely syntactic: block boundaries follow the
// /* ... */ comment blocks that datasources embed in table info text, and
// size bounding uses a recursive separator ladder tuned to that shape.
package chunking

import (
	"regexp"
	"strings"

	"github.com/vectorlens/schemarag/pkg/models"
)

// Block is an intermediate segment of raw schema text, delimited by comment
// markers, before size bounding. It is never persisted.
type Block struct {
	Text string
	Type models.ChunkType
}

// commentBlockRe matches one /* ... */ comment block, non-greedy, spanning
// newlines.
var commentBlockRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

// DetectBlocks splits raw table info text into typed blocks. Every comment
// block becomes its own segment, interleaved in source order with the
// surrounding non-comment segments. Segments that are empty after trimming
// are dropped.
func DetectBlocks(text string) []Block {
	var blocks []Block
	appendSegment := func(segment string) {
		trimmed := strings.TrimSpace(segment)
		if trimmed == "" {
			return
		}
		blocks = append(blocks, Block{Text: trimmed, Type: classifyBlock(trimmed)})
	}

	last := 0
	for _, loc := range commentBlockRe.FindAllStringIndex(text, -1) {
		appendSegment(text[last:loc[0]])
		appendSegment(text[loc[0]:loc[1]])
		last = loc[1]
	}
	appendSegment(text[last:])

	return blocks
}

// classifyBlock determines a block's type by case-insensitive keyword
// sniffing, in priority order.
func classifyBlock(text string) models.ChunkType {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "create table"):
		return models.ChunkTypeSchema
	case strings.Contains(lower, "column comments:"):
		return models.ChunkTypeColumns
	case strings.Contains(lower, "rows from"):
		return models.ChunkTypeSamples
	default:
		return models.ChunkTypeGeneral
	}
}
