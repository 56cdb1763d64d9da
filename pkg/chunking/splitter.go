package chunking

import "strings"

// defaultSeparators is the priority-ordered ladder the splitter descends,
// coarsest first. The three comment-marker separators align part boundaries
// with the /* ... */ blocks that schema text is built from; the empty string
// is the character-level fallback that guarantees termination.
var defaultSeparators = []string{
	"\n\n/*\n",     // comment block start
	"\n*/\n\n/*\n", // transition between comment blocks
	"\n*/\n",       // comment block end
	"\n\n",         // paragraphs
	"\n",           // lines
	" ",            // words
	"",             // forced character-level split
}

// Splitter splits text into parts no larger than ChunkSize bytes, preferring
// coarse separators and recursing into oversized segments with finer ones.
// Undersized neighbors produced at the same separator level are greedily
// packed left to right to minimize fragment count.
//
// With ChunkOverlap == 0 (the schema chunking configuration), concatenating
// the returned parts reconstructs the input exactly.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int

	separators []string
}

// NewSplitter returns a splitter over the default schema separator ladder.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &Splitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// Split returns the ordered parts of text. Each part is at most ChunkSize
// bytes, except when a single indivisible unit (one rune) still exceeds it.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	parts := s.split(text, s.separators)
	if s.ChunkOverlap > 0 {
		parts = applyOverlap(parts, s.ChunkOverlap)
	}
	return parts
}

func (s *Splitter) split(text string, separators []string) []string {
	if len(text) <= s.ChunkSize {
		return []string{text}
	}

	separator, finer := pickSeparator(text, separators)
	segments := splitKeepingSeparator(text, separator)

	var parts []string
	var packed strings.Builder
	flush := func() {
		if packed.Len() > 0 {
			parts = append(parts, packed.String())
			packed.Reset()
		}
	}

	for _, segment := range segments {
		if len(segment) > s.ChunkSize {
			flush()
			if len(finer) == 0 {
				// Indivisible at the finest level; emit as-is.
				parts = append(parts, segment)
				continue
			}
			parts = append(parts, s.split(segment, finer)...)
			continue
		}
		if packed.Len()+len(segment) > s.ChunkSize {
			flush()
		}
		packed.WriteString(segment)
	}
	flush()

	return parts
}

// pickSeparator returns the first separator from the ladder that occurs in
// text, along with the finer separators remaining below it. The empty-string
// fallback always matches.
func pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// splitKeepingSeparator splits text on sep with each separator occurrence
// attached to the start of the segment that follows it, so that the segments
// concatenate back to the original text. An empty sep splits into runes.
// Empty segments are dropped.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		runes := []rune(text)
		segments := make([]string, 0, len(runes))
		for _, r := range runes {
			segments = append(segments, string(r))
		}
		return segments
	}

	raw := strings.Split(text, sep)
	segments := make([]string, 0, len(raw))
	for i, segment := range raw {
		if i > 0 {
			segment = sep + segment
		}
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

// applyOverlap prepends the trailing overlap bytes of each part to its
// successor. The first part is unchanged.
func applyOverlap(parts []string, overlap int) []string {
	if len(parts) < 2 {
		return parts
	}
	out := make([]string, len(parts))
	out[0] = parts[0]
	for i := 1; i < len(parts); i++ {
		prev := parts[i-1]
		tail := prev
		if len(prev) > overlap {
			tail = prev[len(prev)-overlap:]
		}
		out[i] = tail + parts[i]
	}
	return out
}
