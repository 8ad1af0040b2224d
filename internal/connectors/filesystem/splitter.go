package filesystem

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// defaultSeparators are tried in order, from coarsest to finest. The
// empty string is the terminal fallback and splits between runes.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter breaks text into chunks along natural boundaries. It
// prefers paragraph breaks, then lines, sentences, and words, and only
// cuts mid-word when a single word exceeds the chunk size.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter creates a splitter. Non-positive size or negative
// overlap fall back to the defaults; overlap is capped below size.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}

	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// Split breaks text into chunks of at most the configured size, with
// consecutive chunks sharing up to the configured overlap. Chunks are
// trimmed of surrounding whitespace; empty input produces no chunks.
func (s *Splitter) Split(text string) []string {
	raw := s.split(text, s.separators)

	chunks := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks
}

func (s *Splitter) split(text string, separators []string) []string {
	if text == "" {
		return nil
	}

	// Pick the coarsest separator that occurs in the text.
	sep := ""
	var rest []string
	for i, candidate := range separators {
		if candidate == "" {
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var pieces []string
	if sep == "" {
		pieces = splitRunes(text, s.chunkSize)
	} else {
		pieces = strings.SplitAfter(text, sep)
	}

	var out []string
	var buf []string
	bufLen := 0

	// flush emits the pending chunk, keeping a tail of at most the
	// overlap while also leaving room for the next piece of n runes.
	flush := func(next int) {
		if bufLen == 0 {
			return
		}
		out = append(out, strings.Join(buf, ""))
		for len(buf) > 0 && (bufLen > s.overlap || bufLen+next > s.chunkSize) {
			bufLen -= utf8.RuneCountInString(buf[0])
			buf = buf[1:]
		}
	}

	for _, p := range pieces {
		n := utf8.RuneCountInString(p)

		if n > s.chunkSize && sep != "" {
			// A piece too large for any chunk is re-split with the
			// finer separators; the pending buffer closes first so
			// chunks never interleave.
			if bufLen > 0 {
				out = append(out, strings.Join(buf, ""))
				buf = nil
				bufLen = 0
			}
			out = append(out, s.split(p, rest)...)
			continue
		}

		if bufLen+n > s.chunkSize {
			flush(n)
		}
		buf = append(buf, p)
		bufLen += n
	}

	if bufLen > 0 {
		out = append(out, strings.Join(buf, ""))
	}
	return out
}

// splitRunes cuts text into consecutive runs of at most size runes.
func splitRunes(text string, size int) []string {
	runes := []rune(text)
	parts := make([]string, 0, (len(runes)/size)+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
