// Package chunker splits raw corpus text into an ordered sequence of chunks.
//
// Chunk order is the only meaning assigned here: the position of a chunk in
// the returned sequence becomes its point id downstream, so splitting must be
// deterministic and preserve every segment, including empty ones.
package chunker

import "strings"

// Delimiter is the paragraph boundary that separates chunks in corpus text.
const Delimiter = "\n\n"

// Split divides corpus text on blank-line boundaries, preserving order.
// Consecutive delimiters yield empty chunks; they are kept so that chunk
// indices stay stable across re-ingestion runs. An empty corpus yields no
// chunks.
func Split(corpus string) []string {
	if corpus == "" {
		return nil
	}

	return strings.Split(corpus, Delimiter)
}
