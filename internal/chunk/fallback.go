package chunk

import "strings"

// ChunkText splits text into overlapping, newline-snapped windows of at
// most size bytes. Each window (except possibly the last) ends at the
// last newline at or before the size boundary, so chunks never split a
// line across a boundary when one is available. The next window starts
// overlap bytes before the previous one ended, unless overlap would not
// advance the cursor, in which case it starts exactly where the previous
// one ended.
func ChunkText(text string, size, overlap int) []Chunk {
	if len(text) == 0 {
		return nil
	}

	var chunks []Chunk
	pos := 0
	index := 0

	for pos < len(text) {
		start := pos
		end := start + size
		if end > len(text) {
			end = len(text)
		}

		chunkEnd := end
		if end < len(text) {
			if nl := strings.LastIndexByte(text[start:end], '\n'); nl >= 0 {
				chunkEnd = start + nl + 1
			}
		}

		chunks = append(chunks, Chunk{
			Text:      text[start:chunkEnd],
			StartLine: strings.Count(text[:start], "\n") + 1,
			EndLine:   strings.Count(text[:chunkEnd], "\n") + 1,
			Index:     index,
		})

		if chunkEnd >= len(text) {
			break
		}

		if overlap < chunkEnd-start {
			pos = chunkEnd - overlap
		} else {
			pos = chunkEnd
		}
		index++
	}

	return chunks
}
