// Package textchunk splits long text into overlapping fixed-size windows
// sized for embedding model input limits.
package textchunk

import "fmt"

// Split cuts text into segments of at most size characters, each window
// starting size-overlap characters after the previous one. Windows are
// measured in runes so a boundary never lands inside a multi-byte
// character. Text that fits in a single window is returned whole. The
// concatenated segment spans always cover the entire input.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", overlap, size)
	}
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}, nil
	}
	var chunks []string
	step := size - overlap
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}
