package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextPacksParagraphs(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."

	chunks := NewTextChunker().ChunkText(text, 1000, 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.\n\nThird paragraph.", chunks[0])
}

func TestChunkTextRespectsMaxSize(t *testing.T) {
	para := strings.Repeat("word ", 30)
	text := strings.Join([]string{para, para, para, para}, "\n\n")

	chunks := NewTextChunker().ChunkText(text, 200, 0)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 200)
	}
}

func TestChunkTextSplitsLongParagraphOnSentences(t *testing.T) {
	text := strings.Repeat("This sentence is short. ", 20)

	chunks := NewTextChunker().ChunkText(text, 100, 0)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.Contains(t, c, "This sentence is short")
	}
}

func TestChunkTextOverlap(t *testing.T) {
	text := strings.Repeat("a", 80) + "\n\n" + strings.Repeat("b", 80)

	chunks := NewTextChunker().ChunkText(text, 100, 10)

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[1], strings.Repeat("a", 10)))
	assert.True(t, strings.HasSuffix(chunks[1], strings.Repeat("b", 80)))
}

func TestChunkTextEmpty(t *testing.T) {
	assert.Empty(t, NewTextChunker().ChunkText("   \n\n  ", 100, 10))
}
