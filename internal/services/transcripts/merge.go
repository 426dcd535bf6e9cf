package transcripts

import (
	"sort"
	"strings"

	"github.com/lectern-app/lectern-api/internal/models"
)

// mergeResult holds the derived fields of a canonical transcript
type mergeResult struct {
	Text                 string
	WordCount            int
	Language             string
	TotalDurationSeconds float64
}

// mergeChunks reduces a chunk list into the canonical transcript. Completed
// chunks are concatenated in index order; failed chunks leave gaps that are
// simply omitted. Duration is summed over every chunk regardless of status
// because it is a property of the source video, not of what was recovered.
func mergeChunks(chunks []models.Chunk) mergeResult {
	ordered := make([]models.Chunk, len(chunks))
	copy(ordered, chunks)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	var parts []string
	var totalDuration float64
	for _, chunk := range ordered {
		totalDuration += chunk.Duration()
		if chunk.Status == models.ChunkStatusCompleted && chunk.Text != nil {
			parts = append(parts, *chunk.Text)
		}
	}

	text := normalizeText(strings.Join(parts, " "))

	return mergeResult{
		Text:                 text,
		WordCount:            len(strings.Fields(text)),
		Language:             modeLanguage(ordered),
		TotalDurationSeconds: totalDuration,
	}
}

// normalizeText collapses whitespace runs and removes stray spaces before
// punctuation
func normalizeText(text string) string {
	text = strings.Join(strings.Fields(text), " ")

	for _, punct := range []string{".", ",", "!", "?", ";", ":"} {
		text = strings.ReplaceAll(text, " "+punct, punct)
	}

	return strings.TrimSpace(text)
}

// modeLanguage returns the most frequently detected language among completed
// chunks. Ties resolve to the language seen first in index order.
func modeLanguage(ordered []models.Chunk) string {
	counts := make(map[string]int)
	var firstSeen []string

	for _, chunk := range ordered {
		if chunk.Status != models.ChunkStatusCompleted || chunk.Language == nil || *chunk.Language == "" {
			continue
		}
		if _, seen := counts[*chunk.Language]; !seen {
			firstSeen = append(firstSeen, *chunk.Language)
		}
		counts[*chunk.Language]++
	}

	best := ""
	bestCount := 0
	for _, lang := range firstSeen {
		if counts[lang] > bestCount {
			best = lang
			bestCount = counts[lang]
		}
	}

	return best
}
