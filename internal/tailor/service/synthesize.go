package service

import (
	"fmt"
	"strings"
)

// Тексты шаблона — часть контракта, меняются только вместе с тестами.
const (
	headSummary     = "Targeted Summary"
	headGaps        = "Keyword Gaps to Address"
	headSuggestions = "Suggested Improvements"
	headOriginal    = "Original CV"

	summaryAligned  = "Results-driven candidate aligned with: %s."
	summaryFocus    = "Focused on measurable impact, collaboration, and delivery quality."
	summaryFallback = "core role needs"

	gapsFallback       = "No major keyword gaps found."
	suggestionBullet   = "- Highlight a concrete result related to %s."
	suggestionFallback = "- Keep current bullet points and add more metrics."

	previewLimit    = 8 // сколько слов показывать в резюме/пробелах
	suggestionLimit = 4
)

// Synthesize собирает черновик резюме: summary, пробелы, советы, исходный текст.
func Synthesize(originalText string, matched, missing []string) string {
	aligned := joinFirst(matched, previewLimit)
	if aligned == "" {
		aligned = summaryFallback
	}
	gaps := joinFirst(missing, previewLimit)
	if gaps == "" {
		gaps = gapsFallback
	}

	lines := []string{
		headSummary,
		fmt.Sprintf(summaryAligned, aligned),
		summaryFocus,
		"",
		headGaps,
		gaps,
		"",
		headSuggestions,
	}
	lines = append(lines, suggestions(missing)...)
	lines = append(lines, "", headOriginal, originalText)

	return strings.Join(lines, "\n")
}

func suggestions(missing []string) []string {
	if len(missing) == 0 {
		return []string{suggestionFallback}
	}
	n := min(len(missing), suggestionLimit)
	out := make([]string, 0, n)
	for _, kw := range missing[:n] {
		out = append(out, fmt.Sprintf(suggestionBullet, kw))
	}
	return out
}

func joinFirst(words []string, n int) string {
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, ", ")
}
