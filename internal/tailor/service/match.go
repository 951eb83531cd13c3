package service

import "cv-tailor/internal/tailor/model"

// Match делит ключевые слова на найденные в тексте кандидата и отсутствующие.
func Match(keywords []string, candidateText string) model.MatchResult {
	have := tokenSet(candidateText)

	matched := make([]string, 0, len(keywords))
	missing := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if _, ok := have[kw]; ok {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	return model.MatchResult{
		Matched: matched,
		Missing: missing,
		Score:   percent(len(matched), len(keywords)),
	}
}

// percent = round(100*part/total), половина округляется вверх.
// total < 1 считается как 1.
func percent(part, total int) int {
	if total < 1 {
		total = 1
	}
	return (200*part + total) / (2 * total)
}
