package service

import "sort"

const (
	DefaultKeywordLimit = 12
	PostingKeywordLimit = 16 // сколько берём из вакансии в приложении
)

type keywordCount struct {
	word  string
	count int
	first int // индекс первого появления — тай-брейк
}

// RankKeywords — top-N самых частых токенов текста.
// При равной частоте выигрывает слово, встретившееся раньше.
func RankKeywords(text string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	pos := make(map[string]int)
	var counts []keywordCount
	for _, w := range Tokenize(text) {
		if i, ok := pos[w]; ok {
			counts[i].count++
			continue
		}
		pos[w] = len(counts)
		counts = append(counts, keywordCount{word: w, count: 1, first: len(counts)})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].first < counts[j].first
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}
	out := make([]string, len(counts))
	for i, kc := range counts {
		out[i] = kc.word
	}
	return out
}
