package service

import (
	"regexp"
	"strings"
)

// Стоп-слова: общие английские связки + «шум» из текстов вакансий.
// Список закрыт, совпадение точное.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "you": {}, "with": {}, "that": {}, "have": {}, "this": {},
	"your": {}, "from": {}, "will": {}, "are": {}, "our": {}, "all": {}, "who": {}, "not": {},
	"but": {}, "can": {}, "job": {}, "work": {}, "team": {}, "role": {}, "years": {}, "plus": {},
}

// всё, кроме латиницы, цифр, пробелов и дефиса, превращаем в разделитель
var nonToken = regexp.MustCompile(`[^a-z0-9\s-]`)

const minTokenLen = 3

// IsStopWord — регистр не важен.
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

// Tokenize разбивает текст на токены-кандидаты в ключевые слова.
// Порядок слева направо, дубли сохраняются (частота нужна дальше).
func Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}
	s := nonToken.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(s)

	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) < minTokenLen {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// tokenSet — множество токенов для проверки вхождения
func tokenSet(text string) map[string]struct{} {
	toks := Tokenize(text)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}
