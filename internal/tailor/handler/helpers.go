package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"cv-tailor/internal/tailor/model"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey: нижний регистр, служебные символы -> пробел, пробелы схлопнуты.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "é", "e").Replace(s)
	s = nonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey ищет реальный ключ записи по желаемому имени колонки.
// Альтернативы через "|" (например: "CV|Resume|Résumé").
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	// 1) как есть
	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	// 2) нормализованное равенство, затем вхождение ("candidate name" содержит "name")
	norm := make([]string, 0, len(alts))
	for _, a := range alts {
		if n := normHeaderKey(a); n != "" {
			norm = append(norm, n)
		}
	}

	bestKey, bestScore := "", 0
	for k := range rec {
		nk := normHeaderKey(k)
		score := 0
		for _, n := range norm {
			if nk == n {
				return k
			}
			if strings.Contains(nk, n) || (nk != "" && strings.Contains(n, nk)) {
				score = max(score, len(n))
			}
		}
		// при равенстве — лексикографически меньший ключ, чтобы не зависеть от порядка map
		if score > bestScore || (score == bestScore && score > 0 && k < bestKey) {
			bestScore, bestKey = score, k
		}
	}
	if bestKey != "" {
		return bestKey
	}

	// 3) опечатки
	return typoKey(rec, norm)
}

// toCandidates собирает кандидатов из строк таблицы; строки без текста резюме пропускаются.
func toCandidates(maps []map[string]string, m model.Mapping) (cands []model.Candidate, skipped int) {
	cands = make([]model.Candidate, 0, len(maps))
	for i, rec := range maps {
		if looksLikeHeaderMap(rec) {
			continue
		}
		cv := strings.TrimSpace(rec[resolveKey(rec, m.CVKey)])
		if cv == "" {
			skipped++
			continue
		}
		name := strings.TrimSpace(rec[resolveKey(rec, m.NameKey)])
		if name == "" {
			name = "Row " + strconv.Itoa(m.HeaderRow+i+1)
		}
		cands = append(cands, model.Candidate{Name: name, CV: cv})
	}
	return cands, skipped
}

// повтор шапки внутри таблицы (склейка выгрузок)
func looksLikeHeaderMap(rec map[string]string) bool {
	cnt := 0
	for k, v := range rec {
		if v != "" && normHeaderKey(v) == normHeaderKey(k) {
			cnt++
		}
	}
	return cnt >= 2
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"error": msg})
}
