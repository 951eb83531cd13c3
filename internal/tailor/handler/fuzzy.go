package handler

// editDistance — расстояние Дамерау-Левенштейна (с транспозицией соседних символов).
// Три строки вместо полной матрицы: транспозиции нужна только i-2.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev2 := make([]int, len(rb)+1)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				cur[j] = min(cur[j], prev2[j-2]+1)
			}
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[len(rb)]
}

// typoKey: опечатка в названии колонки ("Resme", "Nmae") — одна правка на ключ от 4 символов.
func typoKey(rec map[string]string, norm []string) string {
	best := ""
	for k := range rec {
		nk := normHeaderKey(k)
		if len([]rune(nk)) < 4 {
			continue
		}
		for _, n := range norm {
			if len([]rune(n)) >= 4 && editDistance(nk, n) <= 1 && (best == "" || k < best) {
				best = k
			}
		}
	}
	return best
}
