package model

// MatchResult — разбиение ключевых слов вакансии на найденные в резюме и отсутствующие.
type MatchResult struct {
	Matched []string `json:"matched" yaml:"matched"` // порядок как в списке ключевых слов
	Missing []string `json:"missing" yaml:"missing"`
	Score   int      `json:"score" yaml:"score"` // 0..100
}

// Analysis — полный ответ пайплайна для UI/CLI.
type Analysis struct {
	Keywords    []string `json:"keywords" yaml:"keywords"`
	Matched     []string `json:"matched" yaml:"matched"`
	Missing     []string `json:"missing" yaml:"missing"`
	Score       int      `json:"score" yaml:"score"`
	Metrics     string   `json:"metrics" yaml:"metrics"`         // строка для панели метрик
	OptimizedCV string   `json:"optimizedCv" yaml:"optimizedCv"` // синтезированный документ
}

type Options struct {
	KeywordLimit int // сколько ключевых слов брать из вакансии
}

// Candidate — одна строка пакетной проверки (таблица резюме).
type Candidate struct {
	Name string
	CV   string
}

type CandidateScore struct {
	Name    string   `json:"name" yaml:"name"`
	Score   int      `json:"score" yaml:"score"`
	Matched []string `json:"matched" yaml:"matched"`
	Missing []string `json:"missing" yaml:"missing"`
}

type BatchResult struct {
	Keywords []string         `json:"keywords" yaml:"keywords"`
	Rows     []CandidateScore `json:"rows" yaml:"rows"`
	Skipped  int              `json:"skipped" yaml:"skipped"` // строки без текста резюме
}

// Mapping — какие колонки таблицы брать для пакетной проверки.
type Mapping struct {
	NameKey   string // имя колонки с именем кандидата
	CVKey     string // имя колонки с текстом резюме
	HeaderRow int    // строка заголовков (1-based)
}
