package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cv-tailor/internal/tailor/model"
)

// Run — основной пайплайн: ключевые слова вакансии -> сверка с резюме -> черновик.
func Run(posting, cv string, opt model.Options) model.Analysis {
	limit := opt.KeywordLimit
	if limit == 0 {
		limit = PostingKeywordLimit
	}
	keywords := RankKeywords(posting, limit)
	res := Match(keywords, cv)

	return model.Analysis{
		Keywords:    keywords,
		Matched:     res.Matched,
		Missing:     res.Missing,
		Score:       res.Score,
		Metrics:     MetricsLine(res),
		OptimizedCV: Synthesize(cv, res.Matched, res.Missing),
	}
}

// MetricsLine — строка для панели метрик.
func MetricsLine(res model.MatchResult) string {
	matched := strings.Join(res.Matched, ", ")
	if matched == "" {
		matched = "none yet"
	}
	return fmt.Sprintf("Match score: %d%% · Matched: %s", res.Score, matched)
}

// RunBatch сверяет одну вакансию со многими резюме.
// Ключевые слова считаются один раз; порядок результата = порядок входа.
func RunBatch(ctx context.Context, posting string, cands []model.Candidate, opt model.Options, workers int) (model.BatchResult, error) {
	limit := opt.KeywordLimit
	if limit == 0 {
		limit = PostingKeywordLimit
	}
	if workers < 1 {
		workers = 1
	}
	if err := ctx.Err(); err != nil {
		return model.BatchResult{}, err
	}
	keywords := RankKeywords(posting, limit)
	rows := make([]model.CandidateScore, len(cands))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := Match(keywords, cands[i].CV)
				rows[i] = model.CandidateScore{
					Name:    cands[i].Name,
					Score:   res.Score,
					Matched: res.Matched,
					Missing: res.Missing,
				}
			}
		}()
	}

	var err error
dispatch:
	for i := range cands {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if err != nil {
		return model.BatchResult{}, err
	}

	return model.BatchResult{Keywords: keywords, Rows: rows}, nil
}
