package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cv-tailor/internal/config"
	"cv-tailor/internal/cvsource"
	"cv-tailor/internal/fileio"
	"cv-tailor/internal/middleware"
	"cv-tailor/internal/tailor/model"
	tailorSvc "cv-tailor/internal/tailor/service"
)

// Сообщения для UI — те же, что показывает фронтенд.
const (
	msgNeedBoth      = "Add both job description and CV text to optimize."
	msgNeedURL       = "Add a job URL first."
	msgFetched       = "Job description fetched. Review and edit before optimizing."
	msgScrapeFailed  = "Could not scrape this URL. Paste the description manually and continue."
	msgSampleLoaded  = "Sample CV loaded."
	msgLoadedCVFile  = "Loaded CV file: %s"
	msgNeedCVFile    = "Choose a CV file to load."
	msgNeedBatchFile = "Add a spreadsheet with candidates."
	msgBadLimit      = "limit must be >= 0"
)

const multipartMemory = 8 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PostingFetcher — источник текста вакансии по URL.
type PostingFetcher interface {
	Fetch(ctx context.Context, jobURL string) (string, error)
}

type optimizeRequest struct {
	JobDescription string `json:"jobDescription"`
	CVText         string `json:"cvText"`
	Limit          int    `json:"limit"`
}

type scrapeRequest struct {
	URL string `json:"url"`
}

func reqLogger(logger zerolog.Logger, r *http.Request) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return logger.With().Str("req_id", rid).Logger()
	}
	return logger
}

// Optimize: вакансия + резюме -> оценка, найденные/недостающие слова, черновик.
// Принимает JSON или multipart (cvFile вместо cvText).
func Optimize(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(logger, r)

		req, err := decodeOptimize(r)
		if err != nil {
			writeError(w, fileStatus(err), err.Error())
			return
		}

		posting := strings.TrimSpace(req.JobDescription)
		cv := strings.TrimSpace(req.CVText)
		if posting == "" || cv == "" {
			writeError(w, http.StatusBadRequest, msgNeedBoth)
			return
		}
		limit, err := keywordLimit(req.Limit, cfg)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res := tailorSvc.Run(posting, cv, model.Options{KeywordLimit: limit})
		if err := writeJSON(w, http.StatusOK, res); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Int("keywords", len(res.Keywords)).
			Int("matched", len(res.Matched)).
			Int("score", res.Score).
			Dur("elapsed", time.Since(start)).
			Msg("optimize done")
	}
}

func decodeOptimize(r *http.Request) (optimizeRequest, error) {
	var req optimizeRequest
	if !isMultipart(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("bad json: %w", err)
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return req, fmt.Errorf("bad multipart form: %w", err)
	}
	req.JobDescription = r.FormValue("jobDescription")
	req.CVText = r.FormValue("cvText")
	req.Limit = atoi(r.FormValue("limit"), 0)

	if strings.TrimSpace(req.CVText) == "" {
		if file, header, err := r.FormFile("cvFile"); err == nil {
			defer file.Close()
			text, err := readCVFile(file, header)
			if err != nil {
				return req, err
			}
			req.CVText = text
		}
	}
	return req, nil
}

func readCVFile(file multipart.File, header *multipart.FileHeader) (string, error) {
	text, err := fileio.ReadText(file, header.Filename)
	if err != nil {
		return "", fmt.Errorf("failed to read CV file: %w", err)
	}
	return text, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/")
}

// LoadCV — загрузка файла резюме, отдаёт извлечённый текст.
func LoadCV(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(logger, r)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		file, header, err := r.FormFile("cvFile")
		if err != nil {
			writeError(w, http.StatusBadRequest, msgNeedCVFile)
			return
		}
		defer file.Close()

		text, err := readCVFile(file, header)
		if err != nil {
			status := fileStatus(err)
			log.Warn().Err(err).Str("file", header.Filename).Msg("cv file rejected")
			writeError(w, status, err.Error())
			return
		}

		_ = writeJSON(w, http.StatusOK, map[string]string{
			"cv":      text,
			"message": fmt.Sprintf(msgLoadedCVFile, header.Filename),
		})
	}
}

// Sample отдаёт встроенное резюме.
func Sample(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{
		"cv":      cvsource.SampleCV,
		"message": msgSampleLoaded,
	})
}

// Scrape тянет текст вакансии по URL.
func Scrape(f PostingFetcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(logger, r)

		var req scrapeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			writeError(w, http.StatusBadRequest, msgNeedURL)
			return
		}

		text, err := f.Fetch(r.Context(), req.URL)
		if err != nil {
			log.Warn().Err(err).Str("url", req.URL).Msg("scrape failed")
			writeError(w, http.StatusBadGateway, msgScrapeFailed)
			return
		}

		_ = writeJSON(w, http.StatusOK, map[string]string{
			"description": text,
			"message":     msgFetched,
		})
	}
}

// Batch: одна вакансия против таблицы резюме (xlsx/xls/csv).
// format=xlsx возвращает отчёт файлом, иначе JSON.
func Batch(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(logger, r)

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		posting := strings.TrimSpace(r.FormValue("jobDescription"))
		if posting == "" {
			writeError(w, http.StatusBadRequest, msgNeedBoth)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, msgNeedBatchFile)
			return
		}
		defer file.Close()

		m := model.Mapping{
			NameKey:   formOr(r, "name_col", "Name|Candidate|Full name"),
			CVKey:     formOr(r, "cv_col", "CV|Resume|Résumé|CV text"),
			HeaderRow: atoi(r.FormValue("header_row"), 1),
		}
		limit, err := keywordLimit(atoi(r.FormValue("limit"), 0), cfg)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		maps, err := fileio.ReadAnyMaps(file, header.Filename, m.HeaderRow)
		if err != nil {
			writeError(w, fileStatus(err), "failed to read table: "+err.Error())
			return
		}

		cands, skipped := toCandidates(maps, m)
		log.Debug().
			Int("rows", len(maps)).
			Int("candidates", len(cands)).
			Int("skipped", skipped).
			Msg("batch mapped")

		res, err := tailorSvc.RunBatch(r.Context(), posting, cands, model.Options{
			KeywordLimit: limit,
		}, cfg.BatchWorkers)
		if err != nil {
			log.Warn().Err(err).Msg("batch cancelled")
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		res.Skipped = skipped

		if strings.EqualFold(r.FormValue("format"), "xlsx") {
			w.Header().Set("Content-Type", xlsxContentType)
			w.Header().Set("Content-Disposition", `attachment; filename="cv-scores.xlsx"`)
			if err := fileio.WriteScoresXLSX(w, res); err != nil {
				log.Error().Err(err).Msg("write xlsx")
			}
		} else if err := writeJSON(w, http.StatusOK, res); err != nil {
			log.Error().Err(err).Msg("write json")
		}

		log.Info().
			Int("candidates", len(cands)).
			Dur("elapsed", time.Since(start)).
			Msg("batch done")
	}
}

// keywordLimit: 0 -> POSTING_KEYWORD_LIMIT, отрицательный -> ошибка.
func keywordLimit(n int, cfg config.Config) (int, error) {
	if n < 0 {
		return 0, errors.New(msgBadLimit)
	}
	if n == 0 {
		return cfg.KeywordLimit, nil
	}
	return n, nil
}

// fileStatus: неподдерживаемый формат файла -> 415, остальное -> 400.
func fileStatus(err error) int {
	if errors.Is(err, fileio.ErrUnsupported) {
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}

func formOr(r *http.Request, key, def string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return def
}
