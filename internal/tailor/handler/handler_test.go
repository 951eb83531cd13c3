package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-tailor/internal/config"
	"cv-tailor/internal/cvsource"
	"cv-tailor/internal/fileio"
	"cv-tailor/internal/tailor/model"
)

const posting = "We need a Product Designer with Figma and prototyping skills, collaboration and user research required."

var testCfg = config.Config{KeywordLimit: 16, BatchWorkers: 2}

type fakeFetcher struct {
	text string
	err  error
}

func (f fakeFetcher) Fetch(context.Context, string) (string, error) { return f.text, f.err }

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func multipartReq(t *testing.T, fields map[string]string, fileField, fileName, fileBody string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(fileBody))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestOptimizeJSON(t *testing.T) {
	rec := postJSON(t, Optimize(testCfg, zerolog.Nop()), map[string]any{
		"jobDescription": "  " + posting + "\n",
		"cvText":         "\n" + cvsource.SampleCV + "\n\n",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var a model.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, []string{"product", "designer", "figma", "prototyping", "skills", "collaboration", "user", "research"}, a.Matched)
	assert.Equal(t, []string{"need", "required"}, a.Missing)
	assert.Equal(t, 80, a.Score)
	assert.True(t, strings.HasSuffix(a.OptimizedCV, "Original CV\n"+cvsource.SampleCV))
	assert.Equal(t, "Match score: 80% · Matched: product, designer, figma, prototyping, skills, collaboration, user, research", a.Metrics)
}

func TestOptimizeLimit(t *testing.T) {
	rec := postJSON(t, Optimize(testCfg, zerolog.Nop()), map[string]any{
		"jobDescription": posting, "cvText": "figma", "limit": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var a model.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, []string{"need", "product", "designer"}, a.Keywords)
	assert.Equal(t, 0, a.Score)

	rec = postJSON(t, Optimize(testCfg, zerolog.Nop()), map[string]any{
		"jobDescription": posting, "cvText": "figma", "limit": -1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeNeedsBoth(t *testing.T) {
	for _, body := range []map[string]string{
		{"jobDescription": posting, "cvText": "   "},
		{"jobDescription": "", "cvText": "cv"},
		{},
	} {
		rec := postJSON(t, Optimize(testCfg, zerolog.Nop()), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, msgNeedBoth, errorOf(t, rec))
	}
}

func TestOptimizeBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	Optimize(testCfg, zerolog.Nop())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeMultipartWithFile(t *testing.T) {
	req := multipartReq(t, map[string]string{"jobDescription": posting}, "cvFile", "cv.txt", "Figma and prototyping")
	rec := httptest.NewRecorder()
	Optimize(testCfg, zerolog.Nop())(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var a model.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, []string{"figma", "prototyping"}, a.Matched)
	assert.Equal(t, 20, a.Score)
}

func TestOptimizeUnsupportedCVFile(t *testing.T) {
	req := multipartReq(t, map[string]string{"jobDescription": posting}, "cvFile", "cv.odt", "x")
	rec := httptest.NewRecorder()
	Optimize(testCfg, zerolog.Nop())(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestOptimizeZeroLimitUsesConfig(t *testing.T) {
	cfg := config.Config{KeywordLimit: 2}
	rec := postJSON(t, Optimize(cfg, zerolog.Nop()), map[string]any{
		"jobDescription": posting, "cvText": "figma", "limit": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var a model.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, []string{"need", "product"}, a.Keywords)
}

func TestLoadCV(t *testing.T) {
	rec := httptest.NewRecorder()
	LoadCV(zerolog.Nop())(rec, multipartReq(t, nil, "cvFile", "alex.txt", "Alex Morgan"))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Alex Morgan", body["cv"])
	assert.Equal(t, "Loaded CV file: alex.txt", body["message"])

	rec = httptest.NewRecorder()
	LoadCV(zerolog.Nop())(rec, multipartReq(t, nil, "cvFile", "alex.odt", "x"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = httptest.NewRecorder()
	LoadCV(zerolog.Nop())(rec, multipartReq(t, map[string]string{"x": "y"}, "", "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgNeedCVFile, errorOf(t, rec))
}

func TestSample(t *testing.T) {
	rec := httptest.NewRecorder()
	Sample(rec, httptest.NewRequest(http.MethodGet, "/sample", nil))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, cvsource.SampleCV, body["cv"])
	assert.Equal(t, "Sample CV loaded.", body["message"])
}

func TestScrape(t *testing.T) {
	rec := postJSON(t, Scrape(fakeFetcher{text: "Go engineer"}, zerolog.Nop()), map[string]string{"url": "https://jobs.example.com/1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Go engineer", body["description"])
	assert.Equal(t, msgFetched, body["message"])

	rec = postJSON(t, Scrape(fakeFetcher{}, zerolog.Nop()), map[string]string{"url": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Add a job URL first.", errorOf(t, rec))

	rec = postJSON(t, Scrape(fakeFetcher{err: errors.New("boom")}, zerolog.Nop()), map[string]string{"url": "x.example"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Could not scrape this URL. Paste the description manually and continue.", errorOf(t, rec))
}

func TestBatchJSON(t *testing.T) {
	table := "Candidate name,Résumé text\n" +
		"Alex,\"Figma, prototyping, product designer\"\n" +
		"Sam,\n" +
		",Need research skills\n"
	req := multipartReq(t, map[string]string{"jobDescription": posting, "limit": "5"}, "file", "people.csv", table)
	rec := httptest.NewRecorder()
	Batch(testCfg, zerolog.Nop())(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res model.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Alex", res.Rows[0].Name)
	assert.Equal(t, 80, res.Rows[0].Score)
	assert.Equal(t, "Row 4", res.Rows[1].Name)
	assert.Equal(t, 20, res.Rows[1].Score)
}

func TestBatchXLSX(t *testing.T) {
	table := "Name,CV\nAlex,Figma\n"
	req := multipartReq(t, map[string]string{"jobDescription": posting, "format": "xlsx"}, "file", "people.csv", table)
	rec := httptest.NewRecorder()
	Batch(testCfg, zerolog.Nop())(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))

	rows, err := fileio.ReadAnyMaps(rec.Body, "report.xlsx", 1)
	require.NoError(t, err)
	assert.Equal(t, "Alex", rows[0]["Name"])
	assert.Equal(t, "10", rows[0]["Score"])
}

func TestBatchRejects(t *testing.T) {
	rec := httptest.NewRecorder()
	Batch(testCfg, zerolog.Nop())(rec, multipartReq(t, map[string]string{"jobDescription": posting}, "file", "people.ods", "x"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = httptest.NewRecorder()
	Batch(testCfg, zerolog.Nop())(rec, multipartReq(t, map[string]string{"jobDescription": posting}, "", "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgNeedBatchFile, errorOf(t, rec))

	rec = httptest.NewRecorder()
	Batch(testCfg, zerolog.Nop())(rec, multipartReq(t, map[string]string{"jobDescription": posting, "limit": "-1"}, "file", "people.csv", "Name,CV\nann,Figma\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgBadLimit, errorOf(t, rec))
}

func TestBatchZeroLimitUsesConfig(t *testing.T) {
	cfg := config.Config{KeywordLimit: 3, BatchWorkers: 1}
	req := multipartReq(t, map[string]string{"jobDescription": posting, "limit": "0"}, "file", "people.csv", "Name,CV\nann,Figma\n")
	rec := httptest.NewRecorder()
	Batch(cfg, zerolog.Nop())(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"need", "product", "designer"}, res.Keywords)
}

func TestResolveKey(t *testing.T) {
	rec := map[string]string{"Candidate name": "", "Résumé text": "", "Notes": ""}
	assert.Equal(t, "Résumé text", resolveKey(rec, "CV|Resume"))
	assert.Equal(t, "Candidate name", resolveKey(rec, "Name"))
	assert.Equal(t, "Notes", resolveKey(rec, "notes"))
	assert.Equal(t, "", resolveKey(rec, "Salary"))
	assert.Equal(t, "", resolveKey(rec, ""))
}

func TestResolveKeyTypos(t *testing.T) {
	rec := map[string]string{"Nmae": "", "Resme": "", "ID": ""}
	assert.Equal(t, "Nmae", resolveKey(rec, "Name"))
	assert.Equal(t, "Resme", resolveKey(rec, "CV|Resume"))
	assert.Equal(t, "", resolveKey(rec, "Salary"))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("resume", "resume"))
	assert.Equal(t, 1, editDistance("name", "nmae"))
	assert.Equal(t, 1, editDistance("resume", "resme"))
	assert.Equal(t, 3, editDistance("kitten", "sitting"))
	assert.Equal(t, 4, editDistance("", "name"))
}

func TestLooksLikeHeaderMap(t *testing.T) {
	assert.True(t, looksLikeHeaderMap(map[string]string{"Name": "name", "CV": "CV"}))
	assert.False(t, looksLikeHeaderMap(map[string]string{"Name": "Alex", "CV": "Figma"}))
}
