// Package posting fetches job posting text for analysis.
package posting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const DefaultReaderProxy = "https://r.jina.ai/http://"

// тело ответа больше этого не читаем
const maxBodyBytes = 4 << 20

var (
	ErrEmptyURL  = errors.New("job url is empty")
	ErrNoContent = errors.New("no readable content returned")
)

var schemeRe = regexp.MustCompile(`^https?://`)

type Options struct {
	ReaderProxy string // пусто -> DefaultReaderProxy; прямой режим только через Direct
	Direct      bool   // без прокси: качаем страницу и вытаскиваем текст сами
	Timeout     time.Duration
	RPS         float64
	Burst       int
}

type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	proxy   string
	direct  bool
	logger  zerolog.Logger
}

func NewFetcher(opt Options, logger zerolog.Logger) *Fetcher {
	if opt.Timeout <= 0 {
		opt.Timeout = 15 * time.Second
	}
	if opt.ReaderProxy == "" {
		opt.ReaderProxy = DefaultReaderProxy
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if opt.RPS > 0 {
		lim = rate.NewLimiter(rate.Limit(opt.RPS), max(opt.Burst, 1))
	}
	return &Fetcher{
		client:  &http.Client{Timeout: opt.Timeout},
		limiter: lim,
		proxy:   opt.ReaderProxy,
		direct:  opt.Direct,
		logger:  logger,
	}
}

// ProxyURL: схема исходного адреса отбрасывается, остаток дописывается к базе прокси.
func ProxyURL(base, jobURL string) string {
	return base + schemeRe.ReplaceAllString(jobURL, "")
}

// CleanProxyText убирает служебные строки прокси (Title:, URL Source:).
func CleanProxyText(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(l, "Title:") || strings.HasPrefix(l, "URL Source:") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// Fetch возвращает текст вакансии по её адресу.
func (f *Fetcher) Fetch(ctx context.Context, jobURL string) (string, error) {
	jobURL = strings.TrimSpace(jobURL)
	if jobURL == "" {
		return "", ErrEmptyURL
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	var (
		text string
		err  error
	)
	if f.direct {
		text, err = f.fetchDirect(ctx, jobURL)
	} else {
		text, err = f.fetchProxy(ctx, jobURL)
	}
	if err != nil {
		f.logger.Warn().Err(err).Str("url", jobURL).Bool("direct", f.direct).Msg("posting fetch failed")
		return "", err
	}
	if text == "" {
		return "", ErrNoContent
	}

	f.logger.Debug().Str("url", jobURL).Int("chars", len(text)).Dur("elapsed", time.Since(start)).Msg("posting fetched")
	return text, nil
}

func (f *Fetcher) fetchProxy(ctx context.Context, jobURL string) (string, error) {
	body, _, err := f.get(ctx, ProxyURL(f.proxy, jobURL))
	if err != nil {
		return "", err
	}
	return CleanProxyText(string(body)), nil
}

func (f *Fetcher) get(ctx context.Context, u string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("request failed with %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
