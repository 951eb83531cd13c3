package posting

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// fetchDirect качает страницу вакансии сами: readability -> markdown,
// при неудаче — просто текст body через goquery.
func (f *Fetcher) fetchDirect(ctx context.Context, jobURL string) (string, error) {
	if !schemeRe.MatchString(jobURL) {
		jobURL = "https://" + jobURL
	}
	body, ctype, err := f.get(ctx, jobURL)
	if err != nil {
		return "", err
	}
	if ctype != "" && !strings.Contains(ctype, "html") {
		return strings.TrimSpace(string(body)), nil
	}
	return extractText(body, jobURL), nil
}

// extractText — основной текст HTML-страницы.
func extractText(body []byte, pageURL string) string {
	u, _ := url.Parse(pageURL)
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(body), u)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		md, err := htmltomarkdown.ConvertString(article.Content)
		if err == nil && strings.TrimSpace(md) != "" {
			return strings.TrimSpace(md)
		}
		if t := strings.TrimSpace(article.TextContent); t != "" {
			return t
		}
	}
	return bodyText(body)
}

func bodyText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	doc.Find("script,style,noscript,nav,footer").Remove()

	var lines []string
	for _, l := range strings.Split(doc.Find("body").Text(), "\n") {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}
