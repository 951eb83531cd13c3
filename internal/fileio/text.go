package fileio

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ReadText достаёт плоский текст резюме из загруженного файла.
// Поддерживаются .txt/.md/.text, .pdf и .docx.
func ReadText(r io.Reader, filename string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}

	switch ext(filename) {
	case ".txt", ".text", ".md", "":
		return decodeBytes(b)
	case ".pdf":
		return pdfText(b)
	case ".docx":
		return docxText(b)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filename)
	}
}

func pdfText(b []byte) (string, error) {
	pr, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= pr.NumPage(); i++ {
		page := pr.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

var (
	docxParaEnd = regexp.MustCompile(`</w:p>`)
	docxTab     = regexp.MustCompile(`<w:tab/>`)
	xmlTag      = regexp.MustCompile(`<[^>]+>`)
)

func docxText(b []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText: абзацы -> строки, теги выкидываем, сущности раскрываем.
func docxXMLToText(x string) string {
	x = docxParaEnd.ReplaceAllString(x, "\n")
	x = docxTab.ReplaceAllString(x, "\t")
	x = xmlTag.ReplaceAllString(x, "")
	x = html.UnescapeString(x)

	lines := strings.Split(x, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
