package fileio

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// detectCharset: валидный UTF-8 не трогаем, иначе спрашиваем chardet.
func detectCharset(sample []byte) string {
	if bytes.HasPrefix(sample, []byte{0xFF, 0xFE}) {
		return "utf-16le"
	}
	if bytes.HasPrefix(sample, []byte{0xFE, 0xFF}) {
		return "utf-16be"
	}
	if utf8.Valid(sample) || len(sample) == 0 {
		return "utf-8"
	}
	det, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || det == nil {
		return "utf-8"
	}
	return strings.ToLower(det.Charset)
}

func decoderFor(charset string) encoding.Encoding {
	switch charset {
	case "windows-1251", "cp1251":
		return charmap.Windows1251
	case "koi8-r":
		return charmap.KOI8R
	case "iso-8859-1", "windows-1252":
		return charmap.Windows1252
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	default:
		return nil
	}
}

// decodeReader оборачивает r декодером под найденную кодировку.
func decodeReader(r io.Reader, sample []byte) io.Reader {
	if enc := decoderFor(detectCharset(sample)); enc != nil {
		return transform.NewReader(r, enc.NewDecoder())
	}
	return r
}

func decodeBytes(b []byte) (string, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	enc := decoderFor(detectCharset(b))
	if enc == nil {
		return string(b), nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
