package fileio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"cv-tailor/internal/tailor/model"
)

func TestReadCSV(t *testing.T) {
	in := "\xEF\xBB\xBFName,CV\n" +
		"Alex,\"Figma, prototyping\"\n" +
		",\n" +
		"Sam,Go developer\n"

	rows, err := ReadAnyMaps(strings.NewReader(in), "people.CSV", 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alex", rows[0]["Name"])
	assert.Equal(t, "Figma, prototyping", rows[0]["CV"])
	assert.Equal(t, "Go developer", rows[1]["CV"])
}

func TestReadCSVHeaderRowAndBlankHeaders(t *testing.T) {
	in := "exported at 2024-01-01\nName,\nAlex,extra\n"
	rows, err := ReadAnyMaps(strings.NewReader(in), "x.csv", 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "extra", rows[0]["Column 2"])
}

func TestReadAnyMapsUnsupported(t *testing.T) {
	_, err := ReadAnyMaps(strings.NewReader(""), "table.ods", 1)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestScoresReportReadsBack(t *testing.T) {
	res := model.BatchResult{
		Keywords: []string{"figma", "prototyping"},
		Rows: []model.CandidateScore{
			{Name: "Alex", Score: 50, Matched: []string{"figma"}, Missing: []string{"prototyping"}},
			{Name: "Sam", Score: 100, Matched: []string{"figma", "prototyping"}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteScoresXLSX(&buf, res))

	rows, err := ReadAnyMaps(&buf, "report.xlsx", 1)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, "Alex", rows[0]["Name"])
	assert.Equal(t, "50", rows[0]["Score"])
	assert.Equal(t, "figma, prototyping", rows[1]["Matched"])
	assert.Equal(t, "Keywords: figma, prototyping", rows[len(rows)-1]["Name"])
}

func TestReadTextPlain(t *testing.T) {
	got, err := ReadText(strings.NewReader("\xEF\xBB\xBFAlex Morgan\nProduct Designer"), "cv.txt")
	require.NoError(t, err)
	assert.Equal(t, "Alex Morgan\nProduct Designer", got)
}

func TestReadTextUTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	b, err := enc.Bytes([]byte("Résumé: Go, Kubernetes"))
	require.NoError(t, err)

	got, err := ReadText(bytes.NewReader(b), "cv.md")
	require.NoError(t, err)
	assert.Equal(t, "Résumé: Go, Kubernetes", got)
}

func TestReadTextUnsupported(t *testing.T) {
	_, err := ReadText(strings.NewReader("x"), "cv.odt")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDecoderFor(t *testing.T) {
	assert.Equal(t, charmap.Windows1251, decoderFor("windows-1251"))
	assert.Equal(t, charmap.Windows1252, decoderFor("iso-8859-1"))
	assert.Nil(t, decoderFor("utf-8"))
}

func TestDetectCharset(t *testing.T) {
	assert.Equal(t, "utf-8", detectCharset([]byte("plain ascii")))
	assert.Equal(t, "utf-8", detectCharset([]byte("café")))
	assert.Equal(t, "utf-16le", detectCharset([]byte{0xFF, 0xFE, 'a', 0}))
}

func TestDocxXMLToText(t *testing.T) {
	x := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Alex Morgan</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Figma &amp; research</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	assert.Equal(t, "Alex Morgan\nSkills:\tFigma & research", docxXMLToText(x))
}
