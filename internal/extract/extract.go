package extract

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// Supported reports whether the filename's extension has an extractor.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".pdf", ".csv", ".xlsx":
		return true
	}
	return false
}

// Text extracts plain text from the document. The boolean is false when
// the extension is unsupported or the document yields no text; both are
// expected outcomes, not failures.
func Text(r io.Reader, filename string) (string, bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", false
	}

	var text string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		text = plainText(data)
	case ".pdf":
		text = pdfText(data)
	case ".csv":
		text = csvText(data)
	case ".xlsx":
		text = xlsxText(data)
	default:
		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

// plainText decodes bytes as UTF-8, replacing invalid sequences.
func plainText(data []byte) string {
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

// pdfText concatenates per-page text. Pages that fail to render are
// skipped so one bad page does not lose the rest of the document. The
// pdf library panics on some malformed inputs, hence the recover.
func pdfText(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		if content, ok := pageText(reader.Page(i)); ok {
			pages = append(pages, content)
		}
	}
	return strings.Join(pages, "\n")
}

func pageText(page pdf.Page) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
		}
	}()

	if page.V.IsNull() {
		return "", false
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return "", false
	}
	return content, true
}

func csvText(data []byte) string {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return ""
	}
	return renderTable(rows)
}

func xlsxText(data []byte) string {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return ""
	}
	return renderTable(rows)
}

// renderTable lays rows out as aligned columns in their original order.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		io.WriteString(w, strings.Join(row, "\t")+"\n")
	}
	w.Flush()

	return strings.TrimRight(buf.String(), "\n")
}
