package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for file types that cannot be read as text
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrEmptyDocument is returned when a file yields no text
var ErrEmptyDocument = errors.New("document contains no text")

// readers maps a lower-case file extension to its text reader
var readers = map[string]func(path string) (string, error){
	".pdf":  readPDFFile,
	".txt":  readPlain,
	".md":   readPlain,
	".text": readPlain,
	"":      readPlain,
}

// ReadFile returns the cleaned text of a plain text, markdown or PDF file
func ReadFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	read, ok := readers[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	raw, err := read(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("file not found: %w", err)
	case err != nil:
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if text := CleanText(raw); text != "" {
		return text, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrEmptyDocument)
}

func readPlain(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}

// ReadPDF extracts the text layer of a PDF held in memory. Scanned PDFs
// without a text layer return ErrEmptyDocument.
func ReadPDF(data []byte) (string, error) {
	text, err := pdfText(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	text = CleanText(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func readPDFFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	return pdfText(f, info.Size())
}

// pdfText concatenates the plain text of every page. The pdf package panics
// on some malformed inputs, so panics are turned into errors.
func pdfText(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed PDF: %v", p)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read PDF page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
