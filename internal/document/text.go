package document

import (
	"fmt"
	"os"

	pdflib "github.com/ledongthuc/pdf"
)

// textDocument reads page text with a pure-Go PDF reader. It cannot decode
// embedded images, so PageImages always returns none.
type textDocument struct {
	f      *os.File
	reader *pdflib.Reader
}

func openText(path string) (*textDocument, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &textDocument{f: f, reader: reader}, nil
}

func (d *textDocument) NumPage() int {
	return d.reader.NumPage()
}

func (d *textDocument) PageText(index int) (string, error) {
	if err := checkIndex(index, d.reader.NumPage()); err != nil {
		return "", err
	}
	page := d.reader.Page(index + 1)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract text of page %d: %w", index+1, err)
	}
	return text, nil
}

func (d *textDocument) PageImages(index int) ([]Image, error) {
	if err := checkIndex(index, d.reader.NumPage()); err != nil {
		return nil, err
	}
	return nil, nil
}

func (d *textDocument) Close() error {
	return d.f.Close()
}
