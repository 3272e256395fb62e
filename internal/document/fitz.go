package document

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/net/html"
)

// fitzDocument reads text and images through MuPDF. Images are taken from the
// page's HTML rendering, where MuPDF inlines each image block as a data URI.
type fitzDocument struct {
	doc *fitz.Document
}

func openFitz(path string) (*fitzDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

func (d *fitzDocument) NumPage() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) PageText(index int) (string, error) {
	if err := checkIndex(index, d.doc.NumPage()); err != nil {
		return "", err
	}
	text, err := d.doc.Text(index)
	if err != nil {
		return "", fmt.Errorf("extract text of page %d: %w", index+1, err)
	}
	return text, nil
}

func (d *fitzDocument) PageImages(index int) ([]Image, error) {
	if err := checkIndex(index, d.doc.NumPage()); err != nil {
		return nil, err
	}
	markup, err := d.doc.HTML(index, false)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index+1, err)
	}
	return extractInlineImages(markup)
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}

// extractInlineImages returns the data-URI images of an HTML fragment in
// document order. An image drawn more than once on a page is returned once.
func extractInlineImages(markup string) ([]Image, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	var images []Image
	seen := make(map[[32]byte]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key != "src" {
					continue
				}
				mime, data, ok := decodeDataURI(a.Val)
				if !ok {
					continue
				}
				h := contentHash(data)
				if seen[h] {
					continue
				}
				seen[h] = true
				images = append(images, Image{Index: len(images), MIME: mime, Data: data})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return images, nil
}

// decodeDataURI parses "data:<mime>;base64,<payload>".
func decodeDataURI(src string) (string, []byte, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(src), "data:")
	if !ok {
		return "", nil, false
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, false
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return "", nil, false
	}
	return mime, data, true
}
