// Package document opens paginated catalogue files and exposes per-page text
// and embedded raster images.
package document

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Backend names a document decoding implementation.
type Backend string

const (
	// BackendFitz uses MuPDF and yields both text and embedded images.
	BackendFitz Backend = "fitz"
	// BackendText is a pure-Go reader that yields text only.
	BackendText Backend = "text"
)

// ErrUnsupportedBackend is returned by Open for an unknown backend name.
var ErrUnsupportedBackend = errors.New("document: unsupported backend")

// Image is one embedded raster image in page enumeration order.
type Image struct {
	Index int    // 0-based position among the page's images
	MIME  string // As reported by the decoder, e.g. image/jpeg
	Data  []byte
}

// Document is an open paginated document. Page indices are 0-based.
type Document interface {
	NumPage() int
	PageText(index int) (string, error)
	PageImages(index int) ([]Image, error)
	Close() error
}

// Open validates path and opens it with the requested backend.
func Open(path string, backend Backend) (Document, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	switch backend {
	case BackendFitz, "":
		d, err := openFitz(path)
		if err != nil {
			return nil, err
		}
		return d, nil
	case BackendText:
		d, err := openText(path)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, backend)
	}
}

// IsSupportedBackend reports whether name is a known backend.
func IsSupportedBackend(name string) bool {
	switch Backend(name) {
	case BackendFitz, BackendText:
		return true
	}
	return false
}

func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("document path cannot be empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("open document %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("document path is a directory: %s", path)
	}
	return nil
}

func checkIndex(index, numPages int) error {
	if index < 0 || index >= numPages {
		return fmt.Errorf("page index %d out of range [0, %d)", index, numPages)
	}
	return nil
}

func contentHash(data []byte) [sha256.Size]byte {
	return sha256.Sum256(data)
}
