// Package imaging converts embedded catalogue images to a single canonical
// raster format before they are uploaded.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// ContentType is the MIME type of every normalized image.
	ContentType = "image/png"
	// Ext is the file extension of every normalized image.
	Ext = "png"
)

// Normalize decodes an image and re-encodes it as PNG. Grayscale images keep
// their single channel; everything else becomes 8-bit RGB with any alpha or
// palette information dropped. No compositing against a background is done.
func Normalize(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if !isGray(img) {
		img = toRGB(img)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode %s as png: %w", format, err)
	}
	return buf.Bytes(), nil
}

func isGray(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	return false
}

// toRGB copies img into an opaque RGBA canvas, which png.Encode writes as a
// three-channel truecolor image.
func toRGB(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := straightColor(src.At(x, y))
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}

// straightColor returns the non-premultiplied channels of c. Palette entries
// decoded from PNG tRNS chunks are already color.NRGBA and are used as-is.
// 16-bit straight colors keep the high byte of each channel so that fully
// transparent pixels retain their color.
func straightColor(c color.Color) color.NRGBA {
	switch n := c.(type) {
	case color.NRGBA:
		return n
	case color.NRGBA64:
		return color.NRGBA{R: uint8(n.R >> 8), G: uint8(n.G >> 8), B: uint8(n.B >> 8), A: uint8(n.A >> 8)}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
