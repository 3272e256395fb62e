package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodeConfig(t *testing.T, data []byte) image.Config {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode normalized image: %v", err)
	}
	if format != "png" {
		t.Fatalf("expected png output, got %q", format)
	}
	return cfg
}

func TestNormalize_PalettedBecomesRGB(t *testing.T) {
	pal := color.Palette{
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{G: 255, A: 128},
	}
	src := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	src.SetColorIndex(1, 1, 1)

	out, err := Normalize(encodePNG(t, src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := decodeConfig(t, out)
	if cfg.ColorModel != color.RGBAModel {
		t.Fatalf("expected 8-bit truecolor model, got %T", cfg.ColorModel)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", img)
	}
	if !rgba.Opaque() {
		t.Error("expected no alpha in normalized image")
	}
	// Alpha is dropped, not composited: the half-transparent green stays pure green.
	if got := rgba.RGBAAt(1, 1); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("expected pure green at (1,1), got %+v", got)
	}
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected pure red at (0,0), got %+v", got)
	}
}

func TestNormalize_NRGBADropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 0})

	out, err := Normalize(encodePNG(t, src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", img)
	}
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("expected straight color with alpha dropped, got %+v", got)
	}
}

func TestNormalize_NRGBA64DropsAlpha(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	src.SetNRGBA64(0, 0, color.NRGBA64{R: 0xffff, G: 0x8080, B: 0x1010, A: 0})

	out, err := Normalize(encodePNG(t, src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", img)
	}
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{R: 0xff, G: 0x80, B: 0x10, A: 255}) {
		t.Errorf("expected straight color with alpha dropped, got %+v", got)
	}
}

func TestToRGB_CMYK(t *testing.T) {
	// image/jpeg only writes YCbCr, so CMYK sources are exercised in memory.
	src := image.NewCMYK(image.Rect(0, 0, 3, 3))
	src.SetCMYK(0, 0, color.CMYK{C: 255})

	dst := toRGB(src)
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{G: 255, B: 255, A: 255}) {
		t.Errorf("expected cyan, got %+v", got)
	}
	if !dst.Opaque() {
		t.Error("expected opaque output")
	}
}

func TestToRGB_OffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 7))
	src.SetNRGBA(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 4})

	dst := toRGB(src)
	if dst.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("expected bounds rebased to origin, got %v", dst.Bounds())
	}
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("unexpected pixel %+v", got)
	}
}

func TestNormalize_GrayStaysGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(1, 1, color.Gray{Y: 200})

	out, err := Normalize(encodePNG(t, src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := decodeConfig(t, out)
	if cfg.ColorModel != color.GrayModel {
		t.Errorf("expected gray model, got %T", cfg.ColorModel)
	}
	if cfg.Width != 2 || cfg.Height != 2 {
		t.Errorf("expected 2x2, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalize_JPEGBecomesRGB(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	out, err := Normalize(buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg := decodeConfig(t, out); cfg.ColorModel != color.RGBAModel {
		t.Errorf("expected 8-bit RGB output, got %T", cfg.ColorModel)
	}
}

func TestNormalize_Garbage(t *testing.T) {
	if _, err := Normalize([]byte("not an image")); err == nil {
		t.Error("expected error for undecodable input")
	}
}
