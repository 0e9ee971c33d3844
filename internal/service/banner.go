package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	bannerSidePadding = 100
	minBannerFontSize = 20
)

var (
	bannerFont     *opentype.Font
	bannerFontErr  error
	bannerFontOnce sync.Once
)

func loadBannerFont() (*opentype.Font, error) {
	bannerFontOnce.Do(func() {
		bannerFont, bannerFontErr = opentype.Parse(gobold.TTF)
	})
	return bannerFont, bannerFontErr
}

// titleFontSize picks the banner font size from the title length.
func titleFontSize(title string) float64 {
	switch n := utf8.RuneCountInString(title); {
	case n > 15:
		return 35
	case n > 10:
		return 40
	default:
		return 70
	}
}

// RenderBanner draws title in black on a white width x height strip and returns it as PNG.
// Long titles are word-wrapped and shrunk until they fit inside the strip.
func RenderBanner(title string, width, height int) ([]byte, error) {
	if width <= 2*bannerSidePadding || height <= 0 {
		return nil, fmt.Errorf("banner size %dx%d too small", width, height)
	}

	f, err := loadBannerFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse banner font: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	maxWidth := width - 2*bannerSidePadding
	for size := titleFontSize(title); ; size -= 4 {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create font face: %w", err)
		}

		lines := wrapText(face, title, maxWidth)
		lineHeight := face.Metrics().Height.Ceil()
		if lineHeight*len(lines) <= height || size <= minBannerFontSize {
			drawCentered(img, face, lines, lineHeight)
			face.Close()
			break
		}
		face.Close()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode banner: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapText breaks text into lines no wider than maxWidth pixels.
// A single word wider than maxWidth gets a line of its own.
func wrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	limit := fixed.I(maxWidth)
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if font.MeasureString(face, candidate) <= limit {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}

func drawCentered(img *image.RGBA, face font.Face, lines []string, lineHeight int) {
	bounds := img.Bounds()
	ascent := face.Metrics().Ascent.Ceil()
	top := (bounds.Dy() - lineHeight*len(lines)) / 2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	for i, line := range lines {
		w := d.MeasureString(line).Ceil()
		d.Dot = fixed.P((bounds.Dx()-w)/2, top+i*lineHeight+ascent)
		d.DrawString(line)
	}
}
