package service

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"golang.org/x/image/font/opentype"
)

func TestTitleFontSize(t *testing.T) {
	tests := []struct {
		title string
		want  float64
	}{
		{"Daily Vibe", 70},
		{"Real talk: yes", 40},
		{"Never ignore someone who", 35},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := titleFontSize(tt.title); got != tt.want {
				t.Errorf("titleFontSize(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestRenderBanner(t *testing.T) {
	data, err := RenderBanner("Literally my mind when someone says", 1080, 160)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("banner is not a PNG: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 1080, 160) {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}

	// corners stay white, some pixel in the middle band is dark
	if r, g, b, _ := img.At(0, 0).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Error("expected white corner")
	}
	dark := false
	for x := 0; x < 1080 && !dark; x++ {
		for y := 0; y < 160; y++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0x4000 {
				dark = true
				break
			}
		}
	}
	if !dark {
		t.Error("expected title text to be drawn")
	}
}

func TestRenderBanner_TooSmall(t *testing.T) {
	if _, err := RenderBanner("x", 100, 100); err == nil {
		t.Error("expected error for a banner narrower than its padding")
	}
}

func TestWrapText(t *testing.T) {
	f, err := loadBannerFont()
	if err != nil {
		t.Fatalf("load font: %v", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 40, DPI: 72})
	if err != nil {
		t.Fatalf("new face: %v", err)
	}
	defer face.Close()

	if lines := wrapText(face, "short", 800); len(lines) != 1 {
		t.Errorf("expected one line, got %v", lines)
	}
	lines := wrapText(face, "Everything wants you when you want nothing at all, truly nothing", 300)
	if len(lines) < 2 {
		t.Errorf("expected wrapping, got %v", lines)
	}
	if wrapText(face, "   ", 300) != nil {
		t.Error("expected no lines for blank text")
	}
}
