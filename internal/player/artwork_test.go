package player

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPArtworkFetcher(t *testing.T) {
	var cover bytes.Buffer
	src := image.NewRGBA(image.Rect(0, 0, 300, 150))
	for x := range 300 {
		for y := range 150 {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	if err := png.Encode(&cover, src); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cover.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(cover.Bytes())
		case "/garbage":
			w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewHTTPArtworkFetcher(server.Client(), 32)
	ctx := context.Background()

	t.Run("scales to a square thumbnail", func(t *testing.T) {
		art, err := f.Fetch(ctx, server.URL+"/cover.png")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if art.URL != server.URL+"/cover.png" {
			t.Errorf("unexpected url %s", art.URL)
		}
		b := art.Image.Bounds()
		if b.Dx() != 32 || b.Dy() != 32 {
			t.Errorf("expected 32x32, got %dx%d", b.Dx(), b.Dy())
		}
		r, _, _, _ := art.Image.At(16, 16).RGBA()
		if r>>8 < 150 {
			t.Errorf("expected red pixel, got r=%d", r>>8)
		}
	})

	t.Run("status error", func(t *testing.T) {
		if _, err := f.Fetch(ctx, server.URL+"/missing"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("decode error", func(t *testing.T) {
		if _, err := f.Fetch(ctx, server.URL+"/garbage"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		d := NewHTTPArtworkFetcher(nil, 0)
		if d.size != ArtworkSize || d.timeout != ArtworkTimeout {
			t.Errorf("unexpected defaults %d %v", d.size, d.timeout)
		}
	})
}
