package player

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/pifi/internal/models"
	"golang.org/x/image/draw"
)

const (
	// ArtworkTimeout bounds one cover fetch.
	ArtworkTimeout = 5 * time.Second
	// ArtworkSize is the edge of the square thumbnail kept in memory.
	ArtworkSize = 64

	maxArtworkBytes = 4 << 20
)

// HTTPArtworkFetcher downloads cover art and scales it to a square thumbnail.
type HTTPArtworkFetcher struct {
	client  *http.Client
	size    int
	timeout time.Duration
}

// NewHTTPArtworkFetcher creates a fetcher. Artwork URLs are public, so client needs no authorization.
func NewHTTPArtworkFetcher(client *http.Client, size int) *HTTPArtworkFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if size <= 0 {
		size = ArtworkSize
	}
	return &HTTPArtworkFetcher{client: client, size: size, timeout: ArtworkTimeout}
}

func (f *HTTPArtworkFetcher) Fetch(ctx context.Context, url string) (*models.Artwork, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("artwork request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("artwork fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch: status %d", resp.StatusCode)
	}

	src, _, err := image.Decode(io.LimitReader(resp.Body, maxArtworkBytes))
	if err != nil {
		return nil, fmt.Errorf("artwork decode: %w", err)
	}

	return &models.Artwork{URL: url, Image: Thumbnail(src, f.size)}, nil
}

// Thumbnail scales src into a size×size image.
func Thumbnail(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
