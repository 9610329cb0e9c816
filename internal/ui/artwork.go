package ui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/pifi/internal/player"
)

// artworkCells is the width of the rendered cover in terminal cells. Each cell shows two pixel rows.
const artworkCells = 24

// renderArtwork draws img with upper half blocks, foreground for the top pixel and background for the bottom one.
func renderArtwork(img image.Image, cells int) string {
	if img == nil {
		return placeholderArtwork(cells)
	}

	thumb := player.Thumbnail(img, cells)
	var b strings.Builder
	for y := 0; y < cells; y += 2 {
		for x := range cells {
			style := lipgloss.NewStyle().
				Foreground(hexColor(thumb, x, y)).
				Background(hexColor(thumb, x, y+1))
			b.WriteString(style.Render("▀"))
		}
		if y+2 < cells {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func placeholderArtwork(cells int) string {
	row := strings.Repeat("░", cells)
	rows := make([]string, cells/2)
	for i := range rows {
		rows[i] = row
	}
	return styles.help.Render(strings.Join(rows, "\n"))
}

func hexColor(img *image.RGBA, x, y int) lipgloss.Color {
	if y >= img.Bounds().Dy() {
		y = img.Bounds().Dy() - 1
	}
	c := img.RGBAAt(x, y)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
