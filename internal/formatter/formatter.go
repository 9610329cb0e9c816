// package formatter renders playlist listings as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/shared"
)

// Format names an output format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// ParseFormat accepts a format name (case insensitive, "md" and "txt" as aliases).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt", "":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (csv, markdown, text)", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension for f.
func (f Format) Extension() string {
	switch f {
	case CSV:
		return ".csv"
	case Markdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Render dispatches to the renderer for f.
func Render(f Format, playlists []models.Playlist) ([]byte, error) {
	switch f {
	case CSV:
		return PlaylistsToCSV(playlists)
	case Markdown:
		return PlaylistsToMarkdown(playlists)
	case Text:
		return PlaylistsToText(playlists)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// PlaylistsToCSV renders playlists with columns: ID, Name, URI, Tracks
func PlaylistsToCSV(playlists []models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Name", "URI", "Tracks"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range playlists {
		record := []string{p.ID, p.Name, p.URI, strconv.Itoa(p.TrackCount)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlaylistsToMarkdown renders playlists as a numbered Markdown list with their context URIs.
func PlaylistsToMarkdown(playlists []models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Playlists\n\n")
	buf.WriteString(fmt.Sprintf("**Count**: %d\n\n", len(playlists)))

	for i, p := range playlists {
		buf.WriteString(fmt.Sprintf("%d. %s (%d tracks) `%s`\n", i+1, escapeMarkdown(p.Name), p.TrackCount, p.URI))
	}

	return buf.Bytes(), nil
}

// PlaylistsToText renders playlists as plain text
func PlaylistsToText(playlists []models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlists: %d\n\n", len(playlists)))
	for i, p := range playlists {
		buf.WriteString(fmt.Sprintf("%d. %s (%d tracks)\n   %s\n", i+1, p.Name, p.TrackCount, p.URI))
	}

	return buf.Bytes(), nil
}

// WriteExport renders playlists in format f to path, creating parent directories.
//
// An empty path defaults to playlists{ext} in the working directory. It returns the written path.
func WriteExport(f Format, playlists []models.Playlist, path string) (string, error) {
	if path == "" {
		path = "playlists" + f.Extension()
	}

	data, err := Render(f, playlists)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", f, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
