package formatter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/shared"
)

func testPlaylists() []models.Playlist {
	return []models.Playlist{
		{ID: "p1", Name: "Morning Mix", URI: "spotify:playlist:p1", TrackCount: 12},
		{ID: "p2", Name: "Road, Trip", URI: "spotify:playlist:p2", TrackCount: 40},
	}
}

func TestFormatter(t *testing.T) {
	t.Run("ParseFormat", func(t *testing.T) {
		tests := []struct {
			in      string
			want    Format
			wantErr bool
		}{
			{"csv", CSV, false},
			{"CSV", CSV, false},
			{"md", Markdown, false},
			{"markdown", Markdown, false},
			{"txt", Text, false},
			{"", Text, false},
			{"yaml", "", true},
		}

		for _, tt := range tests {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("ParseFormat(%q): expected ErrInvalidArgument, got %v", tt.in, err)
				}
				continue
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		}
	})

	t.Run("PlaylistsToCSV", func(t *testing.T) {
		data, err := PlaylistsToCSV(testPlaylists())
		if err != nil {
			t.Fatalf("PlaylistsToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "ID,Name,URI,Tracks" {
			t.Errorf("unexpected header: %s", lines[0])
		}
		if lines[1] != "p1,Morning Mix,spotify:playlist:p1,12" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if !strings.Contains(lines[2], `"Road, Trip"`) {
			t.Errorf("expected quoted name with comma, got %s", lines[2])
		}
	})

	t.Run("PlaylistsToMarkdown", func(t *testing.T) {
		playlists := append(testPlaylists(), models.Playlist{ID: "p3", Name: "*starred*", URI: "spotify:playlist:p3"})
		data, err := PlaylistsToMarkdown(playlists)
		if err != nil {
			t.Fatalf("PlaylistsToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "# Playlists\n") {
			t.Errorf("expected heading, got %s", output)
		}
		if !strings.Contains(output, "**Count**: 3") {
			t.Errorf("expected count, got %s", output)
		}
		if !strings.Contains(output, "1. Morning Mix (12 tracks) `spotify:playlist:p1`") {
			t.Errorf("expected first entry, got %s", output)
		}
		if !strings.Contains(output, `\*starred\*`) {
			t.Errorf("expected escaped name, got %s", output)
		}
	})

	t.Run("PlaylistsToText", func(t *testing.T) {
		data, err := PlaylistsToText(testPlaylists())
		if err != nil {
			t.Fatalf("PlaylistsToText failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Playlists: 2\n") {
			t.Errorf("expected count line, got %s", output)
		}
		if !strings.Contains(output, "2. Road, Trip (40 tracks)\n   spotify:playlist:p2") {
			t.Errorf("expected second entry, got %s", output)
		}
	})

	t.Run("empty listing", func(t *testing.T) {
		for _, f := range []Format{CSV, Markdown, Text} {
			if _, err := Render(f, nil); err != nil {
				t.Errorf("Render(%s, nil) failed: %v", f, err)
			}
		}
	})

	t.Run("WriteExport", func(t *testing.T) {
		t.Run("writes to the given path", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "lists.csv")

			got, err := WriteExport(CSV, testPlaylists(), path)
			if err != nil {
				t.Fatalf("WriteExport failed: %v", err)
			}
			if got != path {
				t.Errorf("expected %s, got %s", path, got)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read export: %v", err)
			}
			if !strings.HasPrefix(string(data), "ID,Name,URI,Tracks") {
				t.Errorf("unexpected file contents: %s", data)
			}
		})

		t.Run("defaults the filename from the format", func(t *testing.T) {
			t.Chdir(t.TempDir())

			got, err := WriteExport(Markdown, testPlaylists(), "")
			if err != nil {
				t.Fatalf("WriteExport failed: %v", err)
			}
			if got != "playlists.md" {
				t.Errorf("expected playlists.md, got %s", got)
			}
			if _, err := os.Stat(got); err != nil {
				t.Errorf("expected file to exist: %v", err)
			}
		})

		t.Run("rejects unknown formats", func(t *testing.T) {
			_, err := WriteExport(Format("xml"), testPlaylists(), filepath.Join(t.TempDir(), "x"))
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})
}
