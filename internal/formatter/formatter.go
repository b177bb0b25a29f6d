// package formatter provides functions to export playlist data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytmix/internal/models"
)

// ExportToCSV converts a playlist to CSV format with columns: Position, VideoID, Title, Author, URL
func ExportToCSV(playlist models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "VideoID", "Title", "Author", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range playlist {
		record := []string{
			fmt.Sprintf("%d", i+1),
			track.ID,
			track.Title,
			track.Author,
			track.URL,
		}
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

// ExportToMarkdown converts a playlist to Markdown format with linked titles
func ExportToMarkdown(playlist models.Playlist, name string) []byte {
	var buf bytes.Buffer

	if name == "" {
		name = "Playlist"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", name))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(playlist)))

	for i, track := range playlist {
		buf.WriteString(fmt.Sprintf("%d. [%s](%s) - %s\n", i+1, track.Title, track.URL, track.Author))
	}

	return buf.Bytes()
}

// ExportToText converts a playlist to plain text format
func ExportToText(playlist models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(playlist)))
	for i, track := range playlist {
		author := track.Author
		if author == "" {
			author = "Unknown"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, author, track.Title))
	}

	return buf.Bytes()
}

// WriteExport writes an exported playlist to disk, picking the format from
// the file extension (.csv, .md, anything else is plain text).
func WriteExport(playlist models.Playlist, path string) error {
	var (
		data []byte
		err  error
	)

	switch filepath.Ext(path) {
	case ".csv":
		data, err = ExportToCSV(playlist)
	case ".md":
		data = ExportToMarkdown(playlist, "")
	default:
		data = ExportToText(playlist)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
