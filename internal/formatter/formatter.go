// package formatter exports saved anime lists to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/hokage/internal/models"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat accepts csv, markdown/md and text/txt.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, markdown or text)", s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "md"
	default:
		return "txt"
	}
}

// ListExport is one saved list ready for export.
type ListExport struct {
	Kind       models.ListKind       `json:"-"`
	List       string                `json:"list"`
	UserID     string                `json:"user_id"`
	ExportedAt time.Time             `json:"exported_at"`
	Entries    []models.CatalogEntry `json:"entries"`
}

// NewListExport builds a [ListExport] stamped with the current time.
func NewListExport(kind models.ListKind, userID string, entries []models.CatalogEntry) *ListExport {
	return &ListExport{
		Kind:       kind,
		List:       kind.String(),
		UserID:     userID,
		ExportedAt: time.Now().UTC(),
		Entries:    entries,
	}
}

// ExportToCSV converts a ListExport to CSV format with columns: ID, Title, Description, Embed URL
func ExportToCSV(export *ListExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Description", "Embed URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range export.Entries {
		record := []string{entry.ID, entry.Title, entry.Description, entry.EmbedURL}
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

// ExportToMarkdown converts a ListExport to Markdown with one section per entry
func ExportToMarkdown(export *ListExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Kind.Label()))
	buf.WriteString(fmt.Sprintf("**Entries**: %d\n", len(export.Entries)))
	buf.WriteString(fmt.Sprintf("**Exported**: %s\n\n", export.ExportedAt.Format(time.RFC1123)))

	for i, entry := range export.Entries {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, entry.Title))
		if entry.Description != "" {
			buf.WriteString(entry.Description + "\n\n")
		}
		if entry.EmbedURL != "" {
			buf.WriteString(fmt.Sprintf("[Watch](%s)\n\n", entry.EmbedURL))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ListExport to plain text format
func ExportToText(export *ListExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("List: %s\n", export.Kind.Label()))
	buf.WriteString(fmt.Sprintf("Entries: %d\n\n", len(export.Entries)))

	for i, entry := range export.Entries {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, entry.Title))
		if entry.EmbedURL != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", entry.EmbedURL))
		}
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON summary of the export (list name, owner, time and entry count)
func ToMetadataJSON(export *ListExport) ([]byte, error) {
	meta := struct {
		List       string    `json:"list"`
		UserID     string    `json:"user_id"`
		ExportedAt time.Time `json:"exported_at"`
		Count      int       `json:"count"`
	}{export.List, export.UserID, export.ExportedAt, len(export.Entries)}

	return json.MarshalIndent(meta, "", "  ")
}

// Render converts export to format.
func Render(export *ListExport, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	default:
		return ExportToText(export)
	}
}

// ExportResult contains the paths of files created by [WriteExport]
type ExportResult struct {
	File         string
	MetadataFile string
}

// WriteExport writes export in format to {base}.{ext}, with a {base}_metadata.json file alongside CSV exports.
//
// Defaults to the list name as the base filename.
func WriteExport(export *ListExport, format Format, base string) (*ExportResult, error) {
	if base == "" {
		base = export.List
	}

	data, err := Render(export, format)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", format, err)
	}

	result := &ExportResult{File: base + "." + format.Extension()}
	if err := os.WriteFile(result.File, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	if format != FormatCSV {
		return result, nil
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	result.MetadataFile = base + "_metadata.json"
	if err := os.WriteFile(result.MetadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return result, nil
}
