// package formatter provides functions to export reading data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/shared"
)

// AnnotationsToCSV converts annotations to CSV with columns: ID, Type, Color, Section, Text, Note, Created
func AnnotationsToCSV(anns []models.Annotation) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Type", "Color", "Section", "Text", "Note", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, ann := range anns {
		section := ""
		if ann.SectionIndex != nil {
			section = strconv.Itoa(*ann.SectionIndex)
		}
		record := []string{
			ann.ID,
			ann.Type,
			ann.Color,
			section,
			ann.SelectedText,
			ann.Note,
			ann.CreatedAt,
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

// AnnotationsToMarkdown converts annotations to a Markdown document grouped
// under the book title.
func AnnotationsToMarkdown(title string, anns []models.Annotation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Annotations**: %d\n\n", len(anns)))

	for i, ann := range anns {
		buf.WriteString(fmt.Sprintf("## %d. %s", i+1, titleCase(ann.Type)))
		if ann.Color != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", ann.Color))
		}
		buf.WriteString("\n\n")

		if ann.SelectedText != "" {
			buf.WriteString(fmt.Sprintf("> %s\n\n", ann.SelectedText))
		}
		if ann.Note != "" {
			buf.WriteString(fmt.Sprintf("%s\n\n", ann.Note))
		}
		if ann.CreatedAt != "" {
			buf.WriteString(fmt.Sprintf("*%s*\n\n", ann.CreatedAt))
		}
	}

	return buf.Bytes(), nil
}

// AnnotationsToText converts annotations to plain text
func AnnotationsToText(title string, anns []models.Annotation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Book: %s\n", title))
	buf.WriteString(fmt.Sprintf("Annotations: %d\n\n", len(anns)))

	for i, ann := range anns {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, ann.Type, ann.SelectedText))
		if ann.Note != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", ann.Note))
		}
	}

	return buf.Bytes(), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TocToText renders a flattened table of contents with depth indentation
func TocToText(flat []models.FlatTocEntry) []byte {
	var buf bytes.Buffer
	for _, entry := range flat {
		buf.WriteString(strings.Repeat("  ", entry.Depth))
		buf.WriteString(entry.Title)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// TocToMarkdown renders a flattened table of contents as a nested Markdown list
func TocToMarkdown(title string, flat []models.FlatTocEntry) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	for _, entry := range flat {
		buf.WriteString(strings.Repeat("  ", entry.Depth))
		buf.WriteString(fmt.Sprintf("- %s\n", entry.Title))
	}
	return buf.Bytes()
}

// ShelfToCSV converts library entries to CSV with columns: ContentID, Title, Author, Format, Progress, LastRead
func ShelfToCSV(entries []models.LibraryEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ContentID", "Title", "Author", "Format", "Progress", "LastRead"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.ContentID,
			entry.Title,
			entry.Author,
			entry.Format,
			shared.FormatProgress(entry.Progress),
			entry.LastReadAt,
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

// WriteAnnotationsExport exports annotations to the given path in the
// requested format (csv, markdown, txt, or json by default) and returns the
// written path.
func WriteAnnotationsExport(title string, anns []models.Annotation, format, path string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = AnnotationsToCSV(anns)
	case "markdown":
		data, err = AnnotationsToMarkdown(title, anns)
	case "txt":
		data, err = AnnotationsToText(title, anns)
	case "json":
		fallthrough
	default:
		data, err = shared.MarshalJSON(anns, true)
	}
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
