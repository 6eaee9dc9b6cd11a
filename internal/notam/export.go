package notam

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type ExportFormat string

const (
	FormatText ExportFormat = "txt"
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatText, FormatJSON, FormatYAML:
		return ExportFormat(s), nil
	}
	return "", fmt.Errorf("unsupported export format %q (want txt, json or yaml)", s)
}

// Export pairs the raw record with its composed message.
type Export struct {
	Raw      Record `json:"raw" yaml:"raw"`
	Composed string `json:"composed" yaml:"composed"`
}

func NewExport(r Record) Export {
	return Export{Raw: r.Clone(), Composed: FinalNotam(r)}
}

// JSON renders the export with two space indentation.
func (e Export) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshaling export: %w", err)
	}
	return data, nil
}

func (e Export) YAML() ([]byte, error) {
	data, err := yaml.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("error marshaling export: %w", err)
	}
	return data, nil
}

// Render returns the file body for the given format.
func (e Export) Render(format ExportFormat) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(e.Composed), nil
	case FormatJSON:
		return e.JSON()
	case FormatYAML:
		return e.YAML()
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// FileName returns NOTAM_{location}_{start}.{ext}. Path separators and
// characters not allowed in file names are replaced with '-', so the name is
// always a single path element.
func FileName(r Record, format ExportFormat) string {
	return fmt.Sprintf("NOTAM_%s_%s.%s", fileNamePart(r.ItemALocation), fileNamePart(r.ItemBStart), format)
}

func fileNamePart(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '-'
		}
		return r
	}, s)
}

// WriteExport writes r to dir in the given format and returns the file path.
func WriteExport(dir string, r Record, format ExportFormat) (string, error) {
	body, err := NewExport(r).Render(format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(r, format))
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("failed to write export %s: %w", path, err)
	}
	return path, nil
}
