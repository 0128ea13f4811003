package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"salespulse/internal/config"
	apierrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer; paths resolves relative file names
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths, logger: slog.Default()}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Write writes headers and records to w
func (cw *CSVWriter) Write(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSection writes one dashboard section as CSV with a BOM
func (cw *CSVWriter) WriteSection(w io.Writer, d *domain.Dashboard, name string) error {
	s, err := SectionByName(d, name)
	if err != nil {
		return err
	}
	return cw.Write(w, sectionOptions(s))
}

// WriteAll writes every available section to dir as <section>.csv and
// returns the written paths.
func (cw *CSVWriter) WriteAll(dir string, d *domain.Dashboard) ([]string, error) {
	fullDir := cw.resolvePath(dir)
	if err := os.MkdirAll(fullDir, 0755); err != nil {
		return nil, apierrors.NewStorageError("failed to create export directory", err).WithContext("dir", fullDir)
	}

	var written []string
	for _, s := range Sections(d) {
		path := filepath.Join(fullDir, s.Name+".csv")
		if err := cw.writeFile(path, sectionOptions(s)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	cw.logger.Info("Dashboard sections exported",
		slog.String("dir", fullDir),
		slog.Int("files", len(written)))
	return written, nil
}

func (cw *CSVWriter) writeFile(path string, options WriteOptions) error {
	file, err := os.Create(path)
	if err != nil {
		return apierrors.NewStorageError("failed to create export file", err).WithContext("path", path)
	}
	if err := cw.Write(file, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (cw *CSVWriter) resolvePath(p string) string {
	if filepath.IsAbs(p) || cw.paths == nil {
		return p
	}
	return filepath.Join(cw.paths.WorkingDir, p)
}

func sectionOptions(s Section) WriteOptions {
	return WriteOptions{Headers: s.Headers, Records: s.Records(), BOMPrefix: true}
}
