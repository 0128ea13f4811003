package dataset

import (
	"os"
	"path/filepath"

	"salespulse/pkg/contracts/domain"
)

// Inspect reports the status of the default dataset files in dir
func Inspect(dir string) []domain.DatasetStatus {
	datasets := []domain.Dataset{domain.DatasetMonthly, domain.DatasetCategory, domain.DatasetProduct}
	out := make([]domain.DatasetStatus, 0, len(datasets))
	for _, d := range datasets {
		name := DefaultFilename(d)
		status := domain.DatasetStatus{
			Dataset:  d,
			Name:     name,
			Path:     filepath.Join(dir, name),
			Required: d != domain.DatasetProduct,
		}
		if info, err := os.Stat(status.Path); err == nil && !info.IsDir() {
			status.Present = true
			status.Size = info.Size()
			status.Modified = info.ModTime()
		}
		out = append(out, status)
	}
	return out
}
