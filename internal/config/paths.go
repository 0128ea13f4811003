package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved application paths.
// Relative directories are resolved against the current working directory,
// matching where the cleaning pipeline writes its outputs.
type Paths struct {
	WorkingDir string
	DataDir    string
	LogsDir    string

	// Well-known dataset files
	MonthlyCSV  string
	CategoryCSV string
	ProductCSV  string
}

// GetPaths resolves the configured directories into absolute paths
func GetPaths(cfg PathsConfig) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	dataDir := resolve(wd, cfg.DataDir, DefaultDataDir)
	logsDir := resolve(wd, cfg.LogsDir, DefaultLogsDir)

	return &Paths{
		WorkingDir:  wd,
		DataDir:     dataDir,
		LogsDir:     logsDir,
		MonthlyCSV:  filepath.Join(dataDir, MonthlySalesFile),
		CategoryCSV: filepath.Join(dataDir, CategorySummaryFile),
		ProductCSV:  filepath.Join(dataDir, ProductItemsFile),
	}, nil
}

func resolve(base, dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}

// EnsureDirectories creates the data and log directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	logger := slog.Default()

	for _, dir := range []string{p.DataDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetDataPath returns the path of a file inside the data directory
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("working", p.WorkingDir),
			slog.String("data", p.DataDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("datasets",
			slog.String("monthly", p.MonthlyCSV),
			slog.Bool("monthly_exists", FileExists(p.MonthlyCSV)),
			slog.String("category", p.CategoryCSV),
			slog.Bool("category_exists", FileExists(p.CategoryCSV)),
			slog.String("product", p.ProductCSV),
			slog.Bool("product_exists", FileExists(p.ProductCSV)),
		))
}
