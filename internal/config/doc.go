// Package config provides centralized configuration management for SalesPulse.
// It loads configuration from multiple sources, validates it, and resolves the
// directories holding the cleaned sales datasets.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority), optionally seeded from a .env file
//  2. Configuration file (config.yaml or SALESPULSE_CONFIG_FILE)
//  3. Default values from struct tags (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALESPULSE_<SECTION>_<FIELD>:
//
//	SALESPULSE_SERVER_PORT=8080
//	SALESPULSE_PATHS_DATA_DIR=outputs
//	SALESPULSE_DASHBOARD_DEFAULT_TOP_N=10
//	SALESPULSE_CACHE_ENABLED=true
//
// # Path Management
//
// GetPaths resolves the data directory against the working directory and
// exposes the three well-known dataset files:
//
//	paths, _ := config.GetPaths(cfg.Paths)
//	monthly := paths.MonthlyCSV
package config
