package config

// Application constants
const (
	// Application Info
	AppName    = "SalesPulse"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable (SALESPULSE_SERVER_PORT, ...)
	EnvPrefix = "SALESPULSE"

	// File Paths (relative to the working directory)
	DefaultDataDir = "outputs"
	DefaultLogsDir = "logs"

	// Well-known dataset files produced by the cleaning pipeline
	MonthlySalesFile    = "clean_monthly_sales_file1.csv"
	CategorySummaryFile = "clean_category_summary.csv"
	ProductItemsFile    = "clean_items_file2.csv"

	// Dashboard controls
	DefaultTopN   = 10
	MinTopN       = 5
	MaxTopN       = 25
	DefaultMinQty = 50
	MaxMinQty     = 500

	// Section sizes
	MarginSliceSize  = 15
	ShareSliceSize   = 20
	ProductSliceSize = 15
	PreviewRows      = 10

	// API Endpoints
	APIBasePath       = "/api"
	DashboardEndpoint = "/api/dashboard"
	DatasetsEndpoint  = "/api/datasets"
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)
