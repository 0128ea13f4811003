// Package services implements the business logic layer of SalesPulse.
// It sits between the HTTP handlers and the dataset, analytics and export
// packages so that handlers stay thin and the pipeline stays testable.
//
// # Services
//
//   - DashboardService: runs Loader -> Validator -> Metric Engine for one
//     interaction and assembles the dashboard sections and notices
//   - HealthService: liveness, readiness and version information
//
// # Error Handling
//
// Services return typed errors that handlers translate into problem
// responses:
//
//   - *dataset.LoadError when a required dataset cannot be read
//   - *dataset.MissingColumnsError when required columns are absent
//   - *YearNotFoundError (matches ErrYearNotFound) for an unknown year
//
// Soft conditions never fail a render; they become notices on the
// returned dashboard.
package services
