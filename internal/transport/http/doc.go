// Package http implements the HTTP handlers of SalesPulse.
//
// Handlers stay thin: they parse and validate the request, call a
// service, and render JSON with go-chi/render. Every failure is handed to
// the central errors.ErrorHandler, which renders an RFC 7807 problem.
// Domain errors are mapped first (see toAPIError):
//
//	dataset.LoadError            422 /errors/data/load-failed
//	dataset.MissingColumnsError  422 /errors/data/missing-columns
//	services.YearNotFoundError   404 /errors/data/year-not-found
//	unknown or skipped section   404 /errors/not-found
//	oversize upload              413 /errors/payload-too-large
//	workbook build failure       500 /errors/export/failed
package http
