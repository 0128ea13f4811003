package http

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"

	"salespulse/pkg/contracts"
)

//go:embed web/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type pageData struct {
	Version   string
	TopN      int
	MinTopN   int
	MaxTopN   int
	MinQty    int
	MaxMinQty int
}

// ServeDashboardPage serves the HTML shell; it renders client-side from
// /api/dashboard and re-renders on datasets_reloaded.
func ServeDashboardPage(defaults DashboardServiceInterface, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limits := defaults.Defaults()

		var buf bytes.Buffer
		err := indexTemplate.Execute(&buf, pageData{
			Version:   contracts.GetVersionString(),
			TopN:      limits.DefaultTopN,
			MinTopN:   limits.MinTopN,
			MaxTopN:   limits.MaxTopN,
			MinQty:    limits.DefaultMinQty,
			MaxMinQty: limits.MaxMinQty,
		})
		if err != nil {
			logger.ErrorContext(r.Context(), "failed to render dashboard page", slog.String("error", err.Error()))
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(buf.Bytes())
	}
}
