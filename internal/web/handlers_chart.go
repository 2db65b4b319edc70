package web

import (
	"fmt"
	"net/http"

	"bankdash/internal/table"

	"github.com/go-chi/render"
)

// handleHistogram returns distribution data for the chosen X-axis column
// over the filtered view. Failures here are local to this chart.
func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	view, err := s.viewFromRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	x := r.URL.Query().Get("x")
	if x == "" {
		s.respondError(w, r, fmt.Errorf("%w: x", errMissingParam))
		return
	}
	bins := parseIntParam(r, "bins", s.cfg.Dashboard.HistogramBins)

	data, err := table.Histogram(view, x, bins)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, data)
}

// handleScatter returns relationship data for the chosen X and Y columns
// over the filtered view. The Y axis is required here; the UI simply does
// not request a scatter when no Y axis is selected.
func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	view, err := s.viewFromRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	x := r.URL.Query().Get("x")
	y := r.URL.Query().Get("y")
	if x == "" || y == "" {
		s.respondError(w, r, fmt.Errorf("%w: x and y", errMissingParam))
		return
	}

	data, err := table.Scatter(view, x, y)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, data)
}
