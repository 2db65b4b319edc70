package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"bankdash/internal/logging"
	"bankdash/internal/session"
	"bankdash/internal/table"
	"bankdash/internal/web/templates"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// columnInfo is the schema entry the UI builds its filter controls from:
// distinct values for categorical columns, observed bounds for numeric ones.
type columnInfo struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Values []string `json:"values,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// uploadResponse answers a successful upload. Empty marks the header-only
// case, which is a warning for the user rather than a failure.
type uploadResponse struct {
	SessionID string        `json:"session_id"`
	Empty     bool          `json:"empty"`
	Warning   string        `json:"warning,omitempty"`
	Columns   []columnInfo  `json:"columns"`
	Metrics   table.Metrics `json:"metrics"`
}

// categoricalFilter selects the allowed values of one text column. An
// empty Values list is a deliberate "match nothing".
type categoricalFilter struct {
	Column string   `json:"column" validate:"required"`
	Values []string `json:"values"`
}

// rangeFilter bounds one numeric column, inclusive on both ends.
type rangeFilter struct {
	Column string  `json:"column" validate:"required"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// filterRequest replaces the session's active filter set.
type filterRequest struct {
	Categorical []categoricalFilter `json:"categorical" validate:"dive"`
	Ranges      []rangeFilter       `json:"ranges" validate:"dive"`
}

// filterResponse returns the refreshed view after a filter change.
type filterResponse struct {
	Metrics table.Metrics  `json:"metrics"`
	Preview previewPayload `json:"preview"`
}

// previewPayload is the first chunk of the filtered view for display.
type previewPayload struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
}

// handleDashboard renders the dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	templates.Dashboard().Render(r.Context(), w)
}

// handleUpload ingests a CSV file, parses it (or finds it in the content
// cache) and opens a session for it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		// Only an actual size overrun is FILE001; a multipart body the
		// server cannot parse is a plain bad request.
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.respondError(w, r, fmt.Errorf("%w: %v", errFileTooLarge, err))
		} else {
			s.respondError(w, r, fmt.Errorf("%w: %v", errBadForm, err))
		}
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errNoFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	tbl, key, err := s.cache.GetOrLoad(data)
	if err != nil {
		s.metrics.uploads.WithLabelValues("parse_error").Inc()
		s.respondError(w, r, err)
		return
	}

	sess := s.store.Create(tbl, key)

	resp := uploadResponse{
		SessionID: sess.ID,
		Columns:   buildColumnInfo(tbl),
		Metrics:   table.Summarize(tbl, s.cfg.Dashboard.MeanColumn),
	}

	outcome := "ok"
	if tbl.NumRows() == 0 {
		outcome = "empty"
		resp.Empty = true
		resp.Warning = mapError(table.ErrEmptyData).Message
	}
	s.metrics.uploads.WithLabelValues(outcome).Inc()

	logging.FromContext(r.Context()).Info("upload accepted",
		"session_id", sess.ID,
		"filename", header.Filename,
		"rows", tbl.NumRows(),
		"columns", tbl.NumCols(),
		"empty", resp.Empty,
	)

	render.JSON(w, r, resp)
}

// handleSetFilters replaces the session's filter set and returns the
// refreshed metrics and preview. A spec referencing a missing or
// wrongly-typed column is rejected without touching the active set, so the
// rest of the dashboard keeps working.
func (s *Server) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req filterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.respondError(w, r, &table.ParseError{Err: err})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.respondError(w, r, err)
		return
	}

	specs := make([]table.FilterSpec, 0, len(req.Categorical)+len(req.Ranges))
	for _, f := range req.Categorical {
		specs = append(specs, table.NewCategoricalSpec(f.Column, f.Values))
	}
	for _, f := range req.Ranges {
		spec, err := table.NewRangeSpec(f.Column, f.Min, f.Max)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		specs = append(specs, spec)
	}

	// Trial application catches unknown columns and type mismatches
	// before the specs are committed to the session.
	view, err := table.Apply(sess.Base(), specs)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sess.SetFilters(specs)
	s.metrics.filters.Inc()

	render.JSON(w, r, filterResponse{
		Metrics: table.Summarize(view, s.cfg.Dashboard.MeanColumn),
		Preview: buildPreview(view, s.cfg.Dashboard.PreviewRows),
	})
}

// handleMetrics returns the headline metrics for the filtered view.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	view, err := s.viewFromRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, table.Summarize(view, s.cfg.Dashboard.MeanColumn))
}

// handleDescribe returns the per-column summary statistics table.
func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	view, err := s.viewFromRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, table.Describe(view))
}

// handlePreview returns the first rows of the filtered view.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	view, err := s.viewFromRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	limit := parseIntParam(r, "limit", s.cfg.Dashboard.PreviewRows)
	render.JSON(w, r, buildPreview(view, limit))
}

// handleExport streams the filtered view as a CSV download, rows in the
// view's current order.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	view, err := s.viewFromRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data := table.Encode(view)
	s.metrics.exports.Inc()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename=%q`, s.cfg.Dashboard.ExportFilename))
	w.Write(data)
}

// sessionFromRequest resolves the session named in the URL.
func (s *Server) sessionFromRequest(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "sessionID")
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// viewFromRequest resolves the session and recomputes its filtered view.
func (s *Server) viewFromRequest(r *http.Request) (*table.Table, error) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		return nil, err
	}
	return sess.View()
}

// buildColumnInfo derives the filter-control schema from a loaded table.
func buildColumnInfo(t *table.Table) []columnInfo {
	infos := make([]columnInfo, 0, t.NumCols())
	for _, col := range t.Columns() {
		info := columnInfo{Name: col.Name, Type: col.Type.String()}
		if col.Type.Numeric() {
			if lo, hi, ok := t.MinMax(col.Name); ok {
				info.Min = &lo
				info.Max = &hi
			}
		} else {
			// The column came from the table, so this cannot fail.
			info.Values, _ = t.DistinctValues(col.Name)
		}
		infos = append(infos, info)
	}
	return infos
}

// buildPreview flattens the first limit rows for display.
func buildPreview(t *table.Table, limit int) previewPayload {
	p := previewPayload{Columns: t.ColumnNames(), TotalRows: t.NumRows()}

	n := t.NumRows()
	if n > limit {
		n = limit
	}
	p.Rows = make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, t.NumCols())
		for j, col := range t.Columns() {
			if !col.Cells[i].Null {
				row[j] = col.Cells[i].Raw
			}
		}
		p.Rows[i] = row
	}
	return p
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
