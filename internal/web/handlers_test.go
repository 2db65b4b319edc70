package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bankdash/internal/config"
	"bankdash/internal/session"
	"bankdash/internal/table"
)

const bankCSV = "age,job\n25,admin\n40,admin\n60,blue-collar\n"

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			RequestTimeout: 5 * time.Second,
		},
		Upload: config.UploadConfig{MaxFileSize: 1 << 20},
		Rate:   config.RateLimitConfig{Enabled: false},
		Dashboard: config.DashboardConfig{
			MeanColumn:     "age",
			ExportFilename: "filtered_bank_data.csv",
			PreviewRows:    10,
			HistogramBins:  10,
		},
	}

	store := session.NewStore(time.Hour, time.Hour)
	t.Cleanup(store.Close)

	return NewServer(cfg, table.NewCache(), store)
}

func multipartCSV(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "bank.csv")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write part failed: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func doRequest(t *testing.T, s *Server, method, path, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func uploadFile(t *testing.T, s *Server, content string) uploadResponse {
	t.Helper()
	body, ct := multipartCSV(t, content)
	rec := doRequest(t, s, http.MethodPost, "/api/upload", ct, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

func TestUpload_SchemaAndMetrics(t *testing.T) {
	s := testServer(t)
	resp := uploadFile(t, s, bankCSV)

	if resp.SessionID == "" {
		t.Fatal("empty session ID")
	}
	if resp.Empty {
		t.Error("Empty = true for data-bearing file")
	}
	if resp.Metrics.RowCount != 3 || resp.Metrics.ColumnCount != 2 {
		t.Errorf("metrics = %d rows / %d cols, want 3/2", resp.Metrics.RowCount, resp.Metrics.ColumnCount)
	}
	if !resp.Metrics.MeanValid {
		t.Error("MeanValid = false, want true")
	}

	var jobCol *columnInfo
	for i := range resp.Columns {
		if resp.Columns[i].Name == "job" {
			jobCol = &resp.Columns[i]
		}
	}
	if jobCol == nil {
		t.Fatal("job column missing from schema")
	}
	if len(jobCol.Values) != 2 {
		t.Errorf("job distinct values = %v, want 2 entries", jobCol.Values)
	}
}

func TestUpload_ParseError(t *testing.T) {
	s := testServer(t)
	body, ct := multipartCSV(t, "a,b\n1\n")

	rec := doRequest(t, s, http.MethodPost, "/api/upload", ct, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != "PARSE001" {
		t.Errorf("code = %q, want PARSE001", got)
	}
}

func TestUpload_NoFile(t *testing.T) {
	s := testServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("other", "value")
	mw.Close()

	rec := doRequest(t, s, http.MethodPost, "/api/upload", mw.FormDataContentType(), &buf)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != "FILE002" {
		t.Errorf("code = %q, want FILE002", got)
	}
}

func TestUpload_MalformedMultipartIsNotSizeError(t *testing.T) {
	s := testServer(t)

	body := bytes.NewBufferString("this is not a multipart body")
	rec := doRequest(t, s, http.MethodPost, "/api/upload",
		"multipart/form-data; boundary=xyz", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != "VAL001" {
		t.Errorf("code = %q, want VAL001 (a broken body is not a size overrun)", got)
	}
}

func TestUpload_HeaderOnlyIsWarningNotError(t *testing.T) {
	s := testServer(t)
	resp := uploadFile(t, s, "age,job\n")

	if !resp.Empty {
		t.Fatal("Empty = false for header-only file")
	}
	if resp.Warning == "" {
		t.Error("expected a warning message")
	}
	if len(resp.Columns) != 2 {
		t.Errorf("schema has %d columns, want the declared 2", len(resp.Columns))
	}

	// The session is still usable; metrics come back clean.
	rec := doRequest(t, s, http.MethodGet, "/api/session/"+resp.SessionID+"/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	var m table.Metrics
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if m.RowCount != 0 || m.MeanValid {
		t.Errorf("metrics = %+v, want 0 rows and mean not applicable", m)
	}
}

func TestSetFilters_NarrowsView(t *testing.T) {
	s := testServer(t)
	sess := uploadFile(t, s, bankCSV)

	payload := `{"categorical":[{"column":"job","values":["admin"]}],"ranges":[{"column":"age","min":30,"max":60}]}`
	rec := doRequest(t, s, http.MethodPost, "/api/session/"+sess.SessionID+"/filters",
		"application/json", bytes.NewBufferString(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp filterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode filter response: %v", err)
	}
	if resp.Metrics.RowCount != 1 {
		t.Errorf("RowCount = %d, want 1 (admin aged 40)", resp.Metrics.RowCount)
	}
	if len(resp.Preview.Rows) != 1 || resp.Preview.Rows[0][0] != "40" {
		t.Errorf("preview rows = %v, want the age-40 row", resp.Preview.Rows)
	}
}

func TestSetFilters_UnknownColumnSkipsOperation(t *testing.T) {
	s := testServer(t)
	sess := uploadFile(t, s, bankCSV)

	payload := `{"categorical":[{"column":"salary","values":["x"]}]}`
	rec := doRequest(t, s, http.MethodPost, "/api/session/"+sess.SessionID+"/filters",
		"application/json", bytes.NewBufferString(payload))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != "COL001" {
		t.Errorf("code = %q, want COL001", got)
	}

	// The bad spec was not committed; the view is still the full table.
	rec = doRequest(t, s, http.MethodGet, "/api/session/"+sess.SessionID+"/metrics", "", nil)
	var m table.Metrics
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if m.RowCount != 3 {
		t.Errorf("RowCount = %d after rejected filter, want 3", m.RowCount)
	}
}

func TestSetFilters_InvertedRangeRejected(t *testing.T) {
	s := testServer(t)
	sess := uploadFile(t, s, bankCSV)

	payload := `{"ranges":[{"column":"age","min":60,"max":30}]}`
	rec := doRequest(t, s, http.MethodPost, "/api/session/"+sess.SessionID+"/filters",
		"application/json", bytes.NewBufferString(payload))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != "RANGE001" {
		t.Errorf("code = %q, want RANGE001", got)
	}
}

func TestExport_FilteredCSVDownload(t *testing.T) {
	s := testServer(t)
	sess := uploadFile(t, s, bankCSV)

	payload := `{"categorical":[{"column":"job","values":["admin"]}]}`
	rec := doRequest(t, s, http.MethodPost, "/api/session/"+sess.SessionID+"/filters",
		"application/json", bytes.NewBufferString(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("filter status = %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/session/"+sess.SessionID+"/export", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "filtered_bank_data.csv") {
		t.Errorf("Content-Disposition = %q, want the configured filename", cd)
	}
	want := "age,job\n25,admin\n40,admin\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("export body = %q, want %q", got, want)
	}
}

func TestCharts_ScatterErrorIsLocal(t *testing.T) {
	s := testServer(t)
	sess := uploadFile(t, s, bankCSV)

	rec := doRequest(t, s, http.MethodGet,
		"/api/session/"+sess.SessionID+"/chart/scatter?x=age&y=job", "", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("scatter status = %d, want 422", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != "PLOT001" {
		t.Errorf("code = %q, want PLOT001", got)
	}

	// The failed chart does not take the histogram down with it.
	rec = doRequest(t, s, http.MethodGet,
		"/api/session/"+sess.SessionID+"/chart/histogram?x=job", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("histogram status = %d after scatter failure, want 200", rec.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/session/nope/metrics", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != "SESSION001" {
		t.Errorf("code = %q, want SESSION001", got)
	}
}

func TestHealthz(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
