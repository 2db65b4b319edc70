package web

// errors.go provides unified error response handling for the web layer.
//
// Handlers call respondError with whatever went wrong; the technical error
// is logged with the request ID, the user gets the mapped message in a
// format matching the request (an HTMX fragment or JSON).

import (
	"net/http"

	"bankdash/internal/logging"
	"bankdash/internal/web/templates"

	"github.com/go-chi/render"
)

// ErrorResponse is the JSON body for API errors. Code is machine-readable;
// Message and Action are for people.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error and writes the user-facing
// response with the status implied by the error taxonomy.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := mapError(err)
	statusCode := statusFor(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(statusCode)
		templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w)
		return
	}

	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
