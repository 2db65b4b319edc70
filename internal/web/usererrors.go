package web

// usererrors.go maps internal errors onto the messages users actually see.
// Each failure gets a short code users can quote when reporting problems:
//
//	PARSE001   - upload is not valid CSV; processing halts for that file
//	FILE001    - upload exceeds the size limit
//	FILE002    - no file selected
//	DATA001    - file parsed but has no data rows (warning, not a failure)
//	COL001     - a filter or chart references a column the table lacks
//	TYPE001    - a filter targets a column of the wrong kind
//	RANGE001   - numeric range with lower bound above upper bound
//	PLOT001    - chart cannot be built from the selected columns
//	SESSION001 - session expired or unknown
//	VAL001     - request payload failed validation
//	ERR000     - anything else
import (
	"errors"
	"net/http"

	"bankdash/internal/table"

	"github.com/go-playground/validator/v10"
)

// ErrSessionNotFound indicates an unknown or expired session ID.
var ErrSessionNotFound = errors.New("session not found")

// errNoFile indicates a multipart upload without a file part.
var errNoFile = errors.New("no file provided")

// errFileTooLarge indicates an upload over the configured size cap.
var errFileTooLarge = errors.New("file too large")

// errBadForm indicates a multipart body the server could not parse.
var errBadForm = errors.New("malformed upload form")

// errMissingParam indicates a request without a required query parameter.
var errMissingParam = errors.New("missing required parameter")

// UserMessage is a user-facing error with a support code and a suggested
// next step.
type UserMessage struct {
	Code    string
	Message string
	Action  string
}

// mapError converts an internal error to its user-facing message.
func mapError(err error) UserMessage {
	var (
		parseErr    *table.ParseError
		notFoundErr *table.ColumnNotFoundError
		typeErr     *table.ColumnTypeError
		plotErr     *table.PlotRenderError
		valErrs     validator.ValidationErrors
	)

	switch {
	case errors.As(err, &parseErr):
		return UserMessage{
			Code:    "PARSE001",
			Message: "The file could not be read as CSV.",
			Action:  "Check the file for broken quoting or inconsistent columns and try another file.",
		}
	case errors.Is(err, table.ErrEmptyData):
		return UserMessage{
			Code:    "DATA001",
			Message: "The uploaded file has no data rows.",
			Action:  "Upload a CSV file that contains data below the header.",
		}
	case errors.As(err, &notFoundErr):
		return UserMessage{
			Code:    "COL001",
			Message: "Column " + notFoundErr.Column + " is not in the current dataset.",
			Action:  "Pick a column from the loaded file; this operation was skipped.",
		}
	case errors.As(err, &typeErr):
		return UserMessage{
			Code:    "TYPE001",
			Message: "Column " + typeErr.Column + " cannot be filtered this way.",
			Action:  "Use value filters on text columns and range filters on numeric columns.",
		}
	case errors.Is(err, table.ErrInvalidRange):
		return UserMessage{
			Code:    "RANGE001",
			Message: "The range's lower bound is above its upper bound.",
			Action:  "Swap the bounds and retry.",
		}
	case errors.As(err, &plotErr):
		return UserMessage{
			Code:    "PLOT001",
			Message: "This chart cannot be drawn from the selected columns.",
			Action:  "Choose numeric columns for both axes; other charts are unaffected.",
		}
	case errors.Is(err, ErrSessionNotFound):
		return UserMessage{
			Code:    "SESSION001",
			Message: "This session has expired.",
			Action:  "Upload the file again to start a new session.",
		}
	case errors.Is(err, errNoFile):
		return UserMessage{
			Code:    "FILE002",
			Message: "No file was selected.",
			Action:  "Choose a CSV file to upload.",
		}
	case errors.Is(err, errFileTooLarge):
		return UserMessage{
			Code:    "FILE001",
			Message: "The file exceeds the upload size limit.",
			Action:  "Upload a smaller file.",
		}
	case errors.Is(err, errBadForm):
		return UserMessage{
			Code:    "VAL001",
			Message: "The upload request could not be read.",
			Action:  "Retry the upload from the dashboard form.",
		}
	case errors.As(err, &valErrs), errors.Is(err, errMissingParam):
		return UserMessage{
			Code:    "VAL001",
			Message: "The request is missing required fields.",
			Action:  "Correct the highlighted fields and retry.",
		}
	}

	return UserMessage{
		Code:    "ERR000",
		Message: "Something went wrong.",
		Action:  "Please try again.",
	}
}

// statusFor picks the HTTP status matching the error taxonomy. Skippable
// per-operation failures are 422 so the client keeps the session alive.
func statusFor(err error) int {
	var (
		parseErr    *table.ParseError
		notFoundErr *table.ColumnNotFoundError
		typeErr     *table.ColumnTypeError
		plotErr     *table.PlotRenderError
		valErrs     validator.ValidationErrors
	)

	switch {
	case errors.As(err, &parseErr), errors.Is(err, errNoFile),
		errors.Is(err, errBadForm), errors.As(err, &valErrs),
		errors.Is(err, errMissingParam):
		return http.StatusBadRequest
	case errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &notFoundErr), errors.As(err, &typeErr),
		errors.As(err, &plotErr), errors.Is(err, table.ErrInvalidRange):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
