package web

// errors.go maps internal errors to user-facing responses. Technical
// details are logged server-side with the request id; clients get a
// stable code, a readable message and a suggested action.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/dataprep/internal/logging"
	"github.com/JonMunkholm/dataprep/internal/session"
	"github.com/JonMunkholm/dataprep/internal/transform"
)

// Sentinel errors raised by the upload handlers.
var (
	errNoFile            = errors.New("no file provided")
	errUnsupportedFormat = errors.New("unsupported file format")
	errUnparsableFile    = errors.New("file could not be parsed")
)

// UserMessage is the client-facing rendering of an error.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// MapError translates an internal error into a UserMessage. Unrecognized
// errors fall through to a generic message; the cause still reaches the
// server log via respondError.
func MapError(err error) UserMessage {
	var coercion *transform.CoercionError

	switch {
	case errors.Is(err, session.ErrNotFound):
		return UserMessage{
			Code:    "SES001",
			Message: "Session not found or expired",
			Action:  "Create a new session and upload the dataset again",
		}

	case errors.Is(err, transform.ErrMalformedConfig):
		return UserMessage{
			Code:    "TRN003",
			Message: "The transformation configuration could not be parsed: " + err.Error(),
			Action:  "Check the JSON structure against the documented map/astype/apply format",
		}

	case errors.As(err, &coercion):
		return UserMessage{
			Code:    "TRN004",
			Message: "Type conversion failed: " + coercion.Error(),
			Action:  "Map or clean the offending values before converting the column",
		}

	case errors.Is(err, errNoFile):
		return UserMessage{
			Code:    "FILE001",
			Message: "No file was provided",
			Action:  "Attach a file to the upload request",
		}

	case errors.Is(err, errUnsupportedFormat):
		return UserMessage{
			Code:    "FILE002",
			Message: "Unsupported file format",
			Action:  "Upload a .csv, .parquet or .xlsx file",
		}

	case isMaxBytesError(err):
		return UserMessage{
			Code:    "FILE003",
			Message: "The uploaded file is too large",
			Action:  "Split the file or raise the upload size limit",
		}

	case errors.Is(err, errUnparsableFile):
		return UserMessage{
			Code:    "FILE004",
			Message: "The file could not be parsed: " + err.Error(),
			Action:  "Check that the file matches its extension and is not corrupted",
		}
	}

	return UserMessage{
		Code:    "GEN001",
		Message: "Something went wrong while processing the request",
		Action:  "Try again; quote this code if the problem persists",
	}
}

func isMaxBytesError(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// respondError logs the technical error and writes the mapped JSON
// response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := MapError(err)
	s.respondUserError(w, r, err, userMsg, statusCode)
}

// respondStoreError handles failures from the persistence layer. The
// cause text is surfaced to the user so a failed save or query explains
// itself, per the no-crash boundary around store operations.
func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	userMsg := UserMessage{
		Code:    "STO001",
		Message: "Store operation failed (" + op + "): " + err.Error(),
		Action:  "Check the table name and query, then try again",
	}
	s.respondUserError(w, r, err, userMsg, http.StatusBadGateway)
}

func (s *Server) respondUserError(w http.ResponseWriter, r *http.Request, err error, userMsg UserMessage, statusCode int) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}
