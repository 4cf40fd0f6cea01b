package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/go-chi/chi/v5/middleware"
	validation "github.com/go-ozzo/ozzo-validation"
)

type envelope struct {
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{common.ErrValidation, http.StatusBadRequest, "VALIDATION"},
	{common.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
	{common.ErrUnknownEmail, http.StatusNotFound, "UNKNOWN_EMAIL"},
	{common.ErrBadCredentials, http.StatusUnauthorized, "BAD_CREDENTIALS"},
	{common.ErrNoPendingCode, http.StatusConflict, "NO_PENDING_CODE"},
	{common.ErrCodeMismatch, http.StatusBadRequest, "CODE_MISMATCH"},
	{common.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{common.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{common.ErrMissingToken, http.StatusUnauthorized, "MISSING_TOKEN"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
}

// statusFor maps a service error to an HTTP status, an error code and the
// sentinel it matched. Unknown errors map to 500 with a nil sentinel.
func statusFor(err error) (int, string, error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.code, e.err
		}
	}
	return http.StatusInternalServerError, "INTERNAL", nil
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *HTTPServer) writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

func (s *HTTPServer) writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Message: msg})
}

// writeError hides internal failures behind a generic message and logs them.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, sentinel := statusFor(err)

	e := &apiError{Code: code, RequestID: middleware.GetReqID(r.Context())}
	if sentinel == nil {
		s.logger.Error(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		e.Message = common.ErrInternal.Error()
	} else {
		e.Message = sentinel.Error()
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		e.Fields = make(map[string]string, len(verrs))
		for k, v := range verrs {
			if v != nil {
				e.Fields[k] = v.Error()
			}
		}
	}

	writeJSON(w, status, envelope{Error: e})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return common.NewValidationError(validation.Errors{"body": errors.New("malformed JSON")})
	}
	return nil
}
