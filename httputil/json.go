// httputil/json.go
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ErrorResponse is the JSON error envelope used by every JSON endpoint.
// Fields lists offending input names for validation failures.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

var logger = zap.NewNop()

// SetLogger sets where encoding failures are reported once headers are gone.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// WriteJSON writes v with the given status. Statuses outside 100..599 become 500.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if status < 100 || status > 599 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("json encode after headers sent", zap.String("type", fmt.Sprintf("%T", v)), zap.Error(err))
	}
}

// JSONError writes an ErrorResponse.
func JSONError(w http.ResponseWriter, status int, code, message string, fields ...string) {
	WriteJSON(w, status, ErrorResponse{Error: code, Message: message, Fields: fields})
}

// ErrBodyTooLarge is reported when http.MaxBytesReader cuts the body off.
var ErrBodyTooLarge = errors.New("request body too large")

// BindJSON decodes exactly one JSON object from the body into v and rejects
// unknown fields. Returned errors are safe to show to clients.
func BindJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return describe(err)
	}
	if dec.More() {
		return errors.New("request body contains more than one JSON value")
	}
	return nil
}

func describe(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return errors.New("request body is empty")
	case errors.As(err, &maxErr):
		return ErrBodyTooLarge
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("malformed JSON at byte %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Errorf("field %q must be %s", typeErr.Field, typeErr.Type)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return fmt.Errorf("unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
	}
	return errors.New("invalid JSON in request body")
}
