package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/moodfm/moodfm/internal/apperr"
)

// errorResponse is the uniform failure payload: a human-readable message
// plus the structured kind so clients can branch without parsing text.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError logs the full failure with operation context and surfaces
// the taxonomy kind and message to the caller.
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	kind := apperr.KindOf(err)

	logger.Error("request failed",
		zap.String("operation", op),
		zap.String("kind", kind.String()),
		zap.Error(err),
	)

	writeJSON(w, statusFor(kind), errorResponse{
		Error: apperr.MessageOf(err),
		Code:  kind.String(),
	})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.InvalidArgument:
		return http.StatusBadRequest
	case apperr.UpstreamAuthFailed:
		return http.StatusUnauthorized
	case apperr.NotFound, apperr.NoMatchingRecords:
		return http.StatusNotFound
	case apperr.UpstreamError, apperr.UpstreamProtocolError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// sessionKey extracts the bearer session key from a request: the
// X-Session-Key header first, then the sessionKey query parameter.
func sessionKey(r *http.Request) string {
	if key := r.Header.Get("X-Session-Key"); key != "" {
		return key
	}
	return r.URL.Query().Get("sessionKey")
}

// decodeJSON parses a request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.InvalidArgument, "invalid request body", err)
	}
	return nil
}
