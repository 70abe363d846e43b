package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Message string `json:"message"`
}

const msgEncodeFailed = "Failed to encode response"

// writeJSON answers 500 when v cannot be encoded (NaN, Inf).
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.Error(msgEncodeFailed, zap.Int("status", status), zap.Error(err))
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorBody{Message: msgEncodeFailed})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorBody{Message: message})
}

// fail logs err and answers with a generic message so internals never leak.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	s.log.Error(message,
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	s.writeError(w, status, message)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return eris.Wrap(err, "api: decode body")
	}
	return nil
}
