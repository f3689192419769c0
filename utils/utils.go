package utils

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrEmptyBody marks a request that carried no JSON body at all. Handlers
// that accept an optional body can test for it.
var ErrEmptyBody = errors.New("empty request body")

func ParseJSONBody(r *http.Request, dst interface{}) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	if err != nil {
		return err
	}
	return nil
}

func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	response, err := jsoniter.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to serialize JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(response)
}

// RespondError logs the underlying error and answers the client with the
// message only, so internals never leak into responses.
func RespondError(w http.ResponseWriter, statusCode int, err error, message string) {
	if err != nil {
		zap.L().Error(message, zap.Int("status", statusCode), zap.Error(err))
	} else {
		zap.L().Warn(message, zap.Int("status", statusCode))
	}
	RespondJSON(w, statusCode, map[string]string{"error": message})
}
