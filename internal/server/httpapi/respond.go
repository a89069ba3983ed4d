package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const (
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	MIMEApplicationJSON = "application/json"
)

// RespondWithJSON encodes data to JSON and writes it with the given
// status code. A nil data writes only headers.
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) error {
	if data == nil {
		w.WriteHeader(statusCode)
		return nil
	}

	body, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set(HeaderContentType, MIMEApplicationJSON)
	w.Header().Set(HeaderContentLength, strconv.Itoa(len(body)))
	w.WriteHeader(statusCode)
	_, err = w.Write(body)
	return err
}

// errorResponse is the wire shape for all error payloads.
type errorResponse struct {
	Error string `json:"error"`
}

// RespondWithError writes a JSON error payload for an HTTPError.
func RespondWithError(w http.ResponseWriter, he *HTTPError) error {
	return RespondWithJSON(w, he.Code, errorResponse{Error: he.Message})
}
