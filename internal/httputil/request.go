package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxRequestBodyBytes limits request bodies (scripts are plain text)
const MaxRequestBodyBytes = 10 << 20

// ParseJSON decodes a single JSON object from the request body into dest.
// Unknown fields, trailing data and oversized bodies are rejected.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if decoder.More() {
		return errors.New("invalid JSON: unexpected data after object")
	}

	return nil
}

// ParseOptionalJSON is ParseJSON for endpoints whose body may be omitted.
// An empty body leaves dest untouched.
func ParseOptionalJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil
	}
	return ParseJSON(w, r, dest)
}
