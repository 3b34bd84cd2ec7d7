package handlerutils

import (
	"encoding/json"
	"errors"
	"net/http"
)

// APIHandler is an http handler that returns its error instead of writing
// it, so one middleware can turn errors into responses.
type APIHandler func(w http.ResponseWriter, r *http.Request) error

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

func ParseJSON(r *http.Request, payload any) error {
	if r.Body == nil {
		return errors.New("missing request body")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(payload)
}

func WriteSuccessJSON(w http.ResponseWriter, statusCode int, message string, data any) error {
	return writeJSON(w, statusCode, successResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func WriteErrorJSON(w http.ResponseWriter, statusCode int, message string, errs any) error {
	return writeJSON(w, statusCode, errorResponse{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(body)
}
