package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// APIError represents an error response.
type APIError struct {
	Message string `json:"message"`
}

var validate = validator.New()

// encodeJSON encodes data into JSON and writes it to the response writer.
func encodeJSON(w http.ResponseWriter, data interface{}) error {
	return json.NewEncoder(w).Encode(data)
}

// decodeJSON decodes a JSON request body into the provided data struct and
// validates it.
func decodeJSON(r *http.Request, data interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		return err
	}
	return validate.Struct(data)
}

// renderError renders an error response.
func renderError(w http.ResponseWriter, err error, status int) {
	if status != http.StatusNotFound {
		// Don't log not found errors
		log.Error(err)
	}
	http.Error(w, err.Error(), status)
}
