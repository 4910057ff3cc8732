package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"restaurant-pos/internal/ordering/app/core"
)

// jsonResponse writes the given data as a JSON-encoded HTTP response.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError writes an error response as JSON with the specified HTTP status code.
func jsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidTable):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrCartNotFound),
		errors.Is(err, core.ErrProductNotFound),
		errors.Is(err, core.ErrLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrRevisionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
