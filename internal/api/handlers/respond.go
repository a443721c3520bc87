package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondDetail writes an error response in the {"detail": ...} shape used
// across the API.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

// validationDetail turns the first failed field check into a human-readable
// detail string.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("Field '%s' is required", field)
		case "email":
			return fmt.Sprintf("Field '%s' must be a valid email address", field)
		case "oneof":
			return fmt.Sprintf("Field '%s' must be one of: %s", field, fe.Param())
		}
		return fmt.Sprintf("Field '%s' is invalid", field)
	}
	return "Invalid request"
}
