package shared

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"paydesk/internal/transport/http/api"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidateStruct runs the DTO's validate tags and, on failure, writes a 400
// with a per-field issue list. Returns true when the request was rejected.
func ValidateStruct(w http.ResponseWriter, payload any, requestID string) bool {
	err := validate.Struct(payload)
	if err == nil {
		return false
	}

	var issues []ValidationIssue
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			issues = append(issues, ValidationIssue{
				Field:  strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
				Reason: reason(fe),
			})
		}
	}

	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": issues},
		requestID,
	)
	return true
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "uuid":
		return "must be a valid uuid"
	default:
		return "is invalid"
	}
}
