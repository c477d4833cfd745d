// Package httpapi is the thin HTTP layer. Handlers decode and validate
// request DTOs, delegate to domain services, and translate coded errors to
// status codes; no business logic lives here.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	dErrors "pantheon/pkg/domain-errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// statusFor maps a domain error code to an HTTP status.
func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeDuplicateKey, dErrors.CodeDuplicateRelation,
		dErrors.CodeDuplicateExport, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeDomainViolation, dErrors.CodeConstraint:
		return http.StatusUnprocessableEntity
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := statusFor(code)
	body := map[string]string{"error": string(code)}
	// Internal detail stays out of responses; everything else is the
	// actionable message the service built.
	if status < http.StatusInternalServerError {
		var de *dErrors.Error
		if errors.As(err, &de) {
			body["error_description"] = de.Message
		}
	}
	writeJSON(w, status, body)
}

// decode unmarshals the request body into a DTO and runs its validate tags.
// A false return means the error response has already been written.
func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var dto T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dto); err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed request body"))
		return dto, false
	}
	if err := validate.Struct(dto); err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "request validation failed"))
		return dto, false
	}
	return dto, true
}
