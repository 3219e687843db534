package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	restful "github.com/emicklei/go-restful/v3"

	"genapi/services"
)

// Envelope is the uniform response body: {success, message, data?, errors?}.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func writeSuccess(resp *restful.Response, status int, message string, data any) {
	_ = resp.WriteHeaderAndJson(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}, restful.MIME_JSON)
}

func writeError(resp *restful.Response, status int, message string, errs ...string) {
	_ = resp.WriteHeaderAndJson(status, Envelope{
		Success: false,
		Message: message,
		Errors:  errs,
	}, restful.MIME_JSON)
}

// handleServiceError translates service-level errors to HTTP responses.
// Unexpected errors become a generic 500; their details stay in the logs.
func handleServiceError(resp *restful.Response, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrUserNotFound):
		writeError(resp, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSlugTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrResetTokenInvalid),
		errors.Is(err, services.ErrRegistrationFailed):
		writeError(resp, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(resp, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		writeError(resp, http.StatusForbidden, err.Error())
	default:
		writeError(resp, http.StatusInternalServerError, "An internal error occurred")
	}
}

// pathID parses the {id} path parameter.
func pathID(req *restful.Request, name string) (uint, bool) {
	raw := req.PathParameter(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter, falling back to def.
func queryInt(req *restful.Request, name string, def int) int {
	raw := req.QueryParameter(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type requiredField struct {
	name  string
	value string
}

// requireFields collects "Field 'x' is required" messages for empty fields,
// in declaration order.
func requireFields(fields ...requiredField) []string {
	var errs []string
	for _, f := range fields {
		if f.value == "" {
			errs = append(errs, "Field '"+f.name+"' is required")
		}
	}
	return errs
}
