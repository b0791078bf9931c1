// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type Response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *AppError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

type Meta struct {
	PageIndex   int  `json:"page_index"`
	PageSize    int  `json:"page_size"`
	Total       int  `json:"total"`
	Pages       int  `json:"pages"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(data)
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Paginated[T any](w http.ResponseWriter, page Page[T]) {
	JSON(w, http.StatusOK, Response{
		Success: true,
		Data:    page.Items,
		Meta: &Meta{
			PageIndex:   page.Index,
			PageSize:    page.Size,
			Total:       page.Count,
			Pages:       page.Pages,
			HasPrevious: page.HasPrevious(),
			HasNext:     page.HasNext(),
		},
	})
}

func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError(err)
	}

	JSON(w, appErr.Status, Response{Success: false, Error: appErr})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, NewAppError(
		ErrInvalidInput,
		message,
		http.StatusBadRequest,
		"BAD_REQUEST",
	))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)
	JSONError(w, InternalError(err))
}

// WriteServiceError maps a failure coming out of a service operation to its
// HTTP representation.
func WriteServiceError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		JSONError(w, ValidationFailedError(verr.Fields))
	case errors.Is(err, ErrInvalidCredentials):
		JSONError(w, InvalidCredentialsError())
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		Forbidden(w, "")
	case errors.Is(err, ErrTokenExpired):
		JSONError(w, TokenExpiredError())
	case errors.Is(err, ErrTokenInvalid):
		JSONError(w, TokenInvalidError())
	case errors.Is(err, ErrUserNotFound):
		NotFound(w, "user")
	case errors.Is(err, ErrNotFound):
		NotFound(w, "resource")
	case errors.Is(err, ErrDuplicateKey):
		JSONError(w, DuplicateError("resource"))
	case errors.Is(err, ErrInvalidInput):
		BadRequest(w, err.Error())
	default:
		InternalServerError(w, err)
	}
}
