package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"postboard/internal/auth"
	"postboard/internal/middleware"
	"postboard/internal/model"
	"postboard/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(r, err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// classify maps an error to its HTTP status and public error body. Anything
// unrecognised is a 500 whose details never leave the server.
func classify(r *http.Request, err error) (int, *model.APIError) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, auth.ErrUnauthenticated) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHENTICATED"
		body.Message = "Authentication required"
	} else if errors.Is(err, auth.ErrForbidden) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "You do not own this resource"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
		body.Code = "INVALID_CREDENTIALS"
		body.Message = "Invalid email or password"
	} else if errors.Is(err, model.ErrUserAlreadyExists) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "User already exists"
	} else if errors.Is(err, model.ErrPostNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Post not found"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error",
			"error", err.Error(),
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
		)
	}

	return status, body
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.BadRequest("invalid JSON body", "")
	}
	return nil
}

// identity reads the identity RequireAuth attached. Its absence means the
// route was mounted without the guard, which is treated as unauthenticated.
func identity(r *http.Request) (auth.Identity, error) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return auth.Identity{}, auth.ErrUnauthenticated
	}
	return id, nil
}
