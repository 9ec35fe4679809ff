package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gitshopapp/boxshop/internal/auth"
	"github.com/gitshopapp/boxshop/internal/logging"
	"github.com/gitshopapp/boxshop/internal/services"
)

const maxRequestBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.FromContext(r.Context(), nil).Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Error: message})
}

// writeServiceError maps service errors onto HTTP status codes.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var userErr services.UserError
	switch {
	case errors.As(err, &userErr):
		writeError(w, r, http.StatusBadRequest, userErr.Message)
	case errors.Is(err, services.ErrProductNotFound):
		writeError(w, r, http.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrInventoryItemNotFound):
		writeError(w, r, http.StatusNotFound, "Inventory item not found")
	case errors.Is(err, services.ErrCartEmpty):
		writeError(w, r, http.StatusConflict, "Cart is empty")
	case errors.Is(err, auth.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", `Bearer realm="boxshop-admin"`)
		writeError(w, r, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrCatalogUnavailable):
		h.loggerFromContext(r.Context()).Error("catalog unavailable", "error", err)
		writeError(w, r, http.StatusServiceUnavailable, "Catalog is temporarily unavailable")
	default:
		h.loggerFromContext(r.Context()).Error("request failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a size-limited JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return services.UserError{Message: "Content-Type must be application/json"}
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return services.UserError{Message: "Request body is too large"}
		}
		if errors.Is(err, io.EOF) {
			return services.UserError{Message: "Request body is required"}
		}
		return services.UserError{Message: fmt.Sprintf("Invalid JSON body: %v", err)}
	}
	return nil
}
