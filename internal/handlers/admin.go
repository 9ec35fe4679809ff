package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/gitshopapp/boxshop/internal/auth"
	"github.com/gitshopapp/boxshop/internal/catalog"
	"github.com/gitshopapp/boxshop/internal/db"
	"github.com/gitshopapp/boxshop/internal/logging"
	"github.com/gitshopapp/boxshop/internal/money"
	"github.com/gitshopapp/boxshop/internal/observability"
	"github.com/gitshopapp/boxshop/internal/services"
)

// RequireAdmin rejects requests without a valid admin bearer token.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			observability.CountRejected(ctx, "security.admin_auth.rejected", "missing_token")
			h.writeServiceError(w, r, auth.ErrInvalidToken)
			return
		}

		claims, err := h.authenticator.Verify(token)
		if err != nil {
			observability.CountRejected(ctx, "security.admin_auth.rejected", "invalid_token")
			h.loggerFromContext(ctx).Warn("rejected admin token", "error", err)
			h.writeServiceError(w, r, err)
			return
		}

		ctx = auth.WithClaims(ctx, claims)
		ctx = logging.With(ctx, h.logger, "admin", claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type adminProductView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Size          string    `json:"size"`
	Price         string    `json:"price"`
	Colors        []string  `json:"colors"`
	CardboardType string    `json:"cardboard_type"`
	Brand         string    `json:"brand"`
	Category      string    `json:"category"`
	Availability  string    `json:"availability"`
	ImageURL      string    `json:"image_url,omitempty"`
	PackageSize   int       `json:"package_size"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type adminInventoryView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Size          string    `json:"size"`
	CardboardType string    `json:"cardboard_type"`
	Brand         string    `json:"brand"`
	Color         string    `json:"color"`
	Quantity      int       `json:"quantity"`
	Price         string    `json:"price"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newAdminProductView(p db.Product) adminProductView {
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}
	return adminProductView{
		ID:            p.ID,
		Name:          p.Name,
		Size:          p.Size,
		Price:         money.Format(p.Price),
		Colors:        colors,
		CardboardType: p.CardboardType,
		Brand:         p.Brand,
		Category:      p.Category,
		Availability:  p.Availability,
		ImageURL:      p.ImageURL,
		PackageSize:   p.PackageSize,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func newAdminInventoryView(item db.InventoryItem) adminInventoryView {
	return adminInventoryView{
		ID:            item.ID,
		Name:          item.Name,
		Size:          item.Size,
		CardboardType: item.CardboardType,
		Brand:         item.Brand,
		Color:         item.Color,
		Quantity:      item.Quantity,
		Price:         money.Format(item.Price),
		UpdatedAt:     item.UpdatedAt,
	}
}

func (h *Handlers) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.adminService.ListProducts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	views := make([]adminProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newAdminProductView(p))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"products": views})
}

func (h *Handlers) AdminGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	p, err := h.adminService.GetProduct(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newAdminProductView(*p))
}

func (h *Handlers) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.Record
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	p, err := h.adminService.CreateProduct(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newAdminProductView(*p))
}

func (h *Handlers) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var input catalog.Record
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	p, err := h.adminService.UpdateProduct(r.Context(), id, input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newAdminProductView(*p))
}

func (h *Handlers) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if err := h.adminService.DeleteProduct(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AdminListInventory(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	field, ok := catalog.ParseSortField(values.Get("sort"))
	if !ok || (field != catalog.SortNone && !services.InventorySorter.Supports(field)) {
		h.writeServiceError(w, r, services.UserError{Message: fmt.Sprintf("Unsupported sort field %q", values.Get("sort"))})
		return
	}
	dir, ok := catalog.ParseDirection(values.Get("dir"))
	if !ok {
		h.writeServiceError(w, r, services.UserError{Message: fmt.Sprintf("Unsupported sort direction %q", values.Get("dir"))})
		return
	}

	items, err := h.adminService.ListInventory(r.Context(), services.InventoryQuery{
		Query: values.Get("q"),
		Sort:  catalog.SortSpec{Field: field, Direction: dir},
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	views := make([]adminInventoryView, 0, len(items))
	for _, item := range items {
		views = append(views, newAdminInventoryView(item))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": views})
}

func (h *Handlers) AdminCreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var input catalog.InventoryRecord
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	item, err := h.adminService.CreateInventoryItem(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newAdminInventoryView(*item))
}

func (h *Handlers) AdminUpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var input catalog.InventoryRecord
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	item, err := h.adminService.UpdateInventoryItem(r.Context(), id, input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newAdminInventoryView(*item))
}

func (h *Handlers) AdminDeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if err := h.adminService.DeleteInventoryItem(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, services.UserError{Message: fmt.Sprintf("Invalid %s", name)}
	}
	return id, nil
}
