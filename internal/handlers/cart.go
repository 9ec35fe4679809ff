package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gitshopapp/boxshop/internal/cart"
	"github.com/gitshopapp/boxshop/internal/money"
	"github.com/gitshopapp/boxshop/internal/services"
	"github.com/gitshopapp/boxshop/internal/session"
)

type cartLineView struct {
	ProductID          string `json:"product_id"`
	Name               string `json:"name"`
	Size               string `json:"size,omitempty"`
	Quantity           int    `json:"quantity"`
	PackageSize        int    `json:"package_size"`
	UnitPrice          string `json:"unit_price"`
	EffectiveUnitPrice string `json:"effective_unit_price"`
	Total              string `json:"total"`
	ImageURL           string `json:"image_url,omitempty"`
}

type cartView struct {
	Lines []cartLineView `json:"lines"`
	Units int            `json:"units"`
	Total string         `json:"total"`
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutResponse struct {
	Request *services.OrderRequest `json:"request"`
	Total   string                 `json:"total"`
}

func newCartView(c cart.Cart) cartView {
	lines := make([]cartLineView, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, cartLineView{
			ProductID:          l.ProductID,
			Name:               l.Name,
			Size:               l.Size,
			Quantity:           l.Quantity,
			PackageSize:        l.EffectivePackageSize(),
			UnitPrice:          money.Format(l.UnitPrice),
			EffectiveUnitPrice: money.Format(l.EffectiveUnitPrice()),
			Total:              money.Format(l.Total()),
			ImageURL:           l.ImageURL,
		})
	}
	return cartView{Lines: lines, Units: c.Units(), Total: money.Format(c.Total())}
}

// GetCart serves GET /api/cart with lines repriced from the current catalog.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	data := session.FromContext(r.Context())
	current, err := h.carts.Refresh(r.Context(), data.Cart)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newCartView(current))
}

func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	data := session.FromContext(r.Context())
	updated, err := h.carts.Add(r.Context(), data.Cart, req.ProductID, req.Quantity)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.saveCart(w, r, data, updated, http.StatusOK)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	data := session.FromContext(r.Context())
	updated, err := h.carts.Update(r.Context(), data.Cart, mux.Vars(r)["productId"], req.Quantity)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.saveCart(w, r, data, updated, http.StatusOK)
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	data := session.FromContext(r.Context())
	h.saveCart(w, r, data, h.carts.Remove(data.Cart, mux.Vars(r)["productId"]), http.StatusOK)
}

// ClearCart drops the stored cart together with its session cookie.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.sessionManager.Destroy(r.Context(), w, r)
	writeJSON(w, r, http.StatusOK, newCartView(cart.Cart{}))
}

// Checkout serves POST /api/cart/checkout: the cart is e-mailed to sales as an
// order request and then emptied.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var contact services.Contact
	if err := decodeJSON(w, r, &contact); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	data := session.FromContext(ctx)
	current, err := h.carts.Refresh(ctx, data.Cart)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	request, err := h.orders.Submit(ctx, current, contact)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	data.Cart = cart.Cart{}
	if err := h.sessionManager.Save(ctx, w, r, data); err != nil {
		h.loggerFromContext(ctx).Warn("failed to clear cart after order request", "error", err, "request_id", request.ID)
	}

	writeJSON(w, r, http.StatusCreated, checkoutResponse{
		Request: request,
		Total:   money.Format(request.Total),
	})
}

func (h *Handlers) saveCart(w http.ResponseWriter, r *http.Request, data *session.Data, updated cart.Cart, status int) {
	data.Cart = updated
	if err := h.sessionManager.Save(r.Context(), w, r, data); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, status, newCartView(updated))
}
