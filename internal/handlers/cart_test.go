package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/gitshopapp/boxshop/internal/session"
)

// cartClient replays the cart cookie across requests the way a browser would.
type cartClient struct {
	t      *testing.T
	env    *testEnv
	cookie *http.Cookie
}

func (c *cartClient) do(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.env.handlers.SessionMiddleware(handler).ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			c.cookie = ck
		}
	}
	return rec
}

func withProductID(req *http.Request, id string) *http.Request {
	return mux.SetURLVars(req, map[string]string{"productId": id})
}

func TestCartFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	client := &cartClient{t: t, env: env}
	small := env.boxes[0].ID.String()
	large := env.boxes[1].ID.String()

	rec := client.do(env.handlers.GetCart, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	var empty cartView
	decodeBody(t, rec, &empty)
	if len(empty.Lines) != 0 || empty.Total != "0.00" {
		t.Fatalf("expected empty cart, got %+v", empty)
	}

	rec = client.do(env.handlers.AddCartItem, jsonRequest(http.MethodPost, "/api/cart/items", addCartItemRequest{ProductID: small, Quantity: 150}))
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if client.cookie == nil || !client.cookie.HttpOnly {
		t.Fatalf("expected an HttpOnly cart cookie, got %+v", client.cookie)
	}

	rec = client.do(env.handlers.AddCartItem, jsonRequest(http.MethodPost, "/api/cart/items", addCartItemRequest{ProductID: large, Quantity: 10}))
	var view cartView
	decodeBody(t, rec, &view)
	if len(view.Lines) != 2 {
		t.Fatalf("expected two lines, got %+v", view.Lines)
	}
	if view.Lines[0].Quantity != 200 || view.Lines[0].EffectiveUnitPrice != "17.80" || view.Lines[0].Total != "3560.00" {
		t.Fatalf("unexpected small box line %+v", view.Lines[0])
	}
	if view.Lines[1].Quantity != 50 || view.Lines[1].Total != "4750.00" {
		t.Fatalf("unexpected large box line %+v", view.Lines[1])
	}
	if view.Units != 250 || view.Total != "8310.00" {
		t.Fatalf("unexpected totals units=%d total=%s", view.Units, view.Total)
	}

	req := withProductID(jsonRequest(http.MethodPut, "/api/cart/items/"+small, updateCartItemRequest{Quantity: 500}), small)
	rec = client.do(env.handlers.UpdateCartItem, req)
	decodeBody(t, rec, &view)
	if view.Lines[0].Quantity != 500 || view.Lines[0].Total != "8850.00" {
		t.Fatalf("unexpected updated line %+v", view.Lines[0])
	}

	req = withProductID(httptest.NewRequest(http.MethodDelete, "/api/cart/items/"+large, nil), large)
	rec = client.do(env.handlers.RemoveCartItem, req)
	decodeBody(t, rec, &view)
	if len(view.Lines) != 1 || view.Lines[0].ProductID != small {
		t.Fatalf("expected only the small box to remain, got %+v", view.Lines)
	}

	rec = client.do(env.handlers.GetCart, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	decodeBody(t, rec, &view)
	if len(view.Lines) != 1 || view.Total != "8850.00" {
		t.Fatalf("expected persisted cart, got %+v", view)
	}

	clearedID := client.cookie.Value
	rec = client.do(env.handlers.ClearCart, httptest.NewRequest(http.MethodDelete, "/api/cart", nil))
	decodeBody(t, rec, &view)
	if len(view.Lines) != 0 {
		t.Fatalf("expected cleared cart, got %+v", view.Lines)
	}
	if client.cookie.MaxAge >= 0 || client.cookie.Value != "" {
		t.Fatalf("expected expired session cookie, got %+v", client.cookie)
	}

	// replaying the old session id finds nothing
	client.cookie = &http.Cookie{Name: session.CookieName, Value: clearedID}
	rec = client.do(env.handlers.GetCart, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	decodeBody(t, rec, &view)
	if len(view.Lines) != 0 {
		t.Fatalf("expected destroyed session to stay empty, got %+v", view.Lines)
	}
}

func TestAddCartItem_Rejects(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "zero quantity", body: `{"product_id":"` + env.boxes[0].ID.String() + `","quantity":0}`, wantStatus: http.StatusBadRequest},
		{name: "quantity near max int", body: `{"product_id":"` + env.boxes[0].ID.String() + `","quantity":9223372036854775802}`, wantStatus: http.StatusBadRequest},
		{name: "unknown product", body: `{"product_id":"missing","quantity":100}`, wantStatus: http.StatusNotFound},
		{name: "unknown field", body: `{"product_id":"x","qty":1}`, wantStatus: http.StatusBadRequest},
		{name: "empty body", body: ``, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &cartClient{t: t, env: env}
			req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := client.do(env.handlers.AddCartItem, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAddCartItem_RejectsNonJSONContentType(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	client := &cartClient{t: t, env: env}
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader("product_id=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := client.do(env.handlers.AddCartItem, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateCartItem_MissingLine(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	client := &cartClient{t: t, env: env}
	id := env.boxes[0].ID.String()

	rec := client.do(env.handlers.UpdateCartItem, withProductID(jsonRequest(http.MethodPut, "/api/cart/items/"+id, updateCartItemRequest{Quantity: 100}), id))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	client := &cartClient{t: t, env: env}
	contact := map[string]string{"name": "Иван", "email": "ivan@example.com", "phone": "+7 900 000-00-00"}

	rec := client.do(env.handlers.Checkout, jsonRequest(http.MethodPost, "/api/cart/checkout", contact))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for empty cart, got %d: %s", rec.Code, rec.Body.String())
	}

	client.do(env.handlers.AddCartItem, jsonRequest(http.MethodPost, "/api/cart/items", addCartItemRequest{ProductID: env.boxes[0].ID.String(), Quantity: 1000}))

	rec = client.do(env.handlers.Checkout, jsonRequest(http.MethodPost, "/api/cart/checkout", map[string]string{"name": "Иван", "email": "nope"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid contact, got %d", rec.Code)
	}

	rec = client.do(env.handlers.Checkout, jsonRequest(http.MethodPost, "/api/cart/checkout", contact))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body checkoutResponse
	decodeBody(t, rec, &body)
	if body.Total != "17600.00" || !strings.HasPrefix(body.Request.ID, "R-") {
		t.Fatalf("unexpected checkout response %+v", body)
	}

	if len(env.mail.sent) != 1 {
		t.Fatalf("expected one order e-mail, got %d", len(env.mail.sent))
	}
	sent := env.mail.sent[0]
	if sent.To != "sales@example.com" || sent.ReplyTo != "ivan@example.com" {
		t.Fatalf("unexpected recipients to=%q reply_to=%q", sent.To, sent.ReplyTo)
	}

	rec = client.do(env.handlers.GetCart, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	var view cartView
	decodeBody(t, rec, &view)
	if len(view.Lines) != 0 {
		t.Fatalf("expected cart to be emptied after checkout, got %+v", view.Lines)
	}
}
