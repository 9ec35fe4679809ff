package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/gitshopapp/boxshop/internal/cart"
)

func sampleCart() cart.Cart {
	return cart.Cart{Lines: []cart.Line{{ProductID: "box-1", Name: "Коробка", Quantity: 200, UnitPrice: 25}}}
}

func TestManager_SaveAndLoad(t *testing.T) {
	t.Parallel()

	manager := NewManager(NewMemoryStore(), false, time.Hour)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	if data := manager.Load(ctx, req); !data.Cart.IsEmpty() {
		t.Fatalf("expected empty cart for new visitor")
	}

	rec := httptest.NewRecorder()
	if err := manager.Save(ctx, rec, req, &Data{Cart: sampleCart()}); err != nil {
		t.Fatalf("save: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("expected %s cookie, got %+v", CookieName, cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("expected HttpOnly cookie")
	}

	next := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	next.AddCookie(cookies[0])
	data := manager.Load(ctx, next)
	if line, ok := data.Cart.Line("box-1"); !ok || line.Quantity != 200 {
		t.Fatalf("expected stored line, got %+v", data.Cart)
	}

	// Saving again keeps the same session ID.
	rec2 := httptest.NewRecorder()
	if err := manager.Save(ctx, rec2, next, data); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := rec2.Result().Cookies()[0].Value; got != cookies[0].Value {
		t.Fatalf("expected session ID %s to be reused, got %s", cookies[0].Value, got)
	}
}

func TestManager_SaveReplacesForeignCookie(t *testing.T) {
	t.Parallel()

	manager := NewManager(NewMemoryStore(), false, time.Hour)
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})

	rec := httptest.NewRecorder()
	if err := manager.Save(context.Background(), rec, req, &Data{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := rec.Result().Cookies()[0].Value; got == "not-a-uuid" {
		t.Fatalf("expected a freshly generated session ID")
	}
}

func TestManager_Destroy(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	manager := NewManager(store, true, time.Hour)
	ctx := context.Background()
	_ = store.Set(ctx, "11111111-1111-1111-1111-111111111111", &Data{Cart: sampleCart()}, time.Hour)

	req := httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "11111111-1111-1111-1111-111111111111"})
	rec := httptest.NewRecorder()
	manager.Destroy(ctx, rec, req)

	if _, ok := store.Get(ctx, "11111111-1111-1111-1111-111111111111"); ok {
		t.Fatalf("expected session to be deleted")
	}
	cookie := rec.Result().Cookies()[0]
	if cookie.MaxAge >= 0 || !cookie.Secure {
		t.Fatalf("expected expired secure cookie, got %+v", cookie)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Set(ctx, "k", &Data{Cart: sampleCart()}, time.Minute)
	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatalf("expected session before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("expected session to expire")
	}
}

func TestMemoryStore_IsolatesCallers(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	data := &Data{Cart: sampleCart()}
	_ = store.Set(ctx, "k", data, time.Minute)

	data.Cart.Lines[0].Quantity = 999
	got, _ := store.Get(ctx, "k")
	if got.Cart.Lines[0].Quantity != 200 {
		t.Fatalf("stored cart shares memory with caller")
	}
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close() //nolint:errcheck

	ctx := context.Background()
	if err := store.Set(ctx, "abc", &Data{Cart: sampleCart()}, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("boxshop:cart:abc") {
		t.Fatalf("expected prefixed key in redis")
	}

	got, ok := store.Get(ctx, "abc")
	if !ok || len(got.Cart.Lines) != 1 || got.Cart.Lines[0].ProductID != "box-1" {
		t.Fatalf("expected stored cart, got %+v %v", got, ok)
	}

	store.Delete(ctx, "abc")
	if _, ok := store.Get(ctx, "abc"); ok {
		t.Fatalf("expected deleted session")
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	manager := NewManager(store, false, time.Hour)
	_ = store.Set(context.Background(), "22222222-2222-2222-2222-222222222222", &Data{Cart: sampleCart()}, time.Hour)

	var seen *Data
	handler := manager.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "22222222-2222-2222-2222-222222222222"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil || seen.Cart.Units() != 200 {
		t.Fatalf("expected session in context, got %+v", seen)
	}
	if got := FromContext(context.Background()); got == nil || !got.Cart.IsEmpty() {
		t.Fatalf("expected empty fallback session")
	}
}
