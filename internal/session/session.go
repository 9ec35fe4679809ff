// Package session keeps shopping carts in cookie-keyed server-side sessions.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gitshopapp/boxshop/internal/cart"
)

const (
	CookieName = "boxshop_cart"
	defaultTTL = 30 * 24 * time.Hour
)

// Data is the state stored for one visitor.
type Data struct {
	Cart      cart.Cart `json:"cart"`
	UpdatedAt int64     `json:"updated_at"`
}

// Manager maps the cart cookie to stored session data.
type Manager struct {
	store  Store
	secure bool
	ttl    time.Duration
}

// Store defines the interface for session storage
type Store interface {
	Get(ctx context.Context, key string) (*Data, bool)
	Set(ctx context.Context, key string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, key string)
	Close() error
}

func NewManager(store Store, secure bool, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{
		store:  store,
		secure: secure,
		ttl:    ttl,
	}
}

func (m *Manager) Close() error {
	if m == nil || m.store == nil {
		return nil
	}
	return m.store.Close()
}

// Load returns the visitor's session data. Visitors without a cookie or with an
// expired session get an empty cart; nothing is written until Save.
func (m *Manager) Load(ctx context.Context, r *http.Request) *Data {
	if ctx == nil {
		ctx = r.Context()
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return &Data{}
	}

	data, ok := m.store.Get(ctx, cookie.Value)
	if !ok {
		return &Data{}
	}
	return data
}

// Save stores data under the visitor's session ID, issuing a new ID when the
// request has none, and refreshes the cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, r *http.Request, data *Data) error {
	if data == nil {
		return fmt.Errorf("session data is required")
	}
	if ctx == nil {
		ctx = r.Context()
	}

	sessionID := ""
	if cookie, err := r.Cookie(CookieName); err == nil {
		if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
			sessionID = cookie.Value
		}
	}
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	stored := cloneData(data)
	stored.UpdatedAt = time.Now().Unix()
	if err := m.store.Set(ctx, sessionID, stored, m.ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy removes the session and clears the cookie
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if ctx == nil {
		ctx = r.Context()
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		m.store.Delete(ctx, cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func generateSessionID() string {
	return uuid.NewString()
}

func cloneData(data *Data) *Data {
	if data == nil {
		return nil
	}
	cloned := *data
	cloned.Cart = cart.Cart{Lines: append([]cart.Line(nil), data.Cart.Lines...)}
	return &cloned
}
