package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"oneclick/globals"
	"oneclick/models"
	"oneclick/rdx"

	"github.com/julienschmidt/httprouter"
)

const (
	CookieName = "ocp_session"
	// Drafts live as long as the original browser session cookie did.
	planTTL = 24 * time.Hour
)

// Cache holds the in-progress plan for a browser session. It is the
// authoritative plan whenever no stored record exists for the user.
type Cache struct{}

func NewCache() *Cache {
	return &Cache{}
}

func planKey(sid string) string {
	return "plan:session:" + sid
}

// Get returns the session draft, or nil when the session has none.
func (c *Cache) Get(ctx context.Context, sid string) (*models.PlanRecord, error) {
	raw, err := rdx.RdxGet(ctx, planKey(sid))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var p models.PlanRecord
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Put stores the draft and refreshes its TTL.
func (c *Cache) Put(ctx context.Context, sid string, p *models.PlanRecord) error {
	if p == nil {
		return c.Delete(ctx, sid)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return rdx.RdxSet(ctx, planKey(sid), string(data), planTTL)
}

func (c *Cache) Delete(ctx context.Context, sid string) error {
	return rdx.RdxDel(ctx, planKey(sid))
}

func newSessionID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Ensure guarantees every request carries a session id, minting the
// cookie on first contact, and stores the id in the request context.
func Ensure(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		var sid string
		if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
			sid = cookie.Value
		} else {
			sid = newSessionID()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(planTTL / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), globals.SessionIDKey, sid)
		next(w, r.WithContext(ctx), ps)
	}
}

// ID reads the session id Ensure stored in the request context.
func ID(r *http.Request) string {
	if sid, ok := r.Context().Value(globals.SessionIDKey).(string); ok {
		return sid
	}
	return ""
}
