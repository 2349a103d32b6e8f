package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const (
	sessionName   = "jp_cart"
	KeySessionID  = "session_id"
	sessionMaxAge = 24 * 60 * 60
)

// NewSessionStore signs the guest cart cookie with secret.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CartSession gives every visitor a stable session id, kept in a signed
// cookie. The cart in Redis is keyed by it.
func CartSession(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.Get(c.Request, sessionName)
		if err != nil {
			// A cookie signed with an old secret: start over with a fresh one.
			log.Debug().Err(err).Msg("⚠️ Cart session cookie discarded")
		}

		sid, _ := session.Values[KeySessionID].(string)
		if sid == "" {
			sid = uuid.NewString()
			session.Values[KeySessionID] = sid
		}
		// Saving on every request slides the cookie expiry with the cart TTL.
		if err := session.Save(c.Request, c.Writer); err != nil {
			log.Error().Err(err).Msg("❌ Cart session not saved")
		}

		c.Set(KeySessionID, sid)
		c.Next()
	}
}

func SessionID(c *gin.Context) string {
	return c.GetString(KeySessionID)
}
