package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	CookieName = "propertyhub_sid"
	contextKey = "propertyhub.session"
)

// SessionManager attaches a session to every request. New sessions only reach the
// store once something is recorded in them.
type SessionManager struct {
	store  SessionStore
	ttl    time.Duration
	secure bool
	logger *logrus.Logger
}

func NewSessionManager(store SessionStore, ttl time.Duration, secure bool, logger *logrus.Logger) *SessionManager {
	return &SessionManager{
		store:  store,
		ttl:    ttl,
		secure: secure,
		logger: logger,
	}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *Session
		if id, err := c.Cookie(CookieName); err == nil && id != "" {
			sess, err = m.store.Get(c.Request.Context(), id)
			if err != nil && !errors.Is(err, ErrSessionNotFound) {
				m.logger.WithError(err).Error("Failed to load session")
			}
			if sess != nil && sess.Expired(time.Now()) {
				sess = nil
			}
		}

		if sess == nil {
			sess = m.newSession()
			m.setCookie(c, sess.ID, int(m.ttl.Seconds()))
		}

		c.Set(contextKey, sess)
		c.Next()
	}
}

func (m *SessionManager) newSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
}

func (m *SessionManager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", m.secure, true)
}

// Save persists the session for a full TTL from now.
func (m *SessionManager) Save(ctx context.Context, sess *Session) error {
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return err
	}
	sess.ExpiresAt = time.Now().Add(m.ttl)
	return nil
}

// Destroy removes the request's session from the store and expires the cookie.
func (m *SessionManager) Destroy(c *gin.Context) error {
	sess := FromContext(c)
	if sess != nil {
		if err := m.store.Delete(c.Request.Context(), sess.ID); err != nil {
			return err
		}
		sess.Admin = false
	}
	m.setCookie(c, "", -1)
	return nil
}

// FromContext returns the session attached by the middleware, or nil.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*Session)
	return sess
}
