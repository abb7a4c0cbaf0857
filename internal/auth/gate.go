package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var ErrNoAdminCode = errors.New("neither ADMIN_CODE nor ADMIN_CODE_HASH is set")

// Gate decides whether a session may use admin routes. A session becomes admin by
// presenting the shared code once.
type Gate struct {
	code     []byte
	hash     []byte
	sessions *SessionManager
}

// NewGate accepts a plain code, a bcrypt hash, or both; the hash wins.
func NewGate(code, hash string, sessions *SessionManager) (*Gate, error) {
	g := &Gate{sessions: sessions}
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CODE_HASH: %w", err)
		}
		g.hash = []byte(hash)
	} else if code != "" {
		g.code = []byte(code)
	} else {
		return nil, ErrNoAdminCode
	}
	return g, nil
}

func (g *Gate) IsAuthorized(sess *Session) bool {
	return sess != nil && sess.Admin && !sess.Expired(time.Now())
}

// Check compares a submitted code without granting anything.
func (g *Gate) Check(code string) bool {
	if g.hash != nil {
		return bcrypt.CompareHashAndPassword(g.hash, []byte(code)) == nil
	}
	return subtle.ConstantTimeCompare(g.code, []byte(code)) == 1
}

// Grant marks sess as admin when code matches. A mismatch leaves the session untouched.
func (g *Gate) Grant(ctx context.Context, sess *Session, code string) (bool, error) {
	if sess == nil || !g.Check(code) {
		return false, nil
	}

	sess.Admin = true
	if err := g.sessions.Save(ctx, sess); err != nil {
		sess.Admin = false
		return false, fmt.Errorf("failed to save admin session: %w", err)
	}
	return true, nil
}
