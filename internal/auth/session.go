package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "session"
	SessionTTL = 7 * 24 * time.Hour
)

// Session is the identity carried by a verified credential.
type Session struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type IdentityVerifier interface {
	Verify(token string) (Session, error)
}

// SessionJWT signs and verifies HS256 session tokens.
type SessionJWT struct {
	secret []byte
	now    func() time.Time
}

func NewSessionJWT(secret string) *SessionJWT {
	return &SessionJWT{secret: []byte(secret), now: time.Now}
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func (j *SessionJWT) Sign(s Session) (string, error) {
	now := j.now()
	claims := sessionClaims{
		Email: s.Email,
		Name:  s.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(j.secret)
}

func (j *SessionJWT) Verify(tokenStr string) (Session, error) {
	var claims sessionClaims
	t, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil || !t.Valid {
		return Session{}, errors.New("invalid token")
	}

	email := strings.TrimSpace(strings.ToLower(claims.Email))
	if email == "" || claims.Subject == "" {
		return Session{}, errors.New("incomplete claims")
	}
	return Session{UID: claims.Subject, Email: email, Name: claims.Name}, nil
}

// Resolver turns a request credential into a Session. Absent, malformed and
// unverifiable credentials all resolve to nil.
type Resolver struct {
	Verifier IdentityVerifier
}

func (res *Resolver) Resolve(r *http.Request) *Session {
	token := ""
	if c, err := r.Cookie(CookieName); err == nil {
		token = strings.TrimSpace(c.Value)
	}
	if token == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
	}
	if token == "" {
		return nil
	}

	s, err := res.Verifier.Verify(token)
	if err != nil {
		return nil
	}
	return &s
}

// SessionCookie builds the cookie that carries a signed session token.
func SessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func ClearedCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
