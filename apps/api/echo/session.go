package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core"
)

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// Claims carries the tab-scoped key-value pairs in the session cookie.
type Claims struct {
	jwt.StandardClaims
	Values map[string]string `json:"values,omitempty"`
}

type cookieConfig struct {
	name       string
	signingKey []byte
	maxAge     time.Duration
	secure     bool
}

// cookieStore is the core.KVStore of one browser session, kept client-side in a
// signed cookie that has no Max-Age (it ends with the browser session).
// Every write re-issues the cookie on the response.
type cookieStore struct {
	ctx       echo.Context
	conf      cookieConfig
	values    map[string]string
	hadCookie bool // the request carried a cookie, valid or not
}

var _ core.KVStore = (*cookieStore)(nil)

// loadCookieStore reads the request cookie. A missing, expired or tampered cookie yields an empty store.
func loadCookieStore(ctx echo.Context, conf cookieConfig) *cookieStore {
	store := &cookieStore{ctx: ctx, conf: conf, values: make(map[string]string)}

	cookie, err := ctx.Cookie(conf.name)
	if err != nil || cookie.Value == "" {
		return store
	}
	store.hadCookie = true
	claims, err := parseSessionToken(cookie.Value, conf.signingKey)
	if err != nil {
		return store
	}
	for k, v := range claims.Values {
		store.values[k] = v
	}
	return store
}

func parseSessionToken(token string, key []byte) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errUnexpectedSigningMethod
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func newSessionToken(values map[string]string, key []byte, maxAge time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(maxAge).Unix(),
		},
		Values: values,
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, "signing session token")
	}
	return ss, nil
}

func (s *cookieStore) Get(key string) ([]byte, error) {
	if v, ok := s.values[key]; ok {
		return []byte(v), nil
	}
	return nil, core.ErrKeyNotFound
}

func (s *cookieStore) Set(key string, value []byte) error {
	s.values[key] = string(value)
	return s.flush()
}

// Delete drops key. A request cookie that could not be read is dropped as well.
func (s *cookieStore) Delete(key string) error {
	if _, ok := s.values[key]; !ok && !s.hadCookie {
		return nil
	}
	delete(s.values, key)
	return s.flush()
}

func (s *cookieStore) Close() error { return nil }

func (s *cookieStore) flush() error {
	cookie := &http.Cookie{
		Name:     s.conf.name,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.conf.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if len(s.values) == 0 {
		cookie.MaxAge = -1 // drop it
	} else {
		token, err := newSessionToken(s.values, s.conf.signingKey, s.conf.maxAge)
		if err != nil {
			return err
		}
		cookie.Value = token
	}
	s.ctx.SetCookie(cookie)
	return nil
}
