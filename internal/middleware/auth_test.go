package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories/memory"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

func run(t *testing.T, mw echo.MiddlewareFunc, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	err := mw(func(c echo.Context) error { return nil })(c)
	return c, err
}

func wantStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != code {
		t.Fatalf("err = %v, want HTTP %d", err, code)
	}
}

func signed(t *testing.T, secret string, claims *models.JwtCustomClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestJWTAuthMiddleware(t *testing.T) {
	mw := JWTAuthMiddleware("secret")

	_, err := run(t, mw, "")
	wantStatus(t, err, http.StatusUnauthorized)

	_, err = run(t, mw, "Token abc")
	wantStatus(t, err, http.StatusUnauthorized)

	bad := signed(t, "other", &models.JwtCustomClaims{UserID: "u1"})
	_, err = run(t, mw, "Bearer "+bad)
	wantStatus(t, err, http.StatusUnauthorized)

	expired := signed(t, "secret", &models.JwtCustomClaims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	})
	_, err = run(t, mw, "Bearer "+expired)
	wantStatus(t, err, http.StatusUnauthorized)

	good := signed(t, "secret", &models.JwtCustomClaims{UserID: "u1", Role: models.RoleAdmin})
	c, err := run(t, mw, "Bearer "+good)
	if err != nil {
		t.Fatal(err)
	}
	if c.Get(UserIDKey) != "u1" || c.Get(RoleKey) != models.RoleAdmin {
		t.Fatalf("context = %v / %v", c.Get(UserIDKey), c.Get(RoleKey))
	}
}

type fakeVerifier map[string]*auth.Token

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := f[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("invalid token")
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	store := memory.NewStore()
	verifier := fakeVerifier{
		"good": {UID: "fb1", Claims: map[string]interface{}{"name": "Nino", "picture": "http://img"}},
	}
	mw := FirebaseAuthMiddleware(verifier, store.Users())

	_, err := run(t, mw, "Bearer nope")
	wantStatus(t, err, http.StatusUnauthorized)

	c, err := run(t, mw, "Bearer good")
	if err != nil {
		t.Fatal(err)
	}
	if c.Get(UserIDKey) != "fb1" || c.Get(RoleKey) != models.RoleOrdinary {
		t.Fatalf("context = %v / %v", c.Get(UserIDKey), c.Get(RoleKey))
	}

	u, err := store.Users().GetUserByID(context.Background(), "fb1")
	if err != nil {
		t.Fatal(err)
	}
	if u.UserName != "Nino" || u.ProfileImg != "http://img" {
		t.Fatalf("profile = %+v", u)
	}
}
