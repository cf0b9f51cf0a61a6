package middleware

import (
	"context"
	"log"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
	"github.com/labstack/echo/v4"
)

// TokenVerifier is the part of *auth.Client the middleware uses
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware verifies Firebase ID tokens. The token's name and
// picture refresh the local profile record used for author summaries.
func FirebaseAuthMiddleware(verifier TokenVerifier, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			ctx := c.Request().Context()
			token, err := verifier.VerifyIDToken(ctx, idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			role := models.RoleOrdinary
			if r, ok := token.Claims["role"].(string); ok && r != "" {
				role = models.Role(r)
			}
			c.Set(UserIDKey, token.UID)
			c.Set(RoleKey, role)

			if users != nil {
				name, _ := token.Claims["name"].(string)
				picture, _ := token.Claims["picture"].(string)
				profile := &models.User{ID: token.UID, UserName: name, ProfileImg: picture, Role: role}
				if err := users.SaveUser(ctx, profile); err != nil {
					log.Printf("profile sync for %s failed: %v", token.UID, err)
				}
			}

			return next(c)
		}
	}
}
