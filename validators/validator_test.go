package validators

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/labstack/echo/v4"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&models.ReactRequest{Reaction: "like"}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	err := v.Validate(&models.ReactRequest{Reaction: "love"})
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("err = %T, want *echo.HTTPError", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", he.Code)
	}
	if msg, _ := he.Message.(string); !strings.Contains(msg, "reaction must be one of") {
		t.Fatalf("message = %v", he.Message)
	}

	err = v.Validate(&models.CreateCommentRequest{})
	if !errors.As(err, &he) || !strings.Contains(he.Message.(string), "text is required") {
		t.Fatalf("missing text err = %v", err)
	}
}
