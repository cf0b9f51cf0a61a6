package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/JohnnyRuss/academind-back/internal/apperror"
	"github.com/labstack/echo/v4"
)

const genericErrorMessage = "Something went wrong, please try again later"

// ErrorHandler is the echo.HTTPErrorHandler for the whole API. Every failure
// leaves as {"status": code, "message": text}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := genericErrorMessage

	var appErr *apperror.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Kind.Status()
		if appErr.Kind == apperror.KindInternal {
			log.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		} else {
			message = appErr.Message
		}
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
		if code >= http.StatusInternalServerError {
			log.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
			message = genericErrorMessage
		}
	default:
		log.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{"status": code, "message": message})
	}
	if err != nil {
		log.Printf("writing error response: %v", err)
	}
}
