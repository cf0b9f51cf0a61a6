package services

import (
	"errors"
	"fmt"

	"github.com/JohnnyRuss/academind-back/internal/apperror"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxCASRetries bounds the compare-and-set loops on posts and comments
const maxCASRetries = 16

var errTooManyConflicts = errors.New("too many concurrent updates")

// translate turns repository sentinels into classified errors
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPostNotFound),
		errors.Is(err, repositories.ErrCommentNotFound),
		errors.Is(err, repositories.ErrBookmarkNotFound),
		errors.Is(err, repositories.ErrNotificationNotFound),
		errors.Is(err, repositories.ErrUserNotFound):
		return apperror.NotFound("%s not found", what)
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(err, "%s storage failure", what)
}

// ParseObjectID validates a hex id taken from a path parameter
func ParseObjectID(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperror.Validation("invalid %s id %q", what, raw)
	}
	return id, nil
}

func conflictError(what string) error {
	return apperror.Internal(fmt.Errorf("%s: %w", what, errTooManyConflicts), "could not update %s, try again", what)
}
