package handlers

import (
	"net/http"

	"github.com/JohnnyRuss/academind-back/internal/services"
	"github.com/labstack/echo/v4"
)

// BookmarkHandler handles bookmark HTTP requests
type BookmarkHandler struct {
	bookmarkService *services.BookmarkService
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkService *services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: bookmarkService}
}

// RegisterBookmarkRoutes registers bookmark routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/posts/:id/save", h.SavePost)
	g.GET("/users/:userId/bookmarks", h.GetBookmarks)
}

// SavePost bookmarks a post, or removes the bookmark when it exists
func (h *BookmarkHandler) SavePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := services.ParseObjectID(c.Param("id"), "post")
	if err != nil {
		return err
	}

	result, err := h.bookmarkService.ToggleBookmark(c.Request().Context(), postID, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// GetBookmarks lists the caller's bookmarked posts
func (h *BookmarkHandler) GetBookmarks(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	posts, err := h.bookmarkService.GetBookmarks(c.Request().Context(), c.Param("userId"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}
