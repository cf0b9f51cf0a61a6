package handlers

import (
	"net/http"
	"strconv"

	"github.com/JohnnyRuss/academind-back/internal/pagination"
	"github.com/JohnnyRuss/academind-back/internal/services"
	"github.com/labstack/echo/v4"
)

// BlogHandler serves the blog feed and the ranking queries
type BlogHandler struct {
	rankingService *services.RankingService
}

func NewBlogHandler(rankingService *services.RankingService) *BlogHandler {
	return &BlogHandler{rankingService: rankingService}
}

func (h *BlogHandler) RegisterBlogRoutes(g *echo.Group) {
	g.GET("/posts/blog", h.GetBlogPosts)
	g.GET("/posts/blog/top", h.GetTopRatedBlogPosts)
	g.GET("/posts/blog/publishers/top", h.GetTopRatedPublishers)
	g.GET("/posts/:id/related", h.GetRelatedPosts)
}

// GetBlogPosts returns a page of blog posts. Clients that already know the
// total send hasMore=true and skip the count.
func (h *BlogHandler) GetBlogPosts(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	page, err := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"))
	if err != nil {
		return err
	}
	hasMore, _ := strconv.ParseBool(c.QueryParam("hasMore"))

	result, err := h.rankingService.GetBlogPosts(c.Request().Context(), page, !hasMore)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *BlogHandler) GetTopRatedBlogPosts(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	limit, err := pagination.ParseLimit(c.QueryParam("limit"), services.DefaultTopRatedPosts)
	if err != nil {
		return err
	}

	posts, err := h.rankingService.GetTopRatedBlogPosts(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *BlogHandler) GetTopRatedPublishers(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	limit, err := pagination.ParseLimit(c.QueryParam("limit"), services.DefaultTopPublishers)
	if err != nil {
		return err
	}

	ranks, err := h.rankingService.GetTopRatedPublishers(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ranks)
}

func (h *BlogHandler) GetRelatedPosts(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	id, err := services.ParseObjectID(c.Param("id"), "post")
	if err != nil {
		return err
	}
	limit, err := pagination.ParseLimit(c.QueryParam("limit"), services.DefaultRelatedPosts)
	if err != nil {
		return err
	}

	posts, err := h.rankingService.GetRelatedPosts(c.Request().Context(), id, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}
