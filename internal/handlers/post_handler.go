package handlers

import (
	"net/http"
	"strings"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PATCH("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/share", h.SharePost)
	g.POST("/posts/:id/react", h.ReactOnPost)
	g.GET("/posts/:id/isUserPost", h.IsUserPost)
}

// CreatePost creates a post or blog post from a multipart form
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tags, err := parseJSONList("tags", req.Tags)
	if err != nil {
		return err
	}
	categories, err := parseJSONList("categories", req.Categories)
	if err != nil {
		return err
	}
	uploads, err := readUploads(c, "media")
	if err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.Request().Context(), userID, services.CreatePostInput{
		Type:        models.PostType(req.Type),
		Description: req.Description,
		Title:       req.Title,
		Article:     req.Article,
		Categories:  categories,
		Tags:        tags,
		Uploads:     uploads,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	id, err := services.ParseObjectID(c.Param("id"), "post")
	if err != nil {
		return err
	}

	post, err := h.postService.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// updatePostBody is the JSON form of a post update
type updatePostBody struct {
	Description *string  `json:"description"`
	Title       *string  `json:"title"`
	Article     *string  `json:"article"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	Media       []string `json:"media"`
}

// UpdatePost applies a whitelisted patch. Multipart requests may carry new
// files under "media" next to a JSON "media" field listing the kept references.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := services.ParseObjectID(c.Param("id"), "post")
	if err != nil {
		return err
	}

	var in services.UpdatePostInput
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var body updatePostBody
		if err := c.Bind(&body); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
		}
		in = services.UpdatePostInput{
			Description: body.Description,
			Title:       body.Title,
			Article:     body.Article,
			Categories:  body.Categories,
			Tags:        body.Tags,
			Media:       body.Media,
		}
	} else if in, err = updateInputFromForm(c); err != nil {
		return err
	}

	result, err := h.postService.UpdatePost(c.Request().Context(), id, userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func updateInputFromForm(c echo.Context) (services.UpdatePostInput, error) {
	var in services.UpdatePostInput
	params, err := c.FormParams()
	if err != nil {
		return in, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	field := func(name string) *string {
		if v, ok := params[name]; ok && len(v) > 0 {
			return &v[0]
		}
		return nil
	}
	list := func(name string) ([]string, error) {
		v := field(name)
		if v == nil {
			return nil, nil
		}
		parsed, err := parseJSONList(name, *v)
		if err == nil && parsed == nil {
			parsed = []string{}
		}
		return parsed, err
	}

	in.Description = field("description")
	in.Title = field("title")
	in.Article = field("article")
	if in.Categories, err = list("categories"); err != nil {
		return in, err
	}
	if in.Tags, err = list("tags"); err != nil {
		return in, err
	}
	if in.Media, err = list("media"); err != nil {
		return in, err
	}
	if in.Uploads, err = readUploads(c, "media"); err != nil {
		return in, err
	}
	return in, nil
}

// DeletePost deletes a post with everything that depends on it. Media
// removal failures turn the empty 204 into a 200 listing them.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := services.ParseObjectID(c.Param("id"), "post")
	if err != nil {
		return err
	}

	result, err := h.postService.DeletePost(c.Request().Context(), id, userID)
	if err != nil {
		return err
	}
	if len(result.Warnings) > 0 {
		return c.JSON(http.StatusOK, result)
	}
	return c.NoContent(http.StatusNoContent)
}

// SharePost shares a post on the caller's wall
func (h *PostHandler) SharePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := services.ParseObjectID(c.Param("id"), "post")
	if err != nil {
		return err
	}

	var req models.SharePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	share, err := h.postService.SharePost(c.Request().Context(), id, userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, share)
}

// ReactOnPost toggles the caller's like or dislike
func (h *PostHandler) ReactOnPost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := services.ParseObjectID(c.Param("id"), "post")
	if err != nil {
		return err
	}

	var req models.ReactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	summary, err := h.postService.ReactOnPost(c.Request().Context(), id, userID, models.ReactionKind(req.Reaction))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *PostHandler) IsUserPost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := services.ParseObjectID(c.Param("id"), "post")
	if err != nil {
		return err
	}

	ownership, err := h.postService.IsUserPost(c.Request().Context(), id, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ownership)
}
