package handlers

import (
	"net/http"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles HTTP requests related to comments and replies
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
	g.PATCH("/comments/:commentId", h.UpdateComment)
	g.DELETE("/comments/:commentId", h.DeleteComment)
	g.POST("/comments/:commentId/react", h.ReactOnComment)
	g.POST("/comments/:commentId/replies", h.AddReply)
	g.PATCH("/comments/:commentId/replies/:replyId", h.UpdateReply)
	g.DELETE("/comments/:commentId/replies/:replyId", h.DeleteReply)
	g.POST("/comments/:commentId/replies/:replyId/react", h.ReactOnReply)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := services.ParseObjectID(c.Param("id"), "post")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.CreateComment(c.Request().Context(), postID, userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPostID lists the comments of a post, newest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	postID, err := services.ParseObjectID(c.Param("id"), "post")
	if err != nil {
		return err
	}

	comments, err := h.commentService.GetPostComments(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID, commentID, err := h.commentParams(c)
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.UpdateComment(c.Request().Context(), commentID, userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, commentID, err := h.commentParams(c)
	if err != nil {
		return err
	}
	if err := h.commentService.DeleteComment(c.Request().Context(), commentID, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) ReactOnComment(c echo.Context) error {
	userID, commentID, err := h.commentParams(c)
	if err != nil {
		return err
	}

	var req models.ReactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	summary, err := h.commentService.ReactOnComment(c.Request().Context(), commentID, userID, models.ReactionKind(req.Reaction))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *CommentHandler) AddReply(c echo.Context) error {
	userID, commentID, err := h.commentParams(c)
	if err != nil {
		return err
	}

	var req models.CreateReplyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reply, err := h.commentService.AddReply(c.Request().Context(), commentID, userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reply)
}

func (h *CommentHandler) UpdateReply(c echo.Context) error {
	userID, commentID, err := h.commentParams(c)
	if err != nil {
		return err
	}
	replyID, err := services.ParseObjectID(c.Param("replyId"), "reply")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reply, err := h.commentService.UpdateReply(c.Request().Context(), commentID, replyID, userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reply)
}

func (h *CommentHandler) DeleteReply(c echo.Context) error {
	userID, commentID, err := h.commentParams(c)
	if err != nil {
		return err
	}
	replyID, err := services.ParseObjectID(c.Param("replyId"), "reply")
	if err != nil {
		return err
	}

	if err := h.commentService.DeleteReply(c.Request().Context(), commentID, replyID, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) ReactOnReply(c echo.Context) error {
	userID, commentID, err := h.commentParams(c)
	if err != nil {
		return err
	}
	replyID, err := services.ParseObjectID(c.Param("replyId"), "reply")
	if err != nil {
		return err
	}

	var req models.ReactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	summary, err := h.commentService.ReactOnReply(c.Request().Context(), commentID, replyID, userID, models.ReactionKind(req.Reaction))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *CommentHandler) commentParams(c echo.Context) (string, primitive.ObjectID, error) {
	userID, err := requireUser(c)
	if err != nil {
		return "", primitive.NilObjectID, err
	}
	commentID, err := services.ParseObjectID(c.Param("commentId"), "comment")
	if err != nil {
		return "", primitive.NilObjectID, err
	}
	return userID, commentID, nil
}
