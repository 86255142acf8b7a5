package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"microblog/internal/errors"
	"microblog/internal/service"
)

// PostHandler exposes the post API.
type PostHandler struct {
	svc service.PostService
}

// NewPostHandler creates a post handler.
func NewPostHandler(svc service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// CreatePostRequest is the payload for creating a post. PUT reuses it: a
// full replace requires every field, unlike PATCH.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
	UserID  uint   `json:"user_id" validate:"required"`
}

// UpdatePostRequest is the payload for a partial post update. The owner is
// deliberately absent; only a full replace may move a post.
type UpdatePostRequest struct {
	Title   *string `json:"title" validate:"omitnil,min=1,max=100"`
	Content *string `json:"content" validate:"omitnil,min=1"`
}

// List godoc
// @Summary List all posts
// @Tags posts
// @Produce json
// @Success 200 {array} model.Post
// @Router /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.svc.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.JSON(http.StatusOK, posts)
}

// Create godoc
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body CreatePostRequest true "Post payload"
// @Success 201 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationResponse
// @Router /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.svc.Create(c.Request().Context(), req.Title, req.Content, req.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.JSON(http.StatusCreated, post)
}

// Get godoc
// @Summary Get post by id
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationResponse
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errors.NewValidationError("id", "must be an integer")
	}

	post, err := h.svc.Get(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.JSON(http.StatusOK, post)
}

// Replace godoc
// @Summary Fully replace post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param post body CreatePostRequest true "Full post payload"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationResponse
// @Router /posts/{id} [put]
func (h *PostHandler) Replace(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errors.NewValidationError("id", "must be an integer")
	}

	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.svc.Replace(c.Request().Context(), uint(id), req.Title, req.Content, req.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.JSON(http.StatusOK, post)
}

// Update godoc
// @Summary Partially update post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param post body UpdatePostRequest true "Fields to update"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationResponse
// @Router /posts/{id} [patch]
func (h *PostHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errors.NewValidationError("id", "must be an integer")
	}

	var req UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.svc.Update(c.Request().Context(), uint(id), service.PostUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary Delete post
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errors.NewValidationError("id", "must be an integer")
	}

	if err := h.svc.Delete(c.Request().Context(), uint(id)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.NoContent(http.StatusNoContent)
}
