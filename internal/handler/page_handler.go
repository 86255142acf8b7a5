package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"microblog/internal/errors"
	"microblog/internal/service"
)

// PageHandler renders the server-side HTML views. Errors raised here are
// turned into the HTML error page by the router's error handler.
type PageHandler struct {
	users service.UserService
	posts service.PostService
}

// NewPageHandler creates a page handler.
func NewPageHandler(users service.UserService, posts service.PostService) *PageHandler {
	return &PageHandler{users: users, posts: posts}
}

// Home renders the post listing, newest first.
func (h *PageHandler) Home(c echo.Context) error {
	posts, err := h.posts.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.Render(http.StatusOK, "home.html", echo.Map{
		"Title": "Home",
		"Posts": posts,
	})
}

// Post renders a single post.
func (h *PageHandler) Post(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, errors.ErrPostNotFound.Error())
	}

	post, err := h.posts.Get(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.Render(http.StatusOK, "post.html", echo.Map{
		"Title": post.Title,
		"Post":  post,
	})
}

// UserPosts renders all posts by one user.
func (h *PageHandler) UserPosts(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, errors.ErrUserNotFound.Error())
	}

	user, err := h.users.Get(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}

	posts, err := h.users.Posts(c.Request().Context(), user.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}

	return c.Render(http.StatusOK, "user_posts.html", echo.Map{
		"Title": fmt.Sprintf("%s's Posts", user.Username),
		"User":  user,
		"Posts": posts,
	})
}
