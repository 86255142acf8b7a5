package router

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"microblog/internal/config"
	apperrors "microblog/internal/errors"
	"microblog/internal/handler"
)

// apiPrefix splits the surface in two: everything under it answers errors as
// JSON, everything else gets the rendered error page.
const apiPrefix = "/api"

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	pageHandler *handler.PageHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Static("/static", cfg.StaticDir)
	e.Static("/media", cfg.MediaDir)

	// Page routes
	e.GET("/", pageHandler.Home)
	e.GET("/posts", pageHandler.Home)
	e.GET("/posts/:id", pageHandler.Post)
	e.GET("/users/:id/posts", pageHandler.UserPosts)

	// API routes
	api := e.Group(apiPrefix)

	api.POST("/users", userHandler.Create)
	api.GET("/users/:id", userHandler.Get)
	api.GET("/users/:id/posts", userHandler.Posts)
	api.PATCH("/users/:id", userHandler.Update)
	api.DELETE("/users/:id", userHandler.Delete)

	api.GET("/posts", postHandler.List)
	api.POST("/posts", postHandler.Create)
	api.GET("/posts/:id", postHandler.Get)
	api.PUT("/posts/:id", postHandler.Replace)
	api.PATCH("/posts/:id", postHandler.Update)
	api.DELETE("/posts/:id", postHandler.Delete)
}

// CustomValidator wraps validator for Echo, reporting fields by their JSON
// names.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler maps every error that escapes a handler onto the response
// shape its route family expects: {detail} or {details} JSON under the API
// prefix, the rendered error view everywhere else.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		isAPI := strings.HasPrefix(c.Request().URL.Path, apiPrefix)

		if details, ok := validationDetails(err); ok {
			if isAPI {
				_ = c.JSON(http.StatusUnprocessableEntity, apperrors.ValidationResponse{Details: details})
				return
			}
			renderErrorPage(c, http.StatusUnprocessableEntity,
				"Invalid request. Please check your input and try again.")
			return
		}

		code := http.StatusInternalServerError
		message := "An error occurred. Please check your request and try again."
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if msg, ok := he.Message.(string); ok && msg != "" {
				message = msg
			}
		}
		if code >= http.StatusInternalServerError {
			e.Logger.Error(err)
		}

		if isAPI {
			_ = c.JSON(code, apperrors.ErrorResponse{Detail: message})
			return
		}
		renderErrorPage(c, code, message)
	}
}

func renderErrorPage(c echo.Context, code int, message string) {
	err := c.Render(code, "error.html", echo.Map{
		"Title":      strconv.Itoa(code),
		"StatusCode": code,
		"Message":    message,
	})
	if err != nil {
		// no renderer configured, fall back to plain text
		_ = c.String(code, message)
	}
}

// validationDetails extracts field errors from either the struct validator or
// a hand-built ValidationError (path parameters and the like).
func validationDetails(err error) ([]apperrors.FieldError, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, apperrors.FieldError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
		return details, true
	}

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return verr.Details, true
	}
	return nil, false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
